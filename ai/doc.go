// Package ai defines the embedding service abstraction used to turn skill
// text into vectors.
//
// The Embedder interface is implemented by the openai subpackage for
// OpenAI-compatible APIs and by the mock subpackage for tests. Configuration
// follows the functional options pattern; see NewConfig.
package ai
