// Package mock provides a test double implementation of the embedding
// service interface.
//
// MockEmbedder lets tests run without an external embedding service and
// enables controlled, deterministic behavior. Inject custom vectors via the
// EmbedTextFunc and EmbedTextsFunc fields; inspect what was embedded via
// CallCount and EmbeddedTexts.
package mock
