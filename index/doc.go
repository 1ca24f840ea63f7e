// Package index builds the in-memory vector and graph indexes behind
// hybrid search and manages their lifecycle. Indexes are published as
// immutable snapshots; the Engine rebuilds them from storage and swaps the
// snapshot atomically, reusing cached embeddings for unchanged skill text.
package index
