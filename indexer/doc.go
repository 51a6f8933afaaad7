// Package indexer builds the semantic chunk index from stored claims.
//
// Each claim becomes one chunk: a short human-readable description of the
// claim that is embedded with the configured provider and stored with a
// snapshot of the claim's status, diagnosis, provider and submission date.
// Claims whose chunk text and embedding model have not changed since the
// last run are skipped.
//
// Batches are embedded concurrently on an ants worker pool, each embedding
// call is retried with exponential backoff, and progress is written to an
// io.Writer.
package indexer
