// Package semantic ranks precomputed claim chunks against a query embedding.
//
// The chunk collection is small enough to score exhaustively: every
// request loads all chunks, builds a MemoryIndex and ranks by cosine
// similarity. The Index interface is the seam for a different backend.
//
// Chunks whose embedding length differs from the query are still scored
// over the shared prefix; the Retriever counts and logs them so a partial
// reindex after a model change is visible.
package semantic
