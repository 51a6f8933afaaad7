// Package resilience provides bounded exponential-backoff retries for
// idempotent upstream calls such as embedding requests and store reads.
package resilience
