package badger

import (
	"fmt"
)

// Key prefixes for raw (non-badgerhold) data
const (
	claimTermPrefix = "clmterm"
	claimStatsKey   = "clmstats"
)

// makeTermKey generates a posting key for one term of one claim.
// Format: prefix:term:claimNumber
func makeTermKey(term, claimNumber string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", claimTermPrefix, term, claimNumber))
}

// makeTermPrefix generates a partial key covering every posting of a term.
// Format: prefix:term:
func makeTermPrefix(term string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", claimTermPrefix, term))
}

// claimNumberFromTermKey extracts the claim number from a posting key.
func claimNumberFromTermKey(key, prefix []byte) string {
	return string(key[len(prefix):])
}
