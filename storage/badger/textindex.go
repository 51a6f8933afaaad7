package badger

import (
	"errors"
	"math"
	"strings"
	"unicode"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/claimlens/core"
	"github.com/poiesic/claimlens/storage"
)

// BM25 parameters
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// Stop words to filter out of indexed text and queries
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "me": true, "my": true, "show": true, "i": true,
	"what": true, "why": true, "were": true, "all": true,
}

// tokenize splits text into words, lowercases, trims punctuation, and removes stop words.
// Hyphens inside a word are kept so policy numbers index as one term.
func tokenize(text string) []string {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, "-"))

		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}

	return filtered
}

// indexedText is the searchable text of a claim.
func indexedText(c *core.Claim) string {
	return strings.Join([]string{c.PatientName, c.PolicyNumber, c.Notes, c.DenialReason}, " ")
}

// termFrequencies tokenizes a claim and counts each term.
// Returns the counts and the document length in tokens.
func termFrequencies(c *core.Claim) (map[string]uint32, uint32) {
	tokens := tokenize(indexedText(c))
	freqs := make(map[string]uint32, len(tokens))
	for _, tok := range tokens {
		freqs[tok]++
	}
	return freqs, uint32(len(tokens))
}

// loadStats reads the corpus statistics, returning zero stats when absent.
func loadStats(tx *badger.Txn) (storage.CorpusStats, error) {
	item, err := tx.Get([]byte(claimStatsKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return storage.CorpusStats{}, nil
	}
	if err != nil {
		return storage.CorpusStats{}, err
	}
	var stats storage.CorpusStats
	err = item.Value(func(val []byte) error {
		stats, err = storage.UnmarshalCorpusStats(val)
		return err
	})
	return stats, err
}

func saveStats(tx *badger.Txn, stats storage.CorpusStats) error {
	return tx.Set([]byte(claimStatsKey), storage.MarshalCorpusStats(stats))
}

// writePostings indexes a claim and adds it to the corpus statistics.
func writePostings(tx *badger.Txn, c *core.Claim, stats *storage.CorpusStats) error {
	freqs, docLen := termFrequencies(c)
	for term, tf := range freqs {
		posting := storage.MarshalPosting(storage.Posting{TermFrequency: tf, DocLength: docLen})
		if err := tx.Set(makeTermKey(term, c.ClaimNumber), posting); err != nil {
			return err
		}
	}
	stats.DocCount++
	stats.TotalLength += uint64(docLen)
	return nil
}

// deletePostings removes a claim from the index and the corpus statistics.
func deletePostings(tx *badger.Txn, c *core.Claim, stats *storage.CorpusStats) error {
	freqs, docLen := termFrequencies(c)
	for term := range freqs {
		if err := tx.Delete(makeTermKey(term, c.ClaimNumber)); err != nil {
			return err
		}
	}
	if stats.DocCount > 0 {
		stats.DocCount--
	}
	if stats.TotalLength >= uint64(docLen) {
		stats.TotalLength -= uint64(docLen)
	} else {
		stats.TotalLength = 0
	}
	return nil
}

// scoreQuery computes BM25 scores for every claim matching at least one query term.
func scoreQuery(tx *badger.Txn, query string) (map[string]float64, error) {
	stats, err := loadStats(tx)
	if err != nil {
		return nil, err
	}
	scores := make(map[string]float64)
	if stats.DocCount == 0 {
		return scores, nil
	}

	seen := make(map[string]bool)
	for _, term := range tokenize(query) {
		if seen[term] {
			continue
		}
		seen[term] = true

		postings, err := readPostings(tx, term)
		if err != nil {
			return nil, err
		}
		if len(postings) == 0 {
			continue
		}
		idf := inverseDocumentFrequency(stats.DocCount, len(postings))
		for claimNumber, p := range postings {
			scores[claimNumber] += idf * termWeight(p, stats.AverageLength())
		}
	}
	return scores, nil
}

func readPostings(tx *badger.Txn, term string) (map[string]storage.Posting, error) {
	prefix := makeTermPrefix(term)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	iter := tx.NewIterator(opts)
	defer iter.Close()

	postings := make(map[string]storage.Posting)
	for iter.Rewind(); iter.Valid(); iter.Next() {
		item := iter.Item()
		err := item.Value(func(val []byte) error {
			p, err := storage.UnmarshalPosting(val)
			if err != nil {
				return err
			}
			postings[claimNumberFromTermKey(item.Key(), prefix)] = p
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return postings, nil
}

func inverseDocumentFrequency(docCount uint64, docFreq int) float64 {
	n := float64(docCount)
	df := float64(docFreq)
	return math.Log(1 + (n-df+0.5)/(df+0.5))
}

func termWeight(p storage.Posting, avgLen float64) float64 {
	if avgLen <= 0 {
		avgLen = 1
	}
	tf := float64(p.TermFrequency)
	norm := 1 - bm25B + bm25B*float64(p.DocLength)/avgLen
	return tf * (bm25K1 + 1) / (tf + bm25K1*norm)
}
