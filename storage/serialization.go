// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"encoding/binary"
	"fmt"
)

const (
	postingSize     = 8
	corpusStatsSize = 16
)

// Posting is one (term, claim) entry of the full-text index.
type Posting struct {
	// TermFrequency is how often the term occurs in the claim's indexed text.
	TermFrequency uint32
	// DocLength is the token count of the claim's indexed text.
	DocLength uint32
}

// CorpusStats holds the collection-wide numbers BM25 needs.
type CorpusStats struct {
	DocCount    uint64
	TotalLength uint64
}

// AverageLength returns the mean indexed document length.
func (s CorpusStats) AverageLength() float64 {
	if s.DocCount == 0 {
		return 0
	}
	return float64(s.TotalLength) / float64(s.DocCount)
}

// MarshalPosting serializes a Posting to bytes.
func MarshalPosting(p Posting) []byte {
	buf := make([]byte, postingSize)
	binary.BigEndian.PutUint32(buf[0:4], p.TermFrequency)
	binary.BigEndian.PutUint32(buf[4:8], p.DocLength)
	return buf
}

// UnmarshalPosting deserializes a Posting from bytes.
func UnmarshalPosting(data []byte) (Posting, error) {
	if len(data) < postingSize {
		return Posting{}, fmt.Errorf("%w: posting has %d bytes", ErrTruncatedData, len(data))
	}
	return Posting{
		TermFrequency: binary.BigEndian.Uint32(data[0:4]),
		DocLength:     binary.BigEndian.Uint32(data[4:8]),
	}, nil
}

// MarshalCorpusStats serializes CorpusStats to bytes.
func MarshalCorpusStats(s CorpusStats) []byte {
	buf := make([]byte, corpusStatsSize)
	binary.BigEndian.PutUint64(buf[0:8], s.DocCount)
	binary.BigEndian.PutUint64(buf[8:16], s.TotalLength)
	return buf
}

// UnmarshalCorpusStats deserializes CorpusStats from bytes.
func UnmarshalCorpusStats(data []byte) (CorpusStats, error) {
	if len(data) < corpusStatsSize {
		return CorpusStats{}, fmt.Errorf("%w: corpus stats has %d bytes", ErrTruncatedData, len(data))
	}
	return CorpusStats{
		DocCount:    binary.BigEndian.Uint64(data[0:8]),
		TotalLength: binary.BigEndian.Uint64(data[8:16]),
	}, nil
}
