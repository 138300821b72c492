package embedding

import (
	"context"

	"github.com/i-dot-ai/lex/ai/tokenizer"
)

// bm25K1 and bm25B are the standard Okapi BM25 saturation constants.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
	// bm25AvgDocLen is a fixed average-document-length assumption used in
	// place of corpus-wide statistics, since sparse vectors are computed
	// one text at a time with no shared corpus state to draw from.
	bm25AvgDocLen = 256
)

// SparseEncoder computes local BM25-style sparse vectors from tokenized
// text: term-hash/weight pairs keyed by token id, with no dependency on a
// remote model or corpus-wide statistics.
type SparseEncoder struct {
	tokenizer tokenizer.Tokenizer
}

// NewSparseEncoder wraps a Tokenizer (the tiktoken-go-backed Tiktoken
// implementation in production) for sparse-vector computation.
func NewSparseEncoder(t tokenizer.Tokenizer) *SparseEncoder {
	return &SparseEncoder{tokenizer: t}
}

// Encode computes a sparse vector for text. Token ids double as the
// term-hash slot, since tiktoken's vocabulary is already a fixed,
// deterministic integer space — hashing it further would only add
// collisions without narrowing the index range.
func (s *SparseEncoder) Encode(ctx context.Context, text string) (SparseVector, error) {
	if text == "" {
		return SparseVector{}, nil
	}

	tokens, err := s.tokenizer.Encode(ctx, text)
	if err != nil {
		return SparseVector{}, err
	}
	if len(tokens) == 0 {
		return SparseVector{}, nil
	}

	termFreq := make(map[uint32]int, len(tokens))
	for _, tok := range tokens {
		termFreq[uint32(tok)]++
	}

	docLen := float64(len(tokens))
	lengthNorm := 1 - bm25B + bm25B*(docLen/bm25AvgDocLen)

	indices := make([]uint32, 0, len(termFreq))
	values := make([]float32, 0, len(termFreq))
	for term, freq := range termFreq {
		tf := float64(freq)
		weight := (tf * (bm25K1 + 1)) / (tf + bm25K1*lengthNorm)
		indices = append(indices, term)
		values = append(values, float32(weight))
	}

	return SparseVector{Indices: indices, Values: values}, nil
}
