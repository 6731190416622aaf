package embed

import (
	"hash/fnv"
	"sort"
	"strings"
	"unicode"
)

// SparseVector is a BM25 term-weight vector. Indices and Values always
// have matched lengths.
type SparseVector struct {
	Indices []uint32
	Values  []float32
}

// BM25 parameters; avgDocLen is a corpus-wide constant so encoding stays
// deterministic without global statistics.
const (
	bm25K1    = 1.2
	bm25B     = 0.75
	avgDocLen = 256.0
)

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "he": true,
	"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"or": true, "shall": true, "that": true, "the": true, "to": true,
	"was": true, "were": true, "will": true, "with": true,
}

// EncodeSparse computes the BM25 term-weight vector for a text. The same
// text always produces bit-identical indices and values.
func EncodeSparse(text string) SparseVector {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return SparseVector{Indices: []uint32{}, Values: []float32{}}
	}

	counts := make(map[uint32]int, len(tokens))
	for _, tok := range tokens {
		counts[tokenIndex(tok)]++
	}

	docLen := float64(len(tokens))
	norm := bm25K1 * (1 - bm25B + bm25B*docLen/avgDocLen)

	indices := make([]uint32, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	values := make([]float32, len(indices))
	for i, idx := range indices {
		tf := float64(counts[idx])
		values[i] = float32(tf * (bm25K1 + 1) / (tf + norm))
	}

	return SparseVector{Indices: indices, Values: values}
}

// Tokenize lowercases, splits on non-alphanumeric runs and drops
// stopwords and single characters.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 || stopwords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func tokenIndex(token string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(token))
	return h.Sum32()
}
