package services

import (
	"math"
	"strings"
)

// BM25 parameters. k1 controls term-frequency saturation, b the
// document-length normalisation; both are the conventional defaults.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// bm25Corpus is an Okapi BM25 model fit over one candidate pool.
// It is a local, per-query reranking corpus, not a global index:
// document frequencies are computed over exactly the candidates
// returned by the vector search, so rare-token precision reflects the
// pool the user is actually choosing from.
type bm25Corpus struct {
	docTokens []([]string)
	docFreq   map[string]int
	avgLen    float64
}

// newBM25Corpus tokenizes the candidate texts and computes corpus
// statistics. Tokenization is whitespace splitting, deterministic,
// no stemming.
func newBM25Corpus(texts []string) *bm25Corpus {
	c := &bm25Corpus{
		docTokens: make([][]string, len(texts)),
		docFreq:   make(map[string]int),
	}

	totalLen := 0
	for i, text := range texts {
		tokens := strings.Fields(text)
		c.docTokens[i] = tokens
		totalLen += len(tokens)

		seen := make(map[string]bool, len(tokens))
		for _, tok := range tokens {
			if !seen[tok] {
				seen[tok] = true
				c.docFreq[tok]++
			}
		}
	}
	if len(texts) > 0 {
		c.avgLen = float64(totalLen) / float64(len(texts))
	}

	return c
}

// scores computes the BM25 score of every document against the query.
// An empty query yields all-zero scores, never an error.
func (c *bm25Corpus) scores(query string) []float64 {
	queryTokens := strings.Fields(query)
	n := float64(len(c.docTokens))

	result := make([]float64, len(c.docTokens))
	for i, tokens := range c.docTokens {
		docLen := float64(len(tokens))

		tf := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			tf[tok]++
		}

		var score float64
		for _, q := range queryTokens {
			f := float64(tf[q])
			if f == 0 {
				continue
			}
			df := float64(c.docFreq[q])
			idf := math.Log(1 + (n-df+0.5)/(df+0.5))
			norm := 1 - bm25B + bm25B*docLen/c.avgLen
			score += idf * f * (bm25K1 + 1) / (f + bm25K1*norm)
		}
		result[i] = score
	}

	return result
}
