package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ragdex-cli/internal/logger"
)

// DefaultKeywordWeight is the default BM25 share of the fused score.
const DefaultKeywordWeight = 0.5

// minMaxEpsilon prevents division by zero when all raw scores in a
// pool are equal.
const minMaxEpsilon = 1e-10

// HybridRetriever fuses vector similarity with BM25 keyword relevance.
//
// The candidate pool comes from the vector store; BM25 is then fit
// over exactly that pool and both score sequences are min-max scaled
// to [0,1] before a weighted sum reranks them. Lexical precision where
// semantic similarity is weak (exact identifiers, file names, rare
// tokens) without maintaining a second full-text index.
type HybridRetriever struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore

	// keywordWeight is the BM25 share w in
	// fused = (1-w)*semantic + w*keyword.
	keywordWeight float64
}

// RetrieverOption configures a HybridRetriever.
type RetrieverOption func(*HybridRetriever)

// WithKeywordWeight sets the BM25 weight, clamped to [0,1].
func WithKeywordWeight(w float64) RetrieverOption {
	return func(r *HybridRetriever) {
		if w < 0 {
			w = 0
		}
		if w > 1 {
			w = 1
		}
		r.keywordWeight = w
	}
}

// NewHybridRetriever creates a retriever over the given collaborators.
func NewHybridRetriever(embedder driven.EmbeddingService, store driven.VectorStore, opts ...RetrieverOption) *HybridRetriever {
	r := &HybridRetriever{
		embedder:      embedder,
		store:         store,
		keywordWeight: DefaultKeywordWeight,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve fetches topK candidates by vector similarity, reranks them
// with the fused score and returns the first finalM.
//
// An empty pool returns an empty slice and no error - "no results" is
// a valid, non-exceptional outcome. An empty keyword query yields
// all-zero BM25 scores and ranks by the semantic signal alone.
func (r *HybridRetriever) Retrieve(ctx context.Context, collection domain.RAGCollection, semanticQuery, keywordQuery string, filter domain.Filter, topK, finalM int) ([]domain.ScoredCandidate, error) {
	if r.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if r.store == nil {
		return nil, domain.ErrStoreUnavailable
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive, got %d", domain.ErrInvalidInput, topK)
	}
	if finalM <= 0 || finalM > topK {
		return nil, fmt.Errorf("%w: finalM must be in [1,topK], got %d", domain.ErrInvalidInput, finalM)
	}

	logger.Section("Hybrid Retrieval")
	logger.Debug("Semantic query: %q", semanticQuery)
	logger.Debug("Keyword query: %q", keywordQuery)

	queryVector, err := r.embedder.Embed(ctx, semanticQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrEmbeddingFailure, err)
	}

	hits, err := r.store.Search(ctx, collection.ID, queryVector, topK, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreRead, err)
	}
	logger.Debug("Candidate pool: %d points", len(hits))

	if len(hits) == 0 {
		return []domain.ScoredCandidate{}, nil
	}

	semanticRaw := make([]float64, len(hits))
	texts := make([]string, len(hits))
	for i, hit := range hits {
		semanticRaw[i] = hit.Score
		texts[i] = hit.Point.Payload.Text
	}

	keywordRaw := newBM25Corpus(texts).scores(keywordQuery)

	semanticScaled := minMaxScale(semanticRaw)
	keywordScaled := minMaxScale(keywordRaw)

	w := r.keywordWeight
	candidates := make([]domain.ScoredCandidate, len(hits))
	order := make([]int, len(hits))
	for i, hit := range hits {
		candidates[i] = domain.ScoredCandidate{
			Point:         hit.Point,
			SemanticScore: semanticScaled[i],
			KeywordScore:  keywordScaled[i],
			FusedScore:    (1-w)*semanticScaled[i] + w*keywordScaled[i],
		}
		order[i] = i
	}

	// Ties break by original vector-similarity rank so identical
	// inputs always produce identical output order.
	sort.SliceStable(order, func(a, b int) bool {
		return candidates[order[a]].FusedScore > candidates[order[b]].FusedScore
	})

	if finalM > len(order) {
		finalM = len(order)
	}
	result := make([]domain.ScoredCandidate, finalM)
	for i := 0; i < finalM; i++ {
		result[i] = candidates[order[i]]
	}

	logger.Info("Returning %d of %d candidates (w=%.2f)", len(result), len(hits), w)
	return result, nil
}

// minMaxScale rescales scores into [0,1]. A single-element sequence
// scales to 1.0, avoiding an undefined 0/0.
func minMaxScale(scores []float64) []float64 {
	if len(scores) == 1 {
		return []float64{1.0}
	}

	lo, hi := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}

	scaled := make([]float64, len(scores))
	for i, s := range scores {
		scaled[i] = (s - lo) / (hi - lo + minMaxEpsilon)
	}
	return scaled
}
