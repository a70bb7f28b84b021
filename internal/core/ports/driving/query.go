package driving

import (
	"context"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
)

// RetrieveOptions configures hybrid retrieval.
type RetrieveOptions struct {
	// TopK is the candidate pool size fetched from the vector store.
	TopK int

	// FinalM is the number of reranked results returned. Must not
	// exceed TopK.
	FinalM int

	// KeywordWeight overrides the BM25 share of the fused score,
	// in [0,1]. Nil means the service default.
	KeywordWeight *float64

	// Filter optionally restricts the candidate pool.
	Filter domain.Filter
}

// Answer is the outcome of one ask.
type Answer struct {
	// Text is the synthesized answer, or a fallback listing when no
	// LLM is configured.
	Text string

	// Candidates are the retrieved chunks the answer is grounded in.
	// Empty when nothing relevant was found - a normal outcome, not
	// an error.
	Candidates []domain.ScoredCandidate

	// Intent is the clarified query intent, when available.
	Intent string

	// RefinedQuery is the query actually embedded.
	RefinedQuery string
}

// QueryService answers questions against a named index.
type QueryService interface {
	// Retrieve runs hybrid retrieval for an explicit semantic and
	// keyword query pair.
	Retrieve(ctx context.Context, indexName, semanticQuery, keywordQuery string, opts RetrieveOptions) ([]domain.ScoredCandidate, error)

	// Ask clarifies the question, retrieves context and synthesizes
	// an answer. Clarification and synthesis degrade gracefully when
	// no LLM service is configured.
	Ask(ctx context.Context, indexName, question string, opts RetrieveOptions) (*Answer, error)
}
