package driven

import (
	"context"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
)

// Clarification is the structured output of query clarification.
type Clarification struct {
	// Intent is a one-line statement of what the user wants.
	Intent string `json:"intent"`

	// RefinedQuery is the rephrased query used for embedding.
	RefinedQuery string `json:"refined_query_for_embedding"`

	// SearchTerms are exact keywords for lexical matching.
	SearchTerms []string `json:"search_terms"`
}

// LLMService provides language model operations around retrieval.
// This is an optional service - when nil, queries pass through
// unchanged and answers fall back to listing raw candidates.
//
// Implementations may include:
//   - OpenAI (GPT-4o and compatible APIs)
//   - Anthropic (Claude models)
//   - Ollama (local models)
type LLMService interface {
	// ClarifyQuery rewrites a raw question into a refined embedding
	// query plus exact search terms. Implementations must tolerate
	// model output wrapped in a JSON code fence.
	ClarifyQuery(ctx context.Context, query string) (*Clarification, error)

	// Synthesize produces an answer grounded strictly in the given
	// candidates, citing file paths and tags.
	Synthesize(ctx context.Context, question string, candidates []domain.ScoredCandidate) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
