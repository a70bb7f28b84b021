package driven

import (
	"context"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
)

// VectorStore persists points and serves nearest-neighbour search.
// It is the single source of truth for persisted points; the core
// maintains no separate cache.
//
// Upsert semantics are the deduplication contract: writing a point
// whose ID already exists overwrites vector and payload, a new ID
// inserts. The store guarantees per-ID atomicity.
type VectorStore interface {
	// CreateCollection creates a collection configured for vectors
	// of the given dimensionality. Returns domain.ErrAlreadyExists
	// if the collection id is taken.
	CreateCollection(ctx context.Context, collectionID string, dimensions int) error

	// Upsert writes points by ID, inserting or overwriting.
	Upsert(ctx context.Context, collectionID string, points []domain.Point) error

	// Search returns the k nearest points to the query vector with
	// similarity scores, optionally constrained by filter. An empty
	// result is not an error.
	Search(ctx context.Context, collectionID string, vector []float32, k int, filter domain.Filter) ([]VectorHit, error)

	// Stats reports the state of a collection.
	Stats(ctx context.Context, collectionID string) (domain.CollectionStats, error)

	// DeleteCollection removes a collection and every point in it.
	// Returns domain.ErrNotFound if the collection does not exist.
	DeleteCollection(ctx context.Context, collectionID string) error

	// Close releases resources.
	Close() error
}

// VectorHit is one similarity search result.
type VectorHit struct {
	// Point is the matched point. Vector may be omitted by stores
	// that do not return it on search; Payload is always populated.
	Point domain.Point

	// Score is the similarity score (higher is closer).
	Score float64
}
