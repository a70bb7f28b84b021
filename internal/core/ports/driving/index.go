package driving

import (
	"context"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
)

// IndexService manages named RAG indexes.
type IndexService interface {
	// Create registers a new index and creates its backing
	// collection sized to the embedding dimensionality.
	Create(ctx context.Context, name string) (*domain.RAGCollection, error)

	// List returns all registered indexes.
	List(ctx context.Context) ([]domain.RAGCollection, error)

	// Stats reports point count and dimensionality for an index.
	Stats(ctx context.Context, name string) (domain.CollectionStats, error)

	// Delete removes an index registration and drops its backing
	// collection with all stored points.
	Delete(ctx context.Context, name string) error
}
