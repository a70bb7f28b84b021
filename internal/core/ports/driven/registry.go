package driven

import (
	"context"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
)

// CollectionRegistry maps user-facing index names to vector store
// collection identifiers. It is explicitly passed to callers, never
// ambient process state.
type CollectionRegistry interface {
	// Create registers a new named index. Returns
	// domain.ErrAlreadyExists if the name is taken.
	Create(ctx context.Context, collection domain.RAGCollection) error

	// Get resolves a name to its collection record. Returns
	// domain.ErrNotFound for unknown names.
	Get(ctx context.Context, name string) (*domain.RAGCollection, error)

	// List returns all registered indexes in creation order.
	List(ctx context.Context) ([]domain.RAGCollection, error)

	// Delete removes a registration. The underlying collection is
	// not touched.
	Delete(ctx context.Context, name string) error
}
