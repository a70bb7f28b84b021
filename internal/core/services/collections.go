package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ragdex-cli/internal/logger"
)

// Ensure CollectionService implements the interface.
var _ driving.IndexService = (*CollectionService)(nil)

// CollectionService manages named RAG indexes: the registry entry and
// the backing vector collection are created together, once, by an
// explicit create operation. Ingestion never creates collections.
type CollectionService struct {
	registry driven.CollectionRegistry
	store    driven.VectorStore
	embedder driven.EmbeddingService
}

// NewCollectionService creates a collection service.
func NewCollectionService(registry driven.CollectionRegistry, store driven.VectorStore, embedder driven.EmbeddingService) *CollectionService {
	return &CollectionService{
		registry: registry,
		store:    store,
		embedder: embedder,
	}
}

// Create registers a new named index and creates its backing
// collection sized to the embedder's dimensionality.
func (s *CollectionService) Create(ctx context.Context, name string) (*domain.RAGCollection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: index name must not be empty", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	collection := domain.RAGCollection{
		Name:      name,
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.registry.Create(ctx, collection); err != nil {
		return nil, fmt.Errorf("register index %q: %w", name, err)
	}

	dims := s.embedder.Dimensions()
	if err := s.store.CreateCollection(ctx, collection.ID, dims); err != nil {
		// Roll back the registration so a retry can succeed.
		if derr := s.registry.Delete(ctx, name); derr != nil {
			logger.Warn("Orphaned registry entry %q: %v", name, derr)
		}
		return nil, fmt.Errorf("create collection: %w", err)
	}

	logger.Success("Created index %q (collection %s, %d dimensions)", name, collection.ID, dims)
	return &collection, nil
}

// List returns all registered indexes.
func (s *CollectionService) List(ctx context.Context) ([]domain.RAGCollection, error) {
	return s.registry.List(ctx)
}

// Stats reports point count and dimensionality for an index.
func (s *CollectionService) Stats(ctx context.Context, name string) (domain.CollectionStats, error) {
	collection, err := s.registry.Get(ctx, name)
	if err != nil {
		return domain.CollectionStats{}, fmt.Errorf("resolve index %q: %w", name, err)
	}

	stats, err := s.store.Stats(ctx, collection.ID)
	if err != nil {
		return domain.CollectionStats{}, fmt.Errorf("%w: %w", domain.ErrStoreRead, err)
	}
	return stats, nil
}

// Delete removes an index registration and drops its backing
// collection, points included. The collection goes first so a failed
// drop leaves the name resolvable for a retry.
func (s *CollectionService) Delete(ctx context.Context, name string) error {
	collection, err := s.registry.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("resolve index %q: %w", name, err)
	}

	if err := s.store.DeleteCollection(ctx, collection.ID); err != nil {
		// A collection the store never heard of is already gone;
		// anything else blocks the registry removal.
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("drop collection: %w", err)
		}
		logger.Warn("Collection %s already absent from store", collection.ID)
	}

	if err := s.registry.Delete(ctx, name); err != nil {
		return fmt.Errorf("deregister index %q: %w", name, err)
	}

	logger.Success("Deleted index %q (collection %s)", name, collection.ID)
	return nil
}
