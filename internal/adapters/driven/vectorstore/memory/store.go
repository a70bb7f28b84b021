// Package memory provides an in-memory vector store for tests and
// ephemeral sessions.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store keeps collections of points in memory and searches them with
// exact brute-force cosine similarity. Nothing survives process exit.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

type collection struct {
	dimensions int
	points     map[string]domain.Point
}

// NewStore creates an empty in-memory vector store.
func NewStore() *Store {
	return &Store{
		collections: make(map[string]*collection),
	}
}

// CreateCollection allocates a collection with the given vector size.
func (s *Store) CreateCollection(_ context.Context, id string, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("%w: dimensions must be positive, got %d", domain.ErrInvalidInput, dimensions)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[id]; ok {
		return fmt.Errorf("%w: collection %q", domain.ErrAlreadyExists, id)
	}
	s.collections[id] = &collection{
		dimensions: dimensions,
		points:     make(map[string]domain.Point),
	}
	return nil
}

// Upsert inserts or overwrites points by ID.
func (s *Store) Upsert(_ context.Context, id string, points []domain.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[id]
	if !ok {
		return fmt.Errorf("%w: collection %q", domain.ErrNotFound, id)
	}

	for _, p := range points {
		if len(p.Vector) != coll.dimensions {
			return fmt.Errorf("%w: point %s has %d dimensions, collection expects %d",
				domain.ErrInvalidInput, p.ID, len(p.Vector), coll.dimensions)
		}
	}
	for _, p := range points {
		coll.points[p.ID] = p
	}
	return nil
}

// Search returns the k most cosine-similar points matching the filter,
// best first. Ties break by point ID for deterministic output.
func (s *Store) Search(_ context.Context, id string, vector []float32, k int, filter domain.Filter) ([]driven.VectorHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll, ok := s.collections[id]
	if !ok {
		return nil, fmt.Errorf("%w: collection %q", domain.ErrNotFound, id)
	}

	hits := make([]driven.VectorHit, 0, len(coll.points))
	for _, p := range coll.points {
		if !filter.Matches(p.Payload) {
			continue
		}
		hits = append(hits, driven.VectorHit{Point: p, Score: cosineSimilarity(vector, p.Vector)})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Point.ID < hits[j].Point.ID
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Stats reports point count and dimensionality for a collection.
func (s *Store) Stats(_ context.Context, id string) (domain.CollectionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll, ok := s.collections[id]
	if !ok {
		return domain.CollectionStats{}, fmt.Errorf("%w: collection %q", domain.ErrNotFound, id)
	}
	return domain.CollectionStats{
		PointCount: len(coll.points),
		Dimensions: coll.dimensions,
	}, nil
}

// DeleteCollection drops a collection and all of its points.
func (s *Store) DeleteCollection(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[id]; !ok {
		return fmt.Errorf("%w: collection %q", domain.ErrNotFound, id)
	}
	delete(s.collections, id)
	return nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// cosineSimilarity computes the cosine of the angle between a and b.
// A zero vector yields similarity 0.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
