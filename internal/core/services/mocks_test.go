package services

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driven"
)

// --- Mock implementations shared across service tests ---

// mockEmbedder implements driven.EmbeddingService with canned vectors.
type mockEmbedder struct {
	vectors    map[string][]float32 // per-text overrides
	fallback   []float32
	embedErr   error
	batchErr   error
	shortBatch bool // return one vector fewer than requested
	dims       int

	mu         sync.Mutex
	batchCalls int
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{
		vectors:  make(map[string][]float32),
		fallback: []float32{1, 0, 0},
		dims:     3,
	}
}

func (m *mockEmbedder) vectorFor(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	return m.fallback
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vectorFor(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batchCalls++
	m.mu.Unlock()

	if m.batchErr != nil {
		return nil, m.batchErr
	}
	result := make([][]float32, 0, len(texts))
	for _, t := range texts {
		result = append(result, m.vectorFor(t))
	}
	if m.shortBatch && len(result) > 0 {
		result = result[:len(result)-1]
	}
	return result, nil
}

func (m *mockEmbedder) Dimensions() int           { return m.dims }
func (m *mockEmbedder) ModelName() string         { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error              { return nil }

// mockVectorStore implements driven.VectorStore with exact cosine
// search over in-memory points.
type mockVectorStore struct {
	mu          sync.Mutex
	collections map[string]map[string]domain.Point
	dims        map[string]int
	upsertErr   error
	searchErr   error
	deleteErr   error
	upsertCalls int
}

func newMockVectorStore() *mockVectorStore {
	return &mockVectorStore{
		collections: make(map[string]map[string]domain.Point),
		dims:        make(map[string]int),
	}
}

func (m *mockVectorStore) CreateCollection(_ context.Context, id string, dims int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[id]; ok {
		return domain.ErrAlreadyExists
	}
	m.collections[id] = make(map[string]domain.Point)
	m.dims[id] = dims
	return nil
}

func (m *mockVectorStore) Upsert(_ context.Context, id string, points []domain.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertCalls++
	if m.upsertErr != nil {
		return m.upsertErr
	}
	coll, ok := m.collections[id]
	if !ok {
		return errors.New("unknown collection")
	}
	for _, p := range points {
		coll[p.ID] = p
	}
	return nil
}

func (m *mockVectorStore) Search(_ context.Context, id string, vector []float32, k int, filter domain.Filter) ([]driven.VectorHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	coll, ok := m.collections[id]
	if !ok {
		return nil, errors.New("unknown collection")
	}

	var hits []driven.VectorHit
	for _, p := range coll {
		if !filter.Matches(p.Payload) {
			continue
		}
		hits = append(hits, driven.VectorHit{Point: p, Score: cosine(vector, p.Vector)})
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

func (m *mockVectorStore) Stats(_ context.Context, id string) (domain.CollectionStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	coll, ok := m.collections[id]
	if !ok {
		return domain.CollectionStats{}, domain.ErrNotFound
	}
	return domain.CollectionStats{PointCount: len(coll), Dimensions: m.dims[id]}, nil
}

func (m *mockVectorStore) DeleteCollection(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.collections[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.collections, id)
	delete(m.dims, id)
	return nil
}

func (m *mockVectorStore) Close() error { return nil }

func (m *mockVectorStore) pointCount(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.collections[id])
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		if i >= len(b) {
			break
		}
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// mockRegistry implements driven.CollectionRegistry in memory.
type mockRegistry struct {
	mu          sync.Mutex
	collections []domain.RAGCollection
}

func (m *mockRegistry) Create(_ context.Context, c domain.RAGCollection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.collections {
		if existing.Name == c.Name {
			return domain.ErrAlreadyExists
		}
	}
	m.collections = append(m.collections, c)
	return nil
}

func (m *mockRegistry) Get(_ context.Context, name string) (*domain.RAGCollection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.collections {
		if c.Name == name {
			copied := c
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockRegistry) List(_ context.Context) ([]domain.RAGCollection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.RAGCollection(nil), m.collections...), nil
}

func (m *mockRegistry) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.collections {
		if c.Name == name {
			m.collections = append(m.collections[:i], m.collections[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// mockLLM implements driven.LLMService with canned responses.
type mockLLM struct {
	clarification *driven.Clarification
	clarifyErr    error
	answer        string
	synthErr      error
}

func (m *mockLLM) ClarifyQuery(_ context.Context, _ string) (*driven.Clarification, error) {
	if m.clarifyErr != nil {
		return nil, m.clarifyErr
	}
	return m.clarification, nil
}

func (m *mockLLM) Synthesize(_ context.Context, _ string, _ []domain.ScoredCandidate) (string, error) {
	if m.synthErr != nil {
		return "", m.synthErr
	}
	return m.answer, nil
}

func (m *mockLLM) ModelName() string          { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error               { return nil }
