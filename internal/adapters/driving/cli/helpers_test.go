package cli

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driving"
)

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	created *domain.RAGCollection
	indexes []domain.RAGCollection
	stats   domain.CollectionStats
	deleted []string
	err     error
}

func (m *mockIndexService) Create(_ context.Context, name string) (*domain.RAGCollection, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.created != nil {
		return m.created, nil
	}
	return &domain.RAGCollection{Name: name, ID: "rag-" + name}, nil
}

func (m *mockIndexService) List(_ context.Context) ([]domain.RAGCollection, error) {
	return m.indexes, m.err
}

func (m *mockIndexService) Stats(_ context.Context, _ string) (domain.CollectionStats, error) {
	return m.stats, m.err
}

func (m *mockIndexService) Delete(_ context.Context, name string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, name)
	return nil
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	report   *domain.IngestReport
	err      error
	lastOpts driving.IngestOptions
}

func (m *mockIngestService) Ingest(
	_ context.Context,
	_, _ string,
	opts driving.IngestOptions,
) (*domain.IngestReport, error) {
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.report != nil {
		return m.report, nil
	}
	return &domain.IngestReport{DocumentsProcessed: 1, ChunksIndexed: 3}, nil
}

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	candidates []domain.ScoredCandidate
	answer     *driving.Answer
	err        error
	lastOpts   driving.RetrieveOptions
}

func (m *mockQueryService) Retrieve(
	_ context.Context,
	_, _, _ string,
	opts driving.RetrieveOptions,
) ([]domain.ScoredCandidate, error) {
	m.lastOpts = opts
	return m.candidates, m.err
}

func (m *mockQueryService) Ask(
	_ context.Context,
	_, _ string,
	opts driving.RetrieveOptions,
) (*driving.Answer, error) {
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.answer != nil {
		return m.answer, nil
	}
	return &driving.Answer{Text: "mock answer"}, nil
}

// mockConfigStore is an in-memory driven.ConfigStore for tests.
type mockConfigStore struct {
	values map[string]any
	setErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if s, ok := m.values[key].(string); ok {
		return s
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	if i, ok := m.values[key].(int); ok {
		return i
	}
	return 0
}

func (m *mockConfigStore) GetFloat64(key string) float64 {
	if f, ok := m.values[key].(float64); ok {
		return f
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	if b, ok := m.values[key].(bool); ok {
		return b
	}
	return false
}

func (m *mockConfigStore) GetStringSlice(key string) []string {
	if s, ok := m.values[key].([]string); ok {
		return s
	}
	return nil
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return nil }
func (m *mockConfigStore) Load() error { return nil }

// mockPromptStore is a driven.PromptStore for tests.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", errors.New("unknown prompt: " + name)
}

// candidateFixture returns one retrieval result for output tests.
func candidateFixture() domain.ScoredCandidate {
	return domain.ScoredCandidate{
		Point: domain.Point{
			ID: "chunk-1",
			Payload: domain.Payload{
				Text:       "install with make",
				FilePath:   "docs/install.md",
				ChunkIndex: 2,
				SourceType: ".md",
				Tags:       []string{"docs"},
			},
		},
		SemanticScore: 0.9,
		KeywordScore:  0.7,
		FusedScore:    0.8,
	}
}

// setupTestServices swaps mock services in and returns a cleanup that
// restores the previous wiring.
func setupTestServices() func() {
	oldIndex := indexService
	oldIngest := ingestService
	oldQuery := queryService
	oldConfig := configStore
	oldPrompts := promptStore

	indexService = &mockIndexService{
		indexes: []domain.RAGCollection{
			{Name: "notes", ID: "rag-notes", CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		},
		stats: domain.CollectionStats{PointCount: 42, Dimensions: 768},
	}
	ingestService = &mockIngestService{}
	queryService = &mockQueryService{
		candidates: []domain.ScoredCandidate{candidateFixture()},
		answer: &driving.Answer{
			Text:       "Run make install.",
			Intent:     "installation instructions",
			Candidates: []domain.ScoredCandidate{candidateFixture()},
		},
	}
	configStore = newMockConfigStore()
	promptStore = &mockPromptStore{prompts: map[string]string{
		"clarify":    "clarify prompt body",
		"synthesize": "synthesize prompt body",
	}}

	return func() {
		indexService = oldIndex
		ingestService = oldIngest
		queryService = oldQuery
		configStore = oldConfig
		promptStore = oldPrompts
	}
}
