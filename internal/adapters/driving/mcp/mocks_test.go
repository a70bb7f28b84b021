package mcp

import (
	"context"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driving"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	candidates []domain.ScoredCandidate
	answer     *driving.Answer
	err        error
}

func (m *mockQueryService) Retrieve(
	_ context.Context,
	_, _, _ string,
	_ driving.RetrieveOptions,
) ([]domain.ScoredCandidate, error) {
	return m.candidates, m.err
}

func (m *mockQueryService) Ask(
	_ context.Context,
	_, _ string,
	_ driving.RetrieveOptions,
) (*driving.Answer, error) {
	return m.answer, m.err
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	indexes []domain.RAGCollection
	stats   domain.CollectionStats
	err     error
}

func (m *mockIndexService) Create(_ context.Context, name string) (*domain.RAGCollection, error) {
	return &domain.RAGCollection{Name: name}, m.err
}

func (m *mockIndexService) List(_ context.Context) ([]domain.RAGCollection, error) {
	return m.indexes, m.err
}

func (m *mockIndexService) Stats(_ context.Context, _ string) (domain.CollectionStats, error) {
	return m.stats, m.err
}

func (m *mockIndexService) Delete(_ context.Context, _ string) error {
	return m.err
}
