package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
)

func testCollection(t *testing.T, store *mockVectorStore) domain.RAGCollection {
	t.Helper()
	c := domain.RAGCollection{Name: "test", ID: "coll-1"}
	require.NoError(t, store.CreateCollection(context.Background(), c.ID, 3))
	return c
}

func TestContentHash_Deterministic(t *testing.T) {
	a := ContentHash("some chunk text")
	b := ContentHash("some chunk text")
	c := ContentHash("different text")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	// IDs are UUID-shaped so any store accepting UUID ids can use them.
	assert.Len(t, a, 36)
}

func TestIndex_BuildsContentAddressedPoints(t *testing.T) {
	embedder := newMockEmbedder()
	store := newMockVectorStore()
	coll := testCollection(t, store)
	ix := NewIndexer(embedder, store)

	chunks := []domain.Chunk{{Text: "alpha"}, {Text: "beta"}}
	metadata := []domain.ChunkMetadata{
		{FilePath: "a.md", ChunkIndex: 0, SourceType: ".md"},
		{FilePath: "a.md", ChunkIndex: 1, SourceType: ".md"},
	}

	count, err := ix.Index(context.Background(), chunks, metadata, coll)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, store.pointCount(coll.ID))
	assert.Equal(t, 1, embedder.batchCalls, "one batched embedding call per document")

	p := store.collections[coll.ID][ContentHash("alpha")]
	assert.Equal(t, "alpha", p.Payload.Text)
	assert.Equal(t, "a.md", p.Payload.FilePath)
	assert.Equal(t, 0, p.Payload.ChunkIndex)
	assert.NotNil(t, p.Payload.Tags)
}

func TestIndex_IdempotentReingestion(t *testing.T) {
	embedder := newMockEmbedder()
	store := newMockVectorStore()
	coll := testCollection(t, store)
	ix := NewIndexer(embedder, store)

	chunks := []domain.Chunk{{Text: "alpha"}, {Text: "beta"}}
	metadata := []domain.ChunkMetadata{
		{FilePath: "a.md", ChunkIndex: 0},
		{FilePath: "a.md", ChunkIndex: 1},
	}

	_, err := ix.Index(context.Background(), chunks, metadata, coll)
	require.NoError(t, err)
	_, err = ix.Index(context.Background(), chunks, metadata, coll)
	require.NoError(t, err)

	// Same content, same ids: the second run overwrites, never
	// duplicates.
	assert.Equal(t, 2, store.pointCount(coll.ID))
}

func TestIndex_DedupAcrossFiles_LastMetadataWins(t *testing.T) {
	embedder := newMockEmbedder()
	store := newMockVectorStore()
	coll := testCollection(t, store)
	ix := NewIndexer(embedder, store)

	ctx := context.Background()
	_, err := ix.Index(ctx,
		[]domain.Chunk{{Text: "shared paragraph"}},
		[]domain.ChunkMetadata{{FilePath: "first.md", ChunkIndex: 0}},
		coll)
	require.NoError(t, err)

	_, err = ix.Index(ctx,
		[]domain.Chunk{{Text: "shared paragraph"}},
		[]domain.ChunkMetadata{{FilePath: "second.md", ChunkIndex: 4}},
		coll)
	require.NoError(t, err)

	assert.Equal(t, 1, store.pointCount(coll.ID))
	p := store.collections[coll.ID][ContentHash("shared paragraph")]
	assert.Equal(t, "second.md", p.Payload.FilePath)
	assert.Equal(t, 4, p.Payload.ChunkIndex)
}

func TestIndex_MismatchedLengthsIsInvalidInput(t *testing.T) {
	ix := NewIndexer(newMockEmbedder(), newMockVectorStore())

	_, err := ix.Index(context.Background(),
		[]domain.Chunk{{Text: "a"}, {Text: "b"}},
		[]domain.ChunkMetadata{{FilePath: "a.md"}},
		domain.RAGCollection{ID: "c"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIndex_EmbeddingFailureAbortsBatch(t *testing.T) {
	embedder := newMockEmbedder()
	embedder.batchErr = errors.New("model offline")
	store := newMockVectorStore()
	coll := testCollection(t, store)
	ix := NewIndexer(embedder, store)

	_, err := ix.Index(context.Background(),
		[]domain.Chunk{{Text: "a"}},
		[]domain.ChunkMetadata{{FilePath: "a.md"}},
		coll)

	assert.ErrorIs(t, err, domain.ErrEmbeddingFailure)
	// No partial upsert for the failed batch.
	assert.Equal(t, 0, store.pointCount(coll.ID))
	assert.Equal(t, 0, store.upsertCalls)
}

func TestIndex_EmbeddingCountMismatchIsFatal(t *testing.T) {
	embedder := newMockEmbedder()
	embedder.shortBatch = true
	store := newMockVectorStore()
	coll := testCollection(t, store)
	ix := NewIndexer(embedder, store)

	_, err := ix.Index(context.Background(),
		[]domain.Chunk{{Text: "a"}, {Text: "b"}},
		[]domain.ChunkMetadata{{FilePath: "a.md"}, {FilePath: "a.md", ChunkIndex: 1}},
		coll)

	assert.ErrorIs(t, err, domain.ErrEmbeddingFailure)
	assert.Equal(t, 0, store.pointCount(coll.ID))
}

func TestIndex_StoreFailureIsRetryable(t *testing.T) {
	embedder := newMockEmbedder()
	store := newMockVectorStore()
	coll := testCollection(t, store)
	store.upsertErr = errors.New("connection reset")
	ix := NewIndexer(embedder, store)

	chunks := []domain.Chunk{{Text: "a"}}
	metadata := []domain.ChunkMetadata{{FilePath: "a.md"}}

	_, err := ix.Index(context.Background(), chunks, metadata, coll)
	assert.ErrorIs(t, err, domain.ErrStoreWrite)

	// Retrying the whole batch after the store recovers succeeds and
	// leaves exactly one point: upsert-by-id is idempotent.
	store.upsertErr = nil
	count, err := ix.Index(context.Background(), chunks, metadata, coll)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, store.pointCount(coll.ID))
}

func TestIndex_EmptyBatchIsNoop(t *testing.T) {
	embedder := newMockEmbedder()
	store := newMockVectorStore()
	coll := testCollection(t, store)
	ix := NewIndexer(embedder, store)

	count, err := ix.Index(context.Background(), nil, nil, coll)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, 0, embedder.batchCalls)
}
