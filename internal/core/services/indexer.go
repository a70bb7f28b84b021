package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ragdex-cli/internal/logger"
)

// contentNamespace is the fixed UUID namespace for content addressing.
// Changing it would re-key every existing collection.
var contentNamespace = uuid.MustParse("9b1c8d4e-52a7-4f63-8e0d-6a917f3b2c45")

// ContentHash derives the point ID for a chunk: a name-based UUID over
// the chunk's raw UTF-8 bytes. Identical text always maps to the same
// ID regardless of source document or ingestion run - this is the
// dedup key, not a random identifier.
func ContentHash(text string) string {
	return uuid.NewSHA1(contentNamespace, []byte(text)).String()
}

// Indexer turns chunks into points and upserts them into a collection.
//
// Deduplication is achieved entirely through the store's upsert-by-id
// semantics: the same ID overwrites, a new ID inserts. No existence
// pre-check is performed - a scan-then-insert strategy would race
// under concurrent ingestion of overlapping content.
type Indexer struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
}

// NewIndexer creates an indexer over the given collaborators.
func NewIndexer(embedder driven.EmbeddingService, store driven.VectorStore) *Indexer {
	return &Indexer{embedder: embedder, store: store}
}

// Index embeds the chunks in one batched call, builds content-addressed
// points and upserts them as a single batch. Returns the number of
// points upserted.
//
// An embedding failure aborts the whole batch with no partial upsert.
// Re-ingesting identical content is idempotent; content that changed at
// the same chunk position gets a new ID and leaves the old one behind
// until the collection is deleted.
func (ix *Indexer) Index(ctx context.Context, chunks []domain.Chunk, metadata []domain.ChunkMetadata, collection domain.RAGCollection) (int, error) {
	if ix.embedder == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}
	if ix.store == nil {
		return 0, domain.ErrStoreUnavailable
	}
	if len(chunks) != len(metadata) {
		return 0, fmt.Errorf("%w: %d chunks but %d metadata entries", domain.ErrInvalidInput, len(chunks), len(metadata))
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		if chunk.Text == "" {
			return 0, fmt.Errorf("%w: empty chunk at position %d", domain.ErrInvalidInput, i)
		}
		texts[i] = chunk.Text
	}

	logger.Debug("Embedding batch of %d chunks", len(texts))
	vectors, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrEmbeddingFailure, err)
	}
	if len(vectors) != len(texts) {
		return 0, fmt.Errorf("%w: requested %d embeddings, got %d", domain.ErrEmbeddingFailure, len(texts), len(vectors))
	}

	points := make([]domain.Point, len(chunks))
	for i, chunk := range chunks {
		points[i] = domain.Point{
			ID:      ContentHash(chunk.Text),
			Vector:  vectors[i],
			Payload: domain.NewPayload(chunk.Text, metadata[i]),
		}
	}

	logger.Debug("Upserting %d points into collection %s", len(points), collection.ID)
	if err := ix.store.Upsert(ctx, collection.ID, points); err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrStoreWrite, err)
	}

	return len(points), nil
}
