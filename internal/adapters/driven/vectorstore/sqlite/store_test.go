package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func point(id, text string, vector []float32) domain.Point {
	return domain.Point{
		ID:     id,
		Vector: vector,
		Payload: domain.NewPayload(text, domain.ChunkMetadata{
			FilePath:   "doc.md",
			SourceType: ".md",
			Tags:       []string{"docs"},
		}),
	}
}

func TestNewStore_RunsMigrations(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening an existing database must not rerun migrations.
	s, err = NewStore(dir)
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestCreateCollection_Duplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateCollection(ctx, "c1", 3))
	assert.ErrorIs(t, s.CreateCollection(ctx, "c1", 3), domain.ErrAlreadyExists)
}

func TestCreateCollection_InvalidDimensions(t *testing.T) {
	s := newTestStore(t)
	assert.ErrorIs(t, s.CreateCollection(context.Background(), "c1", 0), domain.ErrInvalidInput)
}

func TestUpsert_RoundTripsVectorAndPayload(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateCollection(ctx, "c1", 3))

	p := point("p1", "hello chunk", []float32{0.25, -1.5, 3})
	require.NoError(t, s.Upsert(ctx, "c1", []domain.Point{p}))

	hits, err := s.Search(ctx, "c1", []float32{0.25, -1.5, 3}, 1, domain.Filter{})
	require.NoError(t, err)
	require.Len(t, hits, 1)

	got := hits[0].Point
	assert.Equal(t, "p1", got.ID)
	assert.Equal(t, []float32{0.25, -1.5, 3}, got.Vector)
	assert.Equal(t, "hello chunk", got.Payload.Text)
	assert.Equal(t, "doc.md", got.Payload.FilePath)
	assert.Equal(t, []string{"docs"}, got.Payload.Tags)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
}

func TestUpsert_OverwritesByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateCollection(ctx, "c1", 3))

	require.NoError(t, s.Upsert(ctx, "c1", []domain.Point{point("p1", "old", []float32{1, 0, 0})}))
	require.NoError(t, s.Upsert(ctx, "c1", []domain.Point{point("p1", "new", []float32{0, 1, 0})}))

	stats, err := s.Stats(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.PointCount)

	hits, err := s.Search(ctx, "c1", []float32{0, 1, 0}, 1, domain.Filter{})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "new", hits[0].Point.Payload.Text)
}

func TestUpsert_DimensionMismatchAbortsBatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateCollection(ctx, "c1", 3))

	err := s.Upsert(ctx, "c1", []domain.Point{
		point("ok", "fine", []float32{1, 0, 0}),
		point("bad", "short", []float32{1, 0}),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Transactional: the valid point did not land either.
	stats, err := s.Stats(ctx, "c1")
	require.NoError(t, err)
	assert.Zero(t, stats.PointCount)
}

func TestUpsert_UnknownCollection(t *testing.T) {
	s := newTestStore(t)
	err := s.Upsert(context.Background(), "missing", []domain.Point{point("p", "x", []float32{1, 0, 0})})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearch_OrdersAndFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateCollection(ctx, "c1", 3))

	near := point("near", "near", []float32{1, 0, 0})
	far := point("far", "far", []float32{0, 1, 0})
	goSrc := point("src", "source", []float32{1, 0, 0})
	goSrc.Payload.SourceType = ".go"
	goSrc.Payload.FilePath = "main.go"
	require.NoError(t, s.Upsert(ctx, "c1", []domain.Point{near, far, goSrc}))

	hits, err := s.Search(ctx, "c1", []float32{1, 0, 0}, 10, domain.Filter{})
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "near", hits[0].Point.ID)
	assert.Equal(t, "src", hits[1].Point.ID)
	assert.Equal(t, "far", hits[2].Point.ID)

	filtered, err := s.Search(ctx, "c1", []float32{1, 0, 0}, 10, domain.Filter{SourceType: ".go"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "src", filtered[0].Point.ID)
}

func TestSearch_TruncatesToK(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateCollection(ctx, "c1", 3))
	require.NoError(t, s.Upsert(ctx, "c1", []domain.Point{
		point("a", "a", []float32{1, 0, 0}),
		point("b", "b", []float32{0, 1, 0}),
		point("c", "c", []float32{0, 0, 1}),
	}))

	hits, err := s.Search(ctx, "c1", []float32{1, 0, 0}, 2, domain.Filter{})
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateCollection(ctx, "c1", 3))

	stats, err := s.Stats(ctx, "c1")
	require.NoError(t, err)
	assert.Zero(t, stats.PointCount)
	assert.Equal(t, 3, stats.Dimensions)

	require.NoError(t, s.Upsert(ctx, "c1", []domain.Point{
		point("a", "a", []float32{1, 0, 0}),
		point("b", "b", []float32{0, 1, 0}),
	}))

	stats, err = s.Stats(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.PointCount)

	_, err = s.Stats(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteCollection_CascadesToPoints(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateCollection(ctx, "c1", 3))
	require.NoError(t, s.Upsert(ctx, "c1", []domain.Point{
		point("a", "a", []float32{1, 0, 0}),
		point("b", "b", []float32{0, 1, 0}),
	}))

	require.NoError(t, s.DeleteCollection(ctx, "c1"))

	_, err := s.Stats(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// No leftover rows under the dropped collection id: recreating the
	// collection starts empty.
	require.NoError(t, s.CreateCollection(ctx, "c1", 3))
	stats, err := s.Stats(ctx, "c1")
	require.NoError(t, err)
	assert.Zero(t, stats.PointCount)
}

func TestDeleteCollection_Unknown(t *testing.T) {
	s := newTestStore(t)
	err := s.DeleteCollection(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.CreateCollection(ctx, "c1", 3))
	require.NoError(t, s.Upsert(ctx, "c1", []domain.Point{point("p1", "persisted", []float32{1, 0, 0})}))
	require.NoError(t, s.Close())

	s, err = NewStore(dir)
	require.NoError(t, err)
	defer s.Close()

	hits, err := s.Search(ctx, "c1", []float32{1, 0, 0}, 1, domain.Filter{})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "persisted", hits[0].Point.Payload.Text)
}

func TestFloat32BlobRoundTrip(t *testing.T) {
	in := []float32{0, 1.5, -2.25, 3.14159}
	assert.Equal(t, in, bytesToFloat32Slice(float32SliceToBytes(in)))
	assert.Empty(t, bytesToFloat32Slice(nil))
}
