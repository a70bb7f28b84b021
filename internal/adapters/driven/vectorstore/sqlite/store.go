// Package sqlite provides a persistent vector store backed by SQLite.
//
// Vectors are stored as little-endian float32 blobs and searched with
// exact brute-force cosine similarity in Go. Suitable for the
// collection sizes a single-user indexing tool produces; a dedicated
// vector database (Qdrant) covers larger deployments.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/ragdex-cli/internal/adapters/driven/vectorstore/sqlite/migrations"
	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is a SQLite-backed vector store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite vector store at the specified data
// directory. If dataDir is empty, defaults to ~/.ragdex/data/vectors.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ragdex", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "vectors.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CreateCollection allocates a collection with the given vector size.
func (s *Store) CreateCollection(ctx context.Context, id string, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("%w: dimensions must be positive, got %d", domain.ErrInvalidInput, dimensions)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (id, dimensions) VALUES (?, ?)
	`, id, dimensions)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: collection %q", domain.ErrAlreadyExists, id)
		}
		return fmt.Errorf("creating collection: %w", err)
	}
	return nil
}

// Upsert inserts or overwrites points by ID within a transaction, so
// a batch lands completely or not at all.
func (s *Store) Upsert(ctx context.Context, id string, points []domain.Point) error {
	dimensions, err := s.collectionDimensions(ctx, id)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO points (collection_id, id, vector, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(collection_id, id) DO UPDATE SET
			vector = excluded.vector,
			payload = excluded.payload
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if len(p.Vector) != dimensions {
			return fmt.Errorf("%w: point %s has %d dimensions, collection expects %d",
				domain.ErrInvalidInput, p.ID, len(p.Vector), dimensions)
		}

		payloadJSON, err := json.Marshal(p.Payload)
		if err != nil {
			return fmt.Errorf("marshalling payload: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, id, p.ID, float32SliceToBytes(p.Vector), string(payloadJSON)); err != nil {
			return fmt.Errorf("upserting point %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing upsert: %w", err)
	}
	return nil
}

// Search scans the collection and returns the k most cosine-similar
// points matching the filter, best first. Ties break by point ID.
func (s *Store) Search(ctx context.Context, id string, vector []float32, k int, filter domain.Filter) ([]driven.VectorHit, error) {
	if _, err := s.collectionDimensions(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, vector, payload FROM points WHERE collection_id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying points: %w", err)
	}
	defer rows.Close()

	var hits []driven.VectorHit //nolint:prealloc // size unknown from query
	for rows.Next() {
		var pointID string
		var vectorBlob []byte
		var payloadJSON string
		if err := rows.Scan(&pointID, &vectorBlob, &payloadJSON); err != nil {
			return nil, fmt.Errorf("scanning point: %w", err)
		}

		var payload domain.Payload
		if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
			return nil, fmt.Errorf("unmarshaling payload for point %s: %w", pointID, err)
		}
		if !filter.Matches(payload) {
			continue
		}

		point := domain.Point{
			ID:      pointID,
			Vector:  bytesToFloat32Slice(vectorBlob),
			Payload: payload,
		}
		hits = append(hits, driven.VectorHit{
			Point: point,
			Score: cosineSimilarity(vector, point.Vector),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating points: %w", err)
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
func (s *Store) Stats(ctx context.Context, id string) (domain.CollectionStats, error) {
	dimensions, err := s.collectionDimensions(ctx, id)
	if err != nil {
		return domain.CollectionStats{}, err
	}

	var count int
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM points WHERE collection_id = ?
	`, id)
	if err := row.Scan(&count); err != nil {
		return domain.CollectionStats{}, fmt.Errorf("counting points: %w", err)
	}

	return domain.CollectionStats{
		PointCount: count,
		Dimensions: dimensions,
	}, nil
}

// DeleteCollection drops a collection; its points go with it through
// the foreign-key cascade.
func (s *Store) DeleteCollection(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM collections WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: collection %q", domain.ErrNotFound, id)
	}
	return nil
}

// collectionDimensions resolves a collection's vector size, mapping a
// missing row to domain.ErrNotFound.
func (s *Store) collectionDimensions(ctx context.Context, id string) (int, error) {
	var dimensions int
	row := s.db.QueryRowContext(ctx, "SELECT dimensions FROM collections WHERE id = ?", id)
	if err := row.Scan(&dimensions); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: collection %q", domain.ErrNotFound, id)
		}
		return 0, fmt.Errorf("scanning collection: %w", err)
	}
	return dimensions, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// isUniqueViolation reports whether err is a SQLite unique constraint
// failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
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
