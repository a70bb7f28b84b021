// Package qdrant provides a vector store adapter using the Qdrant
// REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:6333"
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the Qdrant store.
type Config struct {
	// BaseURL is the Qdrant REST API base URL (default: http://localhost:6333).
	BaseURL string

	// APIKey is an optional API key for Qdrant Cloud.
	APIKey string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration
}

// Store talks to a Qdrant instance over its REST API. Point IDs must
// be UUIDs or unsigned integers; the content-addressed IDs this tool
// produces are UUIDs.
type Store struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewStore creates a Qdrant-backed vector store.
func NewStore(cfg Config) *Store {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Store{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}
}

// createCollectionRequest is the collection creation request format.
type createCollectionRequest struct {
	Vectors vectorParams `json:"vectors"`
}

type vectorParams struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"`
}

// upsertRequest is the points upsert request format.
type upsertRequest struct {
	Points []qdrantPoint `json:"points"`
}

type qdrantPoint struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload domain.Payload `json:"payload"`
}

// searchRequest is the points search request format.
type searchRequest struct {
	Vector      []float32     `json:"vector"`
	Limit       int           `json:"limit"`
	WithPayload bool          `json:"with_payload"`
	WithVector  bool          `json:"with_vector"`
	Filter      *qdrantFilter `json:"filter,omitempty"`
}

type qdrantFilter struct {
	Must []fieldMatch `json:"must"`
}

type fieldMatch struct {
	Key   string     `json:"key"`
	Match matchValue `json:"match"`
}

type matchValue struct {
	Value string `json:"value"`
}

// searchResponse is the points search response format.
type searchResponse struct {
	Result []struct {
		ID      string         `json:"id"`
		Score   float64        `json:"score"`
		Vector  []float32      `json:"vector"`
		Payload domain.Payload `json:"payload"`
	} `json:"result"`
}

// collectionInfoResponse is the collection info response format.
type collectionInfoResponse struct {
	Result struct {
		PointsCount int `json:"points_count"`
		Config      struct {
			Params struct {
				Vectors vectorParams `json:"vectors"`
			} `json:"params"`
		} `json:"config"`
	} `json:"result"`
}

// errorResponse is Qdrant's error envelope.
type errorResponse struct {
	Status struct {
		Error string `json:"error"`
	} `json:"status"`
}

// CreateCollection creates a collection with cosine distance.
func (s *Store) CreateCollection(ctx context.Context, id string, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("%w: dimensions must be positive, got %d", domain.ErrInvalidInput, dimensions)
	}

	body := createCollectionRequest{
		Vectors: vectorParams{Size: dimensions, Distance: "Cosine"},
	}
	status, err := s.do(ctx, http.MethodPut, "/collections/"+id, body, nil)
	if err != nil {
		return err
	}
	if status == http.StatusConflict {
		return fmt.Errorf("%w: collection %q", domain.ErrAlreadyExists, id)
	}
	return nil
}

// Upsert inserts or overwrites points by ID.
func (s *Store) Upsert(ctx context.Context, id string, points []domain.Point) error {
	if len(points) == 0 {
		return nil
	}

	body := upsertRequest{Points: make([]qdrantPoint, len(points))}
	for i, p := range points {
		body.Points[i] = qdrantPoint{ID: p.ID, Vector: p.Vector, Payload: p.Payload}
	}

	status, err := s.do(ctx, http.MethodPut, "/collections/"+id+"/points?wait=true", body, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return fmt.Errorf("%w: collection %q", domain.ErrNotFound, id)
	}
	return nil
}

// Search returns the k most similar points matching the filter.
// Qdrant applies the filter before the similarity search, so the
// candidate pool is drawn from matching points only.
func (s *Store) Search(ctx context.Context, id string, vector []float32, k int, filter domain.Filter) ([]driven.VectorHit, error) {
	body := searchRequest{
		Vector:      vector,
		Limit:       k,
		WithPayload: true,
		WithVector:  false,
		Filter:      buildFilter(filter),
	}

	var result searchResponse
	status, err := s.do(ctx, http.MethodPost, "/collections/"+id+"/points/search", body, &result)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: collection %q", domain.ErrNotFound, id)
	}

	hits := make([]driven.VectorHit, len(result.Result))
	for i, r := range result.Result {
		hits[i] = driven.VectorHit{
			Point: domain.Point{
				ID:      r.ID,
				Vector:  r.Vector,
				Payload: r.Payload,
			},
			Score: r.Score,
		}
	}
	return hits, nil
}

// Stats reports point count and dimensionality for a collection.
func (s *Store) Stats(ctx context.Context, id string) (domain.CollectionStats, error) {
	var info collectionInfoResponse
	status, err := s.do(ctx, http.MethodGet, "/collections/"+id, nil, &info)
	if err != nil {
		return domain.CollectionStats{}, err
	}
	if status == http.StatusNotFound {
		return domain.CollectionStats{}, fmt.Errorf("%w: collection %q", domain.ErrNotFound, id)
	}

	return domain.CollectionStats{
		PointCount: info.Result.PointsCount,
		Dimensions: info.Result.Config.Params.Vectors.Size,
	}, nil
}

// DeleteCollection drops a collection and all of its points.
func (s *Store) DeleteCollection(ctx context.Context, id string) error {
	status, err := s.do(ctx, http.MethodDelete, "/collections/"+id, nil, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return fmt.Errorf("%w: collection %q", domain.ErrNotFound, id)
	}
	return nil
}

// Close releases resources.
func (s *Store) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// buildFilter translates a domain filter into Qdrant's filter DSL.
// Returns nil for an empty filter so the request omits the field.
func buildFilter(filter domain.Filter) *qdrantFilter {
	if filter.IsZero() {
		return nil
	}

	var must []fieldMatch
	if filter.SourceType != "" {
		must = append(must, fieldMatch{Key: "source_type", Match: matchValue{Value: filter.SourceType}})
	}
	if filter.FilePath != "" {
		must = append(must, fieldMatch{Key: "file_path", Match: matchValue{Value: filter.FilePath}})
	}
	if filter.Tag != "" {
		must = append(must, fieldMatch{Key: "tags", Match: matchValue{Value: filter.Tag}})
	}
	return &qdrantFilter{Must: must}
}

// do executes a JSON request against the Qdrant API. Responses with
// status 404 and 409 are mapped by callers; other non-2xx statuses
// become errors carrying Qdrant's error message.
func (s *Store) do(ctx context.Context, method, path string, body, result any) (int, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusNotFound, http.StatusConflict:
		return resp.StatusCode, nil
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var qerr errorResponse
		if json.Unmarshal(respBody, &qerr) == nil && qerr.Status.Error != "" {
			return resp.StatusCode, fmt.Errorf("qdrant error (status %d): %s", resp.StatusCode, qerr.Status.Error)
		}
		return resp.StatusCode, fmt.Errorf("qdrant error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// Ping validates the service is reachable by hitting the root
// endpoint, which reports the Qdrant version.
func (s *Store) Ping(ctx context.Context) error {
	status, err := s.do(ctx, http.MethodGet, "/", nil, nil)
	if err != nil {
		return fmt.Errorf("qdrant: ping failed: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("qdrant: API returned status %d", status)
	}
	return nil
}
