// Package embedding provides cross-provider decorators for embedding
// services.
package embedding

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driven"
)

// Ensure RateLimited implements the interface.
var _ driven.EmbeddingService = (*RateLimited)(nil)

// RateLimitConfig holds rate limiting configuration for an embedding
// provider.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained request rate.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultRateLimit is a conservative default suitable for hosted
// embedding APIs. Local providers can run without a limiter.
var DefaultRateLimit = RateLimitConfig{RequestsPerSecond: 5.0, BurstSize: 10}

// RateLimited wraps an embedding service with a token-bucket rate
// limiter. One API request consumes one token regardless of batch
// size; hosted providers meter requests, not inputs.
type RateLimited struct {
	inner   driven.EmbeddingService
	limiter *rate.Limiter
}

// NewRateLimited wraps inner with the given rate limit configuration.
func NewRateLimited(inner driven.EmbeddingService, cfg RateLimitConfig) *RateLimited {
	if cfg.RequestsPerSecond <= 0 {
		cfg = DefaultRateLimit
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = 1
	}
	return &RateLimited{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Embed waits for rate limit clearance, then delegates.
func (r *RateLimited) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.Embed(ctx, text)
}

// EmbedBatch waits for rate limit clearance, then delegates.
func (r *RateLimited) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.EmbedBatch(ctx, texts)
}

// Dimensions returns the wrapped service's vector size.
func (r *RateLimited) Dimensions() int { return r.inner.Dimensions() }

// ModelName returns the wrapped service's model name.
func (r *RateLimited) ModelName() string { return r.inner.ModelName() }

// Ping delegates without consuming a token; health checks should not
// compete with ingestion traffic.
func (r *RateLimited) Ping(ctx context.Context) error { return r.inner.Ping(ctx) }

// Close releases the wrapped service's resources.
func (r *RateLimited) Close() error { return r.inner.Close() }
