package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	// Caller-fixable; never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrParseFailure indicates one file could not be parsed.
	// Non-fatal to a multi-document ingestion run.
	ErrParseFailure = errors.New("parse failure")

	// ErrEmbeddingFailure indicates an embedding batch failed.
	// Aborts that batch only; no partial upsert is attempted.
	ErrEmbeddingFailure = errors.New("embedding failure")

	// ErrStoreWrite indicates a vector store write failed.
	// Safe to retry the whole batch: upsert-by-id is idempotent.
	ErrStoreWrite = errors.New("vector store write failure")

	// ErrStoreRead indicates a vector store read failed.
	// Surfaced to the caller; no partial results are fabricated.
	ErrStoreRead = errors.New("vector store read failure")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Nothing can be indexed or retrieved without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Clarification and synthesis degrade to pass-through behaviour.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrStoreUnavailable indicates the vector store is not configured.
	ErrStoreUnavailable = errors.New("vector store unavailable")
)
