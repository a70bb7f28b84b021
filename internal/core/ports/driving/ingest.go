package driving

import (
	"context"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
)

// IngestOptions configures an ingestion run.
type IngestOptions struct {
	// Tags are attached to every chunk ingested in this run.
	Tags []string

	// CommitHash optionally records the VCS revision being ingested.
	CommitHash string

	// Workers bounds document-level concurrency. Zero means the
	// service default.
	Workers int
}

// IngestService feeds documents into a named index.
type IngestService interface {
	// Ingest parses, chunks, embeds and upserts everything under
	// path (a file or directory) into the named index. Per-document
	// failures are collected in the report; one bad file never
	// aborts the run.
	Ingest(ctx context.Context, indexName, path string, opts IngestOptions) (*domain.IngestReport, error)
}
