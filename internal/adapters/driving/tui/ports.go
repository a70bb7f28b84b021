// Package tui provides an interactive terminal interface for asking
// questions against a RAG index, built on Bubbletea's Elm
// architecture.
package tui

import (
	"errors"

	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driving"
)

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("tui: query service is required")

// ErrMissingIndexName is returned when no index name is provided.
var ErrMissingIndexName = errors.New("tui: index name is required")

// Ports aggregates the driving port interfaces the TUI needs.
type Ports struct {
	// Query answers questions against an index.
	Query driving.QueryService

	// Index reports index statistics for the header line. Optional.
	Index driving.IndexService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
