package mcp

import (
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query answers questions and retrieves chunks.
	Query driving.QueryService

	// Index lists indexes and their statistics.
	Index driving.IndexService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	// Index is optional; resources degrade to empty listings.
	return nil
}
