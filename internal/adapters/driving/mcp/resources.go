package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for ragdex resources.
	uriScheme = "ragdex://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing indexes.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "indexes",
		Name:        "indexes",
		Description: "List of all registered RAG indexes",
		MIMEType:    "application/json",
	}, s.handleIndexesResource)

	// Template for index statistics.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "indexes/{indexName}/stats",
		Name:        "index-stats",
		Description: "Chunk count and dimensionality of a specific index",
		MIMEType:    "application/json",
	}, s.handleStatsResource)
}

// handleIndexesResource returns a list of all registered indexes.
func (s *Server) handleIndexesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Index == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	indexes, err := s.ports.Index.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing indexes: %w", err)
	}

	// Build simplified index list.
	type indexInfo struct {
		Name      string `json:"name"`
		ID        string `json:"collection_id"`
		CreatedAt string `json:"created_at"`
	}

	infos := make([]indexInfo, len(indexes))
	for i := range indexes {
		infos[i] = indexInfo{
			Name:      indexes[i].Name,
			ID:        indexes[i].ID,
			CreatedAt: indexes[i].CreatedAt.Format(time.RFC3339),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling indexes: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleStatsResource returns statistics for a specific index.
func (s *Server) handleStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Index == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract indexName from URI: ragdex://indexes/{indexName}/stats
	indexName := extractIndexName(req.Params.URI)
	if indexName == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	stats, err := s.ports.Index.Stats(ctx, indexName)
	if err != nil {
		return nil, fmt.Errorf("getting index stats: %w", err)
	}

	out := struct {
		Name       string `json:"name"`
		PointCount int    `json:"point_count"`
		Dimensions int    `json:"dimensions"`
	}{indexName, stats.PointCount, stats.Dimensions}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling stats: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractIndexName extracts the index name from a URI like ragdex://indexes/{indexName}/stats.
func extractIndexName(uri string) string {
	const prefix = uriScheme + "indexes/"
	const suffix = "/stats"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
