package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driving"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Index    string `json:"index" jsonschema:"the name of the index to query"`
	Question string `json:"question" jsonschema:"the natural-language question to answer"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of context chunks (default 20)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer       string        `json:"answer"`
	Intent       string        `json:"intent,omitempty"`
	RefinedQuery string        `json:"refined_query,omitempty"`
	Sources      []ChunkOutput `json:"sources"`
}

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Index      string `json:"index" jsonschema:"the name of the index to search"`
	Query      string `json:"query" jsonschema:"the search query"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of results (default 10)"`
	SourceType string `json:"source_type,omitempty" jsonschema:"only chunks with this source type, e.g. .md"`
	Tag        string `json:"tag,omitempty" jsonschema:"only chunks carrying this tag"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Results []ChunkOutput `json:"results"`
	Count   int           `json:"count"`
}

// ChunkOutput represents a single retrieved chunk.
type ChunkOutput struct {
	ChunkID    string   `json:"chunk_id"`
	FilePath   string   `json:"file_path"`
	ChunkIndex int      `json:"chunk_index"`
	SourceType string   `json:"source_type"`
	Tags       []string `json:"tags"`
	Score      float64  `json:"score"`
	Content    string   `json:"content"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using a RAG index as context",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Retrieve the most relevant chunks from a RAG index",
	}, s.handleRetrieve)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	opts := driving.RetrieveOptions{FinalM: input.Limit}

	answer, err := s.ports.Query.Ask(ctx, input.Index, input.Question, opts)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:       answer.Text,
		Intent:       answer.Intent,
		RefinedQuery: answer.RefinedQuery,
		Sources:      chunkOutputs(answer.Candidates),
	}, nil
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	opts := driving.RetrieveOptions{
		FinalM: limit,
		Filter: domain.Filter{
			SourceType: input.SourceType,
			Tag:        input.Tag,
		},
	}

	results, err := s.ports.Query.Retrieve(ctx, input.Index, input.Query, input.Query, opts)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	return nil, RetrieveOutput{
		Results: chunkOutputs(results),
		Count:   len(results),
	}, nil
}

func chunkOutputs(candidates []domain.ScoredCandidate) []ChunkOutput {
	out := make([]ChunkOutput, len(candidates))
	for i := range candidates {
		p := candidates[i].Point
		tags := p.Payload.Tags
		if tags == nil {
			// Untagged chunks serialize as an empty array, not null.
			tags = []string{}
		}
		out[i] = ChunkOutput{
			ChunkID:    p.ID,
			FilePath:   p.Payload.FilePath,
			ChunkIndex: p.Payload.ChunkIndex,
			SourceType: p.Payload.SourceType,
			Tags:       tags,
			Score:      candidates[i].FusedScore,
			Content:    p.Payload.Text,
		}
	}
	return out
}
