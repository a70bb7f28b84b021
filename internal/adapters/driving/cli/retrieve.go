package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driving"
)

var (
	retrieveTopK       int
	retrieveFinalM     int
	retrieveKeyword    string
	retrieveKWWeight   float64
	retrieveSourceType string
	retrieveFilePath   string
	retrieveTag        string
	retrieveJSON       bool
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [index] [query]",
	Short: "Retrieve chunks with hybrid search",
	Long: `Performs hybrid retrieval against an index: a vector search pulls a
candidate pool, BM25 rescores it on keyword relevance, and both
signals are fused into a single ranking.

By default the query drives both the semantic and the keyword side.
Use --keyword to supply a separate keyword query.`,
	Args: cobra.ExactArgs(2),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().IntVar(&retrieveTopK, "top-k", 0, "candidate pool size (0 = default)")
	retrieveCmd.Flags().IntVarP(&retrieveFinalM, "limit", "n", 0, "maximum results returned (0 = default)")
	retrieveCmd.Flags().StringVar(&retrieveKeyword, "keyword", "", "separate keyword query (default: same as query)")
	retrieveCmd.Flags().Float64Var(&retrieveKWWeight, "keyword-weight", -1, "BM25 share of the fused score in [0,1] (-1 = default)")
	retrieveCmd.Flags().StringVar(&retrieveSourceType, "source-type", "", "only chunks with this source type (e.g. .md)")
	retrieveCmd.Flags().StringVar(&retrieveFilePath, "file-path", "", "only chunks from this file path")
	retrieveCmd.Flags().StringVar(&retrieveTag, "tag", "", "only chunks carrying this tag")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	indexName, query := args[0], args[1]
	keyword := retrieveKeyword
	if keyword == "" {
		keyword = query
	}

	opts := driving.RetrieveOptions{
		TopK:   retrieveTopK,
		FinalM: retrieveFinalM,
		Filter: domain.Filter{
			SourceType: retrieveSourceType,
			FilePath:   retrieveFilePath,
			Tag:        retrieveTag,
		},
	}
	if retrieveKWWeight >= 0 {
		w := retrieveKWWeight
		opts.KeywordWeight = &w
	}

	candidates, err := queryService.Retrieve(cmd.Context(), indexName, query, keyword, opts)
	if err != nil {
		return fmt.Errorf("retrieve failed: %w", err)
	}

	if retrieveJSON {
		return outputCandidatesJSON(cmd, candidates)
	}

	return outputCandidatesTable(cmd, candidates)
}

// candidateOutput is the JSON shape for one retrieved chunk.
type candidateOutput struct {
	ChunkID       string   `json:"chunk_id"`
	FilePath      string   `json:"file_path"`
	ChunkIndex    int      `json:"chunk_index"`
	SourceType    string   `json:"source_type"`
	Tags          []string `json:"tags"`
	Text          string   `json:"text"`
	SemanticScore float64  `json:"semantic_score"`
	KeywordScore  float64  `json:"keyword_score"`
	FusedScore    float64  `json:"fused_score"`
}

func candidateOutputs(candidates []domain.ScoredCandidate) []candidateOutput {
	out := make([]candidateOutput, len(candidates))
	for i := range candidates {
		p := candidates[i].Point
		tags := p.Payload.Tags
		if tags == nil {
			tags = []string{}
		}
		out[i] = candidateOutput{
			ChunkID:       p.ID,
			FilePath:      p.Payload.FilePath,
			ChunkIndex:    p.Payload.ChunkIndex,
			SourceType:    p.Payload.SourceType,
			Tags:          tags,
			Text:          p.Payload.Text,
			SemanticScore: candidates[i].SemanticScore,
			KeywordScore:  candidates[i].KeywordScore,
			FusedScore:    candidates[i].FusedScore,
		}
	}
	return out
}

func outputCandidatesJSON(cmd *cobra.Command, candidates []domain.ScoredCandidate) error {
	data, err := json.MarshalIndent(candidateOutputs(candidates), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputCandidatesTable(cmd *cobra.Command, candidates []domain.ScoredCandidate) error {
	if len(candidates) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range candidates {
		p := candidates[i].Point
		cmd.Printf("  [%d] %s#%d (%.3f)\n", i+1, p.Payload.FilePath, p.Payload.ChunkIndex, candidates[i].FusedScore)
		cmd.Printf("      semantic=%.3f keyword=%.3f\n", candidates[i].SemanticScore, candidates[i].KeywordScore)
		cmd.Printf("      %s\n", snippet(p.Payload.Text, 160))
		cmd.Println()
	}
	return nil
}

// snippet truncates text to maxLen runes on a single line.
func snippet(text string, maxLen int) string {
	runes := []rune(text)
	for i, r := range runes {
		if r == '\n' || r == '\r' {
			runes[i] = ' '
		}
	}
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "..."
	}
	return string(runes)
}
