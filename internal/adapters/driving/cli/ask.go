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
	askTopK        int
	askFinalM      int
	askKWWeight    float64
	askSourceType  string
	askFilePath    string
	askTag         string
	askJSON        bool
	askShowContext bool
)

var askCmd = &cobra.Command{
	Use:   "ask [index] [question]",
	Short: "Ask a question against an index",
	Long: `Answers a natural-language question using the index as context.

The question is first clarified into a refined semantic query and a
set of keyword search terms, hybrid retrieval gathers the most
relevant chunks, and the LLM synthesizes an answer grounded in them.
Without a configured LLM the command falls back to listing the
retrieved chunks.`,
	Args: cobra.ExactArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVar(&askTopK, "top-k", 0, "candidate pool size (0 = default)")
	askCmd.Flags().IntVarP(&askFinalM, "limit", "n", 0, "context chunks used for the answer (0 = default)")
	askCmd.Flags().Float64Var(&askKWWeight, "keyword-weight", -1, "BM25 share of the fused score in [0,1] (-1 = default)")
	askCmd.Flags().StringVar(&askSourceType, "source-type", "", "only chunks with this source type (e.g. .md)")
	askCmd.Flags().StringVar(&askFilePath, "file-path", "", "only chunks from this file path")
	askCmd.Flags().StringVar(&askTag, "tag", "", "only chunks carrying this tag")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output answer as JSON")
	askCmd.Flags().BoolVar(&askShowContext, "show-context", false, "print the retrieved chunks after the answer")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	indexName, question := args[0], args[1]
	opts := driving.RetrieveOptions{
		TopK:   askTopK,
		FinalM: askFinalM,
		Filter: domain.Filter{
			SourceType: askSourceType,
			FilePath:   askFilePath,
			Tag:        askTag,
		},
	}
	if askKWWeight >= 0 {
		w := askKWWeight
		opts.KeywordWeight = &w
	}

	answer, err := queryService.Ask(cmd.Context(), indexName, question, opts)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}

	return outputAnswerText(cmd, answer)
}

// answerOutput is the JSON shape for one answer.
type answerOutput struct {
	Answer       string            `json:"answer"`
	Intent       string            `json:"intent,omitempty"`
	RefinedQuery string            `json:"refined_query,omitempty"`
	Sources      []candidateOutput `json:"sources"`
}

func outputAnswerJSON(cmd *cobra.Command, answer *driving.Answer) error {
	out := answerOutput{
		Answer:       answer.Text,
		Intent:       answer.Intent,
		RefinedQuery: answer.RefinedQuery,
		Sources:      candidateOutputs(answer.Candidates),
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, answer *driving.Answer) error {
	cmd.Println(answer.Text)

	if len(answer.Candidates) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i := range answer.Candidates {
			p := answer.Candidates[i].Point
			cmd.Printf("  [%d] %s#%d (%.3f)\n", i+1, p.Payload.FilePath, p.Payload.ChunkIndex, answer.Candidates[i].FusedScore)
		}
	}

	if askShowContext && len(answer.Candidates) > 0 {
		cmd.Println()
		cmd.Println("Context:")
		for i := range answer.Candidates {
			cmd.Printf("  [%d] %s\n", i+1, snippet(answer.Candidates[i].Point.Payload.Text, 300))
		}
	}

	return nil
}
