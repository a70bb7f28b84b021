package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driving"
)

var (
	ingestTags    []string
	ingestCommit  string
	ingestWorkers int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [index] [path]",
	Short: "Ingest documents into an index",
	Long: `Parses, chunks, embeds and stores every supported document under
the given path (a file or a directory walked recursively).

Chunks are content-addressed: re-ingesting unchanged documents
overwrites existing chunks instead of duplicating them. A document
that fails to parse or embed is reported and skipped; it never aborts
the rest of the run.`,
	Args: cobra.ExactArgs(2),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringSliceVarP(&ingestTags, "tag", "t", nil, "tag to attach to every chunk (repeatable)")
	ingestCmd.Flags().StringVar(&ingestCommit, "commit-hash", "", "VCS revision to record on every chunk")
	ingestCmd.Flags().IntVarP(&ingestWorkers, "workers", "w", 0, "concurrent documents (0 = default)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	indexName, path := args[0], args[1]
	opts := driving.IngestOptions{
		Tags:       ingestTags,
		CommitHash: ingestCommit,
		Workers:    ingestWorkers,
	}

	report, err := ingestService.Ingest(cmd.Context(), indexName, path, opts)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingested %d document(s), %d chunk(s) into %q\n",
		report.DocumentsProcessed, report.ChunksIndexed, indexName)

	if report.Failed() {
		cmd.Printf("\n%d document(s) failed:\n", len(report.Failures))
		for _, f := range report.Failures {
			cmd.Printf("  %s (%s): %v\n", f.Path, f.Stage, f.Err)
		}
	}

	return nil
}
