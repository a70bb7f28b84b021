// Package cli provides the cobra-based command line interface for
// ragdex. Commands are thin adapters: they parse flags, call the
// driving ports and format output. All business logic lives in the
// core services.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ragdex-cli/internal/logger"
)

// version is the build version, injected via SetVersion at startup.
var version = "dev"

// Services wired in by the composition root. Commands check for nil
// and fail with a clear message when a service was not configured.
var (
	indexService  driving.IndexService
	ingestService driving.IngestService
	queryService  driving.QueryService
	configStore   driven.ConfigStore
	promptStore   driven.PromptStore
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "ragdex",
	Short: "Index documents and query them with hybrid retrieval",
	Long: `Ragdex builds local RAG indexes from your documents and answers
questions against them.

Documents are parsed, chunked, embedded and stored in a vector
collection. Queries combine semantic (vector) and keyword (BM25)
relevance into a single fused ranking, optionally refined and
synthesized by an LLM.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Services aggregates everything the commands need. A single injection
// point keeps the composition root small.
type Services struct {
	Index   driving.IndexService
	Ingest  driving.IngestService
	Query   driving.QueryService
	Config  driven.ConfigStore
	Prompts driven.PromptStore
}

// SetServices wires core services into the command tree. Must be
// called before Execute.
func SetServices(s Services) {
	indexService = s.Index
	ingestService = s.Ingest
	queryService = s.Query
	configStore = s.Config
	promptStore = s.Prompts
}

// SetVersion sets the build version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
