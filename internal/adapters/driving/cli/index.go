package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
)

var (
	listJSON    bool
	statsJSON   bool
	deleteForce bool
)

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new index",
	Long: `Creates a named index backed by a new vector collection.

The collection is sized to the dimensionality of the configured
embedding model, so the embedding service must be reachable. Indexes
are never created implicitly by ingestion.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all indexes",
	RunE:  runList,
}

var statsCmd = &cobra.Command{
	Use:   "stats [name]",
	Short: "Show index statistics",
	Long:  `Reports the number of stored chunks and the vector dimensionality.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete an index",
	Long:  `Removes the index registration and its vector collection.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip confirmation prompt")
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(deleteCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	collection, err := indexService.Create(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("create index failed: %w", err)
	}

	cmd.Printf("Created index %q\n", collection.Name)
	cmd.Printf("  Collection: %s\n", collection.ID)
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	indexes, err := indexService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list indexes failed: %w", err)
	}

	if listJSON {
		data, err := json.MarshalIndent(indexes, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal indexes: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputIndexTable(cmd, indexes)
}

func outputIndexTable(cmd *cobra.Command, indexes []domain.RAGCollection) error {
	if len(indexes) == 0 {
		cmd.Println("No indexes found. Create one with 'ragdex create <name>'.")
		return nil
	}

	cmd.Println("Indexes:")
	cmd.Println()
	for i := range indexes {
		cmd.Printf("  %s\n", indexes[i].Name)
		cmd.Printf("      Collection: %s\n", indexes[i].ID)
		cmd.Printf("      Created:    %s\n", indexes[i].CreatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	stats, err := indexService.Stats(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	if statsJSON {
		out := struct {
			Name       string `json:"name"`
			PointCount int    `json:"point_count"`
			Dimensions int    `json:"dimensions"`
		}{args[0], stats.PointCount, stats.Dimensions}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Index: %s\n", args[0])
	cmd.Printf("  Chunks:     %d\n", stats.PointCount)
	cmd.Printf("  Dimensions: %d\n", stats.Dimensions)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	name := args[0]
	if !deleteForce {
		cmd.Printf("Delete index %q and all of its chunks? [y/N]: ", name)
		reader := bufio.NewReader(cmd.InOrStdin())
		input, _ := reader.ReadString('\n') //nolint:errcheck // CLI prompt, EOF means no
		if answer := strings.ToLower(strings.TrimSpace(input)); answer != "y" && answer != "yes" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := indexService.Delete(cmd.Context(), name); err != nil {
		return fmt.Errorf("delete index failed: %w", err)
	}

	cmd.Printf("Deleted index %q\n", name)
	return nil
}
