package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driven"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Inspect LLM prompt templates",
	Long: `Shows the prompt templates used for query clarification and answer
synthesis. Templates can be customised by editing the files under
~/.ragdex/prompts/.`,
	RunE: runPromptsList,
}

var promptsShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Print a prompt template",
	Args:  cobra.ExactArgs(1),
	RunE:  runPromptsShow,
}

func init() {
	promptsCmd.AddCommand(promptsShowCmd)
	rootCmd.AddCommand(promptsCmd)
}

func runPromptsList(cmd *cobra.Command, _ []string) error {
	cmd.Println("Available prompts:")
	cmd.Printf("  %s     - query clarification system prompt\n", driven.PromptClarify)
	cmd.Printf("  %s  - answer synthesis template\n", driven.PromptSynthesize)
	cmd.Println()
	cmd.Println("Use 'ragdex prompts show <name>' to print one.")
	return nil
}

func runPromptsShow(cmd *cobra.Command, args []string) error {
	if promptStore == nil {
		return errors.New("prompt store not configured")
	}

	prompt, err := promptStore.Load(args[0])
	if err != nil {
		return fmt.Errorf("load prompt failed: %w", err)
	}

	cmd.Println(prompt)
	return nil
}
