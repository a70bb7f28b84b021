package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Configuration keys. Stored in ~/.ragdex/config.toml via the config
// store's dot notation.
const (
	keyEmbeddingProvider = "embedding.provider"
	keyEmbeddingModel    = "embedding.model"
	keyEmbeddingBaseURL  = "embedding.base_url"
	keyEmbeddingAPIKey   = "embedding.api_key"

	keyLLMProvider = "llm.provider"
	keyLLMModel    = "llm.model"
	keyLLMBaseURL  = "llm.base_url"
	keyLLMAPIKey   = "llm.api_key"

	keyStoreBackend      = "store.backend"
	keyStoreQdrantURL    = "store.qdrant_url"
	keyStoreQdrantAPIKey = "store.qdrant_api_key"

	keyKeywordWeight = "retrieval.keyword_weight"
)

// providerChoice describes one selectable provider.
type providerChoice struct {
	name           string
	description    string
	requiresAPIKey bool
	defaultBaseURL string
}

var embeddingProviders = []providerChoice{
	{"ollama", "Ollama (local, no API key)", false, "http://localhost:11434"},
	{"openai", "OpenAI (hosted, requires API key)", true, ""},
}

var llmProviders = []providerChoice{
	{"ollama", "Ollama (local, no API key)", false, "http://localhost:11434"},
	{"openai", "OpenAI (hosted, requires API key)", true, ""},
	{"anthropic", "Anthropic (hosted, requires API key)", true, ""},
}

var defaultEmbeddingModels = map[string]string{
	"ollama": "nomic-embed-text",
	"openai": "text-embedding-3-small",
}

var defaultLLMModels = map[string]string{
	"ollama":    "llama3.2",
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-3-5-haiku-latest",
}

var storeBackends = []providerChoice{
	{"sqlite", "SQLite (local file, no setup)", false, ""},
	{"qdrant", "Qdrant (remote vector database)", false, "http://localhost:6333"},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure embedding, LLM and storage settings.

Use subcommands to configure specific settings interactively.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the embedding provider used for indexing and retrieval.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider used for query clarification and answer synthesis.`,
	RunE:  runSettingsLLM,
}

var settingsStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Configure vector store backend",
	RunE:  runSettingsStore,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a single configuration value",
	Long: `Set one configuration key directly, bypassing the interactive flow.

Numeric values are stored as numbers, "true"/"false" as booleans and
everything else as a string.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsStoreCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	printProviderSettings(cmd, keyEmbeddingProvider, keyEmbeddingModel, keyEmbeddingBaseURL, keyEmbeddingAPIKey)
	cmd.Println()

	cmd.Println("[LLM]")
	printProviderSettings(cmd, keyLLMProvider, keyLLMModel, keyLLMBaseURL, keyLLMAPIKey)
	cmd.Println()

	cmd.Println("[Vector Store]")
	backend := configStore.GetString(keyStoreBackend)
	if backend == "" {
		backend = "sqlite"
	}
	cmd.Printf("  Backend: %s\n", backend)
	if backend == "qdrant" {
		cmd.Printf("  URL: %s\n", configStore.GetString(keyStoreQdrantURL))
		if key := configStore.GetString(keyStoreQdrantAPIKey); key != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(key))
		}
	}
	cmd.Println()

	cmd.Println("[Retrieval]")
	if w, ok := configStore.Get(keyKeywordWeight); ok {
		cmd.Printf("  Keyword weight: %v\n", w)
	} else {
		cmd.Println("  Keyword weight: (default)")
	}

	return nil
}

func printProviderSettings(cmd *cobra.Command, providerKey, modelKey, baseURLKey, apiKeyKey string) {
	provider := configStore.GetString(providerKey)
	if provider == "" {
		cmd.Println("  Provider: (not configured)")
		return
	}
	cmd.Printf("  Provider: %s\n", provider)
	cmd.Printf("  Model: %s\n", configStore.GetString(modelKey))
	if url := configStore.GetString(baseURLKey); url != "" {
		cmd.Printf("  Base URL: %s\n", url)
	}
	if key := configStore.GetString(apiKeyKey); key != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(key))
	}
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	return configureProvider(cmd, "Embedding", embeddingProviders, defaultEmbeddingModels,
		keyEmbeddingProvider, keyEmbeddingModel, keyEmbeddingBaseURL, keyEmbeddingAPIKey)
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	return configureProvider(cmd, "LLM", llmProviders, defaultLLMModels,
		keyLLMProvider, keyLLMModel, keyLLMBaseURL, keyLLMAPIKey)
}

func configureProvider(
	cmd *cobra.Command,
	label string,
	providers []providerChoice,
	defaultModels map[string]string,
	providerKey, modelKey, baseURLKey, apiKeyKey string,
) error {
	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Printf("Select %s Provider\n", label)
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.description)
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selected := providers[idx-1]

	defaultModel := defaultModels[selected.name]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	baseURL := ""
	if selected.defaultBaseURL != "" {
		cmd.Printf("Enter base URL [%s]: ", selected.defaultBaseURL)
		baseURL = readLine(reader)
		if baseURL == "" {
			baseURL = selected.defaultBaseURL
		}
	}

	var apiKey string
	if selected.requiresAPIKey {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := configStore.Set(providerKey, selected.name); err != nil {
		return fmt.Errorf("failed to save provider: %w", err)
	}
	if err := configStore.Set(modelKey, model); err != nil {
		return fmt.Errorf("failed to save model: %w", err)
	}
	if baseURL != "" {
		if err := configStore.Set(baseURLKey, baseURL); err != nil {
			return fmt.Errorf("failed to save base URL: %w", err)
		}
	}
	if apiKey != "" {
		if err := configStore.Set(apiKeyKey, apiKey); err != nil {
			return fmt.Errorf("failed to save API key: %w", err)
		}
	}

	cmd.Printf("%s provider configured: %s (%s)\n", label, selected.name, model)
	cmd.Println("Restart ragdex for the change to take effect.")
	return nil
}

func runSettingsStore(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Select Vector Store Backend")
	for i, b := range storeBackends {
		cmd.Printf("  %d. %s\n", i+1, b.description)
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(storeBackends), 1)
	selected := storeBackends[idx-1]

	if err := configStore.Set(keyStoreBackend, selected.name); err != nil {
		return fmt.Errorf("failed to save backend: %w", err)
	}

	if selected.name == "qdrant" {
		cmd.Printf("Enter Qdrant URL [%s]: ", selected.defaultBaseURL)
		url := readLine(reader)
		if url == "" {
			url = selected.defaultBaseURL
		}
		if err := configStore.Set(keyStoreQdrantURL, url); err != nil {
			return fmt.Errorf("failed to save Qdrant URL: %w", err)
		}

		cmd.Print("Enter API key (empty for none): ")
		apiKey := readPassword(reader)
		cmd.Println()
		if apiKey != "" {
			if err := configStore.Set(keyStoreQdrantAPIKey, apiKey); err != nil {
				return fmt.Errorf("failed to save API key: %w", err)
			}
		}
	}

	cmd.Printf("Vector store backend set to: %s\n", selected.name)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]
	var value any = raw
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		value = i
	} else if f, err := strconv.ParseFloat(raw, 64); err == nil {
		value = f
	} else if b, err := strconv.ParseBool(raw); err == nil {
		value = b
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when stdin is a terminal, falling
// back to a plain line read otherwise (pipes, tests).
//
//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
