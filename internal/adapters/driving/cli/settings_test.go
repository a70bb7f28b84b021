package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsCmd_HasSubcommands(t *testing.T) {
	commands := settingsCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "show")
	assert.Contains(t, commandNames, "embedding")
	assert.Contains(t, commandNames, "llm")
	assert.Contains(t, commandNames, "store")
	assert.Contains(t, commandNames, "set")
}

func TestSettingsShow_Unconfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "[Embedding]")
	assert.Contains(t, buf.String(), "Provider: (not configured)")
	assert.Contains(t, buf.String(), "Backend: sqlite")
}

func TestSettingsShow_MasksAPIKey(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	store := newMockConfigStore()
	store.values[keyEmbeddingProvider] = "openai"
	store.values[keyEmbeddingModel] = "text-embedding-3-small"
	store.values[keyEmbeddingAPIKey] = "sk-verysecretapikey"
	configStore = store

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "sk-v...ikey")
	assert.NotContains(t, buf.String(), "sk-verysecretapikey")
}

func TestSettingsEmbedding_ConfiguresOllama(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	store := newMockConfigStore()
	configStore = store

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("1\n\n\n"))
	rootCmd.SetArgs([]string{"settings", "embedding"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "ollama", store.values[keyEmbeddingProvider])
	assert.Equal(t, "nomic-embed-text", store.values[keyEmbeddingModel])
	assert.Equal(t, "http://localhost:11434", store.values[keyEmbeddingBaseURL])
	assert.Contains(t, buf.String(), "Embedding provider configured: ollama")
}

func TestSettingsLLM_ModelOverride(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	store := newMockConfigStore()
	configStore = store

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("1\nmistral\n\n"))
	rootCmd.SetArgs([]string{"settings", "llm"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "ollama", store.values[keyLLMProvider])
	assert.Equal(t, "mistral", store.values[keyLLMModel])
}

func TestSettingsStore_ConfiguresQdrant(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	store := newMockConfigStore()
	configStore = store

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("2\nhttp://qdrant.internal:6333\n\n"))
	rootCmd.SetArgs([]string{"settings", "store"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "qdrant", store.values[keyStoreBackend])
	assert.Equal(t, "http://qdrant.internal:6333", store.values[keyStoreQdrantURL])
}

func TestSettingsSet_TypedValues(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	store := newMockConfigStore()
	configStore = store

	tests := []struct {
		raw      string
		expected any
	}{
		{"0.7", 0.7},
		{"8", int64(8)},
		{"true", true},
		{"hello", "hello"},
	}

	for _, tt := range tests {
		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetArgs([]string{"settings", "set", "some.key", tt.raw})

		err := rootCmd.Execute()
		rootCmd.SetArgs(nil)

		require.NoError(t, err)
		assert.Equal(t, tt.expected, store.values["some.key"])
	}
}

func TestSettings_ConfigStoreNotConfigured(t *testing.T) {
	oldStore := configStore
	configStore = nil
	defer func() {
		configStore = oldStore
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config store not configured")
}

func TestParseChoice(t *testing.T) {
	assert.Equal(t, 1, parseChoice("", 3, 1))
	assert.Equal(t, 2, parseChoice("2", 3, 1))
	assert.Equal(t, 1, parseChoice("9", 3, 1))
	assert.Equal(t, 1, parseChoice("junk", 3, 1))
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk-v...ikey", maskAPIKey("sk-verysecretapikey"))
}
