// Command ragdex is the entry point for the ragdex CLI. It wires the
// driven adapters (config, prompts, embedding, LLM, vector store,
// index registry) to the core services and hands them to the command
// tree.
package main

import (
	"fmt"
	"os"

	configfile "github.com/custodia-labs/ragdex-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragdex-cli/internal/adapters/driven/embedding"
	ollamaembed "github.com/custodia-labs/ragdex-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/ragdex-cli/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/ragdex-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/ragdex-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/ragdex-cli/internal/adapters/driven/llm/openai"
	registryfile "github.com/custodia-labs/ragdex-cli/internal/adapters/driven/registry/file"
	"github.com/custodia-labs/ragdex-cli/internal/adapters/driven/vectorstore/qdrant"
	"github.com/custodia-labs/ragdex-cli/internal/adapters/driven/vectorstore/sqlite"
	"github.com/custodia-labs/ragdex-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ragdex-cli/internal/core/services"
	"github.com/custodia-labs/ragdex-cli/internal/parsers"
	"github.com/custodia-labs/ragdex-cli/internal/parsers/segment"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("initialising config store: %w", err)
	}

	promptStore, err := configfile.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("initialising prompt store: %w", err)
	}

	registry, err := registryfile.NewRegistry("")
	if err != nil {
		return fmt.Errorf("initialising index registry: %w", err)
	}

	store, closeStore, err := buildVectorStore(configStore)
	if err != nil {
		return fmt.Errorf("initialising vector store: %w", err)
	}
	if closeStore != nil {
		defer closeStore() //nolint:errcheck
	}

	embedder, err := buildEmbedder(configStore)
	if err != nil {
		return fmt.Errorf("initialising embedding service: %w", err)
	}

	llmService := buildLLM(configStore, promptStore)

	chunker := services.NewChunker(segment.New())
	indexer := services.NewIndexer(embedder, store)

	var retrieverOpts []services.RetrieverOption
	if _, ok := configStore.Get("retrieval.keyword_weight"); ok {
		retrieverOpts = append(retrieverOpts, services.WithKeywordWeight(configStore.GetFloat64("retrieval.keyword_weight")))
	}
	retriever := services.NewHybridRetriever(embedder, store, retrieverOpts...)

	pipeline := services.NewPipeline(
		parsers.NewDefaultRegistry(),
		chunker,
		indexer,
		retriever,
		registry,
		llmService,
	)
	collections := services.NewCollectionService(registry, store, embedder)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Index:   collections,
		Ingest:  pipeline,
		Query:   pipeline,
		Config:  configStore,
		Prompts: promptStore,
	})

	return cli.Execute()
}

// buildVectorStore selects the store backend from configuration.
// Defaults to the local SQLite store.
func buildVectorStore(cfg driven.ConfigStore) (driven.VectorStore, func() error, error) {
	switch backend := cfg.GetString("store.backend"); backend {
	case "", "sqlite":
		store, err := sqlite.NewStore("")
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "qdrant":
		store := qdrant.NewStore(qdrant.Config{
			BaseURL: cfg.GetString("store.qdrant_url"),
			APIKey:  cfg.GetString("store.qdrant_api_key"),
		})
		return store, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown vector store backend %q", backend)
	}
}

// buildEmbedder selects the embedding provider from configuration.
// Defaults to a local Ollama instance. Hosted providers are wrapped in
// a rate limiter.
func buildEmbedder(cfg driven.ConfigStore) (driven.EmbeddingService, error) {
	switch provider := cfg.GetString("embedding.provider"); provider {
	case "", "ollama":
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: cfg.GetString("embedding.base_url"),
			Model:   cfg.GetString("embedding.model"),
		}), nil
	case "openai":
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  cfg.GetString("embedding.api_key"),
			BaseURL: cfg.GetString("embedding.base_url"),
			Model:   cfg.GetString("embedding.model"),
		})
		if err != nil {
			return nil, err
		}
		return embedding.NewRateLimited(svc, embedding.DefaultRateLimit), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}

// buildLLM selects the LLM provider from configuration. Returns nil
// when none is configured or the configuration is incomplete; the
// query pipeline degrades gracefully without one.
func buildLLM(cfg driven.ConfigStore, prompts driven.PromptStore) driven.LLMService {
	switch cfg.GetString("llm.provider") {
	case "ollama":
		svc := ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
		})
		svc.SetPromptStore(prompts)
		return svc
	case "openai":
		svc, err := openaillm.NewLLMService(openaillm.Config{
			APIKey:  cfg.GetString("llm.api_key"),
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
		})
		if err != nil {
			return nil
		}
		svc.SetPromptStore(prompts)
		return svc
	case "anthropic":
		svc, err := anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  cfg.GetString("llm.api_key"),
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
		})
		if err != nil {
			return nil
		}
		svc.SetPromptStore(prompts)
		return svc
	default:
		return nil
	}
}
