// Package anthropic provides an LLM service adapter using the
// Anthropic Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/ragdex-cli/internal/adapters/driven/llm"
	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-3-5-haiku-latest"
	DefaultTimeout = 120 * time.Second

	// anthropicVersion is the required API version header.
	anthropicVersion = "2023-06-01"
)

// Generation parameters per operation.
const (
	clarifyMaxTokens    = 1024
	clarifyTemperature  = 0.2
	synthesizeMaxTokens = 4096
)

// Config holds configuration for the Anthropic LLM service.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the LLM model to use (default: claude-3-5-haiku-latest).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService provides query clarification and answer synthesis using
// the Anthropic Messages API.
type LLMService struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	model       string
	promptStore driven.PromptStore
}

// messagesRequest is the Anthropic /v1/messages request format.
type messagesRequest struct {
	Model       string            `json:"model"`
	Messages    []messagesMessage `json:"messages"`
	MaxTokens   int               `json:"max_tokens"`
	System      string            `json:"system,omitempty"`
	Temperature float64           `json:"temperature,omitempty"`
}

// messagesMessage is the Anthropic message format.
type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse is the Anthropic /v1/messages response format.
type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewLLMService creates a new Anthropic LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &LLMService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses embedded default prompts.
func (s *LLMService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// ClarifyQuery rewrites the question into a refined embedding query
// plus exact search terms.
func (s *LLMService) ClarifyQuery(ctx context.Context, query string) (*driven.Clarification, error) {
	system := s.loadPrompt(driven.PromptClarify, llm.DefaultClarifyPrompt)

	raw, err := s.sendMessages(ctx, system, []messagesMessage{
		{Role: "user", Content: query},
	}, clarifyMaxTokens, clarifyTemperature)
	if err != nil {
		return nil, fmt.Errorf("clarify query: %w", err)
	}

	return llm.ParseClarification(raw)
}

// Synthesize produces an answer grounded in the given candidates.
func (s *LLMService) Synthesize(ctx context.Context, question string, candidates []domain.ScoredCandidate) (string, error) {
	template := s.loadPrompt(driven.PromptSynthesize, llm.DefaultSynthesizePrompt)
	prompt := fmt.Sprintf(template, llm.ContextBlock(candidates), question)

	raw, err := s.sendMessages(ctx, "", []messagesMessage{
		{Role: "user", Content: prompt},
	}, synthesizeMaxTokens, 0)
	if err != nil {
		return "", fmt.Errorf("synthesize answer: %w", err)
	}

	return strings.TrimSpace(raw), nil
}

// sendMessages sends a messages request and returns the text content.
func (s *LLMService) sendMessages(ctx context.Context, system string, messages []messagesMessage, maxTokens int, temperature float64) (string, error) {
	jsonBody, err := json.Marshal(messagesRequest{
		Model:       s.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		System:      system,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/v1/messages",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var msgResp messagesResponse
	if err := json.Unmarshal(body, &msgResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if msgResp.Error != nil {
		return "", fmt.Errorf("anthropic error: %s", msgResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic error (status %d): %s", resp.StatusCode, string(body))
	}

	var text strings.Builder
	for _, block := range msgResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("anthropic: no text content returned")
	}

	return text.String(), nil
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (s *LLMService) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable. Anthropic has no listing
// endpoint, so this sends a minimal message request.
func (s *LLMService) Ping(ctx context.Context) error {
	_, err := s.sendMessages(ctx, "", []messagesMessage{
		{Role: "user", Content: "ping"},
	}, 1, 0)
	if err != nil {
		return fmt.Errorf("anthropic: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
