// Package llm provides shared helpers for LLM service adapters.
package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driven"
)

// Embedded default prompts, used when no PromptStore is configured or
// a named prompt cannot be loaded.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const (
	// DefaultClarifyPrompt is the system prompt for query clarification.
	DefaultClarifyPrompt = `You are a query analysis and refinement engine for a Retrieval-Augmented Generation system with hybrid (keyword + semantic) search.

Analyze the user's query:

1. Classify its fundamental intent (fact-seeking, explanation, comparison, summarization).
2. Extract key named entities, their relationships and attributes.
3. Generate a comprehensive list of search terms: direct keywords, synonyms and related technical concepts, for BM25 keyword matching.
4. Formulate a refined, descriptive query for the semantic embedding model, prefixed with a task descriptor (e.g. "Find a detailed explanation of...").

Your final output MUST be a single, valid JSON object with exactly these keys and no other text:

* intent: (string) the classified intent of the query.
* refined_query_for_embedding: (string) the optimized query for the vector embedding model.
* search_terms: (list of strings) the expanded keywords and concepts for hybrid search.`

	// DefaultSynthesizePrompt is the answer synthesis template. It
	// takes two format arguments: the context block and the question.
	DefaultSynthesizePrompt = `You are an expert assistant answering user queries based strictly on the provided context.

Each context chunk includes metadata: file path, source type, tags, and chunk ID.

Use this information to cite your sources in the answer explicitly by referencing file paths and tags.

Do NOT answer beyond the provided context.

---

Context chunks:
%s

Question:
%s

Answer with references to the source chunks:`
)

// ParseClarification decodes a clarification response. Models often
// wrap JSON in a markdown code fence despite instructions; the fence
// is stripped before decoding.
func ParseClarification(raw string) (*driven.Clarification, error) {
	cleaned := StripCodeFence(raw)

	var c driven.Clarification
	if err := json.Unmarshal([]byte(cleaned), &c); err != nil {
		return nil, fmt.Errorf("parse clarification output: %w", err)
	}
	if c.RefinedQuery == "" {
		return nil, fmt.Errorf("parse clarification output: missing refined_query_for_embedding")
	}
	return &c, nil
}

// StripCodeFence removes a surrounding markdown code fence, with or
// without a language tag, leaving other text untouched.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// Drop the language tag on the opening fence line.
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ContextBlock formats retrieved candidates as the context section of
// the synthesis prompt. Each chunk carries the metadata the model is
// instructed to cite.
func ContextBlock(candidates []domain.ScoredCandidate) string {
	parts := make([]string, len(candidates))
	for i, c := range candidates {
		parts[i] = fmt.Sprintf(`
Chunk ID: %s
File Path: %s
Source Type: %s
Tags: %s

Content:
%s
`,
			c.Point.ID,
			c.Point.Payload.FilePath,
			c.Point.Payload.SourceType,
			strings.Join(c.Point.Payload.Tags, ", "),
			c.Point.Payload.Text,
		)
	}
	return strings.Join(parts, "\n---\n")
}
