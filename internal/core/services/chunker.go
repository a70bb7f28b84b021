package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ragdex-cli/internal/logger"
)

// elementWiseTypes are source types that get one chunk per element.
// Splitting further would break semantic units a reader expects to
// cite: a statement block, a notebook cell.
var elementWiseTypes = map[string]bool{
	".go": true, ".py": true, ".js": true, ".ts": true, ".java": true,
	".c": true, ".h": true, ".cpp": true, ".hpp": true, ".rs": true,
	".rb": true, ".sh": true, ".ipynb": true,
}

// Chunker partitions a parsed document into retrievable chunks.
//
// The policy is dispatched by source type (file extension,
// case-insensitive): code and notebook types keep per-element
// granularity; prose types (markdown, reStructuredText and the default
// for anything unrecognised) merge elements into title-aligned
// sections via the Segmenter collaborator.
//
// Two invariants hold for every policy: chunk order equals element
// order, and no element is dropped silently.
type Chunker struct {
	segmenter driven.Segmenter
}

// NewChunker creates a chunker using the given title-aware segmenter.
func NewChunker(segmenter driven.Segmenter) *Chunker {
	return &Chunker{segmenter: segmenter}
}

// Chunk partitions the document per the type policy.
func (c *Chunker) Chunk(doc domain.Document) ([]domain.Chunk, error) {
	if len(doc.Elements) == 0 {
		return nil, nil
	}

	sourceType := strings.ToLower(filepath.Ext(doc.SourcePath))

	if elementWiseTypes[sourceType] {
		return elementChunks(doc.Elements), nil
	}
	return c.titleChunks(doc.Elements)
}

// elementChunks emits one chunk per element, unmodified, in order.
func elementChunks(elements []domain.TextElement) []domain.Chunk {
	chunks := make([]domain.Chunk, 0, len(elements))
	for _, el := range elements {
		if el.Text == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{Text: el.Text})
	}
	return chunks
}

// titleChunks merges consecutive elements into one chunk per
// title-aligned section.
func (c *Chunker) titleChunks(elements []domain.TextElement) ([]domain.Chunk, error) {
	if c.segmenter == nil {
		return nil, fmt.Errorf("%w: segmenter not configured", domain.ErrInvalidInput)
	}

	sections := c.segmenter.Segment(elements)

	// Coverage check: segmentation must neither drop nor invent
	// elements. A miscounting segmenter is reported, not papered over.
	total := 0
	for _, sec := range sections {
		total += len(sec)
	}
	if total != len(elements) {
		return nil, fmt.Errorf("segmenter covered %d of %d elements", total, len(elements))
	}

	chunks := make([]domain.Chunk, 0, len(sections))
	for _, sec := range sections {
		parts := make([]string, 0, len(sec))
		for _, el := range sec {
			if el.Text != "" {
				parts = append(parts, el.Text)
			}
		}
		text := strings.Join(parts, "\n\n")
		if text == "" {
			logger.Debug("Skipping empty section of %d elements", len(sec))
			continue
		}
		chunks = append(chunks, domain.Chunk{Text: text})
	}

	return chunks, nil
}
