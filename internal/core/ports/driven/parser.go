package driven

import (
	"context"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
)

// Parser turns one file into a parsed Document.
// Each parser handles specific file extensions.
type Parser interface {
	// SupportedExtensions returns the lowercased extensions this
	// parser handles, including the leading dot. Empty means the
	// parser is a fallback for any extension.
	SupportedExtensions() []string

	// Parse reads the file at path and returns its ordered elements.
	// A failure affects that file only; ingestion of other files
	// continues.
	Parse(ctx context.Context, path string) (*domain.Document, error)
}

// ParserRegistry selects the parser for a file by extension.
// Extension-specific parsers win over the fallback.
type ParserRegistry interface {
	// Parse dispatches to the best matching parser.
	Parse(ctx context.Context, path string) (*domain.Document, error)

	// Register adds a parser to the registry.
	Register(parser Parser)
}

// Segmenter groups document elements into title-aligned sections:
// consecutive elements merge into one section until a heading element
// starts the next. The heading-detection heuristic belongs here, not
// in the chunker.
type Segmenter interface {
	// Segment partitions elements into sections, preserving element
	// order. Every element appears in exactly one section.
	Segment(elements []domain.TextElement) [][]domain.TextElement
}
