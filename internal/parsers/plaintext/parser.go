// Package plaintext provides the fallback parser for any text file.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser splits plain text into paragraph elements.
type Parser struct{}

// New creates a new plain text parser.
func New() *Parser {
	return &Parser{}
}

// SupportedExtensions returns nil: plaintext is the fallback parser.
func (p *Parser) SupportedExtensions() []string {
	return nil
}

// Parse reads the file and emits one text element per paragraph.
// Paragraphs are separated by blank lines.
func (p *Parser) Parse(_ context.Context, path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return &domain.Document{
		SourcePath: path,
		Elements:   SplitParagraphs(string(data), domain.ElementText),
	}, nil
}

// SplitParagraphs splits text on blank lines into elements of the
// given kind, skipping whitespace-only paragraphs.
func SplitParagraphs(text string, kind domain.ElementKind) []domain.TextElement {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")

	var elements []domain.TextElement
	for _, para := range strings.Split(normalized, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		elements = append(elements, domain.TextElement{
			Kind: kind,
			Text: para,
		})
	}
	return elements
}
