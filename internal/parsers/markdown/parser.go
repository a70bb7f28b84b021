// Package markdown provides a parser for Markdown documents that
// surfaces headings as title elements for title-aware chunking.
package markdown

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// atxHeading matches ATX headings (# through ######).
var atxHeading = regexp.MustCompile(`^#{1,6}\s+(.*)$`)

// Parser splits Markdown into heading and paragraph elements.
type Parser struct{}

// New creates a new Markdown parser.
func New() *Parser {
	return &Parser{}
}

// SupportedExtensions returns the extensions this parser handles.
func (p *Parser) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

// Parse reads the file and emits title elements for headings and text
// elements for the paragraphs between them. Fenced code blocks are kept
// intact as single text elements so heading markers inside them are not
// misread as structure.
func (p *Parser) Parse(_ context.Context, path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return &domain.Document{
		SourcePath: path,
		Elements:   parseElements(string(data)),
	}, nil
}

func parseElements(content string) []domain.TextElement {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")

	var elements []domain.TextElement
	var para []string
	inFence := false

	flush := func() {
		text := strings.TrimSpace(strings.Join(para, "\n"))
		para = para[:0]
		if text != "" {
			elements = append(elements, domain.TextElement{
				Kind: domain.ElementText,
				Text: text,
			})
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			para = append(para, line)
			continue
		}
		if inFence {
			para = append(para, line)
			continue
		}

		if m := atxHeading.FindStringSubmatch(trimmed); m != nil {
			flush()
			title := strings.TrimSpace(m[1])
			if title != "" {
				elements = append(elements, domain.TextElement{
					Kind: domain.ElementTitle,
					Text: title,
				})
			}
			continue
		}

		if trimmed == "" {
			flush()
			continue
		}

		para = append(para, line)
	}
	flush()

	return elements
}
