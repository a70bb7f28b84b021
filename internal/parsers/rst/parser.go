// Package rst provides a parser for reStructuredText documents.
package rst

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

// adornmentChars are the section adornment characters reST allows.
const adornmentChars = `=-~^"'+*#.:_` + "`"

// Parser splits reStructuredText into title and paragraph elements.
// A title is a line of text followed by an adornment line at least as
// long as the text itself.
type Parser struct{}

// New creates a new reStructuredText parser.
func New() *Parser {
	return &Parser{}
}

// SupportedExtensions returns the extensions this parser handles.
func (p *Parser) SupportedExtensions() []string {
	return []string{".rst"}
}

// Parse reads the file and emits elements with underlined section
// titles classified as title elements.
func (p *Parser) Parse(_ context.Context, path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	normalized := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(normalized, "\n")

	var elements []domain.TextElement
	var para []string

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

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flush()
			continue
		}

		// A non-empty line underlined by an adornment is a title.
		if i+1 < len(lines) && isAdornment(strings.TrimSpace(lines[i+1]), len(trimmed)) {
			flush()
			elements = append(elements, domain.TextElement{
				Kind: domain.ElementTitle,
				Text: trimmed,
			})
			i++ // consume the adornment line
			continue
		}

		para = append(para, line)
	}
	flush()

	return &domain.Document{
		SourcePath: path,
		Elements:   elements,
	}, nil
}

// isAdornment reports whether line is a run of one adornment character
// at least minLen long.
func isAdornment(line string, minLen int) bool {
	if len(line) < minLen || len(line) < 2 {
		return false
	}
	c := line[0]
	if !strings.ContainsRune(adornmentChars, rune(c)) {
		return false
	}
	for i := 1; i < len(line); i++ {
		if line[i] != c {
			return false
		}
	}
	return true
}
