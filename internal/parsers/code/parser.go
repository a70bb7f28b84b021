// Package code provides a parser for source-code files.
package code

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ragdex-cli/internal/parsers/plaintext"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Extensions lists the source-code file types handled here. These
// types get one-chunk-per-element granularity downstream, so the
// element split must not break semantic units a reader would cite.
var Extensions = []string{
	".go", ".py", ".js", ".ts", ".java",
	".c", ".h", ".cpp", ".hpp", ".rs", ".rb", ".sh",
}

// Parser splits source files into blank-line-delimited block elements:
// a function with its doc comment, a type declaration, an import block.
type Parser struct{}

// New creates a new source-code parser.
func New() *Parser {
	return &Parser{}
}

// SupportedExtensions returns the extensions this parser handles.
func (p *Parser) SupportedExtensions() []string {
	return Extensions
}

// Parse reads the file and emits one code element per block.
func (p *Parser) Parse(_ context.Context, path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return &domain.Document{
		SourcePath: path,
		Elements:   plaintext.SplitParagraphs(string(data), domain.ElementCode),
	}, nil
}
