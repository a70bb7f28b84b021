// Package notebook provides a parser for Jupyter notebooks (.ipynb).
package notebook

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// nbFile is the subset of the notebook JSON format we read.
type nbFile struct {
	Cells []nbCell `json:"cells"`
}

// nbCell is one notebook cell. Source is a list of lines in the
// canonical format, but single-string sources exist in the wild.
type nbCell struct {
	CellType string          `json:"cell_type"`
	Source   json.RawMessage `json:"source"`
}

// Parser emits one cell element per notebook cell.
// Cell granularity is preserved: each cell is a semantic unit a
// reader expects to cite, so no further splitting happens downstream.
type Parser struct{}

// New creates a new notebook parser.
func New() *Parser {
	return &Parser{}
}

// SupportedExtensions returns the extensions this parser handles.
func (p *Parser) SupportedExtensions() []string {
	return []string{".ipynb"}
}

// Parse reads the notebook and emits one element per non-empty cell,
// in cell order.
func (p *Parser) Parse(_ context.Context, path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var nb nbFile
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("decode notebook: %w", err)
	}

	var elements []domain.TextElement
	for _, cell := range nb.Cells {
		text, err := cellText(cell.Source)
		if err != nil {
			return nil, fmt.Errorf("decode cell source: %w", err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		elements = append(elements, domain.TextElement{
			Kind: domain.ElementCell,
			Text: text,
		})
	}

	return &domain.Document{
		SourcePath: path,
		Elements:   elements,
	}, nil
}

// cellText joins a cell source, which is either a string or a list of
// line strings.
func cellText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	var lines []string
	if err := json.Unmarshal(raw, &lines); err == nil {
		return strings.Join(lines, ""), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	return s, nil
}
