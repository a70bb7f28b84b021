package parsers

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ParserRegistry = (*Registry)(nil)

// Registry maps file extensions to parsers.
// Extension matching is case-insensitive.
type Registry struct {
	byExt    map[string]driven.Parser
	fallback driven.Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{
		byExt: make(map[string]driven.Parser),
	}
}

// Register adds a parser to the registry. A parser reporting no
// supported extensions becomes the fallback.
func (r *Registry) Register(parser driven.Parser) {
	exts := parser.SupportedExtensions()
	if len(exts) == 0 {
		r.fallback = parser
		return
	}
	for _, ext := range exts {
		r.byExt[strings.ToLower(ext)] = parser
	}
}

// Parse dispatches to the best matching parser for path.
func (r *Registry) Parse(ctx context.Context, path string) (*domain.Document, error) {
	ext := strings.ToLower(filepath.Ext(path))

	parser, ok := r.byExt[ext]
	if !ok {
		parser = r.fallback
	}
	if parser == nil {
		return nil, fmt.Errorf("%w: no parser for %q", domain.ErrParseFailure, ext)
	}

	doc, err := parser.Parse(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrParseFailure, path, err)
	}
	return doc, nil
}
