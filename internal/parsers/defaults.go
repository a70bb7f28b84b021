package parsers

import (
	"github.com/custodia-labs/ragdex-cli/internal/parsers/code"
	"github.com/custodia-labs/ragdex-cli/internal/parsers/markdown"
	"github.com/custodia-labs/ragdex-cli/internal/parsers/notebook"
	"github.com/custodia-labs/ragdex-cli/internal/parsers/plaintext"
	"github.com/custodia-labs/ragdex-cli/internal/parsers/rst"
)

// NewDefaultRegistry creates a registry with all built-in parsers.
// Plain text is the fallback for unrecognised extensions.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(rst.New())
	r.Register(code.New())
	r.Register(notebook.New())
	return r
}
