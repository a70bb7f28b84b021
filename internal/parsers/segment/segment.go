// Package segment provides title-aware segmentation of parsed
// elements: consecutive elements merge into one section until a title
// element starts the next. It implements the driven.Segmenter port.
package segment

import (
	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driven"
)

// Ensure Segmenter implements the interface.
var _ driven.Segmenter = (*Segmenter)(nil)

// Segmenter groups elements into title-aligned sections.
type Segmenter struct{}

// New creates a new title-aware segmenter.
func New() *Segmenter {
	return &Segmenter{}
}

// Segment partitions elements into sections. A title element always
// opens a new section and stays attached to the content that follows
// it. Elements before the first title form a leading section, so every
// element appears in exactly one section and order is preserved.
func (s *Segmenter) Segment(elements []domain.TextElement) [][]domain.TextElement {
	if len(elements) == 0 {
		return nil
	}

	var sections [][]domain.TextElement
	var current []domain.TextElement

	for _, el := range elements {
		if el.Kind == domain.ElementTitle && len(current) > 0 {
			sections = append(sections, current)
			current = nil
		}
		current = append(current, el)
	}
	if len(current) > 0 {
		sections = append(sections, current)
	}

	return sections
}
