package markdown

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
)

func parse(t *testing.T, content string) *domain.Document {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	doc, err := New().Parse(context.Background(), path)
	require.NoError(t, err)
	return doc
}

func TestParse_HeadingsAndParagraphs(t *testing.T) {
	doc := parse(t, "# Intro\n\nfirst paragraph\n\n## Details\n\nsecond paragraph\nstill second\n")

	require.Len(t, doc.Elements, 4)
	assert.Equal(t, domain.ElementTitle, doc.Elements[0].Kind)
	assert.Equal(t, "Intro", doc.Elements[0].Text)
	assert.Equal(t, domain.ElementText, doc.Elements[1].Kind)
	assert.Equal(t, "first paragraph", doc.Elements[1].Text)
	assert.Equal(t, domain.ElementTitle, doc.Elements[2].Kind)
	assert.Equal(t, "Details", doc.Elements[2].Text)
	assert.Equal(t, "second paragraph\nstill second", doc.Elements[3].Text)
}

func TestParse_CodeFenceNotMisreadAsHeading(t *testing.T) {
	doc := parse(t, "# Usage\n\n```sh\n# this is a comment, not a heading\necho hi\n```\n")

	require.Len(t, doc.Elements, 2)
	assert.Equal(t, domain.ElementTitle, doc.Elements[0].Kind)
	assert.Equal(t, domain.ElementText, doc.Elements[1].Kind)
	assert.Contains(t, doc.Elements[1].Text, "this is a comment")
}

func TestParse_NoHeadings(t *testing.T) {
	doc := parse(t, "just one paragraph\n\nand another\n")

	require.Len(t, doc.Elements, 2)
	for _, el := range doc.Elements {
		assert.Equal(t, domain.ElementText, el.Kind)
	}
}

func TestParse_EmptyFile(t *testing.T) {
	doc := parse(t, "")
	assert.Empty(t, doc.Elements)
}

func TestParse_CRLF(t *testing.T) {
	doc := parse(t, "# Title\r\n\r\nbody\r\n")

	require.Len(t, doc.Elements, 2)
	assert.Equal(t, "Title", doc.Elements[0].Text)
	assert.Equal(t, "body", doc.Elements[1].Text)
}
