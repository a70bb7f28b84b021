package rst

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
	path := filepath.Join(t.TempDir(), "doc.rst")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	doc, err := New().Parse(context.Background(), path)
	require.NoError(t, err)
	return doc
}

func TestParse_UnderlinedTitles(t *testing.T) {
	doc := parse(t, "Overview\n========\n\nsome prose\n\nInstallation\n------------\n\nmore prose\n")

	require.Len(t, doc.Elements, 4)
	assert.Equal(t, domain.ElementTitle, doc.Elements[0].Kind)
	assert.Equal(t, "Overview", doc.Elements[0].Text)
	assert.Equal(t, domain.ElementText, doc.Elements[1].Kind)
	assert.Equal(t, domain.ElementTitle, doc.Elements[2].Kind)
	assert.Equal(t, "Installation", doc.Elements[2].Text)
}

func TestParse_ShortAdornmentIsNotTitle(t *testing.T) {
	// The adornment must be at least as long as the title text.
	doc := parse(t, "A long line of text\n==\n\nbody\n")

	for _, el := range doc.Elements {
		assert.Equal(t, domain.ElementText, el.Kind)
	}
}

func TestIsAdornment(t *testing.T) {
	assert.True(t, isAdornment("=====", 5))
	assert.True(t, isAdornment("------", 4))
	assert.False(t, isAdornment("==-==", 5))
	assert.False(t, isAdornment("====", 5))
	assert.False(t, isAdornment("=", 1))
	assert.False(t, isAdornment("abcde", 5))
}
