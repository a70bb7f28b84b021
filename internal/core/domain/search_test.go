package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_IsZero(t *testing.T) {
	assert.True(t, Filter{}.IsZero())
	assert.False(t, Filter{SourceType: ".md"}.IsZero())
	assert.False(t, Filter{Tag: "docs"}.IsZero())
}

func TestFilter_Matches(t *testing.T) {
	payload := Payload{
		Text:       "some content",
		FilePath:   "docs/readme.md",
		SourceType: ".md",
		Tags:       []string{"docs", "public"},
	}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter matches all", Filter{}, true},
		{"source type match", Filter{SourceType: ".md"}, true},
		{"source type mismatch", Filter{SourceType: ".go"}, false},
		{"file path match", Filter{FilePath: "docs/readme.md"}, true},
		{"file path mismatch", Filter{FilePath: "other.md"}, false},
		{"tag match", Filter{Tag: "public"}, true},
		{"tag mismatch", Filter{Tag: "private"}, false},
		{"combined all match", Filter{SourceType: ".md", Tag: "docs"}, true},
		{"combined one mismatch", Filter{SourceType: ".md", Tag: "private"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(payload))
		})
	}
}

func TestFilter_MatchesEmptyTags(t *testing.T) {
	// A payload with no tags never matches a tag filter.
	payload := Payload{Text: "x", Tags: []string{}}
	assert.False(t, Filter{Tag: "any"}.Matches(payload))
	assert.True(t, Filter{}.Matches(payload))
}
