package domain

// Filter restricts retrieval to points whose payload matches every
// listed equality condition. A nil or empty filter matches everything.
// Richer predicates belong to the vector store's native filter language
// and are out of core scope.
type Filter struct {
	// SourceType matches Payload.SourceType exactly when non-empty.
	SourceType string

	// FilePath matches Payload.FilePath exactly when non-empty.
	FilePath string

	// Tag matches when the payload's tag set contains it.
	Tag string
}

// IsZero reports whether the filter has no conditions.
func (f Filter) IsZero() bool {
	return f.SourceType == "" && f.FilePath == "" && f.Tag == ""
}

// Matches reports whether a payload satisfies every condition.
func (f Filter) Matches(p Payload) bool {
	if f.SourceType != "" && p.SourceType != f.SourceType {
		return false
	}
	if f.FilePath != "" && p.FilePath != f.FilePath {
		return false
	}
	if f.Tag != "" {
		found := false
		for _, t := range p.Tags {
			if t == f.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Query is one retrieval request. Transient; one per ask.
type Query struct {
	// SemanticText is embedded for vector similarity search.
	SemanticText string

	// KeywordText is tokenized for BM25 keyword scoring.
	KeywordText string

	// Filter optionally restricts the candidate pool.
	Filter Filter
}

// ScoredCandidate is one ranked retrieval result. It exists only for
// the duration of a retrieval call; ordering by FusedScore descending
// defines the result.
type ScoredCandidate struct {
	// Point is the matched point.
	Point Point

	// SemanticScore is the min-max scaled vector similarity in [0,1].
	SemanticScore float64

	// KeywordScore is the min-max scaled BM25 relevance in [0,1].
	KeywordScore float64

	// FusedScore is the weighted combination of both signals.
	FusedScore float64
}
