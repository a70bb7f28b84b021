package domain

// ElementKind classifies a parsed text element.
type ElementKind string

const (
	// ElementText is ordinary narrative text (a paragraph).
	ElementText ElementKind = "text"

	// ElementTitle is a heading. Title elements start a new section
	// during title-aware chunking.
	ElementTitle ElementKind = "title"

	// ElementCode is a source-code block or statement group.
	ElementCode ElementKind = "code"

	// ElementCell is a notebook cell.
	ElementCell ElementKind = "cell"
)

// TextElement is one parsed unit of a document: a paragraph, heading,
// code block or notebook cell. Elements are owned by their Document and
// never mutated after creation.
type TextElement struct {
	// Kind classifies the element.
	Kind ElementKind

	// Text is the element content.
	Text string
}

// Document is the output of the parser: a source path plus its ordered
// text elements. Immutable; scoped to one ingestion call.
type Document struct {
	// SourcePath is the original file path.
	SourcePath string

	// Elements is the ordered sequence of parsed elements.
	Elements []TextElement
}

// Chunk is a contiguous span of document content sized for retrieval
// and embedding. Chunk boundaries never span two documents.
type Chunk struct {
	// Text is the chunk content. Always non-empty.
	Text string
}

// ChunkMetadata describes a chunk's provenance. It is one-to-one with
// the Chunk at the same ordinal position in an indexing batch.
type ChunkMetadata struct {
	// FilePath is the source document path.
	FilePath string

	// ChunkIndex is the 0-based position within the document.
	ChunkIndex int

	// SourceType is the lowercased file extension, including the
	// leading dot (".md", ".go"). Empty for extensionless files.
	SourceType string

	// Tags are free-form labels attached at ingestion time.
	// Absent tags are an empty slice, never omitted.
	Tags []string

	// CommitHash optionally records the VCS revision the document
	// was ingested from.
	CommitHash string
}
