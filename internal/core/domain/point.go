package domain

// Payload is the stored metadata for a point: the chunk text plus its
// ChunkMetadata. Consumers build citations from FilePath and Tags, so
// absent values are stored as empty string / empty slice explicitly
// rather than omitted.
type Payload struct {
	// Text is the chunk content.
	Text string `json:"text"`

	// FilePath is the source document path.
	FilePath string `json:"file_path"`

	// ChunkIndex is the 0-based position within the document.
	ChunkIndex int `json:"chunk_index"`

	// SourceType is the lowercased file extension including the dot.
	SourceType string `json:"source_type"`

	// Tags are free-form labels.
	Tags []string `json:"tags"`

	// CommitHash is the optional VCS revision.
	CommitHash string `json:"commit_hash"`
}

// Point is the persisted unit in a vector collection.
//
// ID is a content address: a deterministic digest of the chunk text, so
// identical text always maps to the same point regardless of source
// document or ingestion run. Re-ingesting identical content overwrites
// rather than duplicates. A point is deleted only with its collection.
type Point struct {
	// ID is the content-addressed identifier (UUID form).
	ID string

	// Vector is the embedding. All vectors in one collection share
	// the same length.
	Vector []float32

	// Payload is the stored text and metadata.
	Payload Payload
}

// NewPayload combines chunk text with its metadata.
func NewPayload(text string, meta ChunkMetadata) Payload {
	tags := meta.Tags
	if tags == nil {
		tags = []string{}
	}
	return Payload{
		Text:       text,
		FilePath:   meta.FilePath,
		ChunkIndex: meta.ChunkIndex,
		SourceType: meta.SourceType,
		Tags:       tags,
		CommitHash: meta.CommitHash,
	}
}
