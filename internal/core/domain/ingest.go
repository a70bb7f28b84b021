package domain

// DocumentFailure records one document that could not be ingested.
type DocumentFailure struct {
	// Path is the source file path.
	Path string

	// Stage is the pipeline stage that failed ("parse", "chunk",
	// "embed", "store").
	Stage string

	// Err is the underlying failure.
	Err error
}

// IngestReport summarises one ingestion run. A run succeeds if the
// documents that could be processed were processed; failed documents
// are reported, never silently dropped.
type IngestReport struct {
	// DocumentsProcessed counts documents fully indexed.
	DocumentsProcessed int

	// ChunksIndexed counts points upserted across all documents.
	ChunksIndexed int

	// Failures lists per-document failures.
	Failures []DocumentFailure
}

// Failed reports whether any document failed.
func (r IngestReport) Failed() bool {
	return len(r.Failures) > 0
}
