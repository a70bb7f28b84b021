// Package domain defines the core business entities for ragdex.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A parsed document as an ordered sequence of text elements
//   - Chunk: A retrievable unit of document text
//   - Point: The persisted unit in a vector collection
//   - ScoredCandidate: A retrieval result carrying both relevance signals
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
