// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Parser: Turns a file into a parsed Document
//   - ParserRegistry: Selects the parser for a file
//   - Segmenter: Groups elements into title-aligned sections
//   - EmbeddingService: Generates vector embeddings
//   - VectorStore: Persists points and serves nearest-neighbour search
//   - CollectionRegistry: Maps index names to collection identifiers
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Query clarification and answer synthesis. Without it,
//     queries pass through unchanged and answers list raw candidates.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or parser package
package driven
