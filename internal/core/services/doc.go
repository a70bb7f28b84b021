// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The three load-bearing pieces live here: the chunking-policy
// dispatch (Chunker), the content-addressed idempotent upsert
// (Indexer) and the hybrid vector+BM25 reranker (HybridRetriever).
package services
