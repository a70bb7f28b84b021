package domain

import "time"

// RAGCollection identifies one vector collection. The Name is what users
// type; the ID is the opaque identifier the vector store keys on.
//
// A collection is created once by an explicit create operation and is
// never implicitly created by ingestion.
type RAGCollection struct {
	// Name is the user-facing index name. Unique within a registry.
	Name string `json:"name"`

	// ID is the opaque collection identifier in the vector store.
	ID string `json:"collection_id"`

	// CreatedAt is when the index was registered.
	CreatedAt time.Time `json:"created_at"`
}

// CollectionStats reports the state of a collection.
type CollectionStats struct {
	// PointCount is the number of persisted points.
	PointCount int

	// Dimensions is the vector length configured for the collection.
	Dimensions int
}
