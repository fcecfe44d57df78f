package vectorstore

import (
	"context"
	"fmt"
)

// Entry is one stored chunk: its vector plus the metadata needed to
// group chunks back into documents.
type Entry struct {
	ID        string
	Source    string
	Chunk     int
	Content   string
	Embedding []float32
}

// Hit is a search match. Distance is ascending-is-better regardless of
// the backend's native metric.
type Hit struct {
	Entry
	Distance float32
}

// Store is the single contract every backend implements: append-only
// adds, removal by source document, k-nearest search and full
// enumeration for labeling.
type Store interface {
	Add(ctx context.Context, entries []Entry) error
	// Remove deletes every entry whose source equals source and
	// reports how many were removed; 0 means the document was never
	// ingested.
	Remove(ctx context.Context, source string) (int, error)
	Search(ctx context.Context, embedding []float32, k int) ([]Hit, error)
	All(ctx context.Context) ([]Entry, error)
	Close() error
}

// EntryID builds the canonical identifier for a chunk of a source
// document, also used as the persisted key by the chromem backend.
func EntryID(source string, chunk int) string {
	return fmt.Sprintf("%s_chunk_%d", source, chunk)
}
