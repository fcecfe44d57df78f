package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"resume-rag/internal/vectorstore"
)

// Store is a flat in-memory index with Euclidean distance. Entries and
// vectors live in parallel slices; all access goes through the lock so
// concurrent uploads, deletes and searches never observe partial state.
// Contents are lost on restart.
type Store struct {
	mu        sync.RWMutex
	dimension int
	entries   []vectorstore.Entry
}

func NewStore() *Store { return &Store{} }

func (s *Store) Add(ctx context.Context, entries []vectorstore.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if len(e.Embedding) == 0 {
			return fmt.Errorf("entry %s has no embedding", e.ID)
		}
		if s.dimension == 0 {
			s.dimension = len(e.Embedding)
		}
		if len(e.Embedding) != s.dimension {
			return fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(e.Embedding), s.dimension)
		}
	}
	s.entries = append(s.entries, entries...)
	return nil
}

func (s *Store) Remove(ctx context.Context, source string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.entries[:0]
	removed := 0
	for _, e := range s.entries {
		if e.Source == source {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return removed, nil
}

func (s *Store) Search(ctx context.Context, embedding []float32, k int) ([]vectorstore.Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.entries) == 0 {
		return nil, nil
	}
	if s.dimension != 0 && len(embedding) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: got %d, want %d", len(embedding), s.dimension)
	}
	if k <= 0 || k > len(s.entries) {
		k = len(s.entries)
	}

	hits := make([]vectorstore.Hit, 0, len(s.entries))
	for _, e := range s.entries {
		hits = append(hits, vectorstore.Hit{Entry: e, Distance: euclidean(e.Embedding, embedding)})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits[:k], nil
}

func (s *Store) All(ctx context.Context) ([]vectorstore.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]vectorstore.Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *Store) Close() error { return nil }

func euclidean(a, b []float32) float32 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return float32(math.Sqrt(sum))
}
