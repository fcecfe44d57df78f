package memory

import (
	"context"
	"testing"

	"resume-rag/internal/vectorstore"
)

func entry(source string, chunk int, vec []float32) vectorstore.Entry {
	return vectorstore.Entry{
		ID:        vectorstore.EntryID(source, chunk),
		Source:    source,
		Chunk:     chunk,
		Content:   "content",
		Embedding: vec,
	}
}

func TestSearchOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	err := s.Add(ctx, []vectorstore.Entry{
		entry("a.pdf", 1, []float32{0, 0, 1}),
		entry("a.pdf", 2, []float32{0, 1, 0}),
		entry("b.pdf", 1, []float32{1, 0, 0}),
	})
	if err != nil {
		t.Fatal(err)
	}

	hits, err := s.Search(ctx, []float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}
	if hits[0].Source != "b.pdf" {
		t.Fatalf("expected b.pdf first, got %s", hits[0].Source)
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Distance < hits[i-1].Distance {
			t.Fatalf("distances not ascending at %d: %v then %v", i, hits[i-1].Distance, hits[i].Distance)
		}
	}
}

func TestSearchEmptyStore(t *testing.T) {
	hits, err := NewStore().Search(context.Background(), []float32{1, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected no hits, got %d", len(hits))
	}
}

func TestSearchKLargerThanStore(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	if err := s.Add(ctx, []vectorstore.Entry{entry("a.pdf", 1, []float32{1, 0})}); err != nil {
		t.Fatal(err)
	}
	hits, err := s.Search(ctx, []float32{1, 0}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
}

func TestRemoveBySource(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	err := s.Add(ctx, []vectorstore.Entry{
		entry("a.pdf", 1, []float32{1, 0}),
		entry("a.pdf", 2, []float32{0, 1}),
		entry("b.pdf", 1, []float32{1, 1}),
	})
	if err != nil {
		t.Fatal(err)
	}

	removed, err := s.Remove(ctx, "a.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].Source != "b.pdf" {
		t.Fatalf("unexpected remaining entries: %v", all)
	}

	// removing again is a no-op, not an error
	removed, err = s.Remove(ctx, "a.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if removed != 0 {
		t.Fatalf("expected 0 removed, got %d", removed)
	}
}

func TestAddDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	if err := s.Add(ctx, []vectorstore.Entry{entry("a.pdf", 1, []float32{1, 0, 0})}); err != nil {
		t.Fatal(err)
	}
	err := s.Add(ctx, []vectorstore.Entry{entry("b.pdf", 1, []float32{1, 0})})
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestAddEmptyEmbedding(t *testing.T) {
	err := NewStore().Add(context.Background(), []vectorstore.Entry{entry("a.pdf", 1, nil)})
	if err == nil {
		t.Fatal("expected error for missing embedding")
	}
}
