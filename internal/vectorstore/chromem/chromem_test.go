package chromem

import (
	"context"
	"testing"

	"resume-rag/internal/vectorstore"
)

func entry(source string, chunk int, content string, vec []float32) vectorstore.Entry {
	return vectorstore.Entry{
		ID:        vectorstore.EntryID(source, chunk),
		Source:    source,
		Chunk:     chunk,
		Content:   content,
		Embedding: vec,
	}
}

func seed(t *testing.T, s *Store) {
	t.Helper()
	err := s.Add(context.Background(), []vectorstore.Entry{
		entry("joao_silva.pdf", 1, "João Silva | Python, SQL", []float32{1, 0, 0}),
		entry("joao_silva.pdf", 2, "Experiência com Python", []float32{0.9, 0.1, 0}),
		entry("maria_souza.pdf", 1, "Maria Souza | Java", []float32{0, 0, 1}),
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestSearchRanksByDistance(t *testing.T) {
	s, err := NewStore(t.TempDir(), "resumes", "")
	if err != nil {
		t.Fatal(err)
	}
	seed(t, s)

	hits, err := s.Search(context.Background(), []float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}
	if hits[0].ID != vectorstore.EntryID("joao_silva.pdf", 1) {
		t.Fatalf("closest hit = %s", hits[0].ID)
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Distance < hits[i-1].Distance {
			t.Fatalf("distances not ascending at %d", i)
		}
	}
}

func TestSearchEmptyCollection(t *testing.T) {
	s, err := NewStore(t.TempDir(), "resumes", "")
	if err != nil {
		t.Fatal(err)
	}
	hits, err := s.Search(context.Background(), []float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected no hits, got %d", len(hits))
	}
}

func TestAllEnumeratesInDocumentOrder(t *testing.T) {
	s, err := NewStore(t.TempDir(), "resumes", "")
	if err != nil {
		t.Fatal(err)
	}
	seed(t, s)

	entries, err := s.All(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	wantIDs := []string{
		vectorstore.EntryID("joao_silva.pdf", 1),
		vectorstore.EntryID("joao_silva.pdf", 2),
		vectorstore.EntryID("maria_souza.pdf", 1),
	}
	for i, e := range entries {
		if e.ID != wantIDs[i] {
			t.Errorf("entries[%d].ID = %s, want %s", i, e.ID, wantIDs[i])
		}
	}
	if entries[1].Content != "Experiência com Python" {
		t.Errorf("content not preserved: %q", entries[1].Content)
	}
}

func TestRemoveBySource(t *testing.T) {
	s, err := NewStore(t.TempDir(), "resumes", "")
	if err != nil {
		t.Fatal(err)
	}
	seed(t, s)
	ctx := context.Background()

	removed, err := s.Remove(ctx, "joao_silva.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}

	entries, err := s.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Source != "maria_souza.pdf" {
		t.Fatalf("unexpected entries after remove: %+v", entries)
	}

	// removing again reports nothing to do
	removed, err = s.Remove(ctx, "joao_silva.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if removed != 0 {
		t.Fatalf("expected 0 removed, got %d", removed)
	}
}

func TestReopenReloadsManifest(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, "resumes", "")
	if err != nil {
		t.Fatal(err)
	}
	seed(t, s)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewStore(dir, "resumes", "")
	if err != nil {
		t.Fatal(err)
	}
	entries, err := reopened.All(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries after reopen, got %d", len(entries))
	}

	hits, err := reopened.Search(context.Background(), []float32{0, 0, 1}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Source != "maria_souza.pdf" {
		t.Fatalf("unexpected hit after reopen: %+v", hits)
	}
}
