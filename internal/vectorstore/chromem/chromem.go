package chromem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"sync"

	chromemgo "github.com/philippgille/chromem-go"

	"resume-rag/internal/vectorstore"
)

const compress = false

// Store persists entries in a chromem-go collection on disk, surviving
// restarts. Document ids encode "{source}_chunk_{index}"; a sidecar
// manifest records how many chunks each source has so the store can
// enumerate them again after a restart.
type Store struct {
	mu            sync.RWMutex
	db            *chromemgo.DB
	collection    *chromemgo.Collection
	dbPath        string
	encryptionKey string
	manifestPath  string
	sources       map[string]int // source -> chunk count
}

// NewStore opens (or creates) the persistent database at dbPath and the
// named collection inside it.
func NewStore(dbPath, collectionName, encryptionKey string) (*Store, error) {
	db, err := chromemgo.NewPersistentDB(dbPath, compress)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %v", err)
	}
	c, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %v", err)
	}

	s := &Store{
		db:            db,
		collection:    c,
		dbPath:        dbPath,
		encryptionKey: encryptionKey,
		manifestPath:  filepath.Join(dbPath, collectionName+".manifest.json"),
		sources:       map[string]int{},
	}
	if err := s.loadManifest(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Add(ctx context.Context, entries []vectorstore.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]chromemgo.Document, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, chromemgo.Document{
			ID:      e.ID,
			Content: e.Content,
			Metadata: map[string]string{
				"source": e.Source,
				"chunk":  strconv.Itoa(e.Chunk),
			},
			Embedding: e.Embedding,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %v", err)
	}
	for _, e := range entries {
		if e.Chunk > s.sources[e.Source] {
			s.sources[e.Source] = e.Chunk
		}
	}
	return s.saveManifest()
}

func (s *Store) Remove(ctx context.Context, source string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count, ok := s.sources[source]
	if !ok {
		return 0, nil
	}
	if err := s.collection.Delete(ctx, map[string]string{"source": source}, nil); err != nil {
		return 0, fmt.Errorf("failed to delete documents: %v", err)
	}
	delete(s.sources, source)
	if err := s.saveManifest(); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) Search(ctx context.Context, embedding []float32, k int) ([]vectorstore.Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := s.collection.Count()
	if total == 0 {
		return nil, nil
	}
	if k <= 0 || k > total {
		k = total
	}
	results, err := s.collection.QueryEmbedding(ctx, embedding, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %v", err)
	}

	hits := make([]vectorstore.Hit, 0, len(results))
	for _, r := range results {
		chunk, _ := strconv.Atoi(r.Metadata["chunk"])
		hits = append(hits, vectorstore.Hit{
			Entry: vectorstore.Entry{
				ID:        r.ID,
				Source:    r.Metadata["source"],
				Chunk:     chunk,
				Content:   r.Content,
				Embedding: r.Embedding,
			},
			// chromem ranks by cosine similarity (higher = closer);
			// flip it so callers always sort ascending.
			Distance: 1 - r.Similarity,
		})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits, nil
}

func (s *Store) All(ctx context.Context) ([]vectorstore.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sources := make([]string, 0, len(s.sources))
	for src := range s.sources {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	var entries []vectorstore.Entry
	for _, src := range sources {
		for i := 1; i <= s.sources[src]; i++ {
			doc, err := s.collection.GetByID(ctx, vectorstore.EntryID(src, i))
			if err != nil {
				return nil, fmt.Errorf("failed to get document: %v", err)
			}
			entries = append(entries, vectorstore.Entry{
				ID:        doc.ID,
				Source:    src,
				Chunk:     i,
				Content:   doc.Content,
				Embedding: doc.Embedding,
			})
		}
	}
	return entries, nil
}

// Export writes an encrypted backup of the collection next to the
// database directory. Requires an encryption key.
func (s *Store) Export(ctx context.Context) error {
	if s.encryptionKey == "" {
		return fmt.Errorf("encryption key is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	target := filepath.Join(s.dbPath, s.collection.Name+".chromem")
	if err := s.db.ExportToFile(target, s.compressFlag(), s.encryptionKey, s.collection.Name); err != nil {
		return fmt.Errorf("failed to export database: %v", err)
	}
	return nil
}

// Close writes the encrypted backup when a key is configured; the
// collection itself is already persisted on every mutation.
func (s *Store) Close() error {
	if s.encryptionKey == "" {
		return nil
	}
	return s.Export(context.Background())
}

func (s *Store) compressFlag() bool { return compress }

func (s *Store) loadManifest() error {
	data, err := os.ReadFile(s.manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, &s.sources)
}

func (s *Store) saveManifest() error {
	data, err := json.Marshal(s.sources)
	if err != nil {
		return err
	}
	return os.WriteFile(s.manifestPath, data, 0o644)
}
