package retriever

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"resume-rag/internal/embedding"
	"resume-rag/internal/labeler"
	"resume-rag/internal/models"
	"resume-rag/internal/vectorstore"
)

// Retriever answers skill queries: embed the query once, fetch nearest
// chunks from the store, attach resolved candidate names and return the
// results sorted by ascending distance.
type Retriever struct {
	store    vectorstore.Store
	embedder embedding.Embedder
	labeler  *labeler.Labeler
	perDocK  int
}

func New(store vectorstore.Store, embedder embedding.Embedder, lb *labeler.Labeler, perDocK int) *Retriever {
	if perDocK <= 0 {
		perDocK = 2
	}
	return &Retriever{store: store, embedder: embedder, labeler: lb, perDocK: perDocK}
}

// Search returns ranked chunk results for the query. An empty store
// yields an empty list, not an error; callers decide how to present
// that.
func (r *Retriever) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	entries, err := r.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read store: %w", err)
	}
	if len(entries) == 0 {
		return []models.SearchResult{}, nil
	}

	queryEmbedding, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	documents := map[string]bool{}
	for _, e := range entries {
		documents[e.Source] = true
	}
	k := r.perDocK * len(documents)

	hits, err := r.store.Search(ctx, queryEmbedding, k)
	if err != nil {
		return nil, fmt.Errorf("failed to search store: %w", err)
	}

	labeled, err := r.labeler.Label(ctx, entries)
	if err != nil {
		return nil, err
	}
	nameByDoc := map[string]string{}
	for _, c := range labeled {
		nameByDoc[c.Document] = c.Name
	}

	// cap hits per document so one long resume cannot crowd out the rest
	perDoc := map[string]int{}
	results := make([]models.SearchResult, 0, len(hits))
	for _, h := range hits {
		if perDoc[h.Source] >= r.perDocK {
			continue
		}
		perDoc[h.Source]++
		results = append(results, models.SearchResult{
			Document: h.Source,
			Content:  labeler.Sanitize(h.Content),
			Distance: h.Distance,
			Name:     nameByDoc[h.Source],
			Chunk:    h.Chunk,
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Distance < results[j].Distance })
	log.Debug().Str("query", query).Int("results", len(results)).Msg("Search complete")
	return results, nil
}
