package pgvector

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"resume-rag/internal/config"
	"resume-rag/internal/vectorstore"
)

const vectorSize = 384

type document struct {
	bun.BaseModel `bun:"table:documents,alias:d"`
	ID            int64     `bun:"id,pk,autoincrement"`
	DocID         string    `bun:"doc_id,notnull"`
	Source        string    `bun:"source,notnull"`
	Chunk         int       `bun:"chunk,notnull"`
	Content       string    `bun:"content,notnull"`
	Embedding     []float32 `bun:"embedding,notnull,type:vector(384)"`
	Distance      float32   `bun:"distance,scanonly"`
}

// Store keeps entries in a postgres table with a pgvector column.
// Nearest-neighbor ordering uses the `<->` Euclidean operator, so
// distances are ascending-is-better like the other backends.
type Store struct {
	db *bun.DB
}

func NewStore(ctx context.Context, cfg *config.DatabaseConfig) (*Store, error) {
	sqldb, err := connect(cfg)
	if err != nil {
		return nil, err
	}
	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	s := &Store{db: db}
	if err := s.init(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func connect(cfg *config.DatabaseConfig) (*sql.DB, error) {
	dsn := cfg.URL + "?sslmode=disable"
	return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn), pgdriver.WithPassword(cfg.Password))), nil
}

func (s *Store) init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().Model((*document)(nil)).IfNotExists().Exec(ctx)
	return err
}

func (s *Store) Add(ctx context.Context, entries []vectorstore.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]document, len(entries))
	for i, e := range entries {
		if len(e.Embedding) != vectorSize {
			return fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(e.Embedding), vectorSize)
		}
		docs[i] = document{
			DocID:     e.ID,
			Source:    e.Source,
			Chunk:     e.Chunk,
			Content:   e.Content,
			Embedding: e.Embedding,
		}
	}
	_, err := s.db.NewInsert().Model(&docs).Exec(ctx)
	return err
}

func (s *Store) Remove(ctx context.Context, source string) (int, error) {
	res, err := s.db.NewDelete().Model((*document)(nil)).Where("source = ?", source).Exec(ctx)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *Store) Search(ctx context.Context, embedding []float32, k int) ([]vectorstore.Hit, error) {
	if k <= 0 {
		k = 10
	}
	var docs []document
	err := s.db.NewSelect().
		Model(&docs).
		ColumnExpr("d.*").
		ColumnExpr("embedding <-> ? AS distance", embedding).
		OrderExpr("embedding <-> ?", embedding).
		Limit(k).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	hits := make([]vectorstore.Hit, len(docs))
	for i, d := range docs {
		hits[i] = vectorstore.Hit{Entry: toEntry(d), Distance: d.Distance}
	}
	return hits, nil
}

func (s *Store) All(ctx context.Context) ([]vectorstore.Entry, error) {
	var docs []document
	err := s.db.NewSelect().
		Model(&docs).
		OrderExpr("source ASC, chunk ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]vectorstore.Entry, len(docs))
	for i, d := range docs {
		entries[i] = toEntry(d)
	}
	return entries, nil
}

func (s *Store) Close() error { return s.db.Close() }

func toEntry(d document) vectorstore.Entry {
	return vectorstore.Entry{
		ID:        d.DocID,
		Source:    d.Source,
		Chunk:     d.Chunk,
		Content:   d.Content,
		Embedding: d.Embedding,
	}
}
