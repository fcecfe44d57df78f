package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"resume-rag/internal/embedding"
	"resume-rag/internal/parser"
	"resume-rag/internal/vectorstore"
)

// MaxFileSize is the hard cap on uploaded resumes.
const MaxFileSize = 15 * 1024 * 1024 // 15 MiB

var (
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrEmptyFilename   = errors.New("no selected file")
)

// Ingestor validates uploads, persists them to the upload directory,
// extracts and chunks the text and indexes the chunk embeddings.
type Ingestor struct {
	store        vectorstore.Store
	embedder     embedding.Embedder
	uploadDir    string
	chunkSize    int
	chunkOverlap int
	extract      func(path string) (string, error)
}

func New(store vectorstore.Store, embedder embedding.Embedder, uploadDir string, chunkSize, chunkOverlap int) *Ingestor {
	return &Ingestor{
		store:        store,
		embedder:     embedder,
		uploadDir:    uploadDir,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		extract:      parser.ExtractText,
	}
}

// Ingest processes one uploaded resume and returns the number of chunks
// created. Re-uploading a filename replaces its previous chunks. The
// file is written to the upload directory before the size check runs;
// an oversized file is removed again, leaving no trace in the index.
func (ig *Ingestor) Ingest(ctx context.Context, filename string, r io.Reader) (int, error) {
	if filename == "" {
		return 0, ErrEmptyFilename
	}
	filename = filepath.Base(filename)
	if !allowedFile(filename) {
		return 0, ErrInvalidFileType
	}

	path := filepath.Join(ig.uploadDir, filename)
	if err := saveFile(path, r); err != nil {
		return 0, fmt.Errorf("failed to save file: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if stat.Size() > MaxFileSize {
		if err := os.Remove(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to remove oversized file")
		}
		return 0, ErrFileTooLarge
	}

	text, err := ig.extract(path)
	if err != nil {
		return 0, fmt.Errorf("failed to parse pdf: %w", err)
	}

	chunks := parser.SplitText(text, ig.chunkSize, ig.chunkOverlap)
	entries := make([]vectorstore.Entry, 0, len(chunks))
	for i, chunk := range chunks {
		vec, err := ig.embedder.EmbedQuery(ctx, chunk)
		if err != nil {
			return 0, fmt.Errorf("failed to embed chunk: %w", err)
		}
		entries = append(entries, vectorstore.Entry{
			ID:        vectorstore.EntryID(filename, i+1),
			Source:    filename,
			Chunk:     i + 1,
			Content:   chunk,
			Embedding: vec,
		})
	}

	// re-uploads replace the document: drop the previous chunks so the
	// index never mixes two versions of the same source
	if _, err := ig.store.Remove(ctx, filename); err != nil {
		return 0, fmt.Errorf("failed to remove previous chunks: %w", err)
	}
	if err := ig.store.Add(ctx, entries); err != nil {
		return 0, fmt.Errorf("failed to store chunks: %w", err)
	}

	log.Info().Str("file", filename).Int("chunks", len(entries)).Msg("Resume ingested")
	return len(entries), nil
}

// Delete removes every chunk of the named document. The second return
// is false when the document was never ingested.
func (ig *Ingestor) Delete(ctx context.Context, filename string) (bool, error) {
	removed, err := ig.store.Remove(ctx, filepath.Base(filename))
	if err != nil {
		return false, err
	}
	return removed > 0, nil
}

func allowedFile(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".pdf"
}

func saveFile(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, r)
	return err
}
