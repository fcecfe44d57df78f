// Package server exposes the resume intake and search HTTP surface.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"resume-rag/internal/ingest"
	"resume-rag/internal/labeler"
	"resume-rag/internal/llmservice"
	"resume-rag/internal/models"
	"resume-rag/internal/retriever"
	"resume-rag/internal/vectorstore"
)

// maxUploadMemory bounds the in-memory part of multipart parsing; the
// real size limit is enforced by the ingestor after the file is saved.
const maxUploadMemory = 16 << 20

// Searcher is the retrieval operation the search handler depends on.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
}

// Server wires the ingestor, retriever and labeler into HTTP handlers.
type Server struct {
	ingestor  *ingest.Ingestor
	retriever Searcher
	labeler   *labeler.Labeler
	store     vectorstore.Store
}

func New(ingestor *ingest.Ingestor, ret Searcher, lb *labeler.Labeler, store vectorstore.Store) *Server {
	return &Server{ingestor: ingestor, retriever: ret, labeler: lb, store: store}
}

var _ Searcher = (*retriever.Retriever)(nil)

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /upload_pdf", s.handleUpload)
	mux.HandleFunc("DELETE /curriculum/{filename}", s.handleDelete)
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /labeled", s.handleLabeled)
	return requestLog(mux)
}

// ListenAndServe runs the server until SIGINT/SIGTERM, then drains
// in-flight requests.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Server listening")
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return err
		}
		return s.store.Close()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Info().Msg("Health check endpoint called")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "No file part")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file part")
		return
	}
	defer file.Close()

	count, err := s.ingestor.Ingest(r.Context(), header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrEmptyFilename):
			writeError(w, http.StatusBadRequest, "No selected file")
		case errors.Is(err, ingest.ErrInvalidFileType):
			writeError(w, http.StatusBadRequest, "Invalid file type")
		case errors.Is(err, ingest.ErrFileTooLarge):
			writeError(w, http.StatusBadRequest, "File size exceeds limit")
		default:
			log.Ctx(r.Context()).Error().Err(err).Msg("Upload failed")
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": fmt.Sprintf("PDF processed successfully, chunks created: %d", count),
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")
	found, err := s.ingestor.Delete(r.Context(), filename)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("file", filename).Msg("Delete failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Error deleting document"})
		return
	}
	if !found {
		// not-found deletes answer 200 with an explanatory message
		writeJSON(w, http.StatusOK, map[string]string{"message": "Curriculum Not Found Within Database"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Curriculum deleted successfully"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "No query provided")
		return
	}

	results, err := s.retriever.Search(r.Context(), query)
	if err != nil {
		if errors.Is(err, llmservice.ErrRateLimited) {
			writeError(w, http.StatusTooManyRequests, "Limit of requests exceeded. Try again later.")
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Str("query", query).Msg("Search failed")
		writeError(w, http.StatusInternalServerError, "Failed to retrieve documents")
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleLabeled(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.All(r.Context())
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to read store")
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}
	labeled, err := s.labeler.Label(r.Context(), entries)
	if err != nil {
		if errors.Is(err, llmservice.ErrRateLimited) {
			writeError(w, http.StatusTooManyRequests, "Limit of requests exceeded. Try again later.")
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Msg("Labeling failed")
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}
	if labeled == nil {
		labeled = []models.LabeledChunk{}
	}
	writeJSON(w, http.StatusOK, labeled)
}

// requestLog tags each request with an id, puts a request-scoped
// logger into the context so handler log lines carry the same id, and
// logs method, path and duration.
func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := log.With().Str("request_id", uuid.NewString()).Logger()
		r = r.WithContext(logger.WithContext(r.Context()))
		next.ServeHTTP(w, r)
		logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}
