package apiclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"resume-rag/internal/models"
)

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte("OK"))
	}))
	defer srv.Close()

	if !New(srv.URL).Health() {
		t.Fatal("expected healthy")
	}
}

func TestHealthDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if New(srv.URL).Health() {
		t.Fatal("expected unhealthy")
	}
}

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatal(err)
		}
		_, header, err := r.FormFile("file")
		if err != nil {
			t.Fatal(err)
		}
		if header.Filename != "resume.pdf" {
			t.Errorf("filename = %q", header.Filename)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"message": "PDF processed successfully, chunks created: 3"})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "resume.pdf")
	if err := os.WriteFile(path, []byte("pdf bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	msg, err := New(srv.URL).Upload(path)
	if err != nil {
		t.Fatal(err)
	}
	if msg == "" {
		t.Fatal("expected confirmation message")
	}
}

func TestUploadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid file type"})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "resume.pdf")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(srv.URL).Upload(path); err == nil {
		t.Fatal("expected error")
	}
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "Python" {
			t.Errorf("query = %q", got)
		}
		json.NewEncoder(w).Encode([]models.SearchResult{
			{Document: "joao_silva.pdf", Content: "Python", Name: "João Silva", Chunk: 1},
		})
	}))
	defer srv.Close()

	results, err := New(srv.URL).Search("Python")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Name != "João Silva" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestDeleteMessages(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		calls++
		msg := "Curriculum deleted successfully"
		if calls > 1 {
			msg = "Curriculum Not Found Within Database"
		}
		json.NewEncoder(w).Encode(map[string]string{"message": msg})
	}))
	defer srv.Close()

	c := New(srv.URL)
	msg, err := c.Delete("joao_silva.pdf")
	if err != nil || msg != "Curriculum deleted successfully" {
		t.Fatalf("first delete: %q, %v", msg, err)
	}
	msg, err = c.Delete("joao_silva.pdf")
	if err != nil || msg != "Curriculum Not Found Within Database" {
		t.Fatalf("second delete: %q, %v", msg, err)
	}
}

func TestLabeled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.LabeledChunk{
			{Document: "a.pdf", Chunk: 1, Content: "x", Name: "João Silva"},
			{Document: "a.pdf", Chunk: 2, Content: "y", Name: "João Silva"},
		})
	}))
	defer srv.Close()

	chunks, err := New(srv.URL).Labeled()
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
}
