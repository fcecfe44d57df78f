// Package apiclient is the typed HTTP client the front end uses to
// talk to the resume API.
package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"resume-rag/internal/models"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 120 * time.Second},
	}
}

// Health reports whether the API answers its liveness probe with "OK".
func (c *Client) Health() bool {
	resp, err := c.http.Get(c.baseURL + "/health")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false
	}
	return resp.StatusCode == http.StatusOK && strings.TrimSpace(string(body)) == "OK"
}

// Upload posts one PDF as multipart form data and returns the API's
// confirmation message.
func (c *Client) Upload(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	resp, err := c.http.Post(c.baseURL+"/upload_pdf", mw.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("upload failed: %s", firstNonEmpty(out.Error, out.Message, resp.Status))
	}
	return out.Message, nil
}

// Delete removes a document's chunks. The message distinguishes a real
// delete from the not-found case; both are successes to the API.
func (c *Client) Delete(filename string) (string, error) {
	req, err := http.NewRequest(http.MethodDelete, c.baseURL+"/curriculum/"+url.PathEscape(filename), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("delete failed: %s", firstNonEmpty(out.Message, resp.Status))
	}
	return out.Message, nil
}

// Search returns ranked chunk results for a skill query.
func (c *Client) Search(query string) ([]models.SearchResult, error) {
	resp, err := c.http.Get(c.baseURL + "/search?query=" + url.QueryEscape(query))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var out struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&out)
		return nil, fmt.Errorf("search failed: %s", firstNonEmpty(out.Error, resp.Status))
	}
	var results []models.SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, err
	}
	return results, nil
}

// Labeled returns every stored chunk with its resolved candidate name.
func (c *Client) Labeled() ([]models.LabeledChunk, error) {
	resp, err := c.http.Get(c.baseURL + "/labeled")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("labeled failed: %s", resp.Status)
	}
	var chunks []models.LabeledChunk
	if err := json.NewDecoder(resp.Body).Decode(&chunks); err != nil {
		return nil, err
	}
	return chunks, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
