package rag

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"resume-rag/internal/llmservice"
	"resume-rag/internal/models"
)

// Summarizer turns retrieved chunks into the model prompts used for
// skill summaries, reviewer passes and session feedback. Model output
// is returned as free text; only names pass a validation boundary,
// which happens in the labeler.
type Summarizer struct {
	client llmservice.Completer
}

func NewSummarizer(client llmservice.Completer) *Summarizer {
	return &Summarizer{client: client}
}

// Summarize groups results by candidate name, builds the XML context
// and asks the model for a per-candidate skill summary.
func (s *Summarizer) Summarize(ctx context.Context, query string, results []models.SearchResult) (string, error) {
	grouped := GroupByName(results)
	user := fmt.Sprintf("\n<context>\n\t%s\n</context>\n<query>\n\t%s\n</query>", BuildXMLContext(grouped), query)
	return s.client.Complete(ctx, models.SummarizerSystemPrompt, user)
}

// Review asks the model to re-edit a prior response without adding new
// information.
func (s *Summarizer) Review(ctx context.Context, prior string) (string, error) {
	user := fmt.Sprintf("<answer>\n%s\n</answer>", prior)
	return s.client.Complete(ctx, models.ReviewerSystemPrompt, user)
}

// Feedback synthesizes the session's exchanges into one consolidated
// summary, then redacts every known candidate name so the output can
// be shared without leaking identities.
func (s *Summarizer) Feedback(ctx context.Context, history []models.Exchange, knownNames []string) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("no exchanges to summarize")
	}
	var user strings.Builder
	for _, ex := range history {
		user.WriteString(fmt.Sprintf("<exchange>\n<query>%s</query>\n<response>%s</response>\n</exchange>\n", ex.Query, ex.Response))
	}
	out, err := s.client.Complete(ctx, models.FeedbackSystemPrompt, user.String())
	if err != nil {
		return "", err
	}
	return Redact(out, knownNames), nil
}

// GroupByName collects result contents per candidate, preserving the
// ranked order within each group.
func GroupByName(results []models.SearchResult) map[string][]string {
	grouped := map[string][]string{}
	for _, r := range results {
		name := r.Name
		if name == "" {
			name = r.Document
		}
		grouped[name] = append(grouped[name], r.Content)
	}
	return grouped
}

// BuildXMLContext renders grouped chunks in the shape the summarizer
// prompt expects: <name><chunk1>..</chunk1><chunk2>..</chunk2></name>.
func BuildXMLContext(grouped map[string][]string) string {
	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		var content strings.Builder
		for i, chunk := range grouped[name] {
			content.WriteString(fmt.Sprintf("<chunk%d>%s</chunk%d>", i+1, chunk, i+1))
		}
		b.WriteString(fmt.Sprintf("<%s>%s</%s>", name, strings.TrimSpace(content.String()), name))
	}
	return b.String()
}

// Redact replaces every known candidate name in text with a neutral
// placeholder.
func Redact(text string, names []string) string {
	for _, name := range names {
		if name == "" {
			continue
		}
		text = strings.ReplaceAll(text, name, models.RedactionPlaceholder)
	}
	return text
}
