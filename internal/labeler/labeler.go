package labeler

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"resume-rag/internal/llmservice"
	"resume-rag/internal/models"
	"resume-rag/internal/vectorstore"
)

// Extractor resolves a candidate name from the head of a resume.
// Implementations are interchangeable; an empty string means no name
// was found.
type Extractor interface {
	ExtractName(ctx context.Context, text string) (string, error)
}

// Labeler assigns one candidate name per source document: the name is
// extracted from chunk 1 and propagated to every chunk of the same
// document.
type Labeler struct {
	extractor Extractor
}

func New(extractor Extractor) *Labeler {
	return &Labeler{extractor: extractor}
}

// Label turns stored entries into labeled chunks. Presentation noise
// (newlines, bullets) is stripped from the content. Documents without a
// chunk 1 keep an empty name.
func (l *Labeler) Label(ctx context.Context, entries []vectorstore.Entry) ([]models.LabeledChunk, error) {
	chunks := make([]models.LabeledChunk, len(entries))
	for i, e := range entries {
		chunks[i] = models.LabeledChunk{
			Document: e.Source,
			Chunk:    e.Chunk,
			Content:  Sanitize(e.Content),
		}
	}

	names := map[string]string{}
	for _, c := range chunks {
		if c.Chunk != 1 {
			continue
		}
		name, err := l.extractor.ExtractName(ctx, c.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to extract name for %s: %w", c.Document, err)
		}
		names[c.Document] = name
	}

	for i := range chunks {
		chunks[i].Name = names[chunks[i].Document]
	}
	return chunks, nil
}

// Names returns the resolved candidate names, one per document.
func Names(chunks []models.LabeledChunk) []string {
	seen := map[string]bool{}
	var names []string
	for _, c := range chunks {
		if c.Name == "" || seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		names = append(names, c.Name)
	}
	return names
}

// Sanitize replaces newlines and bullet characters with spaces so
// chunk content renders on one line.
func Sanitize(content string) string {
	content = strings.ReplaceAll(content, "\n", " ")
	return strings.ReplaceAll(content, "•", " ")
}

// LLMExtractor asks the hosted chat model for the candidate name using
// a fixed few-shot prompt over the first 150 characters of the chunk.
type LLMExtractor struct {
	client llmservice.Completer
}

func NewLLMExtractor(client llmservice.Completer) *LLMExtractor {
	return &LLMExtractor{client: client}
}

func (e *LLMExtractor) ExtractName(ctx context.Context, text string) (string, error) {
	// truncate on a rune boundary so accented names never produce a
	// broken trailing byte in the prompt
	head := text
	if runes := []rune(head); len(runes) > models.NameExtractionInputLimit {
		head = string(runes[:models.NameExtractionInputLimit])
	}
	raw, err := e.client.Complete(ctx, "", fmt.Sprintf(models.NameExtractionPrompt, head))
	if err != nil {
		return "", err
	}
	name := ValidateName(raw)
	if name == "" {
		log.Warn().Str("raw", raw).Msg("Model returned an unusable name, dropping it")
	}
	return name, nil
}

var (
	thinkRe      = regexp.MustCompile(`(?s)<think>.*?</think>`)
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// ValidateName is the trust boundary for model output: reasoning
// blocks and tags are stripped, whitespace collapsed, and anything
// that does not look like a short single-line name becomes the empty
// string.
func ValidateName(raw string) string {
	name := thinkRe.ReplaceAllString(raw, " ")
	name = tagRe.ReplaceAllString(name, " ")
	name = whitespaceRe.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return ""
	}
	return name
}

// capitalized word run at the head of a resume, 2 to 5 words
var headNameRe = regexp.MustCompile(`^\s*((?:\p{Lu}[\p{L}'-]*)(?:\s+\p{Lu}[\p{L}'-]*){1,4})`)

// HeuristicExtractor finds the leading run of capitalized words, which
// on resumes is almost always the candidate's name. It trades the NER
// model of the hosted setup for a dependency-free strategy.
type HeuristicExtractor struct{}

func NewHeuristicExtractor() *HeuristicExtractor { return &HeuristicExtractor{} }

func (e *HeuristicExtractor) ExtractName(ctx context.Context, text string) (string, error) {
	m := headNameRe.FindStringSubmatch(text)
	if m == nil {
		return "", nil
	}
	return strings.TrimSpace(m[1]), nil
}
