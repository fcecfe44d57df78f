package parser

import (
	"strings"
	"testing"
)

func TestSplitTextShortContent(t *testing.T) {
	chunks := SplitText("short text", 1000, 200)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "short text" {
		t.Fatalf("unexpected chunk: %q", chunks[0])
	}
}

func TestSplitTextEmpty(t *testing.T) {
	if chunks := SplitText("", 1000, 200); chunks != nil {
		t.Fatalf("expected nil, got %v", chunks)
	}
	if chunks := SplitText("   \n\t ", 1000, 200); chunks != nil {
		t.Fatalf("expected nil for whitespace-only content, got %v", chunks)
	}
}

func TestSplitTextChunkSizeBound(t *testing.T) {
	content := strings.Repeat("palavra escrita aqui. ", 300)
	chunks := SplitText(content, 1000, 200)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 1000 {
			t.Errorf("chunk %d exceeds max size: %d", i, len(c))
		}
		if c == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
}

func TestSplitTextSnapsToSeparator(t *testing.T) {
	content := strings.Repeat("um dois tres quatro cinco ", 100)
	chunks := SplitText(content, 1000, 200)
	for i, c := range chunks[:len(chunks)-1] {
		if !strings.HasSuffix(c, " ") && !strings.HasSuffix(c, "\n") && !strings.HasSuffix(c, ".") {
			t.Errorf("chunk %d does not end on a separator: %q", i, c[len(c)-10:])
		}
	}
}

func TestSplitTextRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		content string
	}{
		{"default overlap", 1000, 200, strings.Repeat("habilidades em python e sql. ", 200)},
		{"large overlap", 1000, 500, strings.Repeat("experiencia com desenvolvimento de software\n", 120)},
		{"no separators", 100, 20, strings.Repeat("x", 950)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := strings.TrimSpace(tt.content)
			chunks := SplitText(tt.content, tt.size, tt.overlap)
			got := Reassemble(chunks, tt.size, tt.overlap)
			if got != want {
				t.Fatalf("round trip mismatch:\nwant len %d\ngot len %d", len(want), len(got))
			}
		})
	}
}

func TestSplitTextChunksAreSubstrings(t *testing.T) {
	content := strings.Repeat("analise de curriculos com busca semantica. ", 150)
	for _, c := range SplitText(content, 1000, 200) {
		if !strings.Contains(content, c) {
			t.Fatalf("chunk is not a substring of the source: %q", c[:40])
		}
	}
}

func TestSplitTextOverlapClamped(t *testing.T) {
	// overlap >= size must not loop forever
	content := strings.Repeat("a b c d e ", 200)
	chunks := SplitText(content, 100, 100)
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	got := Reassemble(chunks, 100, 100)
	if got != strings.TrimSpace(content) {
		t.Fatal("round trip mismatch with clamped overlap")
	}
}
