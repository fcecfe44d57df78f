package parser

import (
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	defaultChunkSize    = 1000 // bytes
	defaultChunkOverlap = 200  // bytes
)

// separators, in preference order, used to snap chunk boundaries
var separators = []byte{' ', '\n', '.'}

// ExtractText returns the concatenated plain text of every page of the
// PDF at path, in document order. Pages are assumed text-extractable.
func ExtractText(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return "", err
	}

	var text strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		text.WriteString(pageText)
	}
	return text.String(), nil
}

// SplitText cuts content into overlapping windows of at most maxChars
// bytes, advancing by maxChars-overlapChars each step. When a window
// does not end at the content boundary, the cut is snapped to the
// nearest preferred separator within the last tenth of the window.
func SplitText(content string, maxChars, overlapChars int) []string {
	if maxChars <= 0 {
		maxChars = defaultChunkSize
	}
	if overlapChars < 0 {
		overlapChars = defaultChunkOverlap
	}
	if overlapChars >= maxChars {
		overlapChars = maxChars / 2
	}
	content = strings.TrimSpace(content)
	contentLen := len(content)
	if contentLen == 0 {
		return nil
	}
	if contentLen <= maxChars {
		return []string{content}
	}

	stride := maxChars - overlapChars
	var chunks []string
	start := 0
	for start < contentLen {
		end := min(start+maxChars, contentLen)
		if end < contentLen {
			end = snapToSeparator(content, start, end, maxChars/10)
		}
		chunks = append(chunks, content[start:end])
		if end == contentLen {
			break
		}
		start += stride
	}
	return chunks
}

// snapToSeparator walks back at most lookBack bytes from end searching
// for the highest-priority separator, so chunks prefer to cut on a
// space over a newline over a period.
func snapToSeparator(content string, start, end, lookBack int) int {
	lookBack = min(lookBack, end-start-1)
	for _, sep := range separators {
		for i := end - 1; i >= end-lookBack; i-- {
			if content[i] == sep {
				return i + 1
			}
		}
	}
	return end
}

// Reassemble reverses SplitText: chunks share stride-determined
// overlap, so each chunk past the first contributes only the bytes
// beyond the previous chunk's end.
func Reassemble(chunks []string, maxChars, overlapChars int) string {
	if overlapChars >= maxChars {
		overlapChars = maxChars / 2
	}
	stride := maxChars - overlapChars
	var content strings.Builder
	for i, chunk := range chunks {
		if i == 0 {
			content.WriteString(chunk)
			continue
		}
		skip := len(chunks[i-1]) - stride
		if skip < 0 {
			skip = 0
		}
		if skip > len(chunk) {
			skip = len(chunk)
		}
		content.WriteString(chunk[skip:])
	}
	return content.String()
}
