// Package generator materializes a streamed {"tags":[{"tag":...}]} object
// into a tag list, first incrementally from partial JSON and then
// authoritatively from the complete response.
package generator

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/sheetsby/metadata-api/internal/model"
)

// Accumulator collects raw text chunks of a streamed tag object. Because the
// buffer only grows, the extracted list only ever appends: a reader at any
// point sees a prefix of the final list.
type Accumulator struct {
	mu   sync.Mutex
	buf  strings.Builder
	tags []string
}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Write appends a chunk and returns a copy of the tags extracted so far.
func (a *Accumulator) Write(chunk string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.buf.WriteString(chunk)
	a.tags = extractTags(a.buf.String())
	return append([]string(nil), a.tags...)
}

// Tags returns a copy of the tags extracted so far.
func (a *Accumulator) Tags() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.tags...)
}

// Finalize parses the complete buffer. The final response is authoritative:
// it replaces whatever the incremental scan produced. A buffer that never
// became valid JSON is an error.
func (a *Accumulator) Finalize() ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var list model.TagList
	if err := json.Unmarshal([]byte(a.buf.String()), &list); err != nil {
		return nil, fmt.Errorf("incomplete tag response: %w", err)
	}

	tags := make([]string, 0, len(list.Tags))
	for _, t := range list.Tags {
		if t.Tag != "" {
			tags = append(tags, t.Tag)
		}
	}
	a.tags = tags
	return append([]string(nil), tags...), nil
}

// extractTags scans a possibly-incomplete JSON document for completed string
// values of "tag" keys. An unterminated string at the buffer edge is left for
// the next scan.
func extractTags(buf string) []string {
	var tags []string
	i := 0
	for {
		j := strings.Index(buf[i:], `"tag"`)
		if j < 0 {
			break
		}
		i += j + len(`"tag"`)

		k := skipSpace(buf, i)
		if k >= len(buf) || buf[k] != ':' {
			continue
		}
		k = skipSpace(buf, k+1)
		if k >= len(buf) || buf[k] != '"' {
			continue
		}

		end, ok := scanString(buf, k)
		if !ok {
			break
		}

		var s string
		if err := json.Unmarshal([]byte(buf[k:end]), &s); err == nil && s != "" {
			tags = append(tags, s)
		}
		i = end
	}
	return tags
}

func skipSpace(buf string, i int) int {
	for i < len(buf) {
		switch buf[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

// scanString walks a JSON string starting at its opening quote and returns
// the index just past the closing quote, or false if the string is not yet
// complete.
func scanString(buf string, start int) (int, bool) {
	for i := start + 1; i < len(buf); i++ {
		switch buf[i] {
		case '\\':
			i++
		case '"':
			return i + 1, true
		}
	}
	return 0, false
}
