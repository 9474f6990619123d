package ragsearch

import (
	"strings"
	"testing"
)

func doc(content string, metadata map[string]interface{}) map[string]interface{} {
	d := map[string]interface{}{"page_content": content}
	if metadata != nil {
		d["metadata"] = metadata
	}
	return d
}

func TestFormatResultsEmpty(t *testing.T) {
	if got := FormatResults(nil); got != NoContextMessage {
		t.Fatalf("nil: got %q", got)
	}
	if got := FormatResults([]interface{}{}); got != NoContextMessage {
		t.Fatalf("empty list: got %q", got)
	}
	if got := FormatResults("not a list"); got != NoContextMessage {
		t.Fatalf("non-list: got %q", got)
	}
}

func TestFormatResultsPairShape(t *testing.T) {
	data := []interface{}{
		[]interface{}{doc("The refund window is 30 days.", map[string]interface{}{"source": "policy.md"}), 0.82},
	}
	got := FormatResults(data)
	want := "1. score=0.820 source=policy.md: The refund window is 30 days."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatResultsObjectShape(t *testing.T) {
	data := []interface{}{
		map[string]interface{}{
			"document": doc("Chapter one.", map[string]interface{}{"filename": "book.pdf"}),
			"score":    0.5,
		},
		// the object itself is the document
		doc("Chapter two.", map[string]interface{}{"file_id": "book2"}),
	}
	got := FormatResults(data)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), got)
	}
	if lines[0] != "1. score=0.500 source=book.pdf: Chapter one." {
		t.Fatalf("line 1: %q", lines[0])
	}
	if lines[1] != "2. score=n/a source=book2: Chapter two." {
		t.Fatalf("line 2: %q", lines[1])
	}
}

func TestFormatResultsTruncatesLongContent(t *testing.T) {
	data := []interface{}{
		[]interface{}{doc(strings.Repeat("A", 500), nil), 0.5},
	}
	got := FormatResults(data)
	prefix := "1. score=0.500 source=unknown source: "
	if !strings.HasPrefix(got, prefix) {
		t.Fatalf("unexpected prefix: %q", got)
	}
	snippet := strings.TrimPrefix(got, prefix)
	if len(snippet) > 320 {
		t.Fatalf("snippet length %d exceeds 320", len(snippet))
	}
	if !strings.HasSuffix(snippet, "...") {
		t.Fatalf("expected ellipsis marker, got %q", snippet)
	}
}

func TestFormatResultsBreaksOnWordBoundaries(t *testing.T) {
	long := strings.Repeat("lorem ipsum dolor sit amet ", 30)
	data := []interface{}{[]interface{}{doc(long, nil), 1}}
	got := FormatResults(data)
	snippet := got[strings.Index(got, ": ")+2:]
	if len(snippet) > 320 {
		t.Fatalf("snippet length %d exceeds 320", len(snippet))
	}
	body := strings.TrimSuffix(snippet, "...")
	if strings.HasSuffix(body, " ") {
		t.Fatalf("trailing space before marker: %q", snippet)
	}
	// must end on a whole word
	words := strings.Fields(body)
	last := words[len(words)-1]
	if last != "lorem" && last != "ipsum" && last != "dolor" && last != "sit" && last != "amet" {
		t.Fatalf("snippet cut mid-word: %q", last)
	}
}

func TestFormatResultsCollapsesWhitespace(t *testing.T) {
	data := []interface{}{[]interface{}{doc("line one\n\n  line\ttwo", nil), 0.1}}
	got := FormatResults(data)
	if !strings.HasSuffix(got, ": line one line two") {
		t.Fatalf("whitespace not collapsed: %q", got)
	}
}

func TestFormatResultsDropsNonObjectDocuments(t *testing.T) {
	data := []interface{}{
		[]interface{}{42.0, 0.9},
		"just a string",
	}
	if got := FormatResults(data); got != NoContextMessage {
		t.Fatalf("expected fallback when every entry is dropped, got %q", got)
	}

	// a surviving entry keeps its 1-based position in the received order
	data = append(data, []interface{}{doc("kept", nil), 0.3})
	got := FormatResults(data)
	if got != "3. score=0.300 source=unknown source: kept" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatResultsNonNumericScore(t *testing.T) {
	data := []interface{}{[]interface{}{doc("text", nil), "high"}}
	got := FormatResults(data)
	if !strings.HasPrefix(got, "1. score=n/a ") {
		t.Fatalf("expected n/a score, got %q", got)
	}
}

func TestFormatResultsSourcePriority(t *testing.T) {
	meta := map[string]interface{}{
		"source":   "primary",
		"filename": "secondary",
		"file_id":  "tertiary",
	}
	got := FormatResults([]interface{}{[]interface{}{doc("x", meta), 0.0}})
	if !strings.Contains(got, "source=primary") {
		t.Fatalf("expected source field to win, got %q", got)
	}

	delete(meta, "source")
	got = FormatResults([]interface{}{[]interface{}{doc("x", meta), 0.0}})
	if !strings.Contains(got, "source=secondary") {
		t.Fatalf("expected filename fallback, got %q", got)
	}
}
