package ragsearch

import (
	"fmt"
	"strings"
)

// NoContextMessage is returned whenever nothing useful came back.
const NoContextMessage = "No relevant context found in the knowledge base."

const snippetWidth = 320

// FormatResults condenses raw query results into numbered one-line summaries
// for the agent. The upstream returns either [document, score] pairs or
// {document, score} objects; entries without a structured document are
// dropped.
func FormatResults(data interface{}) string {
	items, ok := data.([]interface{})
	if !ok || len(items) == 0 {
		return NoContextMessage
	}

	lines := make([]string, 0, len(items))
	for i, item := range items {
		document, score := splitEntry(item)
		doc, ok := document.(map[string]interface{})
		if !ok {
			continue
		}

		content := stringField(doc, "page_content")
		if content == "" {
			content = stringField(doc, "content")
		}
		metadata, _ := doc["metadata"].(map[string]interface{})

		source := stringField(metadata, "source")
		if source == "" {
			source = stringField(metadata, "filename")
		}
		if source == "" {
			source = stringField(metadata, "file_id")
		}
		if source == "" {
			source = "unknown source"
		}

		lines = append(lines, fmt.Sprintf("%d. score=%s source=%s: %s",
			i+1, scoreText(score), source, shorten(content, snippetWidth)))
	}

	if len(lines) == 0 {
		return NoContextMessage
	}
	return strings.Join(lines, "\n")
}

// splitEntry pulls the document and optional score out of either upstream
// shape. A pair is [document, score]; an object exposes "document"/"score"
// or is itself the document.
func splitEntry(item interface{}) (interface{}, interface{}) {
	switch v := item.(type) {
	case []interface{}:
		if len(v) == 0 {
			return nil, nil
		}
		if len(v) > 1 {
			return v[0], v[1]
		}
		return v[0], nil
	case map[string]interface{}:
		if doc, ok := v["document"]; ok && doc != nil {
			return doc, v["score"]
		}
		return v, v["score"]
	default:
		return nil, nil
	}
}

func stringField(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func scoreText(score interface{}) string {
	switch v := score.(type) {
	case float64:
		return fmt.Sprintf("%.3f", v)
	case float32:
		return fmt.Sprintf("%.3f", v)
	case int:
		return fmt.Sprintf("%.3f", float64(v))
	default:
		return "n/a"
	}
}

// shorten collapses whitespace runs and truncates to width on a word
// boundary, hard-breaking only when the first word alone exceeds width. A
// truncated snippet ends with "...".
func shorten(s string, width int) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	if len(collapsed) <= width {
		return collapsed
	}

	const marker = "..."
	budget := width - len(marker)
	words := strings.Fields(collapsed)
	var b strings.Builder
	for _, w := range words {
		extra := len(w)
		if b.Len() > 0 {
			extra++ // joining space
		}
		if b.Len()+extra > budget {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w)
	}
	if b.Len() == 0 {
		// single word longer than the whole budget
		return collapsed[:budget] + marker
	}
	return b.String() + marker
}
