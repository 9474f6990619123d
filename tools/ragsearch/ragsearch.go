// Package ragsearch exposes the knowledge-base lookup tool invoked by the
// agent orchestrator. Its calling convention is strict: the result is always
// a string, never an error, so failures come back as observation text.
package ragsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mohammad-safakhou/ragbridge/internal/ragclient"
)

// ToolName is the identifier the orchestrator binds to.
const ToolName = "rag_search"

const (
	queryRequiredMessage = "A search query is required to use the knowledge base."
	noFileIDsMessage     = "No file identifiers were provided or configured for the RAG knowledge base. " +
		"Add file IDs via the `file_ids` argument or configure `rag.default_file_ids`."
)

// Input is the structured argument set for the tool.
type Input struct {
	Query    string   `json:"query"`
	FileIDs  []string `json:"file_ids,omitempty"`
	TopK     int      `json:"top_k,omitempty"`
	EntityID string   `json:"entity_id,omitempty"`
}

// Querier is the slice of the RAG client the tool needs.
type Querier interface {
	Query(ctx context.Context, in ragclient.QueryInput) (interface{}, error)
	DefaultFileIDs() []string
	DefaultTopK() int
	DefaultEntityID() string
}

// Tool performs single-shot semantic searches against the knowledge base.
type Tool struct {
	client Querier
	logger *log.Logger
}

// New builds the tool. logger may be nil.
func New(client Querier, logger *log.Logger) *Tool {
	if logger == nil {
		logger = log.New(log.Writer(), "[TOOL] ", log.LstdFlags)
	}
	return &Tool{client: client, logger: logger}
}

func (t *Tool) Name() string { return ToolName }

func (t *Tool) Description() string {
	return "Use this tool to look up factual information from the internal knowledge base. " +
		"Pass a clear question and optionally restrict by file identifiers."
}

func (t *Tool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "Natural language question to search for.",
			},
			"file_ids": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Specific file identifiers to search within. Leave empty to use the default knowledge base.",
			},
			"top_k": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum number of passages to retrieve (defaults to service setting).",
			},
			"entity_id": map[string]interface{}{
				"type":        "string",
				"description": "Optional organization/entity identifier for access-controlled collections.",
			},
		},
		"required": []string{"query"},
	}
}

// Invoke parses the raw arguments and runs the search. Only argument parse
// failures surface as errors; everything downstream becomes observation text.
func (t *Tool) Invoke(ctx context.Context, args json.RawMessage) (string, error) {
	var in Input
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("failed to parse %s arguments: %w", ToolName, err)
	}
	return t.Search(ctx, in), nil
}

// Run is the synchronous entry point. The orchestrator only ever calls the
// context-aware path, so this is unsupported.
func (t *Tool) Run(args json.RawMessage) (string, error) {
	panic(ToolName + " is async-only: use Invoke")
}

// Search resolves defaults, performs at most one upstream query and renders
// the outcome as text.
func (t *Tool) Search(ctx context.Context, in Input) string {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return queryRequiredMessage
	}

	fileIDs := filterBlank(in.FileIDs)
	if len(fileIDs) == 0 {
		fileIDs = filterBlank(t.client.DefaultFileIDs())
	}
	if len(fileIDs) == 0 {
		return noFileIDsMessage
	}

	topK := in.TopK
	if topK == 0 {
		topK = t.client.DefaultTopK()
	}
	if topK < 1 {
		topK = 1
	}

	entityID := in.EntityID
	if entityID == "" {
		entityID = t.client.DefaultEntityID()
	}

	data, err := t.client.Query(ctx, ragclient.QueryInput{
		Query:    query,
		FileIDs:  fileIDs,
		TopK:     topK,
		EntityID: entityID,
	})
	if err != nil {
		return t.describeFailure(err)
	}
	return FormatResults(data)
}

// describeFailure maps each client failure kind to a distinct observation
// string for the agent.
func (t *Tool) describeFailure(err error) string {
	var se *ragclient.StatusError
	if errors.As(err, &se) {
		t.logger.Printf("%s query failed: status=%d", ToolName, se.Code)
		return fmt.Sprintf("RAG search failed with status %d. Verify the file identifiers and query parameters.", se.Code)
	}
	if errors.Is(err, ragclient.ErrTimeout) {
		t.logger.Printf("%s query timed out", ToolName)
		return "RAG search timed out. Please try again with a simpler query."
	}
	var de *ragclient.DecodeError
	if errors.As(err, &de) {
		t.logger.Printf("%s query returned malformed json: %v", ToolName, de.Err)
		return "RAG search returned an unexpected response format."
	}
	t.logger.Printf("%s query network error: %v", ToolName, err)
	return fmt.Sprintf("RAG search failed due to a network error: %v", err)
}

func filterBlank(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) != "" {
			out = append(out, id)
		}
	}
	return out
}
