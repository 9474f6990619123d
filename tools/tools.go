// Package tools defines the callable tool surface handed to the agent
// orchestrator and a registry it can discover tools through.
package tools

import (
	"context"
	"encoding/json"
	"sort"
)

// Tool is a single agent-invocable capability. Invoke is the supported entry
// point; Run exists for orchestrators that still probe the synchronous path,
// and implementations that are async-only panic there.
type Tool interface {
	Name() string
	Description() string
	InputSchema() map[string]interface{}
	Invoke(ctx context.Context, args json.RawMessage) (string, error)
	Run(args json.RawMessage) (string, error)
}

// Desc describes a tool to clients, including its input schema.
type Desc struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// Registry holds the tools wired at startup. It is read-only after New.
type Registry struct {
	byName map[string]Tool
}

// NewRegistry wires the given tools. Later duplicates win.
func NewRegistry(tools ...Tool) *Registry {
	byName := make(map[string]Tool, len(tools))
	for _, t := range tools {
		byName[t.Name()] = t
	}
	return &Registry{byName: byName}
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// List returns descriptors for all registered tools, sorted by name.
func (r *Registry) List() []Desc {
	out := make([]Desc, 0, len(r.byName))
	for _, t := range r.byName {
		out = append(out, Desc{Name: t.Name(), Description: t.Description(), InputSchema: t.InputSchema()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
