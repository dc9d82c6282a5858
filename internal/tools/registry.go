// Package tools implements the callable tools offered to the language model
// during chat completion: a clock lookup and a web search stub. Tools are
// executed locally and their JSON output is fed back as tool-role turns.
package tools

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/Shakir788/cortexV3/internal/openai"
)

// Func executes one tool invocation. argsJSON is the raw model-supplied
// argument object; the return value is a JSON document fed back to the model.
type Func func(ctx context.Context, argsJSON string) string

type tool struct {
	definition openai.Tool
	run        Func
}

// Registry holds the named tools declared to the model.
type Registry struct {
	logger *slog.Logger
	tools  map[string]tool
	order  []string
}

// NewRegistry initializes the registry with all available tools. The web
// search tool is a deliberate stub (the upstream service was never wired)
// and can be left out entirely via websearchEnabled.
func NewRegistry(websearchEnabled bool, logger *slog.Logger) *Registry {
	r := &Registry{
		logger: logger.With("component", "tools"),
		tools:  make(map[string]tool),
	}

	r.register(newClockTool())
	if websearchEnabled {
		r.register(newWebSearchTool())
	}

	r.logger.Info("Initialized tool registry", "count", len(r.order))
	return r
}

func (r *Registry) register(def openai.Tool, run Func) {
	name := def.Function.Name
	r.tools[name] = tool{definition: def, run: run}
	r.order = append(r.order, name)
}

// Definitions returns the tool declarations in registration order, for
// inclusion in chat completion requests.
func (r *Registry) Definitions() []openai.Tool {
	defs := make([]openai.Tool, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].definition)
	}
	return defs
}

// Execute runs the named tool with the model-supplied arguments. An unknown
// tool name returns a structured not-found marker instead of failing, so a
// hallucinated tool call never breaks the completion round-trip.
func (r *Registry) Execute(ctx context.Context, name, argsJSON string) string {
	t, ok := r.tools[name]
	if !ok {
		r.logger.WarnContext(ctx, "Model requested unknown tool", "tool", name)
		marker, _ := json.Marshal(map[string]string{
			"error": "tool not found",
			"tool":  name,
		})
		return string(marker)
	}

	r.logger.DebugContext(ctx, "Executing tool", "tool", name)
	return t.run(ctx, argsJSON)
}
