package tools

import (
	"context"
	"encoding/json"

	"github.com/Shakir788/cortexV3/internal/openai"
)

// newWebSearchTool returns the web search tool. This is an explicit stub: it
// echoes the query with a fixed note instead of calling a search provider,
// preserving the tool-call round-trip without external credentials.
// TODO: wire a real search provider once one is chosen and funded.
func newWebSearchTool() (openai.Tool, Func) {
	def := openai.Tool{
		Type: "function",
		Function: openai.ToolFunction{
			Name:        "web_search",
			Description: "Search the web for current information about a topic.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "The search query",
					},
				},
				"required": []string{"query"},
			},
		},
	}

	run := func(_ context.Context, argsJSON string) string {
		var args struct {
			Query string `json:"query"`
		}
		_ = json.Unmarshal([]byte(argsJSON), &args)

		out, _ := json.Marshal(map[string]string{
			"query": args.Query,
			"note":  "Live web search is not available in this installation. Answer from existing knowledge and say the information may be outdated.",
		})
		return string(out)
	}

	return def, run
}
