package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Shakir788/cortexV3/internal/openai"
)

// newClockTool returns the current-time lookup tool. An optional IANA
// timezone argument selects the location; invalid or missing zones fall back
// to UTC rather than erroring.
func newClockTool() (openai.Tool, Func) {
	def := openai.Tool{
		Type: "function",
		Function: openai.ToolFunction{
			Name:        "current_time",
			Description: "Get the current date and time. Optionally pass an IANA timezone name (e.g. Asia/Kolkata); defaults to UTC.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"timezone": map[string]any{
						"type":        "string",
						"description": "IANA timezone name",
					},
				},
			},
		},
	}

	run := func(_ context.Context, argsJSON string) string {
		var args struct {
			Timezone string `json:"timezone"`
		}
		// Malformed arguments just mean UTC.
		_ = json.Unmarshal([]byte(argsJSON), &args)

		loc := time.UTC
		if args.Timezone != "" {
			if parsed, err := time.LoadLocation(args.Timezone); err == nil {
				loc = parsed
			}
		}

		now := time.Now().In(loc)
		out, _ := json.Marshal(map[string]string{
			"datetime": now.Format("2006-01-02 15:04:05"),
			"weekday":  now.Weekday().String(),
			"timezone": loc.String(),
		})
		return string(out)
	}

	return def, run
}
