// Package responder implements the AI side of the conversation: system
// prompt assembly, the chat completion call with declared tools, and the
// bounded tool-calling loop.
package responder

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Shakir788/cortexV3/internal/commands"
	"github.com/Shakir788/cortexV3/internal/facts"
	"github.com/Shakir788/cortexV3/internal/history"
	"github.com/Shakir788/cortexV3/internal/openai"
	"github.com/Shakir788/cortexV3/internal/profile"
)

// interactiveSentinel matches the synthesized echo of an interactive menu
// selection: "!INTERACTIVE: <id> (<label>)".
var interactiveSentinel = regexp.MustCompile(`^!INTERACTIVE:\s*(\S+)\s*\((.*)\)\s*$`)

// ChatClient is the chat completion seam, satisfied by *openai.Client.
type ChatClient interface {
	ChatCompletion(ctx context.Context, messages []openai.Message, tools []openai.Tool) (*openai.ResponseMessage, error)
}

// ToolExecutor is the tool registry seam, satisfied by *tools.Registry.
type ToolExecutor interface {
	Definitions() []openai.Tool
	Execute(ctx context.Context, name, argsJSON string) string
}

// Responder generates display text for free-form user prompts.
type Responder struct {
	logger        *slog.Logger
	chat          ChatClient
	tools         ToolExecutor
	factsStore    *facts.Store
	profile       *profile.Profile
	interpreter   *commands.Interpreter
	assistantName string
	apologyText   string
	maxToolRounds int
}

// New creates a responder. maxToolRounds bounds how many tool-calling round
// trips are honored per prompt; rounds requested beyond the bound are dropped.
func New(
	chat ChatClient,
	toolExec ToolExecutor,
	factsStore *facts.Store,
	prof *profile.Profile,
	interpreter *commands.Interpreter,
	assistantName, apologyText string,
	maxToolRounds int,
	logger *slog.Logger,
) *Responder {
	if maxToolRounds < 0 {
		maxToolRounds = 0
	}
	return &Responder{
		logger:        logger.With("component", "responder"),
		chat:          chat,
		tools:         toolExec,
		factsStore:    factsStore,
		profile:       prof,
		interpreter:   interpreter,
		assistantName: assistantName,
		apologyText:   apologyText,
		maxToolRounds: maxToolRounds,
	}
}

// Respond produces the final display text for prompt given the user's rolling
// history. Transport and response-shape failures never escape; they are
// logged and converted to the fixed apology text.
func (r *Responder) Respond(ctx context.Context, userID, prompt string, hist []history.Turn) string {
	// Interactive menu selections skip the model entirely.
	if m := interactiveSentinel.FindStringSubmatch(strings.TrimSpace(prompt)); m != nil {
		reply := r.interpreter.ResolveMenuSelection(m[1], m[2])
		return reply.Text
	}

	messages := r.buildMessages(userID, prompt, hist)
	toolDefs := r.tools.Definitions()

	msg, err := r.chat.ChatCompletion(ctx, messages, toolDefs)
	if err != nil {
		r.logger.ErrorContext(ctx, "Chat completion failed", "user_id", userID, "error", err)
		return r.apologyText
	}

	for round := 0; round < r.maxToolRounds && len(msg.ToolCalls) > 0; round++ {
		messages = append(messages, openai.Message{
			Role:      openai.RoleAssistant,
			Content:   msg.Content,
			ToolCalls: msg.ToolCalls,
		})

		for _, call := range msg.ToolCalls {
			output := r.tools.Execute(ctx, call.Function.Name, call.Function.Arguments)
			messages = append(messages, openai.Message{
				Role:       openai.RoleTool,
				Content:    output,
				ToolCallID: call.ID,
				Name:       call.Function.Name,
			})
		}

		msg, err = r.chat.ChatCompletion(ctx, messages, toolDefs)
		if err != nil {
			r.logger.ErrorContext(ctx, "Follow-up chat completion failed", "user_id", userID, "round", round+1, "error", err)
			return r.apologyText
		}
	}

	if len(msg.ToolCalls) > 0 {
		// Tool rounds exhausted; further requested calls are not honored.
		r.logger.WarnContext(ctx, "Model requested tool calls beyond the round limit",
			"user_id", userID, "max_rounds", r.maxToolRounds, "pending_calls", len(msg.ToolCalls))
	}

	text := strings.TrimSpace(msg.Content)
	if text == "" {
		r.logger.WarnContext(ctx, "Chat completion produced no display text", "user_id", userID)
		return r.apologyText
	}

	return text
}

// buildMessages assembles [system] + history + [user:prompt].
func (r *Responder) buildMessages(userID, prompt string, hist []history.Turn) []openai.Message {
	learned := "None"
	if userFacts := r.factsStore.List(userID); len(userFacts) > 0 {
		learned = "- " + strings.Join(userFacts, "\n- ")
	}

	p := r.profile
	system := fmt.Sprintf(systemInstructionTemplate,
		p.Name, r.assistantName, p.Name,
		p.Personality, p.Skills, p.DreamsGoals,
		learned, p.Name)

	messages := make([]openai.Message, 0, len(hist)+2)
	messages = append(messages, openai.TextMessage(openai.RoleSystem, system))
	for _, turn := range hist {
		messages = append(messages, openai.TextMessage(turn.Role, turn.Content))
	}
	messages = append(messages, openai.TextMessage(openai.RoleUser, prompt))
	return messages
}
