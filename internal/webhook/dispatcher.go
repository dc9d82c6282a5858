// Package webhook implements the inbound side of the WhatsApp Cloud API:
// the verification handshake and the event dispatcher that routes messages
// to the command interpreter, AI responder, or media analyzer.
package webhook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Shakir788/cortexV3/internal/commands"
	"github.com/Shakir788/cortexV3/internal/config"
	"github.com/Shakir788/cortexV3/internal/database"
	"github.com/Shakir788/cortexV3/internal/history"
	"github.com/Shakir788/cortexV3/internal/whatsapp"
)

const archiveTimeout = 5 * time.Second

// Responder generates display text for free-form prompts.
type Responder interface {
	Respond(ctx context.Context, userID, prompt string, hist []history.Turn) string
}

// Analyzer resolves media to display text.
type Analyzer interface {
	AnalyzeImage(ctx context.Context, mediaID, caption string) string
	Transcribe(ctx context.Context, mediaID string) (string, bool)
	AudioEnabled() bool
}

// Deps provides dependencies for the webhook dispatcher.
type Deps struct {
	Logger      *slog.Logger
	Config      *config.Config
	Sender      whatsapp.Sender
	Interpreter *commands.Interpreter
	Responder   Responder
	Analyzer    Analyzer
	History     *history.Window
	Archive     database.Store
}

// Dispatcher processes one inbound event to completion per call. Each event
// runs received -> parsed -> routed -> replied; no state spans events beyond
// the history window and the persisted stores.
type Dispatcher struct {
	deps Deps
	log  *slog.Logger
}

// NewDispatcher creates the event dispatcher.
func NewDispatcher(deps Deps) *Dispatcher {
	return &Dispatcher{
		deps: deps,
		log:  deps.Logger.With("component", "dispatcher"),
	}
}

// Dispatch routes one decoded envelope and returns the acknowledgement
// status tag. It never returns an error: every internal failure is converted
// to an apology reply and a status tag so the platform never retries.
func (d *Dispatcher) Dispatch(ctx context.Context, env *envelope) (tag string) {
	if env == nil || len(env.Entry) == 0 || len(env.Entry[0].Changes) == 0 {
		return statusMalformed
	}
	val := env.Entry[0].Changes[0].Value

	// Delivery receipts are acknowledged and dropped.
	if len(val.Statuses) > 0 {
		return statusStatusIgnored
	}

	if len(val.Messages) == 0 {
		return statusAcknowledged
	}

	msg := val.Messages[0]
	from := msg.From
	if from == "" {
		return statusMissingFrom
	}

	defer func() {
		if r := recover(); r != nil {
			d.log.ErrorContext(ctx, "Panic while routing webhook event", "from", from, "panic", r)
			d.sendText(ctx, from, d.deps.Config.Messages.GeneralError)
			tag = statusRuntimeError
		}
	}()

	switch msg.Type {
	case "interactive":
		return d.handleInteractive(ctx, from, msg.Interactive)
	case "image":
		return d.handleImage(ctx, from, msg.Image)
	case "audio":
		return d.handleAudio(ctx, from, msg.Audio)
	case "text":
		body := ""
		if msg.Text != nil {
			body = msg.Text.Body
		}
		return d.handleText(ctx, from, body)
	default:
		d.sendText(ctx, from, d.deps.Config.Messages.UnsupportedType)
		return statusUnsupportedType
	}
}

func (d *Dispatcher) handleInteractive(ctx context.Context, from string, in *inboundInteractive) string {
	var sel *selection
	if in != nil {
		switch in.Type {
		case "button_reply":
			sel = in.ButtonReply
		case "list_reply":
			sel = in.ListReply
		}
	}
	if sel == nil {
		return statusMessageTextEmpty
	}

	// Immediate acknowledgement of the selection, then the resolved reply.
	d.sendText(ctx, from, fmt.Sprintf(d.deps.Config.Messages.InteractiveAck, sel.Title))

	prompt := fmt.Sprintf("!INTERACTIVE: %s (%s)", sel.ID, sel.Title)
	reply := d.deps.Responder.Respond(ctx, from, prompt, d.deps.History.Get(from))
	d.sendText(ctx, from, reply)

	return statusMessageProcessed
}

func (d *Dispatcher) handleImage(ctx context.Context, from string, img *inboundMedia) string {
	if img == nil || img.ID == "" {
		return statusMalformed
	}

	caption := img.Caption
	d.sendText(ctx, from, d.deps.Config.Messages.ImageProcessing)

	result := d.deps.Analyzer.AnalyzeImage(ctx, img.ID, caption)
	d.sendText(ctx, from, result)

	userTurn := "IMAGE: " + caption
	if caption == "" {
		userTurn = "IMAGE: Analyze this image."
	}
	d.recordExchange(ctx, from, database.KindImage, userTurn, result)

	return statusImageProcessed
}

func (d *Dispatcher) handleAudio(ctx context.Context, from string, audio *inboundMedia) string {
	if !d.deps.Analyzer.AudioEnabled() {
		d.sendText(ctx, from, d.deps.Config.Messages.AudioUnavailable)
		return statusAudioUnavailable
	}
	if audio == nil || audio.ID == "" {
		return statusMalformed
	}

	transcript, ok := d.deps.Analyzer.Transcribe(ctx, audio.ID)
	if !ok {
		// Fixed reply: feature gap, empty transcript, or converted failure.
		d.sendText(ctx, from, transcript)
		return statusAudioProcessed
	}

	// A usable transcript flows through the same pipeline as typed text.
	d.processText(ctx, from, transcript, database.KindAudio)
	return statusAudioProcessed
}

func (d *Dispatcher) handleText(ctx context.Context, from, body string) string {
	if body == "" {
		return statusMessageTextEmpty
	}
	d.processText(ctx, from, body, database.KindText)
	return statusMessageProcessed
}

// processText runs the command-first, AI-second chain for one text prompt.
func (d *Dispatcher) processText(ctx context.Context, from, body, kind string) {
	if reply, ok := d.deps.Interpreter.Interpret(from, body); ok {
		d.sendReply(ctx, from, reply)
		return
	}

	response := d.deps.Responder.Respond(ctx, from, body, d.deps.History.Get(from))
	d.sendText(ctx, from, response)
	d.recordExchange(ctx, from, kind, body, response)
}

// recordExchange appends the user and assistant turns to the in-memory
// window and writes both to the archive. Archive failures are logged and
// swallowed; they never affect the reply.
func (d *Dispatcher) recordExchange(ctx context.Context, from, kind, userText, assistantText string) {
	d.deps.History.AppendExchange(from, userText, assistantText)

	if d.deps.Archive == nil {
		return
	}

	archiveCtx, cancel := context.WithTimeout(ctx, archiveTimeout)
	defer cancel()

	now := time.Now().UTC()
	for _, m := range []*database.Message{
		{UserID: from, Role: history.RoleUser, Kind: kind, Content: userText, Timestamp: now},
		{UserID: from, Role: history.RoleAssistant, Kind: kind, Content: assistantText, Timestamp: now},
	} {
		if err := d.deps.Archive.SaveMessage(archiveCtx, m); err != nil {
			d.log.ErrorContext(ctx, "Failed to archive message", "user_id", from, "role", m.Role, "error", err)
		}
	}
}

func (d *Dispatcher) sendReply(ctx context.Context, to string, reply *commands.Reply) {
	if reply == nil {
		return
	}
	if reply.Menu != nil {
		if err := d.deps.Sender.SendInteractive(ctx, to, reply.Menu); err != nil {
			d.log.ErrorContext(ctx, "Failed to send interactive reply", "to", to, "error", err)
		}
		return
	}
	d.sendText(ctx, to, reply.Text)
}

func (d *Dispatcher) sendText(ctx context.Context, to, body string) {
	if body == "" {
		return
	}
	if err := d.deps.Sender.SendText(ctx, to, body); err != nil {
		d.log.ErrorContext(ctx, "Failed to send text reply", "to", to, "error", err)
	}
}
