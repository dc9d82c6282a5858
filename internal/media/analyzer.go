// Package media resolves platform media identifiers to bytes and forwards
// them to the configured vision or transcription backend.
package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Shakir788/cortexV3/internal/config"
	"github.com/Shakir788/cortexV3/internal/gemini"
	"github.com/Shakir788/cortexV3/internal/openai"
	"github.com/Shakir788/cortexV3/internal/whatsapp"
)

// Strategy names for the vision and transcription backends.
const (
	StrategyOpenAI   = "openai"
	StrategyGemini   = "gemini"
	StrategyDisabled = "disabled"
)

const defaultImagePrompt = "Analyze this image."

// ChatClient is the vision-capable chat completion seam.
type ChatClient interface {
	ChatCompletion(ctx context.Context, messages []openai.Message, tools []openai.Tool) (*openai.ResponseMessage, error)
}

// Transcriber is the speech-to-text seam.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// Analyzer turns media identifiers into display text. All network and
// decoding failures are converted to fixed apology texts carrying only the
// error's type name; transcript and image payloads are never leaked.
type Analyzer struct {
	logger   *slog.Logger
	resolver whatsapp.MediaResolver
	chat     ChatClient
	stt      Transcriber
	gemini   gemini.Client

	visionStrategy string
	audioStrategy  string
	messages       config.MessagesConfig
}

// NewAnalyzer creates a media analyzer. geminiClient may be nil when no
// gemini strategy is configured.
func NewAnalyzer(
	resolver whatsapp.MediaResolver,
	chat ChatClient,
	stt Transcriber,
	geminiClient gemini.Client,
	mediaCfg config.MediaConfig,
	messages config.MessagesConfig,
	logger *slog.Logger,
) *Analyzer {
	return &Analyzer{
		logger:         logger.With("component", "media_analyzer"),
		resolver:       resolver,
		chat:           chat,
		stt:            stt,
		gemini:         geminiClient,
		visionStrategy: mediaCfg.Vision,
		audioStrategy:  mediaCfg.Transcriber,
		messages:       messages,
	}
}

// AudioEnabled reports whether a transcription strategy is configured.
func (a *Analyzer) AudioEnabled() bool {
	return a.audioStrategy != StrategyDisabled && a.audioStrategy != ""
}

// AnalyzeImage resolves mediaID, forwards the image to the configured vision
// backend with the user's caption/question, and returns display text.
func (a *Analyzer) AnalyzeImage(ctx context.Context, mediaID, caption string) string {
	prompt := strings.TrimSpace(caption)
	if prompt == "" {
		prompt = defaultImagePrompt
	}

	data, mimeType, err := a.fetch(ctx, mediaID)
	if err != nil {
		a.logger.ErrorContext(ctx, "Image fetch failed", "media_id", mediaID, "error", err)
		return a.apology(a.messages.ImageError, err)
	}

	var text string
	switch a.visionStrategy {
	case StrategyGemini:
		text, err = a.gemini.AnalyzeImage(ctx, mimeType, data, prompt)
	default:
		text, err = a.analyzeImageOpenAI(ctx, mimeType, data, prompt)
	}
	if err != nil {
		a.logger.ErrorContext(ctx, "Vision analysis failed",
			"media_id", mediaID, "strategy", a.visionStrategy, "error", err)
		return a.apology(a.messages.ImageError, err)
	}

	return text
}

// Transcribe resolves mediaID and forwards the audio to the configured
// transcription backend. The returned text is either a usable transcript
// (ok=true) or a fixed user-facing reply (ok=false: feature disabled, empty
// transcript, or a converted failure).
func (a *Analyzer) Transcribe(ctx context.Context, mediaID string) (string, bool) {
	if !a.AudioEnabled() {
		return a.messages.AudioUnavailable, false
	}

	data, mimeType, err := a.fetch(ctx, mediaID)
	if err != nil {
		a.logger.ErrorContext(ctx, "Audio fetch failed", "media_id", mediaID, "error", err)
		return a.apology(a.messages.AudioError, err), false
	}

	var transcript string
	switch a.audioStrategy {
	case StrategyGemini:
		transcript, err = a.gemini.Transcribe(ctx, mimeType, data)
	default:
		transcript, err = a.stt.Transcribe(ctx, data, filenameForMime(mimeType))
	}
	if err != nil {
		a.logger.ErrorContext(ctx, "Transcription failed",
			"media_id", mediaID, "strategy", a.audioStrategy, "error", err)
		return a.apology(a.messages.AudioError, err), false
	}

	if strings.TrimSpace(transcript) == "" {
		return a.messages.AudioEmpty, false
	}
	return strings.TrimSpace(transcript), true
}

// fetch performs the two-hop media resolution: metadata lookup for the
// short-lived URL and MIME type, then the authenticated byte download.
func (a *Analyzer) fetch(ctx context.Context, mediaID string) ([]byte, string, error) {
	url, mimeType, err := a.resolver.ResolveMedia(ctx, mediaID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve media %s: %w", mediaID, err)
	}

	data, err := a.resolver.DownloadMedia(ctx, url)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download media %s: %w", mediaID, err)
	}

	return data, mimeType, nil
}

func (a *Analyzer) analyzeImageOpenAI(ctx context.Context, mimeType string, data []byte, prompt string) (string, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))

	msg, err := a.chat.ChatCompletion(ctx, []openai.Message{openai.ImageMessage(prompt, dataURI)}, nil)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(msg.Content)
	if text == "" {
		return "", fmt.Errorf("vision endpoint returned empty content")
	}
	return text, nil
}

// apology appends only the error's type name to the fixed reply; message
// contents stay in the logs.
func (a *Analyzer) apology(fixed string, err error) string {
	return fmt.Sprintf("%s (System: %T)", fixed, err)
}

func filenameForMime(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "mpeg"), strings.Contains(mimeType, "mp3"):
		return "audio.mp3"
	case strings.Contains(mimeType, "wav"):
		return "audio.wav"
	case strings.Contains(mimeType, "mp4"), strings.Contains(mimeType, "m4a"):
		return "audio.m4a"
	default:
		return "audio.ogg"
	}
}
