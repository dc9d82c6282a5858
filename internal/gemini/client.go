// Package gemini implements the optional Gemini media backend. It provides
// image analysis and audio transcription strategies for the media analyzer
// using Google's genai SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/Shakir788/cortexV3/internal/config"
)

const transcribePrompt = "Transcribe this voice note verbatim. Reply with only the transcript text, no commentary. Keep the speaker's original language."

// Client defines the media operations the analyzer can delegate to Gemini.
type Client interface {
	AnalyzeImage(ctx context.Context, mimeType string, imageData []byte, prompt string) (string, error)
	Transcribe(ctx context.Context, mimeType string, audioData []byte) (string, error)
}

type sdkClient struct {
	genaiClient *genai.Client
	log         *slog.Logger
	modelName   string
	maxRetries  int
	retryDelay  time.Duration
}

// NewClient creates a new Gemini media client with the provided configuration.
func NewClient(ctx context.Context, cfg config.GeminiConfig, log *slog.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	logger := log.With("component", "gemini_client")
	logger.Info("Gemini client initialized successfully", "model", cfg.Model)
	return &sdkClient{
		genaiClient: gi,
		log:         logger,
		modelName:   cfg.Model,
		maxRetries:  cfg.MaxRetries,
		retryDelay:  time.Duration(cfg.RetryDelaySeconds) * time.Second,
	}, nil
}

func (c *sdkClient) generateContentWithRetries(ctx context.Context, contents []*genai.Content) (*genai.GenerateContentResponse, error) {
	var resp *genai.GenerateContentResponse
	var err error

	for i := 0; i <= c.maxRetries; i++ {
		resp, err = c.genaiClient.Models.GenerateContent(ctx, c.modelName, contents, nil)
		if err == nil {
			return resp, nil
		}

		c.log.WarnContext(ctx, "Gemini API call failed, checking for retry", "attempt", i+1, "max_retries", c.maxRetries, "error", err)

		var genAiAPIError *genai.APIError
		if errors.As(err, &genAiAPIError) && (genAiAPIError.Code == 500 || genAiAPIError.Code == 503) {
			if i < c.maxRetries {
				c.log.InfoContext(ctx, "Retrying Gemini API call due to retriable APIError", "delay", c.retryDelay, "code", genAiAPIError.Code)
				time.Sleep(c.retryDelay)
				continue
			}
			c.log.ErrorContext(ctx, "Gemini API call failed after max retries with APIError", "error", err, "code", genAiAPIError.Code)
			return nil, fmt.Errorf("gemini API call failed after %d retries (APIError code %d): %w", c.maxRetries, genAiAPIError.Code, err)
		}

		c.log.ErrorContext(ctx, "Gemini API call failed with non-retriable error", "error", err)
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}
	return nil, err
}

// AnalyzeImage sends inline image bytes plus the user's caption/question and
// returns the model's text.
func (c *sdkClient) AnalyzeImage(ctx context.Context, mimeType string, imageData []byte, prompt string) (string, error) {
	if len(imageData) == 0 || mimeType == "" {
		return "", fmt.Errorf("image data and MIME type are required for analysis")
	}
	c.log.DebugContext(ctx, "Generating image analysis", "image_size", len(imageData), "mime_type", mimeType)

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(imageData, mimeType),
		}, genai.RoleUser),
	}

	resp, err := c.generateContentWithRetries(ctx, contents)
	if err != nil {
		c.log.ErrorContext(ctx, "Gemini image analysis API call failed", "error", err)
		return "", fmt.Errorf("gemini image analysis failed: %w", err)
	}

	return c.extractTextFromResponse(ctx, resp, "image_analysis")
}

// Transcribe sends inline audio bytes and returns the transcript text.
func (c *sdkClient) Transcribe(ctx context.Context, mimeType string, audioData []byte) (string, error) {
	if len(audioData) == 0 {
		return "", fmt.Errorf("audio data is required for transcription")
	}
	if mimeType == "" {
		mimeType = "audio/ogg"
	}
	c.log.DebugContext(ctx, "Generating transcription", "audio_size", len(audioData), "mime_type", mimeType)

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(transcribePrompt),
			genai.NewPartFromBytes(audioData, mimeType),
		}, genai.RoleUser),
	}

	resp, err := c.generateContentWithRetries(ctx, contents)
	if err != nil {
		c.log.ErrorContext(ctx, "Gemini transcription API call failed", "error", err)
		return "", fmt.Errorf("gemini transcription failed: %w", err)
	}

	return c.extractTextFromResponse(ctx, resp, "transcription")
}

func (c *sdkClient) extractTextFromResponse(ctx context.Context, resp *genai.GenerateContentResponse, op string) (string, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reasonMsg := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reasonMsg = resp.PromptFeedback.BlockReasonMessage
		}
		c.log.ErrorContext(ctx, "Gemini request blocked", "operation", op, "reason", reasonMsg)
		return "", fmt.Errorf("%s blocked by safety filter: %s", op, reasonMsg)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		finishReason := "unknown"
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != genai.FinishReasonUnspecified {
			finishReason = fmt.Sprintf("%v", resp.Candidates[0].FinishReason)
		}
		c.log.WarnContext(ctx, "Gemini response missing candidates or content", "operation", op, "finish_reason", finishReason)
		return "", fmt.Errorf("%s returned no content, finish reason: %s", op, finishReason)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%s returned empty text", op)
	}

	return text, nil
}
