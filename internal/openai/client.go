// Package openai implements a client for OpenAI-compatible REST endpoints
// (OpenRouter by default): chat completions with tool calling, vision via
// inline data URIs, and speech-to-text transcription.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const defaultMaxTokens = 2048

// Client calls an OpenAI-compatible API using direct HTTP requests.
type Client struct {
	httpClient  *http.Client
	logger      *slog.Logger
	baseURL     string
	apiToken    string
	model       string
	temperature float32
}

// NewClient creates a new client. baseURL should include the version prefix
// (e.g. https://openrouter.ai/api/v1) without a trailing slash.
func NewClient(baseURL, apiToken, model string, temperature float32, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	if apiToken == "" {
		return nil, errors.New("AI API token is required")
	}
	if model == "" {
		return nil, errors.New("AI model name is required")
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger.With("component", "openai_client"),
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		apiToken:    apiToken,
		model:       model,
		temperature: temperature,
	}, nil
}

// ChatCompletion sends messages (and optional tool declarations) to the chat
// completions endpoint and returns the first choice's message. Tool choice is
// left to the model.
func (c *Client) ChatCompletion(ctx context.Context, messages []Message, tools []Tool) (*ResponseMessage, error) {
	startTime := time.Now()

	apiRequest := chatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   defaultMaxTokens,
		Tools:       tools,
	}
	reqBodyBytes, err := json.Marshal(apiRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat completion request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiToken)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call chat completion API: %w", err)
	}
	defer func() {
		if err := httpResp.Body.Close(); err != nil {
			c.logger.Warn("Failed to close chat completion response body", "error", err)
		}
	}()

	respBodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat completion response body: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		c.logger.ErrorContext(ctx, "Chat completion API error",
			"status_code", httpResp.StatusCode, "response", string(respBodyBytes))
		var errResp chatCompletionResponse
		if json.Unmarshal(respBodyBytes, &errResp) == nil && errResp.Error != nil {
			return nil, fmt.Errorf("chat completion API error (%d): %s (%s)", httpResp.StatusCode, errResp.Error.Message, errResp.Error.Type)
		}
		return nil, fmt.Errorf("chat completion request failed with status code %d", httpResp.StatusCode)
	}

	var apiResponse chatCompletionResponse
	if err := json.Unmarshal(respBodyBytes, &apiResponse); err != nil {
		c.logger.ErrorContext(ctx, "Failed to unmarshal chat completion response", "error", err, "response", string(respBodyBytes))
		return nil, fmt.Errorf("failed to parse chat completion response: %w", err)
	}

	if apiResponse.Error != nil {
		return nil, fmt.Errorf("chat completion API returned an error: %s (%s)", apiResponse.Error.Message, apiResponse.Error.Type)
	}

	if len(apiResponse.Choices) == 0 {
		c.logger.WarnContext(ctx, "Chat completion response contained no choices", "response_id", apiResponse.ID)
		return nil, errors.New("no response choices returned from chat completion API")
	}

	msg := apiResponse.Choices[0].Message
	if msg.Content == "" && len(msg.ToolCalls) == 0 {
		return nil, errors.New("chat completion returned empty content and no tool calls")
	}

	c.logger.DebugContext(ctx, "Chat completion succeeded",
		"duration_ms", time.Since(startTime).Milliseconds(),
		"tokens", apiResponse.Usage.TotalTokens,
		"tool_calls", len(msg.ToolCalls))

	return &msg, nil
}

// Transcribe forwards raw audio bytes to the speech-to-text endpoint and
// returns the transcript text. The response shape may be a single object or
// a one-element list; both are normalized. An empty transcript is returned
// as empty string with a nil error; the caller decides the user-facing reply.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("no audio data to transcribe")
	}
	if filename == "" {
		filename = "audio.ogg"
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart file field: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to write audio bytes: %w", err)
	}
	if err := mw.WriteField("model", "whisper-1"); err != nil {
		return "", fmt.Errorf("failed to write model field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	url := c.baseURL + "/audio/transcriptions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create transcription request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiToken)
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call transcription API: %w", err)
	}
	defer func() {
		if err := httpResp.Body.Close(); err != nil {
			c.logger.Warn("Failed to close transcription response body", "error", err)
		}
	}()

	respBodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read transcription response body: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		c.logger.ErrorContext(ctx, "Transcription API error",
			"status_code", httpResp.StatusCode, "response", string(respBodyBytes))
		return "", fmt.Errorf("transcription request failed with status code %d", httpResp.StatusCode)
	}

	text, ok := normalizeTranscript(respBodyBytes)
	if !ok {
		return "", fmt.Errorf("unrecognized transcription response shape")
	}

	return strings.TrimSpace(text), nil
}
