// Package whatsapp implements the outbound side of the WhatsApp Cloud API:
// sending text and interactive messages and resolving media identifiers to
// downloadable content.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	sendTimeout     = 15 * time.Second
	downloadTimeout = 30 * time.Second

	// maxMediaBytes caps media downloads; the Cloud API limits inbound
	// images/audio well below this.
	maxMediaBytes = 32 << 20
)

// Sender is the outbound message interface the dispatcher depends on.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
	SendInteractive(ctx context.Context, to string, payload *Interactive) error
}

// MediaResolver is the two-hop media access interface the analyzer depends on.
type MediaResolver interface {
	// ResolveMedia calls the media-metadata endpoint and returns the
	// short-lived download URL and MIME type for a media identifier.
	ResolveMedia(ctx context.Context, mediaID string) (url, mimeType string, err error)
	// DownloadMedia fetches the bytes behind a previously resolved URL.
	DownloadMedia(ctx context.Context, url string) ([]byte, error)
}

// Client talks to the Graph API using bearer authentication.
type Client struct {
	httpClient    *http.Client
	logger        *slog.Logger
	baseURL       string
	apiVersion    string
	phoneNumberID string
	accessToken   string
}

// NewClient creates a Cloud API client. baseURL is the Graph API root
// (https://graph.facebook.com) without a trailing slash.
func NewClient(baseURL, apiVersion, phoneNumberID, accessToken string, logger *slog.Logger) (*Client, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("whatsapp access token is required")
	}
	if phoneNumberID == "" {
		return nil, fmt.Errorf("whatsapp phone number ID is required")
	}

	return &Client{
		httpClient:    &http.Client{Timeout: downloadTimeout},
		logger:        logger.With("component", "whatsapp_client"),
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		apiVersion:    apiVersion,
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
	}, nil
}

// SendText sends a plain-text message to the given recipient.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	return c.send(ctx, &sendRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             &textBody{Body: body},
	})
}

// SendInteractive sends a structured list/button message to the given recipient.
func (c *Client) SendInteractive(ctx context.Context, to string, payload *Interactive) error {
	if payload == nil {
		return fmt.Errorf("nil interactive payload")
	}
	return c.send(ctx, &sendRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "interactive",
		Interactive:      payload,
	})
}

// send posts one message to the send-message endpoint. A non-200 response is
// logged and returned as an error; it is never retried.
func (c *Client) send(ctx context.Context, req *sendRequest) error {
	url := fmt.Sprintf("%s/%s/%s/messages", c.baseURL, c.apiVersion, c.phoneNumberID)

	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal send request: %w", err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(sendCtx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create send request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.ErrorContext(ctx, "WhatsApp send failed at transport level", "to", req.To, "error", err)
		return fmt.Errorf("failed to call WhatsApp send API: %w", err)
	}
	defer func() {
		if err := httpResp.Body.Close(); err != nil {
			c.logger.Warn("Failed to close WhatsApp response body", "error", err)
		}
	}()

	respBytes, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read WhatsApp send response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		c.logger.ErrorContext(ctx, "WhatsApp send API error",
			"status_code", httpResp.StatusCode, "to", req.To, "response", string(respBytes))
		var errResp sendResponse
		if json.Unmarshal(respBytes, &errResp) == nil && errResp.Error != nil {
			return fmt.Errorf("WhatsApp API error (%d): %s (%s)", httpResp.StatusCode, errResp.Error.Message, errResp.Error.Type)
		}
		return fmt.Errorf("WhatsApp send request failed with status code %d", httpResp.StatusCode)
	}

	c.logger.DebugContext(ctx, "WhatsApp message sent", "to", req.To, "type", req.Type)
	return nil
}

// ResolveMedia resolves a media identifier to a short-lived download URL and
// MIME type via the media-metadata endpoint.
func (c *Client) ResolveMedia(ctx context.Context, mediaID string) (string, string, error) {
	if mediaID == "" {
		return "", "", fmt.Errorf("empty media ID")
	}

	url := fmt.Sprintf("%s/%s/%s", c.baseURL, c.apiVersion, mediaID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to create media metadata request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", "", fmt.Errorf("failed to call media metadata endpoint: %w", err)
	}
	defer func() {
		if err := httpResp.Body.Close(); err != nil {
			c.logger.Warn("Failed to close media metadata response body", "error", err)
		}
	}()

	respBytes, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return "", "", fmt.Errorf("failed to read media metadata response: %w", err)
	}

	var meta mediaMetadata
	if err := json.Unmarshal(respBytes, &meta); err != nil {
		return "", "", fmt.Errorf("failed to parse media metadata response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		c.logger.ErrorContext(ctx, "Media metadata lookup failed",
			"status_code", httpResp.StatusCode, "media_id", mediaID)
		if meta.Error != nil {
			return "", "", fmt.Errorf("media metadata error (%d): %s", httpResp.StatusCode, meta.Error.Message)
		}
		return "", "", fmt.Errorf("media metadata request failed with status code %d", httpResp.StatusCode)
	}

	if meta.URL == "" {
		return "", "", fmt.Errorf("media metadata response missing download URL")
	}

	c.logger.DebugContext(ctx, "Resolved media", "media_id", mediaID, "mime_type", meta.MimeType, "size", meta.FileSize)
	return meta.URL, meta.MimeType, nil
}

// DownloadMedia fetches the bytes behind a resolved media URL. The URL is
// short-lived and must also be bearer-authenticated.
func (c *Client) DownloadMedia(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty media URL")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create media download request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to download media: %w", err)
	}
	defer func() {
		if err := httpResp.Body.Close(); err != nil {
			c.logger.Warn("Failed to close media download body", "error", err)
		}
	}()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("media download failed with status code %d", httpResp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxMediaBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read media bytes: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("media download returned no data")
	}

	return data, nil
}
