package whatsapp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(baseURL, "v19.0", "12345", "test-token", discardLogger())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		phoneID string
		token   string
		wantErr bool
	}{
		{name: "valid", phoneID: "12345", token: "tok", wantErr: false},
		{name: "missing token", phoneID: "12345", token: "", wantErr: true},
		{name: "missing phone number ID", phoneID: "", token: "tok", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewClient("https://graph.test", "v19.0", tt.phoneID, tt.token, discardLogger())
			if (err != nil) != tt.wantErr {
				t.Errorf("NewClient() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSendText(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	var gotBody sendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.test"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if err := c.SendText(context.Background(), "917000000001", "namaste"); err != nil {
		t.Fatalf("SendText() error = %v", err)
	}

	if gotPath != "/v19.0/12345/messages" {
		t.Errorf("request path = %q, want /v19.0/12345/messages", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotBody.MessagingProduct != "whatsapp" || gotBody.Type != "text" {
		t.Errorf("body = %+v, want messaging_product=whatsapp type=text", gotBody)
	}
	if gotBody.Text == nil || gotBody.Text.Body != "namaste" {
		t.Errorf("text body = %+v, want namaste", gotBody.Text)
	}
}

func TestSendInteractive(t *testing.T) {
	t.Parallel()

	t.Run("sends list payload", func(t *testing.T) {
		t.Parallel()

		var gotBody sendRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.test"}]}`))
		}))
		defer srv.Close()

		payload := &Interactive{
			Type: "list",
			Body: InteractiveBody{Text: "choose"},
			Action: InteractiveAction{
				Button: "Options",
				Sections: []Section{
					{Title: "Commands", Rows: []Row{{ID: "row_1", Title: "First"}}},
				},
			},
		}

		c := newTestClient(t, srv.URL)
		if err := c.SendInteractive(context.Background(), "917000000001", payload); err != nil {
			t.Fatalf("SendInteractive() error = %v", err)
		}

		if gotBody.Type != "interactive" || gotBody.Interactive == nil {
			t.Fatalf("body = %+v, want interactive payload", gotBody)
		}
		if gotBody.Interactive.Action.Sections[0].Rows[0].ID != "row_1" {
			t.Errorf("row ID not preserved on the wire: %+v", gotBody.Interactive)
		}
	})

	t.Run("nil payload", func(t *testing.T) {
		t.Parallel()

		c := newTestClient(t, "https://graph.test")
		if err := c.SendInteractive(context.Background(), "917000000001", nil); err == nil {
			t.Fatal("SendInteractive(nil) error = nil, want error")
		}
	})
}

func TestSendErrorResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid recipient","type":"OAuthException"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.SendText(context.Background(), "bad", "hello")
	if err == nil {
		t.Fatal("SendText() error = nil, want API error")
	}
}

func TestResolveMedia(t *testing.T) {
	t.Parallel()

	t.Run("returns url and mime type", func(t *testing.T) {
		t.Parallel()

		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_ = json.NewEncoder(w).Encode(map[string]any{
				"url":       "https://cdn.test/media/abc",
				"mime_type": "image/jpeg",
				"file_size": 1024,
				"id":        "media-1",
			})
		}))
		defer srv.Close()

		c := newTestClient(t, srv.URL)
		url, mimeType, err := c.ResolveMedia(context.Background(), "media-1")
		if err != nil {
			t.Fatalf("ResolveMedia() error = %v", err)
		}
		if gotPath != "/v19.0/media-1" {
			t.Errorf("request path = %q, want /v19.0/media-1", gotPath)
		}
		if url != "https://cdn.test/media/abc" || mimeType != "image/jpeg" {
			t.Errorf("ResolveMedia() = (%q, %q), want cdn url and image/jpeg", url, mimeType)
		}
	})

	t.Run("empty media ID", func(t *testing.T) {
		t.Parallel()

		c := newTestClient(t, "https://graph.test")
		if _, _, err := c.ResolveMedia(context.Background(), ""); err == nil {
			t.Fatal("ResolveMedia(\"\") error = nil, want error")
		}
	})

	t.Run("missing url in metadata", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"mime_type": "image/jpeg"})
		}))
		defer srv.Close()

		c := newTestClient(t, srv.URL)
		if _, _, err := c.ResolveMedia(context.Background(), "media-1"); err == nil {
			t.Fatal("ResolveMedia() error = nil, want missing-url error")
		}
	})
}

func TestDownloadMedia(t *testing.T) {
	t.Parallel()

	t.Run("returns bytes with bearer auth", func(t *testing.T) {
		t.Parallel()

		var gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			_, _ = w.Write([]byte("binary-image-data"))
		}))
		defer srv.Close()

		c := newTestClient(t, srv.URL)
		data, err := c.DownloadMedia(context.Background(), srv.URL+"/media/abc")
		if err != nil {
			t.Fatalf("DownloadMedia() error = %v", err)
		}
		if string(data) != "binary-image-data" {
			t.Errorf("data = %q, want the served bytes", data)
		}
		if gotAuth != "Bearer test-token" {
			t.Errorf("Authorization = %q, want bearer token", gotAuth)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		c := newTestClient(t, srv.URL)
		if _, err := c.DownloadMedia(context.Background(), srv.URL+"/media/abc"); err == nil {
			t.Fatal("DownloadMedia() error = nil, want empty-data error")
		}
	})

	t.Run("error status", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		c := newTestClient(t, srv.URL)
		if _, err := c.DownloadMedia(context.Background(), srv.URL+"/media/gone"); err == nil {
			t.Fatal("DownloadMedia() error = nil, want status error")
		}
	})
}
