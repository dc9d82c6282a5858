package media_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/Shakir788/cortexV3/internal/config"
	"github.com/Shakir788/cortexV3/internal/media"
	"github.com/Shakir788/cortexV3/internal/openai"
)

var testMessages = config.MessagesConfig{
	GeneralError:     "general error",
	AIError:          "ai error",
	ImageProcessing:  "processing...",
	ImageError:       "image analyse nahi ho payi",
	AudioUnavailable: "audio abhi support nahi hai",
	AudioEmpty:       "audio mein kuch sunai nahi diya",
	AudioError:       "audio samajh nahi paya",
	UnsupportedType:  "yeh type support nahi hai",
	InteractiveAck:   "aapne chuna: %s",
}

type fakeResolver struct {
	mimeType    string
	data        []byte
	resolveErr  error
	downloadErr error
}

func (f *fakeResolver) ResolveMedia(_ context.Context, _ string) (string, string, error) {
	if f.resolveErr != nil {
		return "", "", f.resolveErr
	}
	return "https://cdn.test/media", f.mimeType, nil
}

func (f *fakeResolver) DownloadMedia(_ context.Context, _ string) ([]byte, error) {
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	return f.data, nil
}

type fakeChat struct {
	content string
	err     error
	gotMsgs []openai.Message
}

func (f *fakeChat) ChatCompletion(_ context.Context, messages []openai.Message, _ []openai.Tool) (*openai.ResponseMessage, error) {
	f.gotMsgs = messages
	if f.err != nil {
		return nil, f.err
	}
	return &openai.ResponseMessage{Role: openai.RoleAssistant, Content: f.content}, nil
}

type fakeSTT struct {
	transcript string
	err        error
	gotName    string
}

func (f *fakeSTT) Transcribe(_ context.Context, _ []byte, filename string) (string, error) {
	f.gotName = filename
	return f.transcript, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAnalyzer(resolver *fakeResolver, chat *fakeChat, stt *fakeSTT, cfg config.MediaConfig) *media.Analyzer {
	return media.NewAnalyzer(resolver, chat, stt, nil, cfg, testMessages, discardLogger())
}

func TestAudioEnabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		transcriber string
		want        bool
	}{
		{name: "openai strategy", transcriber: media.StrategyOpenAI, want: true},
		{name: "gemini strategy", transcriber: media.StrategyGemini, want: true},
		{name: "disabled", transcriber: media.StrategyDisabled, want: false},
		{name: "empty", transcriber: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := newAnalyzer(&fakeResolver{}, &fakeChat{}, &fakeSTT{},
				config.MediaConfig{Vision: media.StrategyOpenAI, Transcriber: tt.transcriber})
			if got := a.AudioEnabled(); got != tt.want {
				t.Errorf("AudioEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnalyzeImage(t *testing.T) {
	t.Parallel()

	t.Run("forwards caption and data URI", func(t *testing.T) {
		t.Parallel()

		resolver := &fakeResolver{mimeType: "image/png", data: []byte("png-bytes")}
		chat := &fakeChat{content: "yeh ek sunset hai"}
		a := newAnalyzer(resolver, chat, &fakeSTT{}, config.MediaConfig{Vision: media.StrategyOpenAI, Transcriber: media.StrategyDisabled})

		got := a.AnalyzeImage(context.Background(), "media-1", "is photo mein kya hai?")
		if got != "yeh ek sunset hai" {
			t.Errorf("AnalyzeImage() = %q, want the vision reply", got)
		}
		if len(chat.gotMsgs) != 1 {
			t.Fatalf("chat received %d messages, want 1", len(chat.gotMsgs))
		}
	})

	t.Run("empty caption gets default prompt", func(t *testing.T) {
		t.Parallel()

		resolver := &fakeResolver{mimeType: "image/jpeg", data: []byte("jpg")}
		chat := &fakeChat{content: "described"}
		a := newAnalyzer(resolver, chat, &fakeSTT{}, config.MediaConfig{Vision: media.StrategyOpenAI, Transcriber: media.StrategyDisabled})

		if got := a.AnalyzeImage(context.Background(), "media-1", "   "); got != "described" {
			t.Errorf("AnalyzeImage() = %q, want the vision reply", got)
		}
	})

	t.Run("fetch failure yields apology with error class", func(t *testing.T) {
		t.Parallel()

		resolver := &fakeResolver{resolveErr: errors.New("boom")}
		a := newAnalyzer(resolver, &fakeChat{}, &fakeSTT{}, config.MediaConfig{Vision: media.StrategyOpenAI, Transcriber: media.StrategyDisabled})

		got := a.AnalyzeImage(context.Background(), "media-1", "caption")
		if !strings.HasPrefix(got, testMessages.ImageError) {
			t.Errorf("AnalyzeImage() = %q, want it to start with the fixed image error", got)
		}
		if strings.Contains(got, "boom") {
			t.Errorf("AnalyzeImage() = %q, must not leak the raw error message", got)
		}
	})

	t.Run("vision failure yields apology", func(t *testing.T) {
		t.Parallel()

		resolver := &fakeResolver{mimeType: "image/jpeg", data: []byte("jpg")}
		chat := &fakeChat{err: errors.New("model down")}
		a := newAnalyzer(resolver, chat, &fakeSTT{}, config.MediaConfig{Vision: media.StrategyOpenAI, Transcriber: media.StrategyDisabled})

		got := a.AnalyzeImage(context.Background(), "media-1", "caption")
		if !strings.HasPrefix(got, testMessages.ImageError) {
			t.Errorf("AnalyzeImage() = %q, want the fixed image error", got)
		}
	})
}

func TestTranscribe(t *testing.T) {
	t.Parallel()

	t.Run("usable transcript", func(t *testing.T) {
		t.Parallel()

		resolver := &fakeResolver{mimeType: "audio/ogg", data: []byte("ogg")}
		stt := &fakeSTT{transcript: "  kal milte hain  "}
		a := newAnalyzer(resolver, &fakeChat{}, stt, config.MediaConfig{Vision: media.StrategyOpenAI, Transcriber: media.StrategyOpenAI})

		got, ok := a.Transcribe(context.Background(), "media-1")
		if !ok {
			t.Fatalf("Transcribe() ok = false, want usable transcript, got %q", got)
		}
		if got != "kal milte hain" {
			t.Errorf("transcript = %q, want trimmed text", got)
		}
	})

	t.Run("disabled strategy", func(t *testing.T) {
		t.Parallel()

		a := newAnalyzer(&fakeResolver{}, &fakeChat{}, &fakeSTT{}, config.MediaConfig{Vision: media.StrategyOpenAI, Transcriber: media.StrategyDisabled})

		got, ok := a.Transcribe(context.Background(), "media-1")
		if ok {
			t.Fatal("Transcribe() ok = true, want fixed reply for disabled strategy")
		}
		if got != testMessages.AudioUnavailable {
			t.Errorf("reply = %q, want the unavailable text", got)
		}
	})

	t.Run("empty transcript", func(t *testing.T) {
		t.Parallel()

		// A silent voice note comes back as an empty (or blank) transcript
		// with no error; the reply must be the empty-audio text, never the
		// audio-error apology.
		for _, transcript := range []string{"", "   "} {
			resolver := &fakeResolver{mimeType: "audio/ogg", data: []byte("ogg")}
			stt := &fakeSTT{transcript: transcript}
			a := newAnalyzer(resolver, &fakeChat{}, stt, config.MediaConfig{Vision: media.StrategyOpenAI, Transcriber: media.StrategyOpenAI})

			got, ok := a.Transcribe(context.Background(), "media-1")
			if ok {
				t.Fatalf("Transcribe() ok = true for transcript %q, want fixed reply", transcript)
			}
			if got != testMessages.AudioEmpty {
				t.Errorf("reply for transcript %q = %q, want the empty-audio text", transcript, got)
			}
		}
	})

	t.Run("transcription failure", func(t *testing.T) {
		t.Parallel()

		resolver := &fakeResolver{mimeType: "audio/ogg", data: []byte("ogg")}
		stt := &fakeSTT{err: errors.New("whisper down")}
		a := newAnalyzer(resolver, &fakeChat{}, stt, config.MediaConfig{Vision: media.StrategyOpenAI, Transcriber: media.StrategyOpenAI})

		got, ok := a.Transcribe(context.Background(), "media-1")
		if ok {
			t.Fatal("Transcribe() ok = true, want fixed reply on failure")
		}
		if !strings.HasPrefix(got, testMessages.AudioError) {
			t.Errorf("reply = %q, want the fixed audio error", got)
		}
	})

	t.Run("download failure", func(t *testing.T) {
		t.Parallel()

		resolver := &fakeResolver{mimeType: "audio/ogg", downloadErr: errors.New("cdn gone")}
		a := newAnalyzer(resolver, &fakeChat{}, &fakeSTT{}, config.MediaConfig{Vision: media.StrategyOpenAI, Transcriber: media.StrategyOpenAI})

		if _, ok := a.Transcribe(context.Background(), "media-1"); ok {
			t.Fatal("Transcribe() ok = true, want fixed reply on download failure")
		}
	})

	t.Run("filename follows mime type", func(t *testing.T) {
		t.Parallel()

		resolver := &fakeResolver{mimeType: "audio/mpeg", data: []byte("mp3")}
		stt := &fakeSTT{transcript: "text"}
		a := newAnalyzer(resolver, &fakeChat{}, stt, config.MediaConfig{Vision: media.StrategyOpenAI, Transcriber: media.StrategyOpenAI})

		if _, ok := a.Transcribe(context.Background(), "media-1"); !ok {
			t.Fatal("Transcribe() ok = false, want success")
		}
		if stt.gotName != "audio.mp3" {
			t.Errorf("filename = %q, want audio.mp3 for audio/mpeg", stt.gotName)
		}
	})
}
