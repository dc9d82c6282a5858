package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Shakir788/cortexV3/internal/logger"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 3 * time.Minute // image analysis can take a while
	shutdownTimeout = 10 * time.Second
	maxBodyBytes    = 1 << 20
)

// Server is the webhook HTTP listener.
type Server struct {
	log         *slog.Logger
	dispatcher  *Dispatcher
	verifyToken string
	httpServer  *http.Server
}

// NewServer creates the webhook server bound to addr ("host:port").
func NewServer(addr, verifyToken string, dispatcher *Dispatcher, log *slog.Logger) *Server {
	s := &Server{
		log:         log.With("component", "webhook_server"),
		dispatcher:  dispatcher,
		verifyToken: verifyToken,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /webhook", s.handleVerify)
	mux.HandleFunc("POST /webhook", s.handleEvent)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /debug/messages", s.handleRecentMessages)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      logger.Middleware(log)(mux),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Webhook server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("webhook server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("Error during webhook server shutdown", "error", err)
		return err
	}

	s.log.Info("Webhook server stopped gracefully.")
	return <-errCh
}

// handleVerify implements the subscription handshake: echo the challenge
// with 200 when the shared verify token matches, else 403.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.verify_token") == s.verifyToken {
		s.log.Info("Webhook verified successfully")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(q.Get("hub.challenge")))
		return
	}

	s.log.Warn("Webhook verification failed: token mismatch")
	http.Error(w, "Verification token mismatch", http.StatusForbidden)
}

// handleEvent decodes one inbound envelope and dispatches it. The response
// is always 200 with a status tag, regardless of internal outcome, so the
// platform never retries on application-level failure.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeStatus(w, statusMalformed)
		return
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		s.log.Warn("Failed to decode webhook envelope", "error", err)
		s.writeStatus(w, statusMalformed)
		return
	}

	tag := s.dispatcher.Dispatch(r.Context(), &env)
	s.writeStatus(w, tag)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.dispatcher != nil && s.dispatcher.deps.Archive != nil {
		if err := s.dispatcher.deps.Archive.Ping(r.Context()); err != nil {
			s.log.Error("Health check failed: database unreachable", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("database unreachable"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleRecentMessages is the operator inspection endpoint for the message
// archive. The shared verify token gates it.
func (s *Server) handleRecentMessages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("token") != s.verifyToken {
		http.Error(w, "Verification token mismatch", http.StatusForbidden)
		return
	}

	userID := q.Get("user_id")
	if userID == "" {
		http.Error(w, "user_id query parameter is required", http.StatusBadRequest)
		return
	}

	limit, _ := strconv.Atoi(q.Get("limit"))

	if s.dispatcher == nil || s.dispatcher.deps.Archive == nil {
		http.Error(w, "message archive is not configured", http.StatusServiceUnavailable)
		return
	}

	messages, err := s.dispatcher.deps.Archive.GetRecentMessages(r.Context(), userID, limit)
	if err != nil {
		s.log.Error("Failed to read archived messages", "user_id", userID, "error", err)
		http.Error(w, "failed to read archived messages", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(messages); err != nil {
		s.log.Warn("Failed to write archived messages response", "error", err)
	}
}

func (s *Server) writeStatus(w http.ResponseWriter, tag string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": tag}); err != nil {
		s.log.Warn("Failed to write webhook acknowledgement", "error", err)
	}
}
