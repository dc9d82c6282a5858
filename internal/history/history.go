// Package history keeps the per-user rolling conversation window. The window
// lives only in process memory and is lost on restart; long-term context is
// the job of the facts store, not this package.
package history

import "sync"

// Turn roles, matching the chat completion wire format.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Turn is a single conversation entry. Immutable once created.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Window holds per-user turn sequences capped at maxTurns entries each,
// keyed by the platform-supplied sender identifier.
type Window struct {
	maxTurns int

	mu    sync.Mutex
	turns map[string][]Turn
}

// NewWindow creates a window retaining at most maxTurns entries per user
// (5 user/assistant exchanges at the default of 10).
func NewWindow(maxTurns int) *Window {
	if maxTurns <= 0 {
		maxTurns = 10
	}
	return &Window{
		maxTurns: maxTurns,
		turns:    make(map[string][]Turn),
	}
}

// Get returns a copy of userID's current window in original order.
func (w *Window) Get(userID string) []Turn {
	w.mu.Lock()
	defer w.mu.Unlock()

	src := w.turns[userID]
	if len(src) == 0 {
		return nil
	}
	out := make([]Turn, len(src))
	copy(out, src)
	return out
}

// AppendExchange records one user/assistant exchange and truncates the
// window to the most recent maxTurns entries.
func (w *Window) AppendExchange(userID, userText, assistantText string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	turns := append(w.turns[userID],
		Turn{Role: RoleUser, Content: userText},
		Turn{Role: RoleAssistant, Content: assistantText},
	)
	if len(turns) > w.maxTurns {
		turns = turns[len(turns)-w.maxTurns:]
	}
	w.turns[userID] = turns
}

// Len reports the current window length for userID.
func (w *Window) Len(userID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.turns[userID])
}
