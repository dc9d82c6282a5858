package history_test

import (
	"fmt"
	"testing"

	"github.com/Shakir788/cortexV3/internal/history"
)

func TestAppendExchangeOrder(t *testing.T) {
	t.Parallel()

	w := history.NewWindow(10)
	w.AppendExchange("u1", "question one", "answer one")
	w.AppendExchange("u1", "question two", "answer two")

	got := w.Get("u1")
	want := []history.Turn{
		{Role: history.RoleUser, Content: "question one"},
		{Role: history.RoleAssistant, Content: "answer one"},
		{Role: history.RoleUser, Content: "question two"},
		{Role: history.RoleAssistant, Content: "answer two"},
	}

	if len(got) != len(want) {
		t.Fatalf("Get() returned %d turns, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Get()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestWindowTruncation(t *testing.T) {
	t.Parallel()

	w := history.NewWindow(10)
	for i := 0; i < 8; i++ {
		w.AppendExchange("u1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	if got := w.Len("u1"); got != 10 {
		t.Fatalf("Len() = %d, want 10", got)
	}

	turns := w.Get("u1")
	// Oldest retained entry must be the user turn of the fourth exchange.
	if turns[0].Content != "q3" {
		t.Errorf("oldest retained turn = %q, want %q", turns[0].Content, "q3")
	}
	if turns[len(turns)-1].Content != "a7" {
		t.Errorf("newest turn = %q, want %q", turns[len(turns)-1].Content, "a7")
	}
}

func TestUsersAreIndependent(t *testing.T) {
	t.Parallel()

	w := history.NewWindow(10)
	w.AppendExchange("alice", "alice question", "alice answer")

	if got := w.Get("bob"); got != nil {
		t.Errorf("Get(bob) = %v, want nil", got)
	}
	if got := w.Len("alice"); got != 2 {
		t.Errorf("Len(alice) = %d, want 2", got)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	t.Parallel()

	w := history.NewWindow(10)
	w.AppendExchange("u1", "original question", "original answer")

	turns := w.Get("u1")
	turns[0].Content = "mutated"

	if got := w.Get("u1"); got[0].Content != "original question" {
		t.Errorf("Get() after caller mutation = %q, want original content", got[0].Content)
	}
}

func TestNewWindowDefaultsInvalidSize(t *testing.T) {
	t.Parallel()

	w := history.NewWindow(0)
	for i := 0; i < 7; i++ {
		w.AppendExchange("u1", "q", "a")
	}

	if got := w.Len("u1"); got != 10 {
		t.Errorf("Len() with zero maxTurns = %d, want default cap of 10", got)
	}
}
