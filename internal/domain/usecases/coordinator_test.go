package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/0xcro3dile/neurosync-go/internal/domain/entities"
)

func chatFixture(t *testing.T, rag *mockRag) (*ChatCoordinator, *ChatSessionStore) {
	t.Helper()
	session := signedInSession(t)
	store := NewChatSessionStore(session, rag, nil)
	store.Register(entities.Document{ID: "f1", Filename: "a.pdf", Status: entities.DocumentReady})
	if err := store.Select("f1"); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	return NewChatCoordinator(session, rag, store, nil), store
}

func TestChatCoordinator_SuccessfulAsk(t *testing.T) {
	rag := &mockRag{
		chatAnswer: "A summary.",
		chatHistory: []entities.ChatTurn{
			{Role: entities.RoleUser, Text: "What is this about?"},
			{Role: entities.RoleAssistant, Text: "A summary."},
		},
	}
	coord, store := chatFixture(t, rag)

	answer, err := coord.Ask(context.Background(), "What is this about?")
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}
	if answer != "A summary." {
		t.Errorf("unexpected answer: %s", answer)
	}

	// The server's returned history replaces the thread verbatim.
	thread, _ := store.ActiveThread()
	if len(thread.Turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(thread.Turns))
	}
	if thread.Turns[0] != (entities.ChatTurn{Role: entities.RoleUser, Text: "What is this about?"}) {
		t.Errorf("unexpected first turn: %+v", thread.Turns[0])
	}
	if thread.Turns[1] != (entities.ChatTurn{Role: entities.RoleAssistant, Text: "A summary."}) {
		t.Errorf("unexpected second turn: %+v", thread.Turns[1])
	}
}

func TestChatCoordinator_SendsPriorHistoryNotOptimisticTurn(t *testing.T) {
	rag := &mockRag{
		chatAnswer: "Second answer",
		chatHistory: []entities.ChatTurn{
			{Role: entities.RoleUser, Text: "first"},
			{Role: entities.RoleAssistant, Text: "First answer"},
			{Role: entities.RoleUser, Text: "second"},
			{Role: entities.RoleAssistant, Text: "Second answer"},
		},
	}
	coord, store := chatFixture(t, rag)
	store.ReplaceTurns([]entities.ChatTurn{
		{Role: entities.RoleUser, Text: "first"},
		{Role: entities.RoleAssistant, Text: "First answer"},
	})

	if _, err := coord.Ask(context.Background(), "second"); err != nil {
		t.Fatalf("ask failed: %v", err)
	}

	// The request must carry the history from before the optimistic append.
	if len(rag.lastHistory) != 2 {
		t.Fatalf("expected 2 prior turns sent, got %d", len(rag.lastHistory))
	}
	if rag.lastHistory[1].Text != "First answer" {
		t.Error("prior history must not include the just-asked question")
	}
	if rag.lastQuestion != "second" {
		t.Errorf("unexpected question: %s", rag.lastQuestion)
	}
	if rag.lastDocID != "f1" {
		t.Errorf("unexpected document id: %s", rag.lastDocID)
	}
}

func TestChatCoordinator_EmptyQuestionIsNoOp(t *testing.T) {
	rag := &mockRag{}
	coord, store := chatFixture(t, rag)

	answer, err := coord.Ask(context.Background(), "   ")
	if err != nil || answer != "" {
		t.Fatalf("blank question must be a silent no-op, got %q, %v", answer, err)
	}
	if rag.chatCalls != 0 {
		t.Error("no network call for a blank question")
	}
	thread, _ := store.ActiveThread()
	if len(thread.Turns) != 0 {
		t.Error("thread must be unchanged")
	}
}

func TestChatCoordinator_NoActiveThreadIsNoOp(t *testing.T) {
	session := signedInSession(t)
	rag := &mockRag{}
	store := NewChatSessionStore(session, rag, nil)
	coord := NewChatCoordinator(session, rag, store, nil)

	answer, err := coord.Ask(context.Background(), "hi")
	if err != nil || answer != "" {
		t.Fatalf("ask without selection must be a silent no-op, got %q, %v", answer, err)
	}
	if rag.chatCalls != 0 {
		t.Error("no network call without an active thread")
	}
}

func TestChatCoordinator_UnauthorizedBeforeNetwork(t *testing.T) {
	session := signedOutSession(t)
	rag := &mockRag{}
	store := NewChatSessionStore(session, rag, nil)
	store.Register(entities.Document{ID: "f1", Filename: "a.pdf"})
	store.Select("f1")
	coord := NewChatCoordinator(session, rag, store, nil)

	_, err := coord.Ask(context.Background(), "hi")
	if !errors.Is(err, entities.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if rag.chatCalls != 0 {
		t.Error("no network call without a token")
	}
}

func TestChatCoordinator_SecondAskIsBusy(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	rag := &mockRag{
		chatAnswer:  "done",
		chatHistory: []entities.ChatTurn{{Role: entities.RoleUser, Text: "slow"}, {Role: entities.RoleAssistant, Text: "done"}},
	}
	rag.chatFn = func() {
		close(started)
		<-release
	}
	coord, store := chatFixture(t, rag)

	firstDone := make(chan error, 1)
	go func() {
		_, err := coord.Ask(context.Background(), "slow")
		firstDone <- err
	}()

	<-started
	before, _ := store.ActiveThread()

	_, err := coord.Ask(context.Background(), "eager")
	if !errors.Is(err, entities.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	after, _ := store.ActiveThread()
	if len(after.Turns) != len(before.Turns) {
		t.Error("rejected ask must leave the thread untouched")
	}

	close(release)
	if err := <-firstDone; err != nil {
		t.Fatalf("first ask failed: %v", err)
	}
	if coord.Busy() {
		t.Error("busy flag must clear after completion")
	}
}

func TestChatCoordinator_FailureKeepsQuestionAndAppendsError(t *testing.T) {
	rag := &mockRag{chatErr: &entities.BackendError{StatusCode: 500, Message: "An error occurred while processing your chat request."}}
	coord, store := chatFixture(t, rag)

	before, _ := store.ActiveThread()

	_, err := coord.Ask(context.Background(), "doomed")
	if err == nil {
		t.Fatal("ask should surface the failure")
	}
	if coord.Busy() {
		t.Error("busy flag must clear on failure")
	}

	thread, _ := store.ActiveThread()
	if len(thread.Turns) != len(before.Turns)+2 {
		t.Fatalf("thread must grow by exactly 2, got %d -> %d", len(before.Turns), len(thread.Turns))
	}
	last := thread.Turns[len(thread.Turns)-1]
	prev := thread.Turns[len(thread.Turns)-2]
	if prev.Role != entities.RoleUser || prev.Text != "doomed" {
		t.Errorf("optimistic user turn must survive, got %+v", prev)
	}
	if last.Role != entities.RoleAssistant {
		t.Errorf("synthetic error turn must be from the assistant, got %+v", last)
	}
	if last.Text != "Error: "+rag.chatErr.Error() {
		t.Errorf("unexpected error turn text: %s", last.Text)
	}
}

func TestChatCoordinator_ReselectDuringFlightDropsResult(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	rag := &mockRag{
		chatAnswer:  "late",
		chatHistory: []entities.ChatTurn{{Role: entities.RoleUser, Text: "q"}, {Role: entities.RoleAssistant, Text: "late"}},
	}
	rag.chatFn = func() {
		close(started)
		<-release
	}
	coord, store := chatFixture(t, rag)
	store.Register(entities.Document{ID: "f2", Filename: "b.pdf"})

	done := make(chan struct{})
	go func() {
		coord.Ask(context.Background(), "q")
		close(done)
	}()

	<-started
	if err := store.Select("f2"); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	close(release)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ask did not finish")
	}

	thread, _ := store.ActiveThread()
	if thread.DocumentID != "f2" {
		t.Fatalf("unexpected active document: %s", thread.DocumentID)
	}
	if len(thread.Turns) != 0 {
		t.Error("a result for the old document must never land on the new thread")
	}
}
