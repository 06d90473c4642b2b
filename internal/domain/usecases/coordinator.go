// Package usecases - coordinator.go drives question/answer round trips
// against the active thread.
package usecases

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/0xcro3dile/neurosync-go/internal/domain/entities"
	"github.com/0xcro3dile/neurosync-go/internal/domain/ports"
)

// ChatCoordinator serializes chat round trips: at most one Ask is in flight
// at any instant, and the server's returned history is the sole source of
// truth for the thread after a successful exchange.
type ChatCoordinator struct {
	session *AuthSession
	rag     ports.RagService
	store   *ChatSessionStore
	log     *zap.Logger

	mu   sync.Mutex
	busy bool
}

// NewChatCoordinator creates a ChatCoordinator with injected dependencies.
func NewChatCoordinator(session *AuthSession, rag ports.RagService, store *ChatSessionStore, log *zap.Logger) *ChatCoordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatCoordinator{
		session: session,
		rag:     rag,
		store:   store,
		log:     log.Named("chat"),
	}
}

// Busy reports whether an Ask is currently in flight.
func (c *ChatCoordinator) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Ask runs one question/answer exchange against the active thread.
//
// A blank question or a missing active thread is a silent no-op: the
// presentation layer is expected to prevent both, so neither is an error. An
// Ask while another is pending fails with ErrBusy; requests are never queued.
//
// The user turn is appended optimistically before the round trip so the
// transcript reflects the input immediately. On success the thread is
// overwritten verbatim with the server's returned history (which supersedes
// the optimistic append); on failure the optimistic turn stays and a
// synthetic assistant turn carries the error, so the failed attempt remains
// visible without losing the question.
func (c *ChatCoordinator) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", nil
	}
	thread, ok := c.store.ActiveThread()
	if !ok {
		return "", nil
	}

	token, err := c.session.AuthorizedToken()
	if err != nil {
		return "", err
	}

	// Sole concurrency gate: acquire-check-set is atomic, so a concurrent
	// second Ask observes ErrBusy with the thread untouched.
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return "", entities.ErrBusy
	}
	c.busy = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	// The server needs the history from before this question; it returns the
	// full updated history including the question and its answer.
	prior := thread.Turns

	if err := c.store.AppendTurn(entities.ChatTurn{Role: entities.RoleUser, Text: question}); err != nil {
		return "", err
	}

	answer, updated, err := c.rag.Chat(ctx, token, thread.DocumentID, question, prior)
	if err != nil {
		c.log.Info("chat round trip failed",
			zap.String("document_id", thread.DocumentID), zap.Error(err))
		c.applyToThread(thread.DocumentID, func() error {
			return c.store.AppendTurn(entities.ChatTurn{
				Role: entities.RoleAssistant,
				Text: "Error: " + err.Error(),
			})
		})
		return "", err
	}

	c.applyToThread(thread.DocumentID, func() error {
		return c.store.ReplaceTurns(updated)
	})
	return answer, nil
}

// applyToThread mutates the store only while the originating document is
// still the active selection; a result arriving after a reselect is dropped
// so turns never land on a different thread.
func (c *ChatCoordinator) applyToThread(documentID string, fn func() error) {
	cur, ok := c.store.ActiveThread()
	if !ok || cur.DocumentID != documentID {
		c.log.Info("selection changed mid-flight, dropping result",
			zap.String("document_id", documentID))
		return
	}
	if err := fn(); err != nil {
		c.log.Warn("applying chat result failed", zap.Error(err))
	}
}
