// Package usecases - store.go holds the known documents and the single
// active conversation thread.
package usecases

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/0xcro3dile/neurosync-go/internal/domain/entities"
	"github.com/0xcro3dile/neurosync-go/internal/domain/ports"
)

// ChatSessionStore keeps the last known document list, the active selection,
// and at most one thread's history at a time. Selecting a document always
// resets the thread; turns never move between threads.
type ChatSessionStore struct {
	session *AuthSession
	rag     ports.RagService
	log     *zap.Logger

	mu     sync.Mutex
	docs   []entities.Document
	active string
	turns  []entities.ChatTurn
}

// NewChatSessionStore creates a ChatSessionStore with injected dependencies.
func NewChatSessionStore(session *AuthSession, rag ports.RagService, log *zap.Logger) *ChatSessionStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatSessionStore{
		session: session,
		rag:     rag,
		log:     log.Named("store"),
	}
}

// RefreshDocuments re-queries the backend for the user's documents. On any
// failure the prior list is left untouched and the error is surfaced.
func (s *ChatSessionStore) RefreshDocuments(ctx context.Context) ([]entities.Document, error) {
	token, err := s.session.AuthorizedToken()
	if err != nil {
		return nil, err
	}

	docs, err := s.rag.ListDocuments(ctx, token)
	if err != nil {
		s.log.Info("document listing failed", zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	s.docs = docs
	out := s.copyDocs()
	s.mu.Unlock()
	return out, nil
}

// Documents returns the last known document list.
func (s *ChatSessionStore) Documents() []entities.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyDocs()
}

// Register adds a freshly uploaded document to the known list. An existing
// entry with the same id is replaced.
func (s *ChatSessionStore) Register(doc entities.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.docs {
		if d.ID == doc.ID {
			s.docs[i] = doc
			return
		}
	}
	s.docs = append(s.docs, doc)
}

// Select makes documentID the active selection and unconditionally clears the
// thread, even when re-selecting the already-active id. Unknown ids are
// rejected with ErrNotFound; callers validate via the document list first.
func (s *ChatSessionStore) Select(documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.knownLocked(documentID) {
		return entities.ErrNotFound
	}
	s.active = documentID
	s.turns = nil
	return nil
}

// ActiveThread returns the active thread's history; ok is false until a
// document has been selected.
func (s *ChatSessionStore) ActiveThread() (entities.ChatThread, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == "" {
		return entities.ChatThread{}, false
	}
	turns := make([]entities.ChatTurn, len(s.turns))
	copy(turns, s.turns)
	return entities.ChatThread{DocumentID: s.active, Turns: turns}, true
}

// AppendTurn appends one turn to the active thread.
func (s *ChatSessionStore) AppendTurn(turn entities.ChatTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == "" {
		return entities.ErrNoActiveSession
	}
	s.turns = append(s.turns, turn)
	return nil
}

// ReplaceTurns overwrites the active thread's history verbatim. Used for the
// authoritative post-chat overwrite with the server's returned history.
func (s *ChatSessionStore) ReplaceTurns(turns []entities.ChatTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == "" {
		return entities.ErrNoActiveSession
	}
	s.turns = make([]entities.ChatTurn, len(turns))
	copy(s.turns, turns)
	return nil
}

func (s *ChatSessionStore) copyDocs() []entities.Document {
	out := make([]entities.Document, len(s.docs))
	copy(out, s.docs)
	return out
}

func (s *ChatSessionStore) knownLocked(documentID string) bool {
	for _, d := range s.docs {
		if d.ID == documentID {
			return true
		}
	}
	return false
}
