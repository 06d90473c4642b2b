// Package usecases - notes.go manages the user's personal note list.
package usecases

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/0xcro3dile/neurosync-go/internal/domain/entities"
	"github.com/0xcro3dile/neurosync-go/internal/domain/ports"
)

// Notes exposes the note list operations. The client holds no note cache of
// record; every read is a pass-through to the backend, so failures never
// leave partial state behind.
type Notes struct {
	session *AuthSession
	svc     ports.NoteService
	log     *zap.Logger
}

// NewNotes creates a Notes use case with injected dependencies.
func NewNotes(session *AuthSession, svc ports.NoteService, log *zap.Logger) *Notes {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notes{
		session: session,
		svc:     svc,
		log:     log.Named("notes"),
	}
}

// List returns all notes belonging to the signed-in user.
func (n *Notes) List(ctx context.Context) ([]entities.Note, error) {
	token, err := n.session.AuthorizedToken()
	if err != nil {
		return nil, err
	}
	return n.svc.ListNotes(ctx, token)
}

// Create stores a new note. The title is validated locally before any
// network call.
func (n *Notes) Create(ctx context.Context, title, desc string, important bool) (entities.Note, error) {
	token, err := n.session.AuthorizedToken()
	if err != nil {
		return entities.Note{}, err
	}
	if strings.TrimSpace(title) == "" {
		return entities.Note{}, &entities.ValidationError{Field: "title", Reason: "must not be empty"}
	}

	note, err := n.svc.CreateNote(ctx, token, entities.Note{Title: title, Desc: desc, Important: important})
	if err != nil {
		n.log.Info("creating note failed", zap.Error(err))
		return entities.Note{}, err
	}
	n.log.Info("note created", zap.String("note_id", note.ID))
	return note, nil
}

// Delete removes a note by id.
func (n *Notes) Delete(ctx context.Context, id string) error {
	token, err := n.session.AuthorizedToken()
	if err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return &entities.ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if err := n.svc.DeleteNote(ctx, token, id); err != nil {
		n.log.Info("deleting note failed", zap.String("note_id", id), zap.Error(err))
		return err
	}
	return nil
}
