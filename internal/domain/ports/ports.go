// Package ports defines interfaces for external dependencies.
// Clean Architecture: These are the boundaries - usecases depend on these abstractions,
// not concrete implementations. Adapters implement these interfaces.
// This follows Dependency Inversion Principle (DIP) strictly.
package ports

import (
	"context"
	"io"

	"github.com/0xcro3dile/neurosync-go/internal/domain/entities"
)

// IdentityProvider exchanges user credentials for bearer tokens.
// Interface Segregation: Only token acquisition, no storage.
type IdentityProvider interface {
	// SignIn exchanges email/password for a credential.
	SignIn(ctx context.Context, email, password string) (entities.Credential, error)

	// SignUp creates an account and signs it in.
	SignUp(ctx context.Context, email, password string) (entities.Credential, error)

	// Refresh re-derives a credential from a still-valid refresh token.
	Refresh(ctx context.Context, refreshToken string) (entities.Credential, error)
}

// CredentialStore persists the session credential across runs.
// This is the client-local durable storage collaborator, not core logic.
type CredentialStore interface {
	// Load returns the stored credential; ok is false when none is stored.
	Load() (cred entities.Credential, ok bool, err error)

	// Save stores the credential, replacing any prior one.
	Save(cred entities.Credential) error

	// Clear removes the stored credential.
	Clear() error
}

// RagService is the document-grounded answering surface of the backend.
// Usecases depend on this abstraction, not on HTTP.
type RagService interface {
	// ListDocuments returns all documents belonging to the token's user.
	ListDocuments(ctx context.Context, token string) ([]entities.Document, error)

	// Upload sends file bytes and returns the server-assigned document.
	Upload(ctx context.Context, token, filename string, data io.Reader) (entities.Document, error)

	// Chat asks one question against a document, sending the prior history.
	// The returned history is the server's full updated conversation.
	Chat(ctx context.Context, token, documentID, question string, history []entities.ChatTurn) (answer string, updated []entities.ChatTurn, err error)
}

// NoteService is the personal note surface of the backend.
type NoteService interface {
	// ListNotes returns all notes belonging to the token's user.
	ListNotes(ctx context.Context, token string) ([]entities.Note, error)

	// CreateNote stores a new note and returns it with its server id.
	CreateNote(ctx context.Context, token string, note entities.Note) (entities.Note, error)

	// DeleteNote removes a note by id.
	DeleteNote(ctx context.Context, token, id string) error
}

// FileSource monitors a directory for new documents to upload.
type FileSource interface {
	// Watch starts monitoring the directory and emits events.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)
