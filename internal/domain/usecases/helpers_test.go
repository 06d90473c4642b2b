package usecases

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/0xcro3dile/neurosync-go/internal/domain/entities"
)

// mockProvider implements ports.IdentityProvider for testing.
type mockProvider struct {
	signInCred  entities.Credential
	signInErr   error
	refreshCred entities.Credential
	refreshErr  error

	signInCalls  int
	refreshCalls int
}

func (m *mockProvider) SignIn(ctx context.Context, email, password string) (entities.Credential, error) {
	m.signInCalls++
	if m.signInErr != nil {
		return entities.Credential{}, m.signInErr
	}
	return m.signInCred, nil
}

func (m *mockProvider) SignUp(ctx context.Context, email, password string) (entities.Credential, error) {
	return m.SignIn(ctx, email, password)
}

func (m *mockProvider) Refresh(ctx context.Context, refreshToken string) (entities.Credential, error) {
	m.refreshCalls++
	if m.refreshErr != nil {
		return entities.Credential{}, m.refreshErr
	}
	return m.refreshCred, nil
}

// mockCredStore implements ports.CredentialStore for testing.
type mockCredStore struct {
	cred  entities.Credential
	saved bool

	saveCalls  int
	clearCalls int
}

func (m *mockCredStore) Load() (entities.Credential, bool, error) {
	return m.cred, m.saved, nil
}

func (m *mockCredStore) Save(cred entities.Credential) error {
	m.saveCalls++
	m.cred = cred
	m.saved = true
	return nil
}

func (m *mockCredStore) Clear() error {
	m.clearCalls++
	m.cred = entities.Credential{}
	m.saved = false
	return nil
}

// mockRag implements ports.RagService for testing.
type mockRag struct {
	docs    []entities.Document
	listErr error

	uploadErr error
	uploadSeq int

	chatAnswer  string
	chatHistory []entities.ChatTurn
	chatErr     error
	chatFn      func() // blocks inside Chat when set

	listCalls   int
	uploadCalls int
	chatCalls   int

	lastQuestion string
	lastHistory  []entities.ChatTurn
	lastDocID    string
}

func (m *mockRag) ListDocuments(ctx context.Context, token string) ([]entities.Document, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.docs, nil
}

func (m *mockRag) Upload(ctx context.Context, token, filename string, data io.Reader) (entities.Document, error) {
	m.uploadCalls++
	if m.uploadErr != nil {
		return entities.Document{}, m.uploadErr
	}
	m.uploadSeq++
	return entities.Document{
		ID:       fmt.Sprintf("f%d", m.uploadSeq),
		Filename: filename,
		Status:   entities.DocumentReady,
	}, nil
}

func (m *mockRag) Chat(ctx context.Context, token, documentID, question string, history []entities.ChatTurn) (string, []entities.ChatTurn, error) {
	m.chatCalls++
	m.lastQuestion = question
	m.lastDocID = documentID
	m.lastHistory = append([]entities.ChatTurn(nil), history...)
	if m.chatFn != nil {
		m.chatFn()
	}
	if m.chatErr != nil {
		return "", nil, m.chatErr
	}
	return m.chatAnswer, m.chatHistory, nil
}

// mockNoteService implements ports.NoteService for testing.
type mockNoteService struct {
	notes     []entities.Note
	listErr   error
	created   entities.Note
	createErr error
	deleteErr error

	listCalls   int
	createCalls int
	deleteCalls int
	lastDeleted string
}

func (m *mockNoteService) ListNotes(ctx context.Context, token string) ([]entities.Note, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.notes, nil
}

func (m *mockNoteService) CreateNote(ctx context.Context, token string, note entities.Note) (entities.Note, error) {
	m.createCalls++
	if m.createErr != nil {
		return entities.Note{}, m.createErr
	}
	if m.created.ID != "" {
		return m.created, nil
	}
	note.ID = "n1"
	return note, nil
}

func (m *mockNoteService) DeleteNote(ctx context.Context, token, id string) error {
	m.deleteCalls++
	m.lastDeleted = id
	return m.deleteErr
}

// signedInSession returns a ready, authenticated session backed by mocks.
func signedInSession(t *testing.T) *AuthSession {
	t.Helper()
	creds := &mockCredStore{
		cred: entities.Credential{
			IDToken:      "valid-token",
			RefreshToken: "refresh",
			Email:        "user@example.com",
			ExpiresAt:    time.Now().Add(time.Hour),
		},
		saved: true,
	}
	s := NewAuthSession(&mockProvider{}, creds, nil)
	s.Restore(context.Background())
	return s
}

// signedOutSession returns a ready session with no token.
func signedOutSession(t *testing.T) *AuthSession {
	t.Helper()
	s := NewAuthSession(&mockProvider{}, &mockCredStore{}, nil)
	s.Restore(context.Background())
	return s
}
