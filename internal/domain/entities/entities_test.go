package entities

import (
	"errors"
	"testing"
	"time"
)

func TestCredential_Expired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	fresh := Credential{IDToken: "t", ExpiresAt: now.Add(time.Hour)}
	if fresh.Expired(now, time.Minute) {
		t.Error("credential expiring in an hour should not be expired")
	}

	soon := Credential{IDToken: "t", ExpiresAt: now.Add(30 * time.Second)}
	if !soon.Expired(now, time.Minute) {
		t.Error("credential inside the skew window should count as expired")
	}

	past := Credential{IDToken: "t", ExpiresAt: now.Add(-time.Hour)}
	if !past.Expired(now, 0) {
		t.Error("past credential should be expired")
	}
}

func TestCredential_UnknownExpiry(t *testing.T) {
	cred := Credential{IDToken: "t"}
	if cred.Expired(time.Now(), time.Minute) {
		t.Error("zero ExpiresAt means unknown, not expired")
	}
}

func TestSessionState_String(t *testing.T) {
	if StateAuthenticated.String() != "authenticated" {
		t.Errorf("unexpected: %s", StateAuthenticated.String())
	}
	if StateUnauthenticated.String() != "unauthenticated" {
		t.Errorf("unexpected: %s", StateUnauthenticated.String())
	}
}

func TestChatTurn_Roles(t *testing.T) {
	user := ChatTurn{Role: RoleUser, Text: "hello"}
	assistant := ChatTurn{Role: RoleAssistant, Text: "hi there"}

	if user.Role != "user" || assistant.Role != "assistant" {
		t.Error("roles not set correctly")
	}
}

func TestBackendError_Message(t *testing.T) {
	err := &BackendError{StatusCode: 400, Message: "Invalid file type. Only PDFs are allowed."}
	want := "backend returned status 400: Invalid file type. Only PDFs are allowed."
	if err.Error() != want {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestNetworkError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &NetworkError{Op: "GET /api/notes", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("NetworkError should unwrap to its cause")
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Field: "title", Reason: "must not be empty"}
	if err.Error() != "invalid title: must not be empty" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
