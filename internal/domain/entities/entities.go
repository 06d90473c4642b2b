// Package entities contains core business entities.
// These are the enterprise business rules - pure domain objects with no external dependencies.
package entities

import "time"

// SessionState describes the authentication lifecycle.
type SessionState int

const (
	StateUnauthenticated SessionState = iota
	StateAuthenticated
)

// String returns a human-readable state name.
func (s SessionState) String() string {
	if s == StateAuthenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Credential is what the identity provider hands back on sign-in or refresh.
// IDToken is the opaque bearer token attached to every authorized backend call.
type Credential struct {
	IDToken      string
	RefreshToken string
	Email        string
	ExpiresAt    time.Time
}

// Expired reports whether the token is past (or within skew of) its expiry.
// A zero ExpiresAt means the expiry is unknown and the credential is kept as-is.
func (c Credential) Expired(now time.Time, skew time.Duration) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(skew).Before(c.ExpiresAt)
}

// DocumentStatus tracks an upload through its pipeline.
type DocumentStatus int

const (
	DocumentPending DocumentStatus = iota
	DocumentReady
	DocumentFailed
)

// Document represents a server-side uploaded file, identified by a
// server-assigned opaque id. Immutable once Ready.
type Document struct {
	ID       string
	Filename string
	Status   DocumentStatus
}

// Role attributes a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn is one message in a conversation. Append-only within a thread;
// never mutated after creation.
type ChatTurn struct {
	Role Role
	Text string
}

// ChatThread is the ordered conversation history scoped to one document.
type ChatThread struct {
	DocumentID string
	Turns      []ChatTurn
}

// Note is a personal note item owned by the authenticated user.
type Note struct {
	ID        string
	Title     string
	Desc      string
	Important bool
}
