// Package credstore - memory.go is an in-memory credential store.
// Open-Closed: drop-in replacement for SQLiteStore when no data directory is
// usable; also the store tests exercise usecases with.
package credstore

import (
	"sync"

	"github.com/0xcro3dile/neurosync-go/internal/domain/entities"
)

// InMemoryStore holds the credential for the process lifetime only.
type InMemoryStore struct {
	mu    sync.Mutex
	cred  entities.Credential
	saved bool
}

// NewInMemoryStore creates an empty in-memory credential store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Load returns the stored credential; ok is false when none is stored.
func (s *InMemoryStore) Load() (entities.Credential, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.saved {
		return entities.Credential{}, false, nil
	}
	return s.cred, true, nil
}

// Save stores the credential, replacing any prior one.
func (s *InMemoryStore) Save(cred entities.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = cred
	s.saved = true
	return nil
}

// Clear removes the stored credential.
func (s *InMemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = entities.Credential{}
	s.saved = false
	return nil
}
