// Package credstore provides durable credential storage adapters.
// Clean Architecture: Adapter implementing ports.CredentialStore. This is the
// client-local key-value storage the session layer persists tokens into.
package credstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/0xcro3dile/neurosync-go/internal/domain/entities"
)

// credentialKey is the fixed key the single session credential lives under.
const credentialKey = "session"

// SQLiteStore persists the session credential in a small SQLite database
// under the client's data directory, surviving restarts.
type SQLiteStore struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the credential database in dataPath.
func NewSQLiteStore(dataPath string) (*SQLiteStore, error) {
	if dataPath == "" {
		dataPath = "./data"
	}

	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataPath, "session.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return store, nil
}

// initSchema creates the credentials table.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS credentials (
		k TEXT PRIMARY KEY,
		id_token TEXT NOT NULL,
		refresh_token TEXT NOT NULL,
		email TEXT NOT NULL,
		expires_at INTEGER NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load returns the stored credential; ok is false when none is stored.
func (s *SQLiteStore) Load() (entities.Credential, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(
		`SELECT id_token, refresh_token, email, expires_at FROM credentials WHERE k = ?`,
		credentialKey,
	)

	var cred entities.Credential
	var expiresAt int64
	err := row.Scan(&cred.IDToken, &cred.RefreshToken, &cred.Email, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Credential{}, false, nil
	}
	if err != nil {
		return entities.Credential{}, false, fmt.Errorf("loading credential: %w", err)
	}
	if expiresAt > 0 {
		cred.ExpiresAt = time.Unix(expiresAt, 0)
	}
	return cred, true, nil
}

// Save stores the credential, replacing any prior one.
func (s *SQLiteStore) Save(cred entities.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expiresAt int64
	if !cred.ExpiresAt.IsZero() {
		expiresAt = cred.ExpiresAt.Unix()
	}

	_, err := s.db.Exec(`
		INSERT INTO credentials (k, id_token, refresh_token, email, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(k) DO UPDATE SET
			id_token = excluded.id_token,
			refresh_token = excluded.refresh_token,
			email = excluded.email,
			expires_at = excluded.expires_at,
			updated_at = CURRENT_TIMESTAMP`,
		credentialKey, cred.IDToken, cred.RefreshToken, cred.Email, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("saving credential: %w", err)
	}
	return nil
}

// Clear removes the stored credential.
func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM credentials WHERE k = ?`, credentialKey); err != nil {
		return fmt.Errorf("clearing credential: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
