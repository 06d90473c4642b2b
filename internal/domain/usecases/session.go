// Package usecases contains application business rules.
// Clean Architecture: Usecases orchestrate entities and depend on port interfaces.
// They contain NO framework code - just the client's session and chat-state logic.
package usecases

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/0xcro3dile/neurosync-go/internal/domain/entities"
	"github.com/0xcro3dile/neurosync-go/internal/domain/ports"
)

// refreshSkew is how close to expiry a restored token may be before it is
// refreshed instead of reused.
const refreshSkew = time.Minute

// AuthSession owns the process-wide session credential: its acquisition,
// restoration across runs, and invalidation. It is the single writer of the
// token; every other component reads it through AuthorizedToken.
type AuthSession struct {
	provider ports.IdentityProvider
	creds    ports.CredentialStore
	log      *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	cred     entities.Credential
	state    entities.SessionState
	ready    bool
	restored bool
	subs     []func(entities.SessionState)
}

// NewAuthSession creates an AuthSession with injected dependencies.
// Dependency Injection: the identity provider and durable storage are
// adapters passed in, not created here.
func NewAuthSession(provider ports.IdentityProvider, creds ports.CredentialStore, log *zap.Logger) *AuthSession {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthSession{
		provider: provider,
		creds:    creds,
		log:      log.Named("session"),
		now:      time.Now,
		state:    entities.StateUnauthenticated,
	}
}

// Subscribe registers a callback invoked on every state transition.
// Components communicate upward via these notifications, never downward.
func (s *AuthSession) Subscribe(fn func(entities.SessionState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Restore is the startup identity notification: it loads the persisted
// credential, refreshes it when expired, and marks the session ready. It runs
// its body exactly once; later calls only report the outcome state. No
// authorized operation is allowed before Restore completes.
func (s *AuthSession) Restore(ctx context.Context) entities.SessionState {
	s.mu.Lock()
	if s.restored {
		state := s.state
		s.mu.Unlock()
		return state
	}
	s.restored = true
	s.mu.Unlock()

	cred, ok, err := s.creds.Load()
	if err != nil {
		s.log.Warn("loading stored credential failed", zap.Error(err))
	}

	switch {
	case !ok || err != nil:
		// Nothing persisted: start signed out.
	case cred.Expired(s.now(), refreshSkew) && cred.RefreshToken != "":
		fresh, rerr := s.provider.Refresh(ctx, cred.RefreshToken)
		if rerr != nil {
			s.log.Info("stored credential refresh failed, starting signed out", zap.Error(rerr))
			if cerr := s.creds.Clear(); cerr != nil {
				s.log.Warn("clearing stale credential failed", zap.Error(cerr))
			}
		} else {
			s.persist(fresh)
			s.setState(fresh, entities.StateAuthenticated)
		}
	case cred.Expired(s.now(), refreshSkew):
		// Expired with no refresh token: unusable.
		if cerr := s.creds.Clear(); cerr != nil {
			s.log.Warn("clearing expired credential failed", zap.Error(cerr))
		}
	default:
		s.setState(cred, entities.StateAuthenticated)
	}

	s.mu.Lock()
	s.ready = true
	state := s.state
	s.mu.Unlock()
	s.log.Info("session restored", zap.String("state", state.String()))
	s.notify(state)
	return state
}

// Acquire exchanges email/password for a token. On failure the session is
// left unchanged.
func (s *AuthSession) Acquire(ctx context.Context, email, password string) error {
	cred, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		s.log.Info("sign-in failed", zap.String("email", email), zap.Error(err))
		return err
	}
	s.establish(cred)
	return nil
}

// Register creates an account and signs it in, with Acquire's contract.
func (s *AuthSession) Register(ctx context.Context, email, password string) error {
	cred, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		s.log.Info("sign-up failed", zap.String("email", email), zap.Error(err))
		return err
	}
	s.establish(cred)
	return nil
}

// Refresh re-derives a token from the stored refresh credential without new
// user credentials. Any failure behaves like Invalidate.
func (s *AuthSession) Refresh(ctx context.Context) error {
	s.mu.Lock()
	refreshToken := s.cred.RefreshToken
	s.mu.Unlock()

	if refreshToken == "" {
		s.Invalidate()
		return entities.ErrUnauthorized
	}
	cred, err := s.provider.Refresh(ctx, refreshToken)
	if err != nil {
		s.log.Info("token refresh failed", zap.Error(err))
		s.Invalidate()
		return err
	}
	s.establish(cred)
	return nil
}

// Invalidate clears the session and the persisted credential. Used on
// explicit sign-out and on refresh failure.
func (s *AuthSession) Invalidate() {
	s.mu.Lock()
	s.cred = entities.Credential{}
	s.state = entities.StateUnauthenticated
	s.ready = true
	s.mu.Unlock()

	if err := s.creds.Clear(); err != nil {
		s.log.Warn("clearing stored credential failed", zap.Error(err))
	}
	s.notify(entities.StateUnauthenticated)
}

// CurrentToken is a pure read of the session token; "" when absent.
func (s *AuthSession) CurrentToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != entities.StateAuthenticated {
		return ""
	}
	return s.cred.IDToken
}

// CurrentEmail returns the signed-in account's email, "" when signed out.
func (s *AuthSession) CurrentEmail() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != entities.StateAuthenticated {
		return ""
	}
	return s.cred.Email
}

// Ready reports whether the startup identity notification has resolved.
func (s *AuthSession) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// AuthorizedToken is the gate in front of every authorized backend call:
// it fails with ErrUnauthorized when the session is not ready or no token is
// present, so callers never waste a network round trip.
func (s *AuthSession) AuthorizedToken() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready || s.state != entities.StateAuthenticated || s.cred.IDToken == "" {
		return "", entities.ErrUnauthorized
	}
	return s.cred.IDToken, nil
}

// establish installs a freshly acquired credential and notifies subscribers.
func (s *AuthSession) establish(cred entities.Credential) {
	s.persist(cred)
	s.setState(cred, entities.StateAuthenticated)
	s.mu.Lock()
	s.ready = true
	s.mu.Unlock()
	s.log.Info("session established", zap.String("email", cred.Email))
	s.notify(entities.StateAuthenticated)
}

func (s *AuthSession) persist(cred entities.Credential) {
	// Persistence failure is not fatal: the in-memory session still works,
	// it just won't survive a restart.
	if err := s.creds.Save(cred); err != nil {
		s.log.Warn("persisting credential failed", zap.Error(err))
	}
}

func (s *AuthSession) setState(cred entities.Credential, state entities.SessionState) {
	s.mu.Lock()
	s.cred = cred
	s.state = state
	s.mu.Unlock()
}

// notify calls subscribers outside the lock so they can read session state.
func (s *AuthSession) notify(state entities.SessionState) {
	s.mu.Lock()
	subs := make([]func(entities.SessionState), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(state)
	}
}
