// Package identity provides the Firebase Auth identity provider adapter.
// Clean Architecture: Adapter implementing ports.IdentityProvider.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/0xcro3dile/neurosync-go/internal/domain/entities"
)

const (
	defaultSignInURL = "https://identitytoolkit.googleapis.com/v1"
	defaultTokenURL  = "https://securetoken.googleapis.com/v1"
)

// FirebaseProvider implements ports.IdentityProvider against the Firebase
// Auth REST API (Google Identity Toolkit).
type FirebaseProvider struct {
	apiKey    string
	signInURL string
	tokenURL  string
	client    *http.Client
	now       func() time.Time
}

// Option tweaks provider construction; used by tests to point at a fake.
type Option func(*FirebaseProvider)

// WithEndpoints overrides the identity toolkit and secure token base URLs.
func WithEndpoints(signInURL, tokenURL string) Option {
	return func(p *FirebaseProvider) {
		p.signInURL = strings.TrimSuffix(signInURL, "/")
		p.tokenURL = strings.TrimSuffix(tokenURL, "/")
	}
}

// NewFirebaseProvider creates a provider for the given web API key.
func NewFirebaseProvider(apiKey string, opts ...Option) *FirebaseProvider {
	p := &FirebaseProvider{
		apiKey:    apiKey,
		signInURL: defaultSignInURL,
		tokenURL:  defaultTokenURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// signInRequest is the identity toolkit password sign-in payload.
type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// signInResponse is the identity toolkit response for sign-in and sign-up.
type signInResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	Email        string `json:"email"`
	ExpiresIn    string `json:"expiresIn"`
}

// refreshResponse is the secure token exchange response.
type refreshResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
}

// errorResponse carries the provider's failure message.
type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn exchanges email/password for a credential.
func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (entities.Credential, error) {
	return p.passwordExchange(ctx, "accounts:signInWithPassword", email, password)
}

// SignUp creates an account and signs it in.
func (p *FirebaseProvider) SignUp(ctx context.Context, email, password string) (entities.Credential, error) {
	return p.passwordExchange(ctx, "accounts:signUp", email, password)
}

func (p *FirebaseProvider) passwordExchange(ctx context.Context, endpoint, email, password string) (entities.Credential, error) {
	reqBody := signInRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return entities.Credential{}, fmt.Errorf("marshaling request: %w", err)
	}

	u := fmt.Sprintf("%s/%s?key=%s", p.signInURL, endpoint, url.QueryEscape(p.apiKey))
	req, err := http.NewRequestWithContext(ctx, "POST", u, bytes.NewReader(jsonData))
	if err != nil {
		return entities.Credential{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return entities.Credential{}, &entities.NetworkError{Op: "calling identity provider", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entities.Credential{}, &entities.AuthError{Message: decodeAuthError(resp)}
	}

	var body signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return entities.Credential{}, &entities.AuthError{Message: "malformed identity provider response"}
	}

	return p.credential(body.IDToken, body.RefreshToken, body.Email, body.ExpiresIn), nil
}

// Refresh re-derives a credential from a still-valid refresh token.
func (p *FirebaseProvider) Refresh(ctx context.Context, refreshToken string) (entities.Credential, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	u := fmt.Sprintf("%s/token?key=%s", p.tokenURL, url.QueryEscape(p.apiKey))
	req, err := http.NewRequestWithContext(ctx, "POST", u, strings.NewReader(form.Encode()))
	if err != nil {
		return entities.Credential{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return entities.Credential{}, &entities.NetworkError{Op: "refreshing token", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entities.Credential{}, &entities.AuthError{Message: decodeAuthError(resp)}
	}

	var body refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return entities.Credential{}, &entities.AuthError{Message: "malformed token refresh response"}
	}

	return p.credential(body.IDToken, body.RefreshToken, "", body.ExpiresIn), nil
}

// credential assembles a Credential, deriving the expiry from the token's
// JWT exp claim when present and falling back to the provider's expiresIn.
func (p *FirebaseProvider) credential(idToken, refreshToken, email, expiresIn string) entities.Credential {
	cred := entities.Credential{
		IDToken:      idToken,
		RefreshToken: refreshToken,
		Email:        email,
		ExpiresAt:    tokenExpiry(idToken),
	}
	if cred.ExpiresAt.IsZero() {
		if secs, err := strconv.Atoi(expiresIn); err == nil && secs > 0 {
			cred.ExpiresAt = p.now().Add(time.Duration(secs) * time.Second)
		}
	}
	if cred.Email == "" {
		cred.Email = tokenEmail(idToken)
	}
	return cred
}

// tokenExpiry reads the exp claim without verifying the signature; the
// backend verifies tokens, the client only schedules refreshes.
func tokenExpiry(idToken string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// tokenEmail reads the email claim, "" when absent or unparsable.
func tokenEmail(idToken string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return ""
	}
	email, _ := claims["email"].(string)
	return email
}

func decodeAuthError(resp *http.Response) string {
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error.Message != "" {
		return body.Error.Message
	}
	return fmt.Sprintf("identity provider returned status %d", resp.StatusCode)
}
