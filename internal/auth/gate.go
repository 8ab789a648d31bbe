// Package auth guards the admin view: password sign-in against the identity
// provider, the forced new-password branch, local token storage and expiry
// checks. Tokens are stored unencrypted and are never revoked server-side;
// anyone who can read the store can replay them until they expire.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/abc-assistant/assistant/internal/logger"
)

// State is the position of the gate in the sign-in state machine.
type State string

const (
	StateAnonymous            State = "ANONYMOUS"
	StateAuthenticating       State = "AUTHENTICATING"
	StateAuthenticated        State = "AUTHENTICATED"
	StateChallengeNewPassword State = "CHALLENGE_NEW_PASSWORD"
	StateFailed               State = "FAILED"
)

// MinPasswordLength is the shortest accepted new password.
const MinPasswordLength = 8

var (
	ErrNotConfigured      = errors.New("Cognito configuration not available. Please deploy the backend first.")
	ErrMissingCredentials = errors.New("Please enter both username and password.")
	ErrPasswordTooShort   = errors.New("Password must be at least 8 characters long.")
	ErrPasswordMismatch   = errors.New("Passwords do not match.")
)

// SignInResult is the outcome of SignIn and SetNewPassword. On a challenge
// Success is false and ChallengeName, Session and Username are set; on
// failure Error holds the user-facing message.
type SignInResult struct {
	Success       bool    `json:"success"`
	Tokens        *Tokens `json:"tokens,omitempty"`
	ChallengeName string  `json:"challengeName,omitempty"`
	Session       string  `json:"session,omitempty"`
	Username      string  `json:"username,omitempty"`
	Error         string  `json:"error,omitempty"`
}

// Gate is the admin authentication gate.
type Gate struct {
	provider Provider
	store    TokenStore
	log      *slog.Logger
	now      func() time.Time

	mu    sync.Mutex
	state State
}

// NewGate creates a gate. A nil provider means the identity provider is not
// configured: every sign-in fails with ErrNotConfigured.
func NewGate(provider Provider, store TokenStore, log *slog.Logger) *Gate {
	if log == nil {
		log = logger.Discard()
	}
	return &Gate{
		provider: provider,
		store:    store,
		log:      log.With("component", "auth_gate"),
		now:      time.Now,
		state:    StateAnonymous,
	}
}

// State returns the current gate state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Gate) setState(s State) {
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()
}

// SignIn runs the password flow.
func (g *Gate) SignIn(ctx context.Context, username, password string) SignInResult {
	if g.provider == nil {
		return SignInResult{Error: ErrNotConfigured.Error()}
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return SignInResult{Error: ErrMissingCredentials.Error()}
	}

	g.setState(StateAuthenticating)
	res, err := g.provider.InitiatePasswordAuth(ctx, username, password)
	if err != nil {
		g.setState(StateFailed)
		g.log.WarnContext(ctx, "Admin sign-in failed", "username", username, "error", err)
		return SignInResult{Error: ErrorMessage(err)}
	}
	return g.complete(ctx, username, res)
}

// SetNewPassword answers a new-password challenge. Input is validated before
// the provider is contacted.
func (g *Gate) SetNewPassword(ctx context.Context, username, newPassword, confirm, session string) SignInResult {
	if err := ValidateNewPassword(newPassword, confirm); err != nil {
		return SignInResult{Error: err.Error(), ChallengeName: ChallengeNewPassword, Session: session, Username: username}
	}
	if g.provider == nil {
		return SignInResult{Error: ErrNotConfigured.Error()}
	}

	g.setState(StateAuthenticating)
	res, err := g.provider.RespondNewPassword(ctx, username, newPassword, session)
	if err != nil {
		g.setState(StateFailed)
		g.log.WarnContext(ctx, "Setting new password failed", "username", username, "error", err)
		return SignInResult{Error: ErrorMessage(err)}
	}
	return g.complete(ctx, username, res)
}

func (g *Gate) complete(ctx context.Context, username string, res *AuthResult) SignInResult {
	switch {
	case res != nil && res.Tokens != nil:
		if err := g.store.Save(ctx, *res.Tokens); err != nil {
			g.setState(StateFailed)
			g.log.ErrorContext(ctx, "Failed to store admin tokens", "error", err)
			return SignInResult{Error: GenericErrorMessage}
		}
		g.setState(StateAuthenticated)
		g.log.InfoContext(ctx, "Admin signed in", "username", username)
		return SignInResult{Success: true, Tokens: res.Tokens}

	case res != nil && res.ChallengeName == ChallengeNewPassword:
		g.setState(StateChallengeNewPassword)
		g.log.InfoContext(ctx, "Admin must set a new password", "username", username)
		return SignInResult{ChallengeName: res.ChallengeName, Session: res.Session, Username: username}

	default:
		g.setState(StateFailed)
		return SignInResult{Error: "Authentication failed"}
	}
}

// ValidateNewPassword checks length and confirmation.
func ValidateNewPassword(newPassword, confirm string) error {
	if len([]rune(newPassword)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if newPassword != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

// IsAuthenticated reports whether stored tokens exist and the access token
// has not expired. Any read or decode failure counts as signed out.
func (g *Gate) IsAuthenticated(ctx context.Context) bool {
	t, err := g.store.Load(ctx)
	if err != nil || t == nil || t.AccessToken == "" {
		return false
	}
	exp, err := ExpiresAt(t.AccessToken)
	if err != nil {
		return false
	}
	return exp.After(g.now())
}

// AccessToken returns the stored access token when it is still valid.
func (g *Gate) AccessToken(ctx context.Context) (string, bool) {
	if !g.IsAuthenticated(ctx) {
		return "", false
	}
	t, err := g.store.Load(ctx)
	if err != nil || t == nil {
		return "", false
	}
	return t.AccessToken, true
}

// UserInfo decodes the stored ID token. It returns nil when there is none.
func (g *Gate) UserInfo(ctx context.Context) *UserInfo {
	t, err := g.store.Load(ctx)
	if err != nil || t == nil || t.IDToken == "" {
		return nil
	}
	info, err := userInfoFromToken(t.IDToken)
	if err != nil {
		return nil
	}
	return info
}

// SignOut removes stored tokens. Calling it when signed out is a no-op.
func (g *Gate) SignOut(ctx context.Context) error {
	g.setState(StateAnonymous)
	if err := g.store.Clear(ctx); err != nil {
		g.log.ErrorContext(ctx, "Failed to clear admin tokens", "error", err)
		return err
	}
	return nil
}
