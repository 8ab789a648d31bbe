package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/abc-assistant/assistant/internal/settings"
)

type fakeProvider struct {
	initiate func(username, password string) (*AuthResult, error)
	respond  func(username, newPassword, session string) (*AuthResult, error)

	initiateCalls int
	respondCalls  int
}

func (f *fakeProvider) InitiatePasswordAuth(_ context.Context, username, password string) (*AuthResult, error) {
	f.initiateCalls++
	return f.initiate(username, password)
}

func (f *fakeProvider) RespondNewPassword(_ context.Context, username, newPassword, session string) (*AuthResult, error) {
	f.respondCalls++
	return f.respond(username, newPassword, session)
}

func makeJWT(t *testing.T, claims map[string]any) string {
	t.Helper()
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatal(err)
	}
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(`{"alg":"none"}`)) + "." + enc.EncodeToString(payload) + ".sig"
}

func validTokens(t *testing.T) *Tokens {
	return &Tokens{
		AccessToken: makeJWT(t, map[string]any{"exp": time.Now().Add(time.Hour).Unix()}),
		IDToken: makeJWT(t, map[string]any{
			"cognito:username": "admin",
			"email":            "admin@example.org",
			"name":             "Admin User",
		}),
		RefreshToken: "refresh",
	}
}

func newTestGate(p Provider) (*Gate, *settings.Memory) {
	kv := settings.NewMemory()
	return NewGate(p, NewKVTokenStore(kv), nil), kv
}

func TestSignInErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not authorized", &ProviderError{Code: CodeNotAuthorized, Message: "Incorrect username or password."}, "Incorrect username or password."},
		{"user not found", &ProviderError{Code: CodeUserNotFound}, "User not found. Please check your username."},
		{"not confirmed", &ProviderError{Code: CodeUserNotConfirmed}, "Please contact administrator to activate your account."},
		{"unknown with message", &ProviderError{Code: "TooManyRequestsException", Message: "Rate exceeded"}, "Rate exceeded"},
		{"unknown without message", &ProviderError{Code: "InternalErrorException"}, "InternalErrorException"},
		{"plain error", errors.New("dial tcp: timeout"), "dial tcp: timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g, _ := newTestGate(&fakeProvider{initiate: func(string, string) (*AuthResult, error) {
				return nil, tt.err
			}})
			res := g.SignIn(context.Background(), "admin", "wrongpass")
			if res.Success {
				t.Fatal("Success = true")
			}
			if res.Error != tt.want {
				t.Errorf("Error = %q, want %q", res.Error, tt.want)
			}
			if g.State() != StateFailed {
				t.Errorf("State = %s, want FAILED", g.State())
			}
		})
	}
}

func TestSignInSuccess(t *testing.T) {
	t.Parallel()

	tokens := validTokens(t)
	g, kv := newTestGate(&fakeProvider{initiate: func(string, string) (*AuthResult, error) {
		return &AuthResult{Tokens: tokens}, nil
	}})
	ctx := context.Background()

	if g.IsAuthenticated(ctx) {
		t.Fatal("authenticated before sign-in")
	}

	res := g.SignIn(ctx, "admin", "correct-horse")
	if !res.Success || res.Tokens == nil {
		t.Fatalf("SignIn() = %+v", res)
	}
	if g.State() != StateAuthenticated || !g.IsAuthenticated(ctx) {
		t.Errorf("state %s, authenticated %v", g.State(), g.IsAuthenticated(ctx))
	}
	if _, ok, _ := kv.GetSetting(ctx, settings.TokensKey); !ok {
		t.Error("tokens not persisted")
	}

	info := g.UserInfo(ctx)
	if info == nil || info.Username != "admin" || info.Email != "admin@example.org" || info.Name != "Admin User" {
		t.Errorf("UserInfo() = %+v", info)
	}

	if err := g.SignOut(ctx); err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}
	if err := g.SignOut(ctx); err != nil {
		t.Fatalf("second SignOut() error = %v", err)
	}
	if g.IsAuthenticated(ctx) || g.UserInfo(ctx) != nil {
		t.Error("still authenticated after sign-out")
	}
}

func TestNewPasswordChallenge(t *testing.T) {
	t.Parallel()

	tokens := validTokens(t)
	p := &fakeProvider{
		initiate: func(string, string) (*AuthResult, error) {
			return &AuthResult{ChallengeName: ChallengeNewPassword, Session: "session-handle"}, nil
		},
		respond: func(username, newPassword, session string) (*AuthResult, error) {
			if username != "admin" || session != "session-handle" || newPassword != "long-enough-pw" {
				return nil, errors.New("unexpected challenge response")
			}
			return &AuthResult{Tokens: tokens}, nil
		},
	}
	g, _ := newTestGate(p)
	ctx := context.Background()

	res := g.SignIn(ctx, "admin", "temporary")
	if res.Success || res.ChallengeName != ChallengeNewPassword || res.Session != "session-handle" || res.Username != "admin" {
		t.Fatalf("SignIn() = %+v", res)
	}
	if g.State() != StateChallengeNewPassword || g.IsAuthenticated(ctx) {
		t.Fatalf("state %s after challenge", g.State())
	}

	tests := []struct {
		name, pw, confirm, want string
	}{
		{"mismatch", "long-enough-pw", "long-enough-px", ErrPasswordMismatch.Error()},
		{"too short", "short", "short", ErrPasswordTooShort.Error()},
	}
	for _, tt := range tests {
		bad := g.SetNewPassword(ctx, "admin", tt.pw, tt.confirm, res.Session)
		if bad.Success || bad.Error != tt.want {
			t.Errorf("%s: SetNewPassword() = %+v, want error %q", tt.name, bad, tt.want)
		}
	}
	if p.respondCalls != 0 {
		t.Fatalf("provider called %d times for invalid input", p.respondCalls)
	}

	ok := g.SetNewPassword(ctx, "admin", "long-enough-pw", "long-enough-pw", res.Session)
	if !ok.Success {
		t.Fatalf("SetNewPassword() = %+v", ok)
	}
	if p.respondCalls != 1 || !g.IsAuthenticated(ctx) {
		t.Errorf("respond calls %d, authenticated %v", p.respondCalls, g.IsAuthenticated(ctx))
	}
}

func TestIsAuthenticatedFailsClosed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
	}{
		{"expired", `{"accessToken":"` + makeJWT(t, map[string]any{"exp": time.Now().Add(-time.Minute).Unix()}) + `"}`},
		{"no exp claim", `{"accessToken":"` + makeJWT(t, map[string]any{"sub": "x"}) + `"}`},
		{"not a jwt", `{"accessToken":"opaque"}`},
		{"bad base64", `{"accessToken":"a.!!!.c"}`},
		{"malformed json", `{"accessToken":`},
		{"empty access token", `{"idToken":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g, kv := newTestGate(nil)
			_ = kv.SetSetting(context.Background(), settings.TokensKey, tt.value)
			if g.IsAuthenticated(context.Background()) {
				t.Error("IsAuthenticated() = true")
			}
		})
	}
}

func TestSignInValidation(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{initiate: func(string, string) (*AuthResult, error) {
		return nil, errors.New("should not be called")
	}}
	g, _ := newTestGate(p)
	if res := g.SignIn(context.Background(), "  ", "pw"); res.Error != ErrMissingCredentials.Error() {
		t.Errorf("Error = %q", res.Error)
	}
	if p.initiateCalls != 0 {
		t.Error("provider called for empty username")
	}

	unconfigured, _ := newTestGate(nil)
	if res := unconfigured.SignIn(context.Background(), "admin", "pw"); res.Error != ErrNotConfigured.Error() {
		t.Errorf("Error = %q", res.Error)
	}
}
