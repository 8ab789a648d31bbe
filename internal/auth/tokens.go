package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abc-assistant/assistant/internal/settings"
)

// Tokens is the credential triple issued by the identity provider. It is
// stored as JSON under settings.TokensKey.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserInfo is read from the ID token.
type UserInfo struct {
	Username string `json:"username" yaml:"username"`
	Email    string `json:"email"    yaml:"email"`
	Name     string `json:"name"     yaml:"name"`
}

var errMalformedToken = errors.New("malformed token")

// decodeClaims returns the payload of a JWT without verifying it.
func decodeClaims(token string) (map[string]any, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, errMalformedToken
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedToken, err)
	}
	var claims map[string]any
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedToken, err)
	}
	return claims, nil
}

// ExpiresAt returns the exp claim of token.
func ExpiresAt(token string) (time.Time, error) {
	claims, err := decodeClaims(token)
	if err != nil {
		return time.Time{}, err
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: missing exp claim", errMalformedToken)
	}
	return time.Unix(int64(exp), 0), nil
}

func userInfoFromToken(idToken string) (*UserInfo, error) {
	claims, err := decodeClaims(idToken)
	if err != nil {
		return nil, err
	}
	str := func(k string) string {
		s, _ := claims[k].(string)
		return s
	}
	return &UserInfo{
		Username: str("cognito:username"),
		Email:    str("email"),
		Name:     str("name"),
	}, nil
}

// TokenStore persists the token triple locally.
type TokenStore interface {
	// Load returns nil when no usable tokens are stored.
	Load(ctx context.Context) (*Tokens, error)
	Save(ctx context.Context, t Tokens) error
	Clear(ctx context.Context) error
}

// KVTokenStore keeps tokens in a settings key-value store.
type KVTokenStore struct {
	kv settings.KV
}

// NewKVTokenStore creates a token store on kv.
func NewKVTokenStore(kv settings.KV) *KVTokenStore {
	return &KVTokenStore{kv: kv}
}

// Load treats a missing or malformed value as no tokens.
func (s *KVTokenStore) Load(ctx context.Context) (*Tokens, error) {
	raw, ok, err := s.kv.GetSetting(ctx, settings.TokensKey)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var t Tokens
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return nil, nil
	}
	return &t, nil
}

func (s *KVTokenStore) Save(ctx context.Context, t Tokens) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}
	return s.kv.SetSetting(ctx, settings.TokensKey, string(raw))
}

func (s *KVTokenStore) Clear(ctx context.Context) error {
	return s.kv.DeleteSetting(ctx, settings.TokensKey)
}
