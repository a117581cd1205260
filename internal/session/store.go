package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const (
	keyToken    = "jwt"
	keyUsername = "user"
	keyTheme    = "theme"
)

// Credential is the bearer token and the username it was issued for.
type Credential struct {
	Token    string
	Username string
}

// Theme is the persisted light/dark flag. It is not part of the session and
// survives Clear.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// Store owns the credential entries of a KV.
type Store struct {
	mu sync.Mutex
	kv KV
}

// NewStore wraps kv.
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// SetCredential stores token and username. Callers check the token shape
// before calling.
func (s *Store) SetCredential(ctx context.Context, token, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(ctx, keyToken, token); err != nil {
		return fmt.Errorf("session.SetCredential: %w", err)
	}
	if err := s.kv.Set(ctx, keyUsername, username); err != nil {
		return fmt.Errorf("session.SetCredential: %w", err)
	}
	return nil
}

// Credential returns the stored credential, or false when none is stored.
// Backend errors are logged and reported as absent.
func (s *Store) Credential(ctx context.Context) (Credential, bool) {
	tok, ok, err := s.kv.Get(ctx, keyToken)
	if err != nil {
		log.Err(err).Msg("session: read token")
		return Credential{}, false
	}
	if !ok || tok == "" {
		return Credential{}, false
	}
	user, _, err := s.kv.Get(ctx, keyUsername)
	if err != nil {
		log.Err(err).Msg("session: read username")
	}
	return Credential{Token: tok, Username: user}, true
}

// Clear removes the token and username. The theme is kept.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(ctx, keyToken, keyUsername); err != nil {
		return fmt.Errorf("session.Clear: %w", err)
	}
	return nil
}

// ClearToken removes the credential only while token is still the stored
// one. It reports whether anything was removed; a newer login is left alone.
func (s *Store) ClearToken(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok, err := s.kv.Get(ctx, keyToken)
	if err != nil {
		return false, fmt.Errorf("session.ClearToken: %w", err)
	}
	if !ok || cur != token {
		return false, nil
	}
	if err := s.kv.Delete(ctx, keyToken, keyUsername); err != nil {
		return false, fmt.Errorf("session.ClearToken: %w", err)
	}
	return true, nil
}

// Theme returns the stored theme, dark by default.
func (s *Store) Theme(ctx context.Context) Theme {
	v, ok, err := s.kv.Get(ctx, keyTheme)
	if err != nil {
		log.Err(err).Msg("session: read theme")
		return ThemeDark
	}
	if ok && Theme(v) == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// SetTheme persists the theme flag.
func (s *Store) SetTheme(ctx context.Context, t Theme) error {
	if err := s.kv.Set(ctx, keyTheme, string(t)); err != nil {
		return fmt.Errorf("session.SetTheme: %w", err)
	}
	return nil
}

// PeekExpiry reads the exp claim without verifying the token. It is for
// display only; a token is never rejected on its claims.
func PeekExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
