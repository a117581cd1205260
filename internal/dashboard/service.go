package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/naveenspark/xpboard/internal/profile"
	"github.com/naveenspark/xpboard/internal/session"
	"github.com/naveenspark/xpboard/pkg/client"
	"github.com/naveenspark/xpboard/pkg/domain"
)

// Gateway is the remote side: one credential exchange, one profile query.
type Gateway interface {
	ExchangeCredentials(ctx context.Context, username, password string) (string, error)
	FetchProfile(ctx context.Context, token string) (*domain.ProfilePayload, error)
}

// Service runs the two steps of a load and keeps the session store in sync.
type Service struct {
	gateway Gateway
	store   *session.Store
}

// NewService wires a gateway to a session store.
func NewService(gw Gateway, store *session.Store) *Service {
	return &Service{gateway: gw, store: store}
}

// Store returns the session store.
func (s *Service) Store() *session.Store { return s.store }

// Credential returns the stored credential, if any.
func (s *Service) Credential(ctx context.Context) (session.Credential, bool) {
	return s.store.Credential(ctx)
}

// Login exchanges username and password for a token. Nothing is stored;
// the caller persists the result with Persist once it is still wanted.
func (s *Service) Login(ctx context.Context, username, password string) (session.Credential, error) {
	token, err := s.gateway.ExchangeCredentials(ctx, username, password)
	if err != nil {
		log.Err(err).Str("user", username).Msg("login failed")
		return session.Credential{}, fmt.Errorf("dashboard.Login: %w", err)
	}
	if !domain.ValidTokenShape(token) {
		err := &client.AuthenticationError{Reason: "malformed token"}
		log.Err(err).Str("user", username).Msg("login failed")
		return session.Credential{}, fmt.Errorf("dashboard.Login: %w", err)
	}
	log.Info().Str("user", username).Msg("logged in")
	return session.Credential{Token: token, Username: username}, nil
}

// Persist stores cred as the current session.
func (s *Service) Persist(ctx context.Context, cred session.Credential) error {
	if err := s.store.SetCredential(ctx, cred.Token, cred.Username); err != nil {
		log.Err(err).Msg("persist credential")
		return fmt.Errorf("dashboard.Persist: %w", err)
	}
	return nil
}

// Load fetches the profile for cred and aggregates it. The store is not
// touched; on a 401 (see Unauthorized) the caller decides whether to Reject.
func (s *Service) Load(ctx context.Context, cred session.Credential) (*profile.Metrics, error) {
	payload, err := s.gateway.FetchProfile(ctx, cred.Token)
	if err != nil {
		log.Err(err).Str("user", cred.Username).Msg("profile fetch failed")
		return nil, fmt.Errorf("dashboard.Load: %w", err)
	}

	m, err := profile.Aggregate(payload.User, payload.Transactions)
	if err != nil {
		log.Err(err).Msg("aggregate profile")
		return nil, fmt.Errorf("dashboard.Load: %w", err)
	}
	log.Debug().
		Str("user", cred.Username).
		Int("experience_records", len(payload.User.Experience)).
		Int("transactions", len(payload.Transactions)).
		Int("days", len(m.Daily)).
		Msg("profile loaded")
	return m, nil
}

// Unauthorized reports whether err is the server rejecting the token.
func Unauthorized(err error) bool {
	return client.IsStatus(err, http.StatusUnauthorized)
}

// Reject drops cred from the store after the server refused it. A newer
// credential stored in the meantime is kept.
func (s *Service) Reject(ctx context.Context, cred session.Credential) error {
	removed, err := s.store.ClearToken(ctx, cred.Token)
	if err != nil {
		log.Err(err).Msg("clear rejected credential")
		return fmt.Errorf("dashboard.Reject: %w", err)
	}
	log.Info().Str("user", cred.Username).Bool("removed", removed).Msg("credential rejected")
	return nil
}

// Logout clears the stored credential.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		log.Err(err).Msg("logout")
		return fmt.Errorf("dashboard.Logout: %w", err)
	}
	log.Info().Msg("logged out")
	return nil
}

// UserMessage is the single line shown for a failed step. Details go to the
// log, not the screen.
func UserMessage(err error) string {
	var authErr *client.AuthenticationError
	if errors.As(err, &authErr) {
		return "Login failed"
	}
	return "Error loading data"
}
