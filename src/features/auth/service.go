package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	spotifyauth "golang.org/x/oauth2/spotify"

	"sortify/src/features/config"
)

// ErrNotAuthenticated is returned when no Spotify token has been obtained
// yet, or the stored one cannot be read. Fatal to the request; the user has
// to go through /auth/login.
var ErrNotAuthenticated = errors.New("not authenticated with spotify")

const stateTTL = 10 * time.Minute

// Scopes the application requests: read liked tracks and playlists, modify
// the user's own playlists.
var scopes = []string{
	"user-library-read",
	"playlist-read-private",
	"playlist-modify-public",
	"playlist-modify-private",
}

// Service implements the OAuth authorization-code flow against Spotify and
// hands out authenticated HTTP clients that refresh and persist their token
// transparently.
type Service struct {
	configManager *config.Manager
	store         *TokenStore

	mu     sync.Mutex
	states map[string]time.Time
}

// NewService creates a new auth service.
func NewService(cfgManager *config.Manager) *Service {
	return &Service{
		configManager: cfgManager,
		store:         NewTokenStore(cfgManager.Get().Spotify.TokenPath),
		states:        make(map[string]time.Time),
	}
}

func (s *Service) oauthConfig() *oauth2.Config {
	cfg := s.configManager.Get().Spotify
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       scopes,
		Endpoint:     spotifyauth.Endpoint,
	}
}

// LoginURL returns the Spotify authorization URL with a fresh state value.
func (s *Service) LoginURL() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	state := base64.URLEncoding.EncodeToString(buf)

	s.mu.Lock()
	for existing, createdAt := range s.states {
		if time.Since(createdAt) > stateTTL {
			delete(s.states, existing)
		}
	}
	s.states[state] = time.Now()
	s.mu.Unlock()

	return s.oauthConfig().AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// HandleCallback validates the state, exchanges the code and persists the
// resulting token.
func (s *Service) HandleCallback(ctx context.Context, state, code string) error {
	s.mu.Lock()
	createdAt, ok := s.states[state]
	delete(s.states, state)
	s.mu.Unlock()
	if !ok || time.Since(createdAt) > stateTTL {
		return errors.New("invalid or expired oauth state")
	}

	token, err := s.oauthConfig().Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}
	if err := s.store.Save(token); err != nil {
		return err
	}
	slog.Info("Spotify authorization completed", "expires", token.Expiry.Format(time.RFC3339))
	return nil
}

// Authenticated reports whether a usable token is on disk.
func (s *Service) Authenticated() bool {
	token, err := s.store.Load()
	return err == nil && token.RefreshToken != ""
}

// Logout discards the stored token.
func (s *Service) Logout() error {
	return s.store.Clear()
}

// Client returns an HTTP client that attaches the bearer token and refreshes
// it when expired. Refreshed tokens are written back to the store so the
// refresh survives restarts.
func (s *Service) Client(ctx context.Context) (*http.Client, error) {
	token, err := s.store.Load()
	if err != nil {
		return nil, ErrNotAuthenticated
	}
	source := s.oauthConfig().TokenSource(ctx, token)
	persisting := &persistingTokenSource{
		source: oauth2.ReuseTokenSource(token, source),
		store:  s.store,
		last:   token.AccessToken,
	}
	return oauth2.NewClient(ctx, persisting), nil
}

// persistingTokenSource saves the token whenever the underlying source
// refreshes it.
type persistingTokenSource struct {
	source oauth2.TokenSource
	store  *TokenStore
	mu     sync.Mutex
	last   string
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := p.source.Token()
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if token.AccessToken != p.last {
		p.last = token.AccessToken
		if err := p.store.Save(token); err != nil {
			slog.Error("Failed to persist refreshed token", "error", err)
		} else {
			slog.Debug("Refreshed Spotify token persisted", "expires", token.Expiry.Format(time.RFC3339))
		}
	}
	return token, nil
}
