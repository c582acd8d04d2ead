package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrNoSession = errors.New("not logged in")
	ErrExpired   = errors.New("session expired")
)

// clockSkew treats tokens about to expire as already expired.
const clockSkew = 10 * time.Second

// Session is the auth provider's token as cached on disk.
type Session struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt,omitempty"`
	Email       string    `json:"email,omitempty"`
	Subject     string    `json:"sub,omitempty"`
}

// Expiry returns the session's expiry: ExpiresAt when set, else the JWT exp claim.
func (s Session) Expiry() (time.Time, bool) {
	if !s.ExpiresAt.IsZero() {
		return s.ExpiresAt, true
	}
	return ExpiryFromJWT(s.AccessToken)
}

// ExpiryFromJWT reads the exp claim without verifying the signature; the API
// verifies tokens, the client only needs to know when to stop sending one.
func ExpiryFromJWT(token string) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(token), claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// FileProvider serves the current bearer token from the local session file.
// Token re-checks the file on every call so a login in another terminal is
// picked up immediately. It is safe for concurrent use.
type FileProvider struct {
	path string
	now  func() time.Time

	mu      sync.Mutex
	cached  *Session
	modTime time.Time
}

func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path, now: time.Now}
}

func (p *FileProvider) Path() string { return p.path }

// Token returns the current access token or ErrNoSession / ErrExpired.
func (p *FileProvider) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s, err := p.Current()
	if err != nil {
		return "", err
	}
	if exp, ok := s.Expiry(); ok && !p.now().Add(clockSkew).Before(exp) {
		return "", ErrExpired
	}
	return s.AccessToken, nil
}

// Current returns the cached session, reloading it when the file changed.
func (p *FileProvider) Current() (Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	st, err := os.Stat(p.path)
	if err != nil {
		p.cached = nil
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, ErrNoSession
		}
		return Session{}, err
	}
	if p.cached != nil && st.ModTime().Equal(p.modTime) {
		return *p.cached, nil
	}

	b, err := os.ReadFile(p.path)
	if err != nil {
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return Session{}, err
	}
	if strings.TrimSpace(s.AccessToken) == "" {
		return Session{}, ErrNoSession
	}
	p.cached = &s
	p.modTime = st.ModTime()
	return s, nil
}

// Save writes s to the session file (0600) and refreshes the cache.
func (p *FileProvider) Save(s Session) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(p.path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, append(b, '\n'), 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, p.path); err != nil {
		return err
	}
	p.cached = nil
	return nil
}

// Clear removes the session file (logout).
func (p *FileProvider) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cached = nil
	if err := os.Remove(p.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
