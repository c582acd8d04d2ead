package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestFileProvider_NoSession(t *testing.T) {
	t.Parallel()
	p := NewFileProvider(filepath.Join(t.TempDir(), "session.json"))
	if _, err := p.Token(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestFileProvider_SaveTokenClear(t *testing.T) {
	t.Parallel()
	p := NewFileProvider(filepath.Join(t.TempDir(), "nested", "session.json"))
	tok := signed(t, time.Now().Add(time.Hour))
	if err := p.Save(Session{AccessToken: tok, Email: "a@example.com"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := p.Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if got != tok {
		t.Fatalf("token mismatch")
	}
	if err := p.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := p.Token(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after clear, got %v", err)
	}
	// Clearing twice is fine.
	if err := p.Clear(); err != nil {
		t.Fatalf("Clear twice: %v", err)
	}
}

func TestFileProvider_Expired(t *testing.T) {
	t.Parallel()
	p := NewFileProvider(filepath.Join(t.TempDir(), "session.json"))
	if err := p.Save(Session{AccessToken: signed(t, time.Now().Add(-time.Minute))}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := p.Token(context.Background()); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}

	// ExpiresAt wins over the token's own claim.
	if err := p.Save(Session{AccessToken: "opaque", ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := p.Token(context.Background()); err != nil {
		t.Fatalf("Token: %v", err)
	}
}

func TestExpiryFromJWT(t *testing.T) {
	t.Parallel()
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	got, ok := ExpiryFromJWT(signed(t, exp))
	if !ok || !got.Equal(exp) {
		t.Fatalf("got (%v,%v) want %v", got, ok, exp)
	}
	if _, ok := ExpiryFromJWT("not-a-jwt"); ok {
		t.Fatalf("expected no expiry for opaque token")
	}
}

func TestAuthenticator_Login(t *testing.T) {
	t.Parallel()
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := signed(t, exp)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/token" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req tokenRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"accessToken": tok, "sub": "admin-1"})
	}))
	defer srv.Close()

	a := NewAuthenticator(srv.URL+"/", 5*time.Second)
	s, err := a.Login(context.Background(), " Admin@Example.com ", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if s.Email != "admin@example.com" || s.Subject != "admin-1" {
		t.Fatalf("unexpected session: %+v", s)
	}
	if !s.ExpiresAt.Equal(exp) {
		t.Fatalf("expiry from jwt: got %v want %v", s.ExpiresAt, exp)
	}

	_, err = a.Login(context.Background(), "admin@example.com", "wrong")
	if err == nil || err.Error() != "login failed: invalid credentials" {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
}
