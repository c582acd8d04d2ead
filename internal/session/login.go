package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Authenticator exchanges credentials for a token at the auth provider.
type Authenticator struct {
	client *resty.Client
}

func NewAuthenticator(authURL string, timeout time.Duration) *Authenticator {
	c := resty.New().
		SetBaseURL(strings.TrimRight(authURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	return &Authenticator{client: c}
}

type tokenRequest struct {
	GrantType string `json:"grantType"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type tokenResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Subject     string    `json:"sub"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Login performs a password grant and returns the new session. It does not persist it.
func (a *Authenticator) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, errors.New("email and password are required")
	}

	var out tokenResponse
	var eb errorBody
	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(tokenRequest{GrantType: "password", Email: email, Password: password}).
		SetResult(&out).
		SetError(&eb).
		Post("/auth/token")
	if err != nil {
		return Session{}, fmt.Errorf("auth provider: %w", err)
	}
	if resp.IsError() {
		msg := strings.TrimSpace(eb.Message)
		if msg == "" {
			msg = strings.TrimSpace(eb.Error)
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return Session{}, fmt.Errorf("login failed: %s", msg)
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return Session{}, errors.New("login failed: empty token")
	}

	s := Session{AccessToken: out.AccessToken, ExpiresAt: out.ExpiresAt, Email: email, Subject: out.Subject}
	if s.ExpiresAt.IsZero() {
		if exp, ok := ExpiryFromJWT(out.AccessToken); ok {
			s.ExpiresAt = exp
		}
	}
	return s, nil
}
