package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agendaConsole/internal/platform/rest"
	"agendaConsole/internal/shared/auth"
	"agendaConsole/internal/shared/session"
)

var ErrEmptyToken = errors.New("login response without access_token")

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// AuthHTTPClient implements session.Authenticator against /auth.
type AuthHTTPClient struct {
	rest *rest.Client
}

func NewAuthHTTPClient(client *rest.Client) *AuthHTTPClient {
	return &AuthHTTPClient{rest: client}
}

func (c *AuthHTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	var res loginResponse
	if err := c.rest.Post(ctx, auth.Anonymous, "/auth/login", loginRequest{Email: email, Password: password}, &res); err != nil {
		return "", err
	}
	token := strings.TrimSpace(res.AccessToken)
	if token == "" {
		return "", ErrEmptyToken
	}
	return token, nil
}

func (c *AuthHTTPClient) Me(ctx context.Context, cred auth.Credential) (session.Profile, error) {
	var profile session.Profile
	if err := c.rest.Get(ctx, cred, "/auth/me", nil, &profile); err != nil {
		return session.Profile{}, fmt.Errorf("auth me: %w", err)
	}
	return profile, nil
}

var _ session.Authenticator = (*AuthHTTPClient)(nil)
