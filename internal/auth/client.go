// Package auth is the identity collaborator: it obtains bearer tokens from
// the account service and keeps them on disk. The chat engine itself only
// consumes the resulting opaque credential.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Tokens is a bearer token pair issued by the account service.
type Tokens struct {
	Access  string `json:"access" yaml:"access"`
	Refresh string `json:"refresh" yaml:"refresh"`
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		log:     logger.With().Str("component", "auth").Logger(),
	}
}

func (c *Client) post(ctx context.Context, path string, body any) ([]byte, int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, 0, errors.Wrap(err, "auth request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, errors.Wrap(err, "read auth response")
	}
	return raw, resp.StatusCode, nil
}

func (c *Client) tokensFrom(raw []byte, status int) (Tokens, error) {
	if status == http.StatusUnauthorized {
		return Tokens{}, errors.New("invalid credentials")
	}
	if status >= 300 {
		var out struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &out)
		if out.Error != "" {
			return Tokens{}, errors.New(out.Error)
		}
		return Tokens{}, fmt.Errorf("account service returned status %d", status)
	}
	var tokens Tokens
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return Tokens{}, errors.Wrap(err, "decode auth response")
	}
	if tokens.Access == "" {
		return Tokens{}, errors.New("account service returned no access token")
	}
	return tokens, nil
}

// Login exchanges email and password for a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (Tokens, error) {
	raw, status, err := c.post(ctx, "/api/auth/login/", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return Tokens{}, err
	}
	tokens, err := c.tokensFrom(raw, status)
	if err != nil {
		return Tokens{}, err
	}
	c.log.Debug().Str("email", email).Msg("login succeeded")
	return tokens, nil
}

// Register creates an account and returns its first token pair.
func (c *Client) Register(ctx context.Context, username, email, password string) (Tokens, error) {
	raw, status, err := c.post(ctx, "/api/auth/register/", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return Tokens{}, err
	}
	return c.tokensFrom(raw, status)
}

// Refresh trades a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	raw, status, err := c.post(ctx, "/api/auth/token/refresh/", map[string]string{
		"refresh": refreshToken,
	})
	if err != nil {
		return Tokens{}, err
	}
	tokens, err := c.tokensFrom(raw, status)
	if err != nil {
		return Tokens{}, err
	}
	if tokens.Refresh == "" {
		tokens.Refresh = refreshToken
	}
	return tokens, nil
}
