package auth

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// TokenStore keeps the token pair in a yaml file under the storage root. An
// absent or unreadable file simply means no identity is held.
type TokenStore struct {
	path string

	mu     sync.Mutex
	tokens Tokens
	loaded bool
}

func NewTokenStore(root string) *TokenStore {
	return &TokenStore{path: filepath.Join(root, "tokens.yaml")}
}

func (s *TokenStore) load() {
	if s.loaded {
		return
	}
	s.loaded = true
	b, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var tokens Tokens
	if err := yaml.Unmarshal(b, &tokens); err != nil {
		return
	}
	s.tokens = tokens
}

// Credential returns the access token, or "" when no identity is held.
func (s *TokenStore) Credential() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	return strings.TrimSpace(s.tokens.Access)
}

// RefreshToken returns the stored refresh token, or "".
func (s *TokenStore) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	return strings.TrimSpace(s.tokens.Refresh)
}

// Save persists a token pair.
func (s *TokenStore) Save(tokens Tokens) error {
	if strings.TrimSpace(tokens.Access) == "" {
		return errors.New("missing access token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = tokens
	s.loaded = true

	b, err := yaml.Marshal(&tokens)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o600)
}

// Clear forgets the stored identity; idempotent.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = Tokens{}
	s.loaded = true
	err := os.Remove(s.path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
