package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestClientLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body["email"] != "ana@example.com" {
			t.Errorf("email = %q", body["email"])
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access": "a1", "refresh": "r1"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())
	tokens, err := c.Login(context.Background(), "ana@example.com", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tokens.Access != "a1" || tokens.Refresh != "r1" {
		t.Fatalf("unexpected tokens: %+v", tokens)
	}
}

func TestClientLoginRejectsBadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())
	if _, err := c.Login(context.Background(), "ana@example.com", "wrong"); err == nil {
		t.Fatalf("expected login failure")
	}
}

func TestClientRefreshKeepsRefreshTokenWhenOmitted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/token/refresh/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access": "a2"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())
	tokens, err := c.Refresh(context.Background(), "r1")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if tokens.Access != "a2" || tokens.Refresh != "r1" {
		t.Fatalf("unexpected tokens: %+v", tokens)
	}
}
