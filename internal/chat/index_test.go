package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestIndexRefreshWithoutCredentialIsNoOp(t *testing.T) {
	remote := NewMockRemoteStore()
	ix := NewIndex(remote, zerolog.Nop())

	if err := ix.Refresh(context.Background(), ""); err != nil {
		t.Fatalf("refresh without credential should be a no-op, got %v", err)
	}
	if got := ix.Current(); len(got) != 0 {
		t.Fatalf("index should stay empty, got %d entries", len(got))
	}
}

func TestIndexRefreshReplacesSet(t *testing.T) {
	remote := NewMockRemoteStore()
	ix := NewIndex(remote, zerolog.Nop())
	at := time.Now()

	if _, err := remote.SaveConversation(context.Background(), "token",
		[]Message{NewUserMessage("hello", at)}, CategoryGeneral); err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
	if err := ix.Refresh(context.Background(), "token"); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := ix.Current(); len(got) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(got))
	}

	if _, err := remote.SaveConversation(context.Background(), "token",
		[]Message{NewUserMessage("another", at)}, CategoryGeneral); err != nil {
		t.Fatalf("seed second conversation: %v", err)
	}
	if err := ix.Refresh(context.Background(), "token"); err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	if got := ix.Current(); len(got) != 2 {
		t.Fatalf("expected 2 summaries after refresh, got %d", len(got))
	}
}

func TestIndexRefreshFailurePreservesPreviousSet(t *testing.T) {
	remote := NewMockRemoteStore()
	ix := NewIndex(remote, zerolog.Nop())

	if _, err := remote.SaveConversation(context.Background(), "token",
		[]Message{NewUserMessage("keep me", time.Now())}, CategoryGeneral); err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
	if err := ix.Refresh(context.Background(), "token"); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	remote.ListErr = transportErr("list conversations", errors.New("gateway timeout"))
	err := ix.Refresh(context.Background(), "token")
	if err == nil {
		t.Fatalf("expected refresh failure")
	}
	if got := ix.Current(); len(got) != 1 {
		t.Fatalf("failed refresh should keep the previous set, got %d entries", len(got))
	}
}

func TestIndexCurrentReturnsIndependentCopy(t *testing.T) {
	remote := NewMockRemoteStore()
	ix := NewIndex(remote, zerolog.Nop())
	if _, err := remote.SaveConversation(context.Background(), "token",
		[]Message{NewUserMessage("original title", time.Now())}, CategoryGeneral); err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
	if err := ix.Refresh(context.Background(), "token"); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	first := ix.Current()
	first[0].Title = "mutated"
	if got := ix.Current(); got[0].Title == "mutated" {
		t.Fatalf("Current must hand out a copy")
	}
}

func TestIndexReset(t *testing.T) {
	remote := NewMockRemoteStore()
	ix := NewIndex(remote, zerolog.Nop())
	if _, err := remote.SaveConversation(context.Background(), "token",
		[]Message{NewUserMessage("soon gone", time.Now())}, CategoryGeneral); err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
	if err := ix.Refresh(context.Background(), "token"); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	ix.Reset()
	if got := ix.Current(); len(got) != 0 {
		t.Fatalf("expected empty index after reset, got %d entries", len(got))
	}
}
