package chat

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func draftStores(t *testing.T) map[string]DraftStore {
	t.Helper()
	sqlite, err := NewSQLiteDraftStore(t.TempDir())
	if err != nil {
		t.Fatalf("sqlite draft store: %v", err)
	}
	t.Cleanup(func() { _ = sqlite.Close() })
	return map[string]DraftStore{
		"file":   NewFileDraftStore(t.TempDir()),
		"sqlite": sqlite,
	}
}

func TestDraftStoreRoundTrip(t *testing.T) {
	at := time.Date(2025, 5, 20, 10, 30, 0, 0, time.UTC)
	messages := []Message{
		NewUserMessage("what's the best ramen in Tokyo?", at),
		NewAssistantMessage("Try the shops around Shinjuku station.", at.Add(2*time.Second)),
	}

	for name, store := range draftStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Save(messages, CategoryTravel); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, category := store.Load()
			if category != CategoryTravel {
				t.Fatalf("category = %q, want travel", category)
			}
			if len(got) != 2 {
				t.Fatalf("expected 2 messages, got %d", len(got))
			}
			for i := range messages {
				if got[i].ID != messages[i].ID || got[i].Text != messages[i].Text || got[i].Sender != messages[i].Sender {
					t.Fatalf("message %d mismatch: %+v vs %+v", i, got[i], messages[i])
				}
				if !got[i].Timestamp.Equal(messages[i].Timestamp) {
					t.Fatalf("message %d timestamp mismatch: %v vs %v", i, got[i].Timestamp, messages[i].Timestamp)
				}
			}
		})
	}
}

func TestDraftStoreLoadWithoutSaveReturnsDefaults(t *testing.T) {
	for name, store := range draftStores(t) {
		t.Run(name, func(t *testing.T) {
			msgs, category := store.Load()
			if len(msgs) != 0 {
				t.Fatalf("expected empty draft, got %d messages", len(msgs))
			}
			if category != CategoryGeneral {
				t.Fatalf("category = %q, want general", category)
			}
		})
	}
}

func TestDraftStoreSaveOverwrites(t *testing.T) {
	now := time.Now()
	for name, store := range draftStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Save([]Message{NewUserMessage("first", now)}, CategoryCoding); err != nil {
				t.Fatalf("first save: %v", err)
			}
			if err := store.Save([]Message{NewUserMessage("second", now)}, CategoryLearning); err != nil {
				t.Fatalf("second save: %v", err)
			}
			msgs, category := store.Load()
			if len(msgs) != 1 || msgs[0].Text != "second" {
				t.Fatalf("overwrite failed: %+v", msgs)
			}
			if category != CategoryLearning {
				t.Fatalf("category = %q, want learning", category)
			}
		})
	}
}

func TestDraftStoreClearIsIdempotent(t *testing.T) {
	for name, store := range draftStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Save([]Message{NewUserMessage("bye", time.Now())}, CategoryGeneral); err != nil {
				t.Fatalf("save: %v", err)
			}
			if err := store.Clear(); err != nil {
				t.Fatalf("clear: %v", err)
			}
			if err := store.Clear(); err != nil {
				t.Fatalf("second clear should be a no-op: %v", err)
			}
			msgs, category := store.Load()
			if len(msgs) != 0 || category != CategoryGeneral {
				t.Fatalf("expected defaults after clear, got %d messages, category %q", len(msgs), category)
			}
		})
	}
}

func TestFileDraftStoreCorruptPayloadDegradesToDefaults(t *testing.T) {
	dir := t.TempDir()
	store := NewFileDraftStore(dir)
	if err := os.MkdirAll(filepath.Join(dir, "draft"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "draft", "current.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt payload: %v", err)
	}

	msgs, category := store.Load()
	if len(msgs) != 0 || category != CategoryGeneral {
		t.Fatalf("corrupt draft should degrade to defaults, got %d messages, category %q", len(msgs), category)
	}
}

func TestDraftStoreNormalizesUnknownCategory(t *testing.T) {
	for name, store := range draftStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Save([]Message{}, "astrology"); err != nil {
				t.Fatalf("save: %v", err)
			}
			_, category := store.Load()
			if category != CategoryGeneral {
				t.Fatalf("unknown category should normalize to general, got %q", category)
			}
		})
	}
}
