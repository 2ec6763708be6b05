package chat

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileDraftStore keeps the draft as a single JSON document on disk.
//
// Layout:
//
//	<root>/draft/current.json
//
// The document is written to a temp file and renamed into place, so messages
// and category always land together even if the process dies mid-write.
type FileDraftStore struct {
	Root string
}

// DefaultStorageRoot resolves the local storage directory, preferring the XDG
// data dir and falling back to ~/.local/share.
func DefaultStorageRoot() string {
	if base := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); base != "" {
		return filepath.Join(base, "tipsiti", "storage")
	}
	if base, err := os.UserHomeDir(); err == nil && base != "" {
		return filepath.Join(base, ".local", "share", "tipsiti", "storage")
	}
	return filepath.Join(os.TempDir(), "tipsiti", "storage")
}

func NewFileDraftStore(root string) *FileDraftStore {
	if strings.TrimSpace(root) == "" {
		root = DefaultStorageRoot()
	}
	return &FileDraftStore{Root: root}
}

func (s *FileDraftStore) draftDir() string {
	return filepath.Join(s.Root, "draft")
}

func (s *FileDraftStore) draftPath() string {
	return filepath.Join(s.draftDir(), "current.json")
}

func (s *FileDraftStore) Save(messages []Message, category string) error {
	if err := os.MkdirAll(s.draftDir(), 0o755); err != nil {
		return err
	}
	doc := draftDocument{
		Messages:  messages,
		Category:  NormalizeCategory(category),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if doc.Messages == nil {
		doc.Messages = []Message{}
	}
	b, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.draftPath() + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.draftPath())
}

func (s *FileDraftStore) Load() ([]Message, string) {
	b, err := os.ReadFile(s.draftPath())
	if err != nil {
		return []Message{}, CategoryGeneral
	}
	var doc draftDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		// Corrupt drafts degrade to an empty one rather than surfacing an error.
		return []Message{}, CategoryGeneral
	}
	if doc.Messages == nil {
		doc.Messages = []Message{}
	}
	return doc.Messages, NormalizeCategory(doc.Category)
}

func (s *FileDraftStore) Clear() error {
	err := os.Remove(s.draftPath())
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
