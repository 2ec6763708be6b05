package chat

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteDraftStore keeps the draft in a single-row sqlite table. Each save is
// one transaction, so the message list and category are replaced as a unit.
type SQLiteDraftStore struct {
	dbPath string

	mu   sync.Mutex
	db   *sql.DB
	once sync.Once
	err  error
}

func NewSQLiteDraftStore(root string) (*SQLiteDraftStore, error) {
	if strings.TrimSpace(root) == "" {
		root = DefaultStorageRoot()
	}
	root = filepath.Clean(root)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	st := &SQLiteDraftStore{dbPath: filepath.Join(root, "tipsiti.db")}
	if err := st.init(); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *SQLiteDraftStore) init() error {
	s.once.Do(func() {
		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			s.err = err
			return
		}
		_, _ = db.Exec("PRAGMA busy_timeout = 5000;")
		_, _ = db.Exec("PRAGMA journal_mode = WAL;")
		_, _ = db.Exec("PRAGMA synchronous = NORMAL;")

		_, err = db.Exec(`CREATE TABLE IF NOT EXISTS draft (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			messages TEXT NOT NULL,
			category TEXT NOT NULL,
			updated_at_ns INTEGER NOT NULL
		);`)
		if err != nil {
			s.err = err
			_ = db.Close()
			return
		}
		s.db = db
	})
	return s.err
}

func (s *SQLiteDraftStore) Save(messages []Message, category string) error {
	if err := s.init(); err != nil {
		return err
	}
	if messages == nil {
		messages = []Message{}
	}
	payload, err := json.Marshal(messages)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		`INSERT INTO draft (id, messages, category, updated_at_ns) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET messages = excluded.messages,
			category = excluded.category, updated_at_ns = excluded.updated_at_ns;`,
		string(payload), NormalizeCategory(category), time.Now().UnixNano(),
	)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *SQLiteDraftStore) Load() ([]Message, string) {
	if err := s.init(); err != nil {
		return []Message{}, CategoryGeneral
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var payload, category string
	err := s.db.QueryRow(`SELECT messages, category FROM draft WHERE id = 1;`).
		Scan(&payload, &category)
	if err != nil {
		return []Message{}, CategoryGeneral
	}
	var messages []Message
	if err := json.Unmarshal([]byte(payload), &messages); err != nil {
		return []Message{}, CategoryGeneral
	}
	if messages == nil {
		messages = []Message{}
	}
	return messages, NormalizeCategory(category)
}

func (s *SQLiteDraftStore) Clear() error {
	if err := s.init(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM draft WHERE id = 1;`)
	return err
}

func (s *SQLiteDraftStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
