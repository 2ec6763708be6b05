package chat

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockTransport simulates the assistant service for offline mode and tests.
// Replies are keyed on keywords in the prompt; Err, when set, fails every
// round-trip instead.
type MockTransport struct {
	mu    sync.Mutex
	Calls int
	Err   error
	// Reply overrides the canned keyword responses when non-empty.
	Reply string
	// CreatedAt is attached to replies when non-zero.
	CreatedAt time.Time
}

func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

func (t *MockTransport) Send(_ context.Context, text string, category string, _ []ChatTurn, _ string) (Reply, error) {
	t.mu.Lock()
	t.Calls++
	err := t.Err
	reply := t.Reply
	at := t.CreatedAt
	t.mu.Unlock()

	if err != nil {
		return Reply{}, err
	}
	if reply == "" {
		reply = cannedReply(text, category)
	}
	return Reply{Text: reply, CreatedAt: at}, nil
}

func cannedReply(text string, category string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "kyoto"):
		return "Spring is lovely in Kyoto, especially during cherry blossom season."
	case strings.Contains(lower, "paris"):
		return "Paris shines in late spring; book museum tickets ahead."
	case strings.Contains(lower, "hello"), strings.Contains(lower, "hi"):
		return "Hello! Where would you like to go next?"
	default:
		return fmt.Sprintf("As your %s assistant, here is what I found about %q.", category, text)
	}
}

var _ Transport = (*MockTransport)(nil)

// MockRemoteStore is an in-memory conversation service. It honors the same
// error contract as the HTTP client: no credential means ErrAuth.
type MockRemoteStore struct {
	mu         sync.Mutex
	nextID     int64
	summaries  []ConversationSummary
	histories  map[string][]HistoryRecord
	categories map[string]string

	// Failure injection for tests.
	ListErr   error
	GetErr    error
	SaveErr   error
	DeleteErr error
}

func NewMockRemoteStore() *MockRemoteStore {
	return &MockRemoteStore{
		nextID:     1,
		summaries:  []ConversationSummary{},
		histories:  map[string][]HistoryRecord{},
		categories: map[string]string{},
	}
}

func (m *MockRemoteStore) ListConversations(_ context.Context, credential string) ([]ConversationSummary, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, ErrAuth
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]ConversationSummary, len(m.summaries))
	copy(out, m.summaries)
	return out, nil
}

func (m *MockRemoteStore) GetHistory(_ context.Context, credential string, id string) ([]HistoryRecord, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, ErrAuth
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	records, ok := m.histories[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]HistoryRecord, len(records))
	copy(out, records)
	return out, nil
}

func (m *MockRemoteStore) SaveConversation(_ context.Context, credential string, messages []Message, category string) (string, error) {
	if strings.TrimSpace(credential) == "" {
		return "", ErrAuth
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return "", m.SaveErr
	}
	if len(messages) == 0 {
		return "", transportErr("save conversation", fmt.Errorf("empty conversation"))
	}

	id := strconv.FormatInt(m.nextID, 10)
	m.nextID++

	title := messages[0].Text
	if len(title) > 50 {
		title = title[:50]
	}
	records := make([]HistoryRecord, 0, len(messages)/2+1)
	var current *HistoryRecord
	recID := int64(1)
	for _, msg := range messages {
		if msg.Sender == SenderUser {
			records = append(records, HistoryRecord{ID: recID, Message: msg.Text, CreatedAt: msg.Timestamp})
			current = &records[len(records)-1]
			recID++
		} else if current != nil && current.Response == "" {
			current.Response = msg.Text
		} else {
			records = append(records, HistoryRecord{ID: recID, Response: msg.Text, CreatedAt: msg.Timestamp})
			recID++
		}
	}
	m.histories[id] = records

	last := messages[len(messages)-1]
	m.summaries = append([]ConversationSummary{{
		ID:          id,
		Title:       title,
		LastMessage: last.Text,
		UpdatedAt:   last.Timestamp,
	}}, m.summaries...)

	m.categories[id] = NormalizeCategory(category)
	return id, nil
}

func (m *MockRemoteStore) DeleteAllHistory(_ context.Context, credential string) error {
	if strings.TrimSpace(credential) == "" {
		return ErrAuth
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.summaries = []ConversationSummary{}
	m.histories = map[string][]HistoryRecord{}
	m.categories = map[string]string{}
	return nil
}

var _ RemoteStore = (*MockRemoteStore)(nil)
