package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is a single entry in the session's message sequence. Messages are
// immutable once created and owned by the session controller; accessors hand
// out copies.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

func NewUserMessage(text string, at time.Time) Message {
	return Message{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    SenderUser,
		Timestamp: at,
	}
}

func NewAssistantMessage(text string, at time.Time) Message {
	return Message{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    SenderAssistant,
		Timestamp: at,
	}
}

// ChatTurn is the neutral role/content representation sent to the transport
// and the remote store. Roles are "user" and "assistant".
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToTurns maps a message sequence to its transport representation.
func ToTurns(messages []Message) []ChatTurn {
	turns := make([]ChatTurn, 0, len(messages))
	for _, m := range messages {
		role := "assistant"
		if m.Sender == SenderUser {
			role = "user"
		}
		turns = append(turns, ChatTurn{Role: role, Content: m.Text})
	}
	return turns
}

// ConversationSummary is one entry of the conversation index, as returned by
// the remote store's list endpoint.
type ConversationSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	LastMessage string    `json:"last_message"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HistoryRecord is one turn of a saved conversation. A record may carry a user
// utterance, an assistant reply, or both; records with neither are dropped
// during reconstruction.
type HistoryRecord struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// Reply is a successful transport round-trip result. CreatedAt is zero when
// the server did not supply a creation time.
type Reply struct {
	Text      string
	CreatedAt time.Time
}

// Categories the assistant service recognizes. Unknown values degrade to
// CategoryGeneral.
const (
	CategoryGeneral  = "general"
	CategoryTravel   = "travel"
	CategoryLearning = "learning"
	CategoryCoding   = "coding"
)

func NormalizeCategory(cat string) string {
	switch strings.ToLower(strings.TrimSpace(cat)) {
	case CategoryTravel:
		return CategoryTravel
	case CategoryLearning:
		return CategoryLearning
	case CategoryCoding:
		return CategoryCoding
	default:
		return CategoryGeneral
	}
}
