package chat

// DraftStore durably persists the in-progress conversation so it survives a
// restart. Persistence is best-effort: Load never fails, it degrades missing
// or unreadable state to an empty draft with the default category.
//
// Implementations must write messages and category as one unit; a reader must
// never observe a new message list paired with an old category.
type DraftStore interface {
	Save(messages []Message, category string) error
	Load() ([]Message, string)
	Clear() error
}

// draftDocument is the stored payload shared by the file and sqlite stores.
type draftDocument struct {
	Messages  []Message `json:"messages"`
	Category  string    `json:"category"`
	UpdatedAt string    `json:"updated_at,omitempty"`
}
