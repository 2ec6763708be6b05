package chat

import "context"

// RemoteStore is the server-side system of record for saved conversations.
//
// Every method takes the caller's opaque bearer credential; implementations
// return ErrAuth when it is missing or rejected, ErrNotFound for unknown
// conversation ids, and a *TransportError for network or server failures.
type RemoteStore interface {
	// ListConversations returns the saved conversation summaries,
	// most-recent-first as ordered by the server.
	ListConversations(ctx context.Context, credential string) ([]ConversationSummary, error)

	// GetHistory returns the raw turn records of one saved conversation in
	// server-supplied order.
	GetHistory(ctx context.Context, credential string, id string) ([]HistoryRecord, error)

	// SaveConversation persists a draft as a new saved conversation and
	// returns its identifier. Callers must not pass an empty message list.
	SaveConversation(ctx context.Context, credential string, messages []Message, category string) (string, error)

	// DeleteAllHistory removes every saved conversation for the identity
	// behind the credential.
	DeleteAllHistory(ctx context.Context, credential string) error
}

// Transport turns a user utterance plus conversation context into an
// assistant reply. An empty credential routes through the guest variant that
// omits authentication.
type Transport interface {
	Send(ctx context.Context, text string, category string, prior []ChatTurn, credential string) (Reply, error)
}

// CredentialSource supplies the opaque bearer credential for collaborator
// calls. An empty string means no identity is held.
type CredentialSource interface {
	Credential() string
}

// CredentialFunc adapts a function to the CredentialSource interface.
type CredentialFunc func() string

func (f CredentialFunc) Credential() string { return f() }

// NoCredential is a CredentialSource for anonymous sessions.
var NoCredential = CredentialFunc(func() string { return "" })
