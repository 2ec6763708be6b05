package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Index is the lazily-refreshed conversation list shown in the sidebar: a
// read-through cache over the remote store's list endpoint.
type Index struct {
	remote RemoteStore
	log    zerolog.Logger

	mu        sync.RWMutex
	summaries []ConversationSummary
}

func NewIndex(remote RemoteStore, logger zerolog.Logger) *Index {
	return &Index{
		remote:    remote,
		log:       logger.With().Str("component", "index").Logger(),
		summaries: []ConversationSummary{},
	}
}

// Refresh replaces the cached set with the server's list. Without a credential
// it is a no-op: summaries are meaningless without an identity, so the index
// simply stays as it is. A failed fetch keeps the previous set and returns the
// error.
func (ix *Index) Refresh(ctx context.Context, credential string) error {
	if strings.TrimSpace(credential) == "" {
		return nil
	}
	summaries, err := ix.remote.ListConversations(ctx, credential)
	if err != nil {
		ix.log.Debug().Err(err).Msg("conversation list refresh failed")
		return err
	}
	if summaries == nil {
		summaries = []ConversationSummary{}
	}

	ix.mu.Lock()
	ix.summaries = summaries
	ix.mu.Unlock()
	return nil
}

// Current returns the last successfully fetched set. It never blocks on the
// network and never triggers a fetch.
func (ix *Index) Current() []ConversationSummary {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]ConversationSummary, len(ix.summaries))
	copy(out, ix.summaries)
	return out
}

// Reset empties the cached set. Used after the server-side history is cleared.
func (ix *Index) Reset() {
	ix.mu.Lock()
	ix.summaries = []ConversationSummary{}
	ix.mu.Unlock()
}
