package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Mode says whether the session is an editable live draft or a read-only view
// of a saved conversation.
type Mode string

const (
	ModeLive    Mode = "live"
	ModeViewing Mode = "viewing"
)

// Session is the conversation state machine. It owns the active message
// sequence and orchestrates the draft cache, the remote store and the message
// transport so the three views of "the current conversation" stay consistent:
//
//   - in Live mode every change is mirrored to the draft cache;
//   - in Viewing mode draft writes are suppressed, so browsing history can
//     never overwrite the user's unsaved draft;
//   - a live draft becomes a saved conversation exactly once, when the user
//     starts a new one.
//
// All state is guarded by a single mutex; collaborator calls happen outside
// the lock and their results are re-validated against the session generation
// before being applied, so a stale response can never clobber newer state.
type Session struct {
	drafts    DraftStore
	remote    RemoteStore
	transport Transport
	index     *Index
	creds     CredentialSource
	log       zerolog.Logger

	now func() time.Time

	mu         sync.Mutex
	messages   []Message
	category   string
	mode       Mode
	activeID   string
	pending    bool
	generation uint64
}

func NewSession(drafts DraftStore, remote RemoteStore, transport Transport, index *Index, creds CredentialSource, logger zerolog.Logger) *Session {
	if creds == nil {
		creds = NoCredential
	}
	return &Session{
		drafts:    drafts,
		remote:    remote,
		transport: transport,
		index:     index,
		creds:     creds,
		log:       logger.With().Str("component", "session").Logger(),
		now:       time.Now,
		messages:  []Message{},
		category:  CategoryGeneral,
		mode:      ModeLive,
	}
}

// RestoreDraft loads the persisted draft into a fresh live session. Called
// once at startup; a missing or unreadable draft restores an empty one.
func (s *Session) RestoreDraft() {
	messages, category := s.drafts.Load()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeLive || s.pending || len(s.messages) > 0 {
		return
	}
	s.messages = messages
	s.category = category
}

// Submit sends a user message to the assistant and appends both sides of the
// exchange to the live sequence.
//
// The user's message is never rolled back: if the transport fails, a synthetic
// assistant message carrying the failure text is appended instead of a real
// reply, so the user always sees that no answer arrived.
func (s *Session) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)

	s.mu.Lock()
	if text == "" {
		s.mu.Unlock()
		return errors.Wrap(ErrValidation, "message text is blank")
	}
	if s.mode != ModeLive {
		s.mu.Unlock()
		return errors.Wrap(ErrValidation, "cannot send while viewing a saved conversation")
	}
	if s.pending {
		s.mu.Unlock()
		return ErrBusy
	}

	userMsg := NewUserMessage(text, s.now())
	s.messages = append(s.messages, userMsg)
	s.pending = true
	gen := s.generation
	category := s.category
	turns := ToTurns(s.messages)
	s.mu.Unlock()

	credential := s.creds.Credential()
	reply, sendErr := s.transport.Send(ctx, text, category, turns, credential)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false

	if s.generation != gen {
		// The user switched conversations or reset while the round-trip was in
		// flight; the sequence this reply belonged to no longer exists.
		s.log.Debug().Msg("discarding stale assistant reply")
		return nil
	}

	if sendErr != nil {
		s.log.Debug().Err(sendErr).Msg("transport failed, appending error placeholder")
		s.messages = append(s.messages, NewAssistantMessage(fmt.Sprintf("Error: %v", sendErr), s.now()))
	} else {
		at := reply.CreatedAt
		if at.IsZero() {
			at = s.now()
		}
		s.messages = append(s.messages, NewAssistantMessage(reply.Text, at))
	}

	if s.mode == ModeLive {
		s.persistDraftLocked()
	}
	return nil
}

// StartNewConversation checkpoints a non-empty live draft to the remote store
// (when an identity is held) and then resets to an empty live session. A
// failed save aborts the reset so unsaved work is never discarded silently.
func (s *Session) StartNewConversation(ctx context.Context) error {
	s.mu.Lock()
	mode := s.mode
	messages := make([]Message, len(s.messages))
	copy(messages, s.messages)
	category := s.category
	s.mu.Unlock()

	credential := s.creds.Credential()
	if mode == ModeLive && len(messages) > 0 && credential != "" {
		id, err := s.remote.SaveConversation(ctx, credential, messages, category)
		if err != nil {
			return err
		}
		if id != "" && s.index != nil {
			if err := s.index.Refresh(ctx, credential); err != nil {
				s.log.Debug().Err(err).Msg("index refresh after checkpoint failed")
			}
		}
	}

	s.resetToLive()
	return nil
}

// SelectConversation switches to a read-only view of a saved conversation.
// The mode flips immediately; the message sequence is replaced once the
// history fetch lands, unless a newer selection superseded it in the meantime.
// A failed fetch leaves the previously displayed messages alone.
func (s *Session) SelectConversation(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.Wrap(ErrValidation, "missing conversation id")
	}

	s.mu.Lock()
	s.mode = ModeViewing
	s.activeID = id
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	records, err := s.remote.GetHistory(ctx, s.creds.Credential(), id)
	if err != nil {
		return err
	}
	messages := reconstructHistory(records)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen || s.activeID != id || s.mode != ModeViewing {
		s.log.Debug().Str("conversation_id", id).Msg("discarding stale history fetch")
		return nil
	}
	s.messages = messages
	return nil
}

// ClearAllHistory deletes every saved conversation for the current identity
// and resets the session. The caller must pass an explicit confirmation flag;
// the irreversible delete never runs without one. On failure nothing changes.
func (s *Session) ClearAllHistory(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return errors.Wrap(ErrValidation, "history deletion requires confirmation")
	}
	if err := s.remote.DeleteAllHistory(ctx, s.creds.Credential()); err != nil {
		return err
	}

	s.resetToLive()
	if s.index != nil {
		s.index.Reset()
	}
	return nil
}

// SetCategory switches the live conversation's category tag and persists it
// with the draft. Rejected in viewing mode.
func (s *Session) SetCategory(category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeLive {
		return errors.Wrap(ErrValidation, "cannot change category while viewing a saved conversation")
	}
	s.category = NormalizeCategory(category)
	s.persistDraftLocked()
	return nil
}

// Messages returns a copy of the current message sequence.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Session) Category() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

// ActiveConversationID returns the viewed conversation's id, or "" in live mode.
func (s *Session) ActiveConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Authenticated reports whether an identity is currently held.
func (s *Session) Authenticated() bool {
	return s.Credential() != ""
}

// Credential returns the current identity token, or "" for guests.
func (s *Session) Credential() string {
	return strings.TrimSpace(s.creds.Credential())
}

func (s *Session) resetToLive() {
	s.mu.Lock()
	s.messages = []Message{}
	s.activeID = ""
	s.mode = ModeLive
	s.generation++
	s.mu.Unlock()

	if err := s.drafts.Clear(); err != nil {
		s.log.Debug().Err(err).Msg("draft clear failed")
	}
}

// persistDraftLocked mirrors the live state to the draft cache. Persistence is
// best-effort: failures are logged and swallowed, never propagated.
func (s *Session) persistDraftLocked() {
	messages := make([]Message, len(s.messages))
	copy(messages, s.messages)
	if err := s.drafts.Save(messages, s.category); err != nil {
		s.log.Debug().Err(err).Msg("draft save failed")
	}
}

// reconstructHistory rebuilds the ordered message sequence from raw history
// records. Within a record the user turn precedes the assistant turn at the
// same timestamp: a reply cannot come before its prompt. Record order is
// trusted as supplied by the server.
func reconstructHistory(records []HistoryRecord) []Message {
	messages := make([]Message, 0, len(records)*2)
	for _, r := range records {
		if r.Message == "" && r.Response == "" {
			continue
		}
		if r.Message != "" {
			messages = append(messages, Message{
				ID:        fmt.Sprintf("%d_user", r.ID),
				Text:      r.Message,
				Sender:    SenderUser,
				Timestamp: r.CreatedAt,
			})
		}
		if r.Response != "" {
			messages = append(messages, Message{
				ID:        fmt.Sprintf("%d_assistant", r.ID),
				Text:      r.Response,
				Sender:    SenderAssistant,
				Timestamp: r.CreatedAt,
			})
		}
	}
	return messages
}
