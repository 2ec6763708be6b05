package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// HTTPRemoteStore talks to the conversation service over HTTP.
//
// Routes:
//
//	GET  <base>/api/auth/chat/conversations/
//	GET  <base>/api/auth/chat/history/<id>/
//	POST <base>/api/auth/chat/save/
//	POST <base>/api/auth/chat/clear/
type HTTPRemoteStore struct {
	BaseURL string
	HTTP    *http.Client
	log     zerolog.Logger
}

func NewHTTPRemoteStore(baseURL string, logger zerolog.Logger) *HTTPRemoteStore {
	return &HTTPRemoteStore{
		BaseURL: NormalizeBaseURL(baseURL),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		log:     logger.With().Str("component", "remote-store").Logger(),
	}
}

// NormalizeBaseURL strips a trailing slash so route joining stays predictable.
func NormalizeBaseURL(base string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/")
}

func (s *HTTPRemoteStore) do(ctx context.Context, op, method, path, credential string, body any) ([]byte, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, ErrAuth
	}

	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.BaseURL+path, payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, transportErr(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportErr(op, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, ErrAuth
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode >= 300:
		s.log.Debug().Int("status", resp.StatusCode).Str("op", op).Msg("server error")
		return nil, transportErr(op, fmt.Errorf("server returned status %d", resp.StatusCode))
	}
	return raw, nil
}

func (s *HTTPRemoteStore) ListConversations(ctx context.Context, credential string) ([]ConversationSummary, error) {
	raw, err := s.do(ctx, "list conversations", http.MethodGet, "/api/auth/chat/conversations/", credential, nil)
	if err != nil {
		return nil, err
	}
	var summaries []ConversationSummary
	if err := json.Unmarshal(raw, &summaries); err != nil {
		return nil, transportErr("list conversations", errors.Wrap(err, "decode response"))
	}
	return summaries, nil
}

func (s *HTTPRemoteStore) GetHistory(ctx context.Context, credential string, id string) ([]HistoryRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrNotFound
	}
	raw, err := s.do(ctx, "get history", http.MethodGet, "/api/auth/chat/history/"+id+"/", credential, nil)
	if err != nil {
		return nil, err
	}
	var records []HistoryRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, transportErr("get history", errors.Wrap(err, "decode response"))
	}
	return records, nil
}

type saveConversationRequest struct {
	Messages []ChatTurn `json:"messages"`
	ChatType string     `json:"chatType"`
}

type saveConversationResponse struct {
	ID     json.Number `json:"id"`
	Status string      `json:"status"`
	Error  string      `json:"error"`
}

func (s *HTTPRemoteStore) SaveConversation(ctx context.Context, credential string, messages []Message, category string) (string, error) {
	if len(messages) == 0 {
		return "", errors.Wrap(ErrValidation, "cannot save an empty conversation")
	}
	body := saveConversationRequest{
		Messages: ToTurns(messages),
		ChatType: NormalizeCategory(category),
	}
	raw, err := s.do(ctx, "save conversation", http.MethodPost, "/api/auth/chat/save/", credential, body)
	if err != nil {
		return "", err
	}
	var out saveConversationResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", transportErr("save conversation", errors.Wrap(err, "decode response"))
	}
	if out.Status == "error" || out.ID.String() == "" {
		msg := out.Error
		if msg == "" {
			msg = "save rejected by server"
		}
		return "", transportErr("save conversation", errors.New(msg))
	}
	s.log.Debug().Str("conversation_id", out.ID.String()).Msg("conversation saved")
	return out.ID.String(), nil
}

func (s *HTTPRemoteStore) DeleteAllHistory(ctx context.Context, credential string) error {
	_, err := s.do(ctx, "clear history", http.MethodPost, "/api/auth/chat/clear/", credential, nil)
	return err
}

var _ RemoteStore = (*HTTPRemoteStore)(nil)
