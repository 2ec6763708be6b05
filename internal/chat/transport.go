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

// HTTPTransport sends user messages to the assistant service.
//
// Authenticated callers go through POST <base>/api/auth/chat/message/ with a
// bearer credential; anonymous callers go through the guest variant
// POST <base>/api/auth/chat/test/ with no authentication at all.
type HTTPTransport struct {
	BaseURL string
	HTTP    *http.Client
	log     zerolog.Logger
}

func NewHTTPTransport(baseURL string, logger zerolog.Logger) *HTTPTransport {
	return &HTTPTransport{
		BaseURL: NormalizeBaseURL(baseURL),
		HTTP:    &http.Client{Timeout: 120 * time.Second},
		log:     logger.With().Str("component", "transport").Logger(),
	}
}

type sendRequest struct {
	Message  string     `json:"message"`
	ChatType string     `json:"chatType"`
	Context  []ChatTurn `json:"context"`
}

type sendResponse struct {
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
	Error     string    `json:"error"`
}

func (t *HTTPTransport) Send(ctx context.Context, text string, category string, prior []ChatTurn, credential string) (Reply, error) {
	path := "/api/auth/chat/message/"
	if strings.TrimSpace(credential) == "" {
		path = "/api/auth/chat/test/"
	}

	body := sendRequest{
		Message:  text,
		ChatType: NormalizeCategory(category),
		Context:  prior,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return Reply{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return Reply{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(credential) != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	start := time.Now()
	resp, err := t.HTTP.Do(req)
	if err != nil {
		return Reply{}, transportErr("send message", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Reply{}, transportErr("send message", err)
	}

	if resp.StatusCode >= 300 {
		var out sendResponse
		_ = json.Unmarshal(raw, &out)
		if out.Error != "" {
			return Reply{}, transportErr("send message", errors.New(out.Error))
		}
		return Reply{}, transportErr("send message", fmt.Errorf("server returned status %d", resp.StatusCode))
	}

	var out sendResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return Reply{}, transportErr("send message", errors.Wrap(err, "decode response"))
	}
	if out.Response == "" {
		return Reply{}, transportErr("send message", errors.New("invalid response from server"))
	}

	t.log.Debug().
		Dur("elapsed", time.Since(start)).
		Str("category", body.ChatType).
		Bool("authenticated", strings.TrimSpace(credential) != "").
		Msg("assistant reply received")

	return Reply{Text: out.Response, CreatedAt: out.CreatedAt}, nil
}

var _ Transport = (*HTTPTransport)(nil)
