package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultTelegramAPI is the Bot API base URL.
const DefaultTelegramAPI = "https://api.telegram.org"

// ErrMissingCredentials is returned by NewTelegramSink without a token or chat id.
var ErrMissingCredentials = errors.New("notify: telegram token and chat id are required")

// TelegramSink posts notices to a chat through the Telegram Bot API.
type TelegramSink struct {
	client  *http.Client
	baseURL string
	token   string
	chatID  string
}

// NewTelegramSink creates a sink for the given bot token and chat.
// A nil client uses a direct client with DefaultSendTimeout.
func NewTelegramSink(client *http.Client, token, chatID string) (*TelegramSink, error) {
	if token == "" || chatID == "" {
		return nil, ErrMissingCredentials
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultSendTimeout}
	}
	return &TelegramSink{
		client:  client,
		baseURL: DefaultTelegramAPI,
		token:   token,
		chatID:  chatID,
	}, nil
}

// WithBaseURL points the sink at another API host (used by tests).
func (s *TelegramSink) WithBaseURL(u string) *TelegramSink {
	s.baseURL = strings.TrimRight(u, "/")
	return s
}

// Send posts text to the configured chat.
func (s *TelegramSink) Send(ctx context.Context, _ Level, text string) error {
	form := url.Values{"chat_id": {s.chatID}, "text": {text}}
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		// the request URL carries the token; keep it out of logs
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return fmt.Errorf("telegram: %s: %w", uerr.Op, uerr.Err)
		}
		return fmt.Errorf("telegram: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram: unexpected status %s", resp.Status)
	}
	return nil
}
