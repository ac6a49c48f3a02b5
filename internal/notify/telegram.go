package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const telegramBaseURL = "https://api.telegram.org"

// Telegram sends messages through the Telegram Bot API.
type Telegram struct {
	token      string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewTelegram creates a Telegram notifier with the shared bot token.
func NewTelegram(token string) *Telegram {
	return &Telegram{
		token:   token,
		baseURL: telegramBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		// Telegram allows far more, but one message per second is
		// plenty for presence notifications.
		limiter: rate.NewLimiter(rate.Limit(1), 1),
	}
}

// Kind returns the transport identifier.
func (t *Telegram) Kind() Kind {
	return KindTelegram
}

// Send delivers text to the given chat ID via sendMessage.
func (t *Telegram) Send(ctx context.Context, chatID, text string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	q := url.Values{}
	q.Set("chat_id", chatID)
	q.Set("parse_mode", "Markdown")
	q.Set("text", text)
	u := fmt.Sprintf("%s/bot%s/sendMessage?%s", t.baseURL, t.token, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	return nil
}
