package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestTelegram(baseURL string) *Telegram {
	return &Telegram{
		token:      "test-token",
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
}

func TestTelegramSend(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tg := newTestTelegram(srv.URL)
	err := tg.Send(context.Background(), "-100200300", "Ark player Alice is now online.")
	require.NoError(t, err)

	require.Equal(t, "/bottest-token/sendMessage", gotPath)
	require.Equal(t, []string{"-100200300"}, gotQuery["chat_id"])
	require.Equal(t, []string{"Markdown"}, gotQuery["parse_mode"])
	require.Equal(t, []string{"Ark player Alice is now online."}, gotQuery["text"])
}

func TestTelegramSendAPIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"ok":false,"description":"bot was blocked"}`))
	}))
	defer srv.Close()

	tg := newTestTelegram(srv.URL)
	err := tg.Send(context.Background(), "-1", "hello")
	require.ErrorContains(t, err, "status 403")
	require.ErrorContains(t, err, "bot was blocked")
}
