package suggest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "test-model", time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_Suggest(t *testing.T) {
	var gotPath, gotKey, gotPrompt string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		body, _ := io.ReadAll(r.Body)
		gotPrompt = gjson.GetBytes(body, "contents.0.parts.0.text").String()

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"Salsa\n\n  Soda \nCups"}]}}]}`)
	})

	got, err := c.Suggest(context.Background(), "sk-test", "what else?")
	require.NoError(t, err)
	assert.Equal(t, []string{"Salsa", "Soda", "Cups"}, got)
	assert.Equal(t, "/models/test-model:generateContent", gotPath)
	assert.Equal(t, "sk-test", gotKey)
	assert.Equal(t, "what else?", gotPrompt)
}

func TestClient_Suggest_ProviderError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"error":{"code":403,"message":"API key not valid"}}`)
	})

	_, err := c.Suggest(context.Background(), "bad", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestClient_Suggest_MalformedResponses(t *testing.T) {
	for name, body := range map[string]string{
		"not json":     `<html>oops</html>`,
		"no candidate": `{"candidates":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, body)
			})
			_, err := c.Suggest(context.Background(), "k", "p")
			assert.ErrorContains(t, err, "parse response")
		})
	}
}

func TestClient_Suggest_HonorsContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Suggest(ctx, "k", "p")
	assert.ErrorIs(t, err, context.Canceled)
}
