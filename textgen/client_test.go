package textgen

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"edition-builder/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func clientFor(serverURL string, timeout time.Duration) *Client {
	return NewClient(config.TextGenConfig{
		Host:        serverURL,
		APIPath:     "/api/generate",
		Model:       "test-model",
		Timeout:     timeout,
		SessionHint: "edition-session",
		Temperature: 0.2,
		TopP:        0.9,
		NumPredict:  512,
		NumCtx:      8192,
	}, testLogger())
}

func TestClient_Generate(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":    "test-model",
			"response": "  generated text  ",
			"done":     true,
		})
	}))
	defer server.Close()

	text, err := clientFor(server.URL, 5*time.Second).Generate(context.Background(), "a prompt")
	require.NoError(t, err)

	assert.Equal(t, "generated text", text)
	assert.Equal(t, "test-model", captured["model"])
	assert.Equal(t, "a prompt", captured["prompt"])
	assert.Equal(t, "edition-session", captured["session"])
	assert.Equal(t, false, captured["stream"])

	options, ok := captured["options"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 0.2, options["temperature"], 1e-9)
	assert.InDelta(t, 512, options["num_predict"], 1e-9)
}

func TestClient_Generate_PlainTextBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	text, err := clientFor(server.URL, 5*time.Second).Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "not json at all", text)
}

func TestClient_Generate_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := clientFor(server.URL, 5*time.Second).Generate(context.Background(), "p")
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.HTTPStatus())
}

func TestClient_Generate_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	start := time.Now()
	_, err := clientFor(server.URL, 30*time.Millisecond).Generate(context.Background(), "p")

	require.Error(t, err)
	assert.Less(t, time.Since(start), 250*time.Millisecond, "timeout must bound the wait")
}
