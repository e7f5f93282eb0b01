// ABOUTME: HTTP driver for the external text-generation service
// ABOUTME: Sends generate requests with explicit timeouts and parses responses defensively
package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"edition-builder/config"
)

type payloadModel struct {
	Model     string       `json:"model"`
	Prompt    string       `json:"prompt"`
	Session   string       `json:"session,omitempty"`
	Options   optionsModel `json:"options"`
	KeepAlive int          `json:"keep_alive"`
	Stream    bool         `json:"stream"`
}

type optionsModel struct {
	Temperature float64  `json:"temperature"`
	TopP        float64  `json:"top_p"`
	NumPredict  int      `json:"num_predict"`
	NumCtx      int      `json:"num_ctx"`
	Stop        []string `json:"stop,omitempty"`
}

type generateResponse struct {
	Model      string `json:"model"`
	Response   string `json:"response"`
	DoneReason string `json:"done_reason"`
	Done       bool   `json:"done"`
}

// HTTPError carries a non-200 status from the generation service.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("text generation HTTP %d: %s", e.StatusCode, e.Message)
}

// HTTPStatus exposes the status for retry classification.
func (e *HTTPError) HTTPStatus() int { return e.StatusCode }

// Client talks to the generation endpoint. The service gives best-effort
// free text; callers must never assume the output follows the requested
// structure.
type Client struct {
	cfg        config.TextGenConfig
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg config.TextGenConfig, logger *slog.Logger) *Client {
	return &Client{
		cfg: cfg,
		// Per-request deadlines come from the config timeout via context.
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Generate submits one prompt and returns the raw response text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	payload := payloadModel{
		Model:     c.cfg.Model,
		Prompt:    prompt,
		Session:   c.cfg.SessionHint,
		Stream:    false,
		KeepAlive: -1,
		Options: optionsModel{
			Temperature: c.cfg.Temperature,
			TopP:        c.cfg.TopP,
			NumPredict:  c.cfg.NumPredict,
			NumCtx:      c.cfg.NumCtx,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal generate payload: %w", err)
	}

	apiURL := c.cfg.Host + c.cfg.APIPath

	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("text generation request",
		"api_url", apiURL,
		"model", c.cfg.Model,
		"prompt_chars", len(prompt),
		"timeout", c.cfg.Timeout)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read generate response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &HTTPError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}

	return extractText(raw), nil
}

// extractText pulls the text out of a response body. The service usually
// answers with a JSON envelope, but a plain-text body is accepted as-is.
func extractText(raw []byte) string {
	var envelope generateResponse
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Response != "" {
		return strings.TrimSpace(envelope.Response)
	}

	return strings.TrimSpace(string(raw))
}
