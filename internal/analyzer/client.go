package analyzer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultEndpoint is the OpenAI chat completions resource.
const DefaultEndpoint = "https://api.openai.com/v1/chat/completions"

// ── Wire types ───────────────────────────────────────────────────

type message struct {
	Role    string    `json:"role"`
	Content []content `json:"content"`
}

// content is a polymorphic content block (text or image_url).
type content struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

// payload is the request body sent to the chat-completions endpoint.
type payload struct {
	Model     string    `json:"model"`
	Messages  []message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
}

// apiResponse is the top-level response envelope.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ── Client ───────────────────────────────────────────────────────

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithEndpoint overrides the chat completions URL.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithModel overrides the default model name.
func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

// WithMaxTokens sets the response token limit.
func WithMaxTokens(n int) ClientOption {
	return func(c *Client) { c.maxTokens = n }
}

// WithHTTPTimeout sets the HTTP client timeout.
func WithHTTPTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// Client asks an OpenAI-compatible vision model about one image.
type Client struct {
	endpoint  string
	apiKey    string
	model     string
	maxTokens int
	http      *http.Client
}

// NewClient creates a vision chat client. An empty apiKey is accepted; every
// call then fails with ErrMissingAPIKey.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:  DefaultEndpoint,
		apiKey:    apiKey,
		model:     "gpt-4o",
		maxTokens: 1000,
		http:      &http.Client{Timeout: 60 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Describe sends the prompt and the image in a single user message and
// returns the model's reply text.
func (c *Client) Describe(ctx context.Context, prompt string, image Image) (string, error) {
	if !c.Configured() {
		return "", ErrMissingAPIKey
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", image.mediaType(), base64.StdEncoding.EncodeToString(image.Data))
	body := payload{
		Model: c.model,
		Messages: []message{{
			Role: "user",
			Content: []content{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
			},
		}},
		MaxTokens: c.maxTokens,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	slog.Debug("Requesting receipt analysis",
		"endpoint", c.endpoint,
		"model", c.model,
		"payload_bytes", len(jsonData),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: request failed: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}

	var result apiResponse
	decodeErr := json.Unmarshal(respBody, &result)

	if resp.StatusCode != http.StatusOK {
		msg := "Unknown error"
		if decodeErr == nil && result.Error != nil && result.Error.Message != "" {
			msg = result.Error.Message
		}
		slog.Error("Vision API error", "status", resp.StatusCode, "body", truncate(string(respBody), 500))
		return "", fmt.Errorf("%w: OpenAI API error: %s", ErrUpstream, msg)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("%w: unmarshal response: %v", ErrUpstream, decodeErr)
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: No content received from OpenAI", ErrUpstream)
	}

	reply := result.Choices[0].Message.Content
	slog.Debug("Vision API reply", "chars", len(reply), "reply", truncate(reply, 120))
	return reply, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
