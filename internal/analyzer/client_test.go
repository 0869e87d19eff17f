package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientDescribe(t *testing.T) {
	var got payload
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"items\":[],\"total\":0}"}}]}`))
	}))
	defer server.Close()

	c := NewClient("sk-test", WithEndpoint(server.URL))
	reply, err := c.Describe(context.Background(), "prompt", Image{Data: []byte{0xff, 0xd8, 0xff}, ContentType: "image/png"})
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if reply != `{"items":[],"total":0}` {
		t.Errorf("reply = %q", reply)
	}

	if auth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", auth)
	}
	if got.Model != "gpt-4o" || got.MaxTokens != 1000 {
		t.Errorf("model = %q, max_tokens = %d", got.Model, got.MaxTokens)
	}
	if len(got.Messages) != 1 || len(got.Messages[0].Content) != 2 {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
	img := got.Messages[0].Content[1]
	if img.Type != "image_url" || !strings.HasPrefix(img.ImageURL.URL, "data:image/png;base64,") {
		t.Errorf("image block = %+v", img)
	}
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		{
			name:    "api error message",
			status:  http.StatusUnauthorized,
			body:    `{"error":{"message":"Incorrect API key provided"}}`,
			wantErr: ErrUpstream,
			wantMsg: "OpenAI API error: Incorrect API key provided",
		},
		{
			name:    "api error without body",
			status:  http.StatusBadGateway,
			body:    `bad gateway`,
			wantErr: ErrUpstream,
			wantMsg: "Unknown error",
		},
		{
			name:    "no choices",
			status:  http.StatusOK,
			body:    `{"choices":[]}`,
			wantErr: ErrUpstream,
			wantMsg: "No content received",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewClient("sk-test", WithEndpoint(server.URL))
			_, err := c.Describe(context.Background(), "prompt", Image{Data: []byte("x")})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestClientMissingKey(t *testing.T) {
	c := NewClient("")
	if c.Configured() {
		t.Error("client without key should not be configured")
	}
	if _, err := c.Describe(context.Background(), "prompt", Image{Data: []byte("x")}); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestMediaType(t *testing.T) {
	tests := []struct {
		image Image
		want  string
	}{
		{Image{ContentType: "image/png"}, "image/png"},
		{Image{ContentType: "image/webp; charset=binary"}, "image/webp"},
		{Image{ContentType: "application/octet-stream"}, "image/jpeg"},
		{Image{Data: []byte("\x89PNG\r\n\x1a\n0000")}, "image/png"},
		{Image{Data: []byte("plain text")}, "image/jpeg"},
	}
	for _, tt := range tests {
		if got := tt.image.mediaType(); got != tt.want {
			t.Errorf("mediaType(%q) = %q, want %q", tt.image.ContentType, got, tt.want)
		}
	}
}
