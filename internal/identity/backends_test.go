// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package identity

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiGenerator(t *testing.T) {
	var gotPath, gotKey, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":" Jane Doe\n"}]},"finishReason":"STOP"}]}`)
	}))
	defer srv.Close()

	gen := &GeminiGenerator{APIKey: "test-key", BaseURL: srv.URL}
	out, err := NewExtractor(gen, nil).ExtractName(context.Background(), "# Jane Doe\n\nEngineer")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", out)
	assert.True(t, strings.HasSuffix(gotPath, "/models/"+DefaultGeminiModel+":generateContent"), "path %q", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Contains(t, gotBody, "Return ONLY the name")
}

func TestGeminiGenerator_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)
	}))
	defer srv.Close()

	gen := &GeminiGenerator{APIKey: "bad", BaseURL: srv.URL}
	_, err := gen.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calling Gemini API")
}

func TestGeminiGenerator_MissingKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	gen := &GeminiGenerator{}
	_, err := gen.Generate(context.Background(), "prompt")
	require.Error(t, err)

	// The failure is remembered; later calls fail the same way.
	_, err2 := gen.Generate(context.Background(), "prompt")
	assert.Equal(t, err.Error(), err2.Error())
}

func TestClaudeGenerator(t *testing.T) {
	var gotPath, gotKey string
	var gotReq struct {
		Model    string `json:"model"`
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-haiku-latest",
			"content": [{"type": "text", "text": "Jane Doe\n"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 12, "output_tokens": 3}
		}`)
	}))
	defer srv.Close()

	gen := NewClaudeGenerator("test-key", "", srv.URL)
	out, err := NewExtractor(gen, nil).ExtractName(context.Background(), "# Jane Doe")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", out)
	assert.Equal(t, "/v1/messages", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, DefaultClaudeModel, gotReq.Model)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
}

func TestClaudeGenerator_ServiceError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"api_error","message":"overloaded"}}`)
	}))
	defer srv.Close()

	_, err := NewClaudeGenerator("k", "", srv.URL).Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calling Claude API")
	assert.Equal(t, 1, calls, "no retries")
}
