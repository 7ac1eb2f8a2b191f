package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func jsonResponse(status int, v any) *http.Response {
	b, _ := json.Marshal(v)
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(b)),
	}
}

func completion(content string) map[string]any {
	return map[string]any{
		"choices": []any{map[string]any{"message": map[string]any{"content": content}}},
	}
}

func TestCompleteSendsChatRequest(t *testing.T) {
	var got chatCompletionRequest
	client := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/v1/chat/completions", req.URL.Path)
		assert.Equal(t, "Bearer sk-test", req.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(req.Body).Decode(&got))
		return jsonResponse(http.StatusOK, completion("```json\n{\"ok\":true}\n```")), nil
	})}

	c := NewWithHTTPClient(Config{BaseURL: "http://upstream/v1", APIKey: "sk-test", Timeout: time.Second}, client)
	out, err := c.Complete(context.Background(), Request{
		Model:    "gpt-test",
		Messages: []Message{{Role: "user", Content: "hi"}},
		JSON:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)

	assert.Equal(t, "gpt-test", got.Model)
	assert.Equal(t, map[string]any{"type": "json_object"}, got.ResponseFormat)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hi", got.Messages[0].Content)
}

func TestCompleteErrors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		_, err := New(Config{}).Complete(context.Background(), Request{Messages: []Message{{Role: "user", Content: "x"}}})
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("upstream status", func(t *testing.T) {
		client := &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusTooManyRequests, map[string]any{"error": "slow down"}), nil
		})}
		c := NewWithHTTPClient(Config{BaseURL: "http://upstream", APIKey: "k"}, client)
		_, err := c.Complete(context.Background(), Request{Model: "m", Messages: []Message{{Role: "user", Content: "x"}}})
		var httpErr *HTTPError
		require.True(t, errors.As(err, &httpErr))
		assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
		assert.Contains(t, httpErr.Body, "slow down")
	})

	t.Run("empty completion", func(t *testing.T) {
		client := &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, map[string]any{"choices": []any{}}), nil
		})}
		c := NewWithHTTPClient(Config{BaseURL: "http://upstream", APIKey: "k"}, client)
		_, err := c.Complete(context.Background(), Request{Model: "m", Messages: []Message{{Role: "user", Content: "x"}}})
		assert.ErrorIs(t, err, ErrEmptyCompletion)
	})
}

func TestSanitizeJSONText(t *testing.T) {
	assert.Equal(t, `{"a":1}`, SanitizeJSONText("  {\"a\":1}  "))
	assert.Equal(t, `{"a":1}`, SanitizeJSONText("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, SanitizeJSONText("```\n{\"a\":1}```"))
}
