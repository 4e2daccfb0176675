package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "test-key")

	client, err := NewClient("gpt-4o", url, 10*time.Second)
	require.NoError(t, err)
	return client
}

func completionResponse(content string) string {
	resp := chatResponse{Choices: []chatChoice{{Message: chatMessage{Role: "assistant", Content: content}}}}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestNewClient_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := NewClient("gpt-4o", "", 0)
	assert.ErrorIs(t, err, ErrAPIKeyMissing)
}

func TestSummarize_Success(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(completionResponse(" Fixed a crash occurring during login ")))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	summary, err := client.Summarize(context.Background(), Request{
		System:      "You are a changelog writer.",
		User:        "Summarize: fix login crash",
		MaxTokens:   100,
		Temperature: 0.7,
	})
	require.NoError(t, err)
	assert.Equal(t, " Fixed a crash occurring during login ", summary)

	assert.Equal(t, "gpt-4o", gotReq.Model)
	assert.Equal(t, 100, gotReq.MaxTokens)
	require.NotNil(t, gotReq.Temperature)
	assert.InDelta(t, 0.7, *gotReq.Temperature, 0.001)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
}

func TestSummarize_OmitsEmptySystemMessage(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(completionResponse("ok")))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Summarize(context.Background(), Request{User: "Summarize this"})
	require.NoError(t, err)

	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	// Default summary cap applies when the caller doesn't set one.
	assert.Equal(t, 100, gotReq.MaxTokens)
}

func TestSummarize_RetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(completionResponse("ok")))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	summary, err := client.Summarize(context.Background(), Request{User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "ok", summary)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSummarize_ServerErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Summarize(context.Background(), Request{User: "hi"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSummarize_AuthErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "invalid key"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Summarize(context.Background(), Request{User: "hi"})
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestSummarize_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := newTestClient(t, server.URL)
	_, err := client.Summarize(context.Background(), Request{User: "hi"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestSummarize_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Summarize(context.Background(), Request{User: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
