package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/snapback/internal/vision"
)

func messageResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"id":    "msg_test",
		"type":  "message",
		"role":  "assistant",
		"model": "claude-opus-4-6",
		"content": []map[string]interface{}{
			{"type": "text", "text": text},
		},
		"stop_reason": "end_turn",
		"usage":       map[string]int{"input_tokens": 10, "output_tokens": 5},
	}
}

func TestClaudeQuery(t *testing.T) {
	var gotKey string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(messageResponse(`{"severity":"low"}`)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	analyzer := NewClaudeAnalyzer("sk-test", "claude-opus-4-6", server.URL)

	answer, err := analyzer.Query(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/jpeg", "inspect")
	require.NoError(t, err)
	assert.Equal(t, `{"severity":"low"}`, answer)
	assert.Equal(t, "sk-test", gotKey)
	assert.Equal(t, "claude-opus-4-6", gotBody["model"])
}

func TestClaudeQueryEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(messageResponse(""))
	}))
	defer server.Close()

	analyzer := NewClaudeAnalyzer("sk-test", "claude-opus-4-6", server.URL)

	_, err := analyzer.Query(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/jpeg", "inspect")
	assert.ErrorIs(t, err, vision.ErrEmptyAnswer)
}

func TestClaudeQueryAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	analyzer := NewClaudeAnalyzer("sk-test", "claude-opus-4-6", server.URL)

	_, err := analyzer.Query(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/jpeg", "inspect")
	assert.Error(t, err)
}

func TestClaudeQueryReadError(t *testing.T) {
	analyzer := NewClaudeAnalyzer("sk-test", "claude-opus-4-6", "")

	_, err := analyzer.Query(context.Background(), &errReader{}, "image/jpeg", "inspect")
	assert.Error(t, err)
}

// errReader always returns an error on Read.
type errReader struct{}

func (e *errReader) Read(_ []byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}
