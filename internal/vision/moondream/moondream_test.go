package moondream

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

func TestMoondreamQuery(t *testing.T) {
	var got queryRequest
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("X-Moondream-Auth")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"answer": `{"severity":"high"}`}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	analyzer := NewMoondreamAnalyzer(server.URL, "md-test")

	answer, err := analyzer.Query(context.Background(), bytes.NewReader([]byte{0x89, 0x50}), "image/png", "check this")
	require.NoError(t, err)
	assert.Equal(t, `{"severity":"high"}`, answer)
	assert.Equal(t, "md-test", gotAuth)
	assert.Equal(t, "/v1/query", gotPath)
	assert.Equal(t, "check this", got.Question)
	assert.Equal(t, "data:image/png;base64,iVA=", got.ImageURL)
}

func TestMoondreamQueryUnauthenticated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Moondream-Auth") == "" {
			http.Error(w, `{"error":"missing api key"}`, http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"answer":"ok"}`))
	}))
	defer server.Close()

	analyzer := NewMoondreamAnalyzer(server.URL, "")

	_, err := analyzer.Query(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/jpeg", "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestMoondreamQueryEmptyAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"answer":""}`))
	}))
	defer server.Close()

	analyzer := NewMoondreamAnalyzer(server.URL, "md-test")

	_, err := analyzer.Query(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/jpeg", "p")
	assert.ErrorIs(t, err, vision.ErrEmptyAnswer)
}

func TestMoondreamQueryNetworkError(t *testing.T) {
	analyzer := NewMoondreamAnalyzer("http://localhost:99999", "md-test")

	_, err := analyzer.Query(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/jpeg", "p")
	assert.Error(t, err)
}

func TestMoondreamQueryReadError(t *testing.T) {
	analyzer := NewMoondreamAnalyzer("http://localhost:2020", "md-test")

	_, err := analyzer.Query(context.Background(), &errReader{}, "image/jpeg", "p")
	assert.Error(t, err)
}

type errReader struct{}

func (e *errReader) Read(_ []byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}
