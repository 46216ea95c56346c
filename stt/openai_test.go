package stt

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeOpenAI(t *testing.T, handler http.HandlerFunc) *openai.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL
	return openai.NewClientWithConfig(cfg)
}

func writeClip(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(nil, "gpt-4o-mini-transcribe", time.Second)
	assert.Error(t, err)

	_, err = NewClient(openai.NewClient("k"), "", time.Second)
	assert.Error(t, err)
}

func TestTranscribe_ReturnsText(t *testing.T) {
	var gotModel, gotFilename string
	var gotBytes []byte

	api := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotModel = r.FormValue("model")

		f, fh, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		gotFilename = fh.Filename
		gotBytes, err = io.ReadAll(f)
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"hello world"}`))
	})

	client, err := NewClient(api, "gpt-4o-mini-transcribe", 10*time.Second)
	require.NoError(t, err)

	text, err := client.Transcribe(context.Background(), writeClip(t, "RIFF fake wav"))
	require.NoError(t, err)

	assert.Equal(t, "hello world", text)
	assert.Equal(t, "gpt-4o-mini-transcribe", gotModel)
	assert.Equal(t, "clip.wav", gotFilename)
	assert.Equal(t, "RIFF fake wav", string(gotBytes))
}

func TestTranscribe_APIError(t *testing.T) {
	api := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream unavailable","type":"server_error"}}`))
	})

	client, err := NewClient(api, "gpt-4o-mini-transcribe", 10*time.Second)
	require.NoError(t, err)

	_, err = client.Transcribe(context.Background(), writeClip(t, "x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transcription request")
}

func TestTranscribe_MissingFile(t *testing.T) {
	api := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a missing file")
	})

	client, err := NewClient(api, "gpt-4o-mini-transcribe", 10*time.Second)
	require.NoError(t, err)

	_, err = client.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.wav"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open audio file")
}
