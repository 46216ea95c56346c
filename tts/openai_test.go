package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(nil, "gpt-4o-mini-tts", "alloy", time.Second)
	assert.Error(t, err)

	_, err = NewClient(openai.NewClient("k"), "", "alloy", time.Second)
	assert.Error(t, err)

	_, err = NewClient(openai.NewClient("k"), "gpt-4o-mini-tts", "", time.Second)
	assert.Error(t, err)
}

func TestSynthesize_ReturnsAudioBytes(t *testing.T) {
	var got speechRequest
	audio := []byte{0xFF, 0xFB, 0x90, 0x00, 0x11}

	api := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/audio/speech", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(audio)
	})

	client, err := NewClient(api, "gpt-4o-mini-tts", "alloy", 10*time.Second)
	require.NoError(t, err)

	data, err := client.Synthesize(context.Background(), "hello there", "shimmer")
	require.NoError(t, err)

	assert.Equal(t, audio, data)
	assert.Equal(t, "gpt-4o-mini-tts", got.Model)
	assert.Equal(t, "hello there", got.Input)
	assert.Equal(t, "shimmer", got.Voice)
	assert.Equal(t, "mp3", got.ResponseFormat)
}

func TestSynthesize_EmptyVoiceUsesDefault(t *testing.T) {
	var got speechRequest

	api := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte{0x01})
	})

	client, err := NewClient(api, "gpt-4o-mini-tts", "alloy", 10*time.Second)
	require.NoError(t, err)

	_, err = client.Synthesize(context.Background(), "hi", "")
	require.NoError(t, err)
	assert.Equal(t, "alloy", got.Voice)
}

func TestSynthesize_APIError(t *testing.T) {
	api := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"synthesis failed","type":"server_error"}}`))
	})

	client, err := NewClient(api, "gpt-4o-mini-tts", "alloy", 10*time.Second)
	require.NoError(t, err)

	_, err = client.Synthesize(context.Background(), "hi", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "speech request")
}
