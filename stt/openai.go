package stt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Client transcribes recorded audio files via the OpenAI audio API.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewClient initializes a transcription client on top of a shared OpenAI handle.
func NewClient(client *openai.Client, model string, timeout time.Duration) (*Client, error) {
	if client == nil {
		return nil, fmt.Errorf("openai client is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	return &Client{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

// Transcribe sends the audio file at path to the transcription endpoint and
// returns the transcript text. The open file handle is handed to the API
// client so the bytes are streamed into the multipart body rather than
// buffered in memory first.
func (c *Client) Transcribe(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: filepath.Base(path),
		Reader:   f,
	})
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}

	return resp.Text, nil
}
