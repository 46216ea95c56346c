package tts

import (
	"context"
	"fmt"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Client generates spoken audio from text via the OpenAI speech API.
type Client struct {
	client       *openai.Client
	model        string
	defaultVoice string
	timeout      time.Duration
}

// NewClient initializes a synthesis client on top of a shared OpenAI handle.
func NewClient(client *openai.Client, model, defaultVoice string, timeout time.Duration) (*Client, error) {
	if client == nil {
		return nil, fmt.Errorf("openai client is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if defaultVoice == "" {
		return nil, fmt.Errorf("default voice is required")
	}
	return &Client{
		client:       client,
		model:        model,
		defaultVoice: defaultVoice,
		timeout:      timeout,
	}, nil
}

// Synthesize generates an MPEG audio clip speaking text with the given
// voice. An empty voice selects the configured default.
func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if voice == "" {
		voice = c.defaultVoice
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(c.model),
		Input:          text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("speech request: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read speech response: %w", err)
	}

	return audio, nil
}
