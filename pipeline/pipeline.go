package pipeline

import (
	"context"
	"fmt"

	"github.com/mrsingh-rishi/voice-loop/logging"
	"github.com/mrsingh-rishi/voice-loop/store"
)

// Transcriber converts a recorded audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Synthesizer converts text into MPEG audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// Result is the outcome of a completed round-trip.
type Result struct {
	Text     string
	Filename string
}

// Pipeline sequences transcribe -> synthesize -> persist for one upload.
type Pipeline struct {
	stt   Transcriber
	tts   Synthesizer
	store *store.Store
}

// New wires a pipeline over the two gateways and the artifact store.
func New(stt Transcriber, tts Synthesizer, st *store.Store) (*Pipeline, error) {
	if stt == nil {
		return nil, fmt.Errorf("transcriber is required")
	}
	if tts == nil {
		return nil, fmt.Errorf("synthesizer is required")
	}
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}
	return &Pipeline{stt: stt, tts: tts, store: st}, nil
}

// Run executes the round-trip for the uploaded file at path. The steps are
// strictly sequential; no state is shared between requests. Voice may be
// empty, in which case the synthesizer falls back to its default.
func (p *Pipeline) Run(ctx context.Context, path, voice string) (Result, error) {
	text, err := p.stt.Transcribe(ctx, path)
	if err != nil {
		return Result{}, fmt.Errorf("transcribe: %w", err)
	}

	logging.Sugar.Infow("📝 Transcript", "text", text)

	audio, err := p.tts.Synthesize(ctx, text, voice)
	if err != nil {
		return Result{}, fmt.Errorf("synthesize: %w", err)
	}

	name, err := p.store.SaveArtifact(audio)
	if err != nil {
		return Result{}, fmt.Errorf("persist artifact: %w", err)
	}

	return Result{Text: text, Filename: name}, nil
}
