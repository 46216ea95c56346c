package main

import (
	"log"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"

	"github.com/mrsingh-rishi/voice-loop/config"
	"github.com/mrsingh-rishi/voice-loop/logging"
	"github.com/mrsingh-rishi/voice-loop/pipeline"
	"github.com/mrsingh-rishi/voice-loop/server"
	"github.com/mrsingh-rishi/voice-loop/store"
	"github.com/mrsingh-rishi/voice-loop/stt"
	"github.com/mrsingh-rishi/voice-loop/tts"
)

func main() {
	// Load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, falling back to environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if cfg.OpenAI.APIKey == "" {
		log.Fatal("OPENAI_API_KEY must be set")
	}

	if err := logging.Initialize(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		log.Fatalf("failed to initialize logging: %v", err)
	}
	defer logging.Sync()

	// One OpenAI handle, shared by both gateways.
	openaiCfg := openai.DefaultConfig(cfg.OpenAI.APIKey)
	if cfg.OpenAI.BaseURL != "" {
		openaiCfg.BaseURL = cfg.OpenAI.BaseURL
	}
	client := openai.NewClientWithConfig(openaiCfg)

	sttClient, err := stt.NewClient(client, cfg.STT.Model, cfg.STT.Timeout)
	if err != nil {
		log.Fatalf("failed to create transcription client: %v", err)
	}

	ttsClient, err := tts.NewClient(client, cfg.TTS.Model, cfg.TTS.Voice, cfg.TTS.Timeout)
	if err != nil {
		log.Fatalf("failed to create synthesis client: %v", err)
	}

	st, err := store.New(cfg.Store.UploadDir, cfg.Store.PublicDir)
	if err != nil {
		log.Fatalf("failed to create store: %v", err)
	}

	pipe, err := pipeline.New(sttClient, ttsClient, st)
	if err != nil {
		log.Fatalf("failed to create pipeline: %v", err)
	}

	srv, err := server.New(cfg, pipe, st)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	logging.Sugar.Infow("🚀 Voice loop listening", "port", cfg.Server.Port)
	if err := srv.Listen(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
