package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the voice-loop service.
type Config struct {
	Server  ServerConfig
	OpenAI  OpenAIConfig
	STT     STTConfig
	TTS     TTSConfig
	Store   StoreConfig
	Logging LoggingConfig
	Socket  SocketConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           int
	MaxUploadBytes int
}

// OpenAIConfig holds the credential shared by both gateways.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // optional override, used by proxies and tests
}

// STTConfig holds speech-to-text configuration.
type STTConfig struct {
	Model   string
	Timeout time.Duration
}

// TTSConfig holds text-to-speech configuration.
type TTSConfig struct {
	Model   string
	Voice   string
	Timeout time.Duration
}

// StoreConfig holds the upload and artifact directories.
type StoreConfig struct {
	UploadDir string
	PublicDir string
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string
	Format string
}

// SocketConfig holds the demonstration socket client configuration.
type SocketConfig struct {
	URL string
}

// Load loads configuration from environment variables with defaults.
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:           getEnvInt("PORT", 3000),
			MaxUploadBytes: getEnvInt("MAX_UPLOAD_BYTES", 25*1024*1024),
		},
		OpenAI: OpenAIConfig{
			APIKey:  getEnvString("OPENAI_API_KEY", ""),
			BaseURL: getEnvString("OPENAI_BASE_URL", ""),
		},
		STT: STTConfig{
			Model:   getEnvString("STT_MODEL", "gpt-4o-mini-transcribe"),
			Timeout: getEnvDuration("STT_TIMEOUT", 60*time.Second),
		},
		TTS: TTSConfig{
			Model:   getEnvString("TTS_MODEL", "gpt-4o-mini-tts"),
			Voice:   getEnvString("TTS_VOICE", "alloy"),
			Timeout: getEnvDuration("TTS_TIMEOUT", 60*time.Second),
		},
		Store: StoreConfig{
			UploadDir: getEnvString("UPLOAD_DIR", "uploads"),
			PublicDir: getEnvString("PUBLIC_DIR", "public"),
		},
		Logging: LoggingConfig{
			Level:  getEnvString("LOG_LEVEL", "info"),
			Format: getEnvString("LOG_FORMAT", "console"),
		},
		Socket: SocketConfig{
			URL: getEnvString("SOCKET_URL", ""),
		},
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// validate checks if the configuration is valid.
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive: %d", c.Server.MaxUploadBytes)
	}

	if c.STT.Model == "" {
		return fmt.Errorf("STT model must be provided")
	}

	if c.TTS.Model == "" {
		return fmt.Errorf("TTS model must be provided")
	}

	if c.TTS.Voice == "" {
		return fmt.Errorf("TTS voice must be provided")
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
