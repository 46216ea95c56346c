package main

import (
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/mrsingh-rishi/voice-loop/config"
	"github.com/mrsingh-rishi/voice-loop/socketclient"
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
	if cfg.Socket.URL == "" {
		log.Fatal("SOCKET_URL must be set")
	}

	client, err := socketclient.Connect(cfg.Socket.URL, "hello from socketdemo", socketclient.Handlers{
		OnConnect: func() {
			log.Println("connected to", cfg.Socket.URL)
		},
		OnStatus: func(data string) {
			log.Println("status:", data)
		},
		OnDisconnect: func(err error) {
			if err != nil {
				log.Println("disconnected with error:", err)
				return
			}
			log.Println("disconnected")
		},
		OnConnectError: func(attempt int, err error) {
			log.Printf("connect attempt %d failed: %v", attempt, err)
		},
	})
	if err != nil {
		log.Fatalf("socket connect failed: %v", err)
	}
	defer client.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	select {
	case <-client.Done():
	case <-interrupt:
		log.Println("interrupted, closing")
	}
}
