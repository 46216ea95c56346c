package server

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/mrsingh-rishi/voice-loop/config"
	"github.com/mrsingh-rishi/voice-loop/logging"
	"github.com/mrsingh-rishi/voice-loop/pipeline"
	"github.com/mrsingh-rishi/voice-loop/store"
)

// successResponse is the JSON envelope returned by POST /api/audio on the
// happy path. Text stays present even when the transcript is empty.
type successResponse struct {
	Success  bool   `json:"success"`
	Text     string `json:"text"`
	AudioURL string `json:"audio_url"`
}

// errorResponse is the JSON envelope for every failure kind.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// socketEvent is the envelope exchanged on the /socket demo endpoint.
type socketEvent struct {
	Event string `json:"event"` // "status", "client_message"
	Data  string `json:"data"`
}

// Server hosts the audio round-trip endpoint, static artifact serving and
// the demo socket endpoint.
type Server struct {
	cfg      *config.Config
	pipeline *pipeline.Pipeline
	store    *store.Store
	app      *fiber.App
}

// New builds the fiber app and registers all routes.
func New(cfg *config.Config, pipe *pipeline.Pipeline, st *store.Store) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if pipe == nil {
		return nil, fmt.Errorf("pipeline is required")
	}
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}

	app := fiber.New(fiber.Config{
		BodyLimit:             cfg.Server.MaxUploadBytes,
		DisableStartupMessage: true,
	})

	s := &Server{
		cfg:      cfg,
		pipeline: pipe,
		store:    st,
		app:      app,
	}

	// All origins, all methods.
	app.Use(cors.New())
	app.Use(recover.New())

	app.Post("/api/audio", s.handleAudio)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// Require WebSocket upgrade on /socket
	app.Use("/socket", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/socket", websocket.New(s.handleSocket))

	// Serves index.html and /audio/<artifact>
	app.Static("/", cfg.Store.PublicDir)

	return s, nil
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts serving on the configured port and blocks.
func (s *Server) Listen() error {
	return s.app.Listen(fmt.Sprintf(":%d", s.cfg.Server.Port))
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// handleAudio runs the upload -> transcribe -> synthesize -> persist
// round-trip and answers with the transcript and the artifact URL.
func (s *Server) handleAudio(c *fiber.Ctx) error {
	fh, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Success: false,
			Error:   "audio file is required",
		})
	}
	if fh.Size == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Success: false,
			Error:   "audio file is empty",
		})
	}

	src, err := fh.Open()
	if err != nil {
		return s.fail(c, fmt.Errorf("open upload: %w", err))
	}

	path, err := s.store.SaveUpload(src, fh.Filename)
	src.Close()
	if err != nil {
		return s.fail(c, fmt.Errorf("save upload: %w", err))
	}

	// The input is ephemeral; unlink it on every exit path, off the
	// request's critical path.
	defer func() {
		go func() {
			_ = s.store.Remove(path)
		}()
	}()

	res, err := s.pipeline.Run(c.UserContext(), path, c.FormValue("voice"))
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(successResponse{
		Success:  true,
		Text:     res.Text,
		AudioURL: fmt.Sprintf("%s/audio/%s", c.BaseURL(), res.Filename),
	})
}

func (s *Server) fail(c *fiber.Ctx, err error) error {
	logging.Sugar.Errorw("❌ Audio round-trip failed", "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
		Success: false,
		Error:   err.Error(),
	})
}

// handleSocket is the server side of the demonstration socket exchange.
// It greets the peer with a status event and echoes client messages back
// as further status events.
func (s *Server) handleSocket(ws *websocket.Conn) {
	defer ws.Close()
	logging.Sugar.Infow("🔌 Socket peer connected", "remote", ws.RemoteAddr().String())

	if err := ws.WriteJSON(socketEvent{Event: "status", Data: "ready"}); err != nil {
		logging.Sugar.Errorw("❌ Socket write error", "error", err)
		return
	}

	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Sugar.Infow("🔌 Socket peer disconnected")
			} else {
				logging.Sugar.Errorw("❌ Socket read error", "error", err)
			}
			return
		}

		var ev socketEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			logging.Sugar.Errorw("❌ Socket event unmarshal error", "error", err)
			continue
		}

		switch ev.Event {
		case "client_message":
			logging.Sugar.Infow("💬 Client message", "data", ev.Data)
			reply := socketEvent{Event: "status", Data: "received: " + ev.Data}
			if err := ws.WriteJSON(reply); err != nil {
				logging.Sugar.Errorw("❌ Socket write error", "error", err)
				return
			}
		default:
			logging.Sugar.Infow("❓ Unknown socket event", "event", ev.Event)
		}
	}
}
