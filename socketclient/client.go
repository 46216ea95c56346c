package socketclient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// ConnectTimeout bounds a single websocket handshake.
	ConnectTimeout = 5 * time.Second
	// MaxAttempts is the number of connection attempts before giving up.
	MaxAttempts = 5
	// reconnectWait is the pause between failed attempts.
	reconnectWait = 1 * time.Second
)

// Event is the JSON envelope exchanged with the remote socket endpoint.
type Event struct {
	Event string `json:"event"` // "status", "client_message"
	Data  string `json:"data"`
}

// Handlers holds the callbacks invoked during the socket session. Any of
// them may be nil.
type Handlers struct {
	OnConnect      func()
	OnStatus       func(data string)
	OnDisconnect   func(err error)
	OnConnectError func(attempt int, err error)
}

// Client is a websocket-only client for the demonstration socket exchange.
type Client struct {
	Connection *websocket.Conn
	Endpoint   string
	handlers   Handlers
	done       chan struct{}
}

// Connect dials the socket endpoint, retrying up to MaxAttempts times with
// a per-attempt handshake timeout. On success it fires OnConnect, emits a
// client_message carrying greeting, and starts the read loop.
func Connect(rawURL, greeting string, handlers Handlers) (*Client, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("socket URL is required")
	}

	endpoint, err := wsURL(rawURL)
	if err != nil {
		return nil, err
	}

	dialer := websocket.Dialer{HandshakeTimeout: ConnectTimeout}

	var conn *websocket.Conn
	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		conn, _, lastErr = dialer.Dial(endpoint, nil)
		if lastErr == nil {
			break
		}
		if handlers.OnConnectError != nil {
			handlers.OnConnectError(attempt, lastErr)
		}
		if attempt < MaxAttempts {
			time.Sleep(reconnectWait)
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("connect failed after %d attempts: %w", MaxAttempts, lastErr)
	}

	client := &Client{
		Connection: conn,
		Endpoint:   endpoint,
		handlers:   handlers,
		done:       make(chan struct{}),
	}

	if handlers.OnConnect != nil {
		handlers.OnConnect()
	}

	if err := client.Emit("client_message", greeting); err != nil {
		conn.Close()
		return nil, err
	}

	go client.listen()

	return client, nil
}

// Emit sends an event envelope to the remote endpoint.
func (c *Client) Emit(event, data string) error {
	return c.Connection.WriteJSON(Event{Event: event, Data: data})
}

// Done is closed when the read loop ends.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// listen dispatches incoming events until the connection drops.
func (c *Client) listen() {
	defer close(c.done)

	for {
		_, msg, err := c.Connection.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				err = nil
			}
			if c.handlers.OnDisconnect != nil {
				c.handlers.OnDisconnect(err)
			}
			return
		}

		var ev Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			continue
		}

		if ev.Event == "status" && c.handlers.OnStatus != nil {
			c.handlers.OnStatus(ev.Data)
		}
	}
}

// Close gracefully closes the socket connection.
func (c *Client) Close() error {
	if err := c.Connection.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Closing connection")); err != nil {
		return c.Connection.Close()
	}
	return c.Connection.Close()
}

// wsURL rewrites http(s) schemes to their websocket equivalents.
func wsURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse socket URL: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported socket URL scheme: %q", u.Scheme)
	}
	return u.String(), nil
}
