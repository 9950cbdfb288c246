package widget

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// command is the envelope written to the widget endpoint.
type command struct {
	Action string  `json:"action"`
	Config *Config `json:"config,omitempty"`
}

// Client drives a remote conferencing widget over a websocket event stream.
type Client struct {
	url         string
	dialTimeout time.Duration
	logger      *slog.Logger
}

// NewClient returns a client for the widget endpoint at url.
func NewClient(url string, dialTimeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{url: url, dialTimeout: dialTimeout, logger: logger}
}

// Start dials the widget endpoint, sends the join command and begins
// streaming events.
func (c *Client) Start(ctx context.Context, cfg Config) (Handle, error) {
	dialer := websocket.Dialer{HandshakeTimeout: c.dialTimeout}
	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial widget endpoint: %w", err)
	}

	if err := conn.WriteJSON(command{Action: "join", Config: &cfg}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send join command: %w", err)
	}

	h := &wsHandle{
		conn:   conn,
		events: make(chan Event, 16),
		logger: c.logger.With("room", cfg.RoomName),
	}
	go h.readLoop()
	return h, nil
}

type wsHandle struct {
	conn   *websocket.Conn
	events chan Event
	logger *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

func (h *wsHandle) readLoop() {
	defer close(h.events)
	for {
		var ev Event
		if err := h.conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("widget stream closed unexpectedly", "error", err)
			}
			return
		}
		if ev.Type == "" {
			h.logger.Debug("ignoring untyped widget event")
			continue
		}
		h.events <- ev
	}
}

// Events implements Handle.
func (h *wsHandle) Events() <-chan Event {
	return h.events
}

// Dispose implements Handle. It sends a leave command before closing so the
// widget can release the room cleanly.
func (h *wsHandle) Dispose() error {
	h.closeOnce.Do(func() {
		if err := h.conn.WriteJSON(command{Action: "leave"}); err != nil {
			h.closeErr = fmt.Errorf("send leave command: %w", err)
		}
		deadline := time.Now().Add(time.Second)
		message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		if err := h.conn.WriteControl(websocket.CloseMessage, message, deadline); err != nil && h.closeErr == nil {
			h.closeErr = fmt.Errorf("send close message: %w", err)
		}
		if err := h.conn.Close(); err != nil && h.closeErr == nil {
			h.closeErr = err
		}
	})
	return h.closeErr
}
