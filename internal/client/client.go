// Websocket session against an ACT-compatible telemetry feed
package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"

	"dpswatch/internal/combat"
)

// DefaultURL is the stock IINACT overlay endpoint.
const DefaultURL = "ws://127.0.0.1:10501/ws"

// DefaultReadTimeout bounds each receive wait; hitting it is an idle
// indicator, not an error.
const DefaultReadTimeout = 60 * time.Second

// EventHandler consumes decoded events in arrival order. Returning done
// stops the receive loop; a returned error aborts it.
type EventHandler interface {
	HandleEvent(ev *combat.Event, raw []byte) (done bool, err error)
}

// request is an outbound call frame.
type request struct {
	Call   string   `json:"call"`
	Events []string `json:"events,omitempty"`
}

// Client holds one websocket session. It subscribes to CombatData and
// LogLine events and feeds every inbound frame to a handler, one at a time.
type Client struct {
	url         string
	readTimeout time.Duration
	logger      *slog.Logger
}

// New creates a Client. A zero readTimeout falls back to DefaultReadTimeout.
func New(url string, readTimeout time.Duration, logger *slog.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{url: url, readTimeout: readTimeout, logger: logger}
}

type frame struct {
	data []byte
	err  error
}

// Run connects, performs the getLanguage handshake, subscribes, and then
// loops until ctx is canceled, the handler reports done, or the connection
// drops. Connection failure is returned as-is; there is no retry. The
// session is closed on every exit path.
func (c *Client) Run(ctx context.Context, handler EventHandler) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("connect %s: %w", c.url, err)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		// Unblocks any pending read when the loop is asked to stop.
		<-ctx.Done()
		conn.Close()
	}()
	c.logger.Info("connected", "url", c.url)

	if err := conn.WriteJSON(request{Call: "getLanguage"}); err != nil {
		return fmt.Errorf("getLanguage call: %w", err)
	}
	_, reply, err := conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("getLanguage reply: %w", err)
	}
	// The reply is diagnostic only; it is never parsed.
	c.logger.Info("getLanguage reply", "reply", string(reply))

	if err := conn.WriteJSON(request{Call: "subscribe", Events: []string{combat.EventCombatData, combat.EventLogLine}}); err != nil {
		return fmt.Errorf("subscribe call: %w", err)
	}
	c.logger.Info("subscribed, waiting for events", "events", []string{combat.EventCombatData, combat.EventLogLine})

	frames := make(chan frame)
	go func() {
		for {
			_, data, err := conn.ReadMessage()
			select {
			case frames <- frame{data: data, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.readTimeout):
			c.logger.Info("no data received, still connected", "idle", c.readTimeout)
		case fr := <-frames:
			if fr.err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("read: %w", fr.err)
			}
			ev, err := combat.DecodeEvent(fr.data)
			if err != nil {
				c.logger.Warn("non-JSON frame", "raw", truncate(string(fr.data), 200))
				continue
			}
			done, err := handler.HandleEvent(ev, fr.data)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

// truncate caps s at n bytes, backing up so a multi-byte rune is never
// split.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
