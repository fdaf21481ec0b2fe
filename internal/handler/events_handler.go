/*
Package handler provides the HTTP handler function for the WebSocket event feed.

The feed carries configuration-change notifications (rooms-updated,
paid-settings-updated, open-create-room) so UI surfaces can re-read persisted
state; it never carries chat traffic. Delivery is best effort: a subscriber
that cannot keep up has events dropped, and the connection itself stays alive.
*/
package handler

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"commhub/internal/app/events"
	"commhub/internal/pkg/errs"
	"commhub/internal/pkg/limiter"
	"commhub/internal/pkg/logx"
	"commhub/internal/pkg/resp"

	"github.com/gorilla/websocket"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client. The feed
	// is one-way; clients are expected to send nothing beyond control frames.
	maxMessageSize = 512
)

// HandleEventsFeed creates an HTTP HandlerFunc that upgrades the connection and
// streams bus events to the client as JSON until either side disconnects.
func HandleEventsFeed(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("Event feed connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		eventCh, cancel := deps.Bus.Subscribe()

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			cancel()
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		logx.Info("Event feed subscriber connected", "ip", ip)

		go writeEvents(conn, eventCh)
		readUntilClosed(conn, cancel)
	}
}

// readUntilClosed consumes inbound frames so control messages are processed,
// and tears the subscription down when the connection dies.
func readUntilClosed(conn *websocket.Conn, cancel func()) {
	defer func() {
		cancel()
		if err := conn.Close(); err != nil {
			logx.Error(err, "Event feed connection close error")
		}
	}()

	conn.SetReadLimit(maxMessageSize)

	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logx.Error(err, "Failed to set read deadline on event feed")
		return
	}

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logx.Info("Event feed closed by peer", "reason", err.Error())
			}
			return
		}
	}
}

// writeEvents forwards bus events to the peer and keeps the heartbeat going.
// It exits when the subscription is cancelled or a write fails.
func writeEvents(conn *websocket.Conn, eventCh <-chan events.Event) {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		if err := conn.Close(); err != nil {
			logx.Error(err, "Event feed connection close error in writer")
		}
	}()

	for {
		select {
		case event, ok := <-eventCh:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logx.Error(err, "Failed to set write deadline on event feed")
				return
			}

			if !ok {
				if err := conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logx.Error(err, "Error writing close message on event feed")
				}
				return
			}

			payload, err := json.Marshal(event)
			if err != nil {
				logx.Error(err, "Failed to encode event", "event", event.Name)
				continue
			}

			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				logx.Error(err, "Error writing event to feed")
				return
			}

		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logx.Error(err, "Failed to set write deadline on event feed ping")
				return
			}

			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
