package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const wsIdlePingInterval = 30 * time.Second

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("ws-upgrade-failed")
		return
	}

	c := newClient()
	if data, err := encodeMessage("state", s.state()); err == nil {
		c.trySend(data)
	}
	s.hub.register(c)
	s.logger.Debug().Int("clients", s.hub.clientCount()).Msg("ws-connected")

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, c); err != nil {
			s.logger.Debug().Err(err).Msg("ws-write-stopped")
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			s.hub.unregister(c)
			s.logger.Debug().Int("clients", s.hub.clientCount()).Msg("ws-disconnected")
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		s.handleWSMessage(c, msg)
	}
}

func (s *Server) handleWSMessage(c *client, msg wsMessage) {
	switch msg.Type {
	case "move":
		var req moveRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			s.replyError(c, "invalid payload")
			return
		}
		if _, err := s.move(req.Direction); err != nil {
			s.replyError(c, err.Error())
		}
	case "undo":
		s.undo()
	case "new":
		s.restart()
	case "companion":
		var req companionRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			s.replyError(c, "invalid payload")
			return
		}
		s.setCompanion(req.Enabled)
	case "request_state":
		if data, err := encodeMessage("state", s.state()); err == nil {
			c.trySend(data)
		}
	}
}

func (s *Server) replyError(c *client, message string) {
	if data, err := encodeMessage("error", map[string]string{"error": message}); err == nil {
		c.trySend(data)
	}
}

func writeWSWithHeartbeat(conn *websocket.Conn, c *client) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	pingPayload, _ := encodeMessage("ping", nil)

	for {
		select {
		case <-c.done:
			return conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		case msg := <-c.send:
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, pingPayload); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
