package handler

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Hub は接続中のwebsocketクライアントにメッセージを配る
type Hub struct {
	mu        sync.Mutex
	clients   map[*client]struct{}
	broadcast chan []byte
	logger    zerolog.Logger
}

type client struct {
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newClient() *client {
	return &client{
		send: make(chan []byte, 16),
		done: make(chan struct{}),
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewHub は新しいHubを生成する
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:   make(map[*client]struct{}),
		broadcast: make(chan []byte, 32),
		logger:    logger,
	}
}

// Run はctxがキャンセルされるまで配信を続ける
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				c.close()
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return nil
		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				c.trySend(msg)
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast は全クライアントにメッセージを送る（詰まっていれば捨てる）
func (h *Hub) Broadcast(msgType string, payload any) {
	data, err := encodeMessage(msgType, payload)
	if err != nil {
		h.logger.Error().Err(err).Str("type", msgType).Msg("encode-broadcast-failed")
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn().Str("type", msgType).Msg("broadcast-dropped")
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	c.close()
}

func (h *Hub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (c *client) trySend(msg []byte) {
	select {
	case c.send <- msg:
	default:
	}
}

func encodeMessage(msgType string, payload any) ([]byte, error) {
	msg := wsMessage{Type: msgType}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		msg.Payload = raw
	}
	return json.Marshal(msg)
}
