package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"job-matcher/internal/events"

	"go.uber.org/zap"
)

type message struct {
	resumeID int64
	payload  []byte
}

// Hub fans match notifications out to connected clients. A client that
// subscribed to a resume only receives that resume's events.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan message
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *zap.Logger

	// done closes when Run returns. stopped is guarded by lifecycle and keeps
	// Register from queueing clients nobody will read.
	done      chan struct{}
	lifecycle sync.Mutex
	stopped   bool
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan message, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Run serves registrations and broadcasts until ctx is done, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Debug("ws connected", zap.Int("total_clients", total), zap.Int64("resume_id", client.resumeID))

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			h.mutex.RLock()
			targets := make([]*Client, 0, len(h.clients))
			for c := range h.clients {
				if c.resumeID == 0 || c.resumeID == msg.resumeID {
					targets = append(targets, c)
				}
			}
			h.mutex.RUnlock()

			for _, client := range targets {
				select {
				case client.send <- msg.payload:
				default:
					h.remove(client)
				}
			}
			h.logger.Debug("ws broadcast", zap.Int("clients", len(targets)), zap.Int64("resume_id", msg.resumeID))
		}
	}
}

func (h *Hub) remove(client *Client) {
	if client == nil {
		return
	}
	h.mutex.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mutex.Unlock()
	h.logger.Debug("ws disconnected", zap.Int("total_clients", total))
}

func (h *Hub) shutdown() {
	close(h.done)

	h.lifecycle.Lock()
	h.stopped = true
	h.lifecycle.Unlock()

	h.mutex.Lock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	h.mutex.Unlock()

	for {
		select {
		case c := <-h.register:
			if c != nil {
				close(c.send)
			}
		default:
			return
		}
	}
}

// Register adds client to the hub. After Run has returned the client's send
// channel is closed right away so its pumps exit.
func (h *Hub) Register(client *Client) {
	h.lifecycle.Lock()
	defer h.lifecycle.Unlock()
	if h.stopped {
		close(client.send)
		return
	}
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// PublishMatchCompleted queues e for delivery. A full queue drops the event.
func (h *Hub) PublishMatchCompleted(_ context.Context, e events.MatchCompleted) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal match event: %w", err)
	}
	select {
	case h.broadcast <- message{resumeID: e.ResumeID, payload: b}:
		return nil
	default:
		h.logger.Warn("ws broadcast dropped", zap.String("reason", "buffer_full"), zap.String("run_id", e.RunID))
		return fmt.Errorf("ws broadcast buffer full")
	}
}
