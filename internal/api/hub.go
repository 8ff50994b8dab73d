package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cs-practicals/algosim/internal/models"
	"github.com/cs-practicals/algosim/pkg/logger"
)

const (
	writeWait       = 5 * time.Second
	broadcastBuffer = 64
)

type subscriber struct {
	roundID string
	conn    *websocket.Conn
}

// Hub fans round events out to websocket subscribers. A single goroutine
// owns the subscriber set and performs every write.
type Hub struct {
	upgrader    websocket.Upgrader
	subscribers map[string]map[*websocket.Conn]bool
	register    chan subscriber
	remove      chan subscriber
	broadcast   chan models.Event
	done        chan struct{}
	logger      *logger.Logger
}

// NewHub creates a hub. Call Run to start delivering events.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		subscribers: make(map[string]map[*websocket.Conn]bool),
		register:    make(chan subscriber),
		remove:      make(chan subscriber),
		broadcast:   make(chan models.Event, broadcastBuffer),
		done:        make(chan struct{}),
		logger:      log,
	}
}

// Run delivers events until ctx is cancelled, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for _, conns := range h.subscribers {
				for conn := range conns {
					conn.Close()
				}
			}
			h.subscribers = make(map[string]map[*websocket.Conn]bool)
			return
		case sub := <-h.register:
			conns, ok := h.subscribers[sub.roundID]
			if !ok {
				conns = make(map[*websocket.Conn]bool)
				h.subscribers[sub.roundID] = conns
			}
			conns[sub.conn] = true
			h.write(sub, models.Event{
				Type:    models.EventSubscribed,
				RoundID: sub.roundID,
				At:      time.Now().UTC(),
			})
		case sub := <-h.remove:
			h.drop(sub)
		case event := <-h.broadcast:
			for conn := range h.subscribers[event.RoundID] {
				h.write(subscriber{roundID: event.RoundID, conn: conn}, event)
			}
		}
	}
}

// Publish queues an event for the round's subscribers. Events are dropped
// when the queue is full.
func (h *Hub) Publish(roundID string, event models.Event) {
	event.RoundID = roundID
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("Dropping round event", logger.F("round_id", roundID), logger.F("type", event.Type))
	}
}

// Serve upgrades the request and subscribes the connection to roundID.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, roundID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", logger.F("error", err.Error()))
		return
	}

	sub := subscriber{roundID: roundID, conn: conn}
	select {
	case h.register <- sub:
	case <-h.done:
		conn.Close()
		return
	}

	go func() {
		defer func() {
			select {
			case h.remove <- sub:
			case <-h.done:
			}
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Warn("WebSocket error", logger.F("round_id", roundID), logger.F("error", err.Error()))
				}
				return
			}
		}
	}()
}

func (h *Hub) write(sub subscriber, event models.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to marshal round event", logger.F("error", err.Error()))
		return
	}
	sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := sub.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.logger.Warn("Failed to send event to WebSocket client",
			logger.F("round_id", sub.roundID),
			logger.F("error", err.Error()))
		h.drop(sub)
	}
}

func (h *Hub) drop(sub subscriber) {
	conns := h.subscribers[sub.roundID]
	if _, ok := conns[sub.conn]; !ok {
		return
	}
	delete(conns, sub.conn)
	if len(conns) == 0 {
		delete(h.subscribers, sub.roundID)
	}
	sub.conn.Close()
}
