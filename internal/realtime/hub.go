// Package realtime implements the WebSocket channel used to tell a user's
// other connected sessions that their data changed. Delivery is best-effort:
// no acks, no retries, and slow clients are dropped rather than blocking a
// write path.
package realtime

import (
	"encoding/json"

	"chitieu/internal/logger"
)

// EventTransactionUpdated is emitted after every transaction write.
const EventTransactionUpdated = "transaction_updated"

// Event is a single server-to-client frame.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Notification is the payload of a data-changed event.
type Notification struct {
	Message string `json:"message"`
	UserID  uint   `json:"user_id"`
}

// Notifier publishes data-changed notifications to a user's connected
// sessions. Implementations must never block the caller.
type Notifier interface {
	Notify(userID uint, message string)
}

// Hub maintains the set of connected clients grouped into per-user rooms and
// routes events to them. All map access happens on the run loop goroutine.
type Hub struct {
	rooms      map[uint]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	events     chan targetedEvent
}

type targetedEvent struct {
	userID  uint
	payload []byte
}

// NewHub creates a Hub. Call Run on its own goroutine before serving clients.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uint]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan targetedEvent, 64),
	}
}

// Run processes register/unregister/broadcast requests until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			room := h.rooms[client.userID]
			if room == nil {
				room = make(map[*Client]bool)
				h.rooms[client.userID] = room
			}
			room[client] = true

		case client := <-h.unregister:
			if room, ok := h.rooms[client.userID]; ok {
				if _, ok := room[client]; ok {
					delete(room, client)
					close(client.send)
					if len(room) == 0 {
						delete(h.rooms, client.userID)
					}
				}
			}

		case ev := <-h.events:
			for client := range h.rooms[ev.userID] {
				select {
				case client.send <- ev.payload:
				default:
					// Client is too slow to keep up; drop it.
					delete(h.rooms[ev.userID], client)
					close(client.send)
				}
			}
		}
	}
}

// Notify implements Notifier. It serializes the event and hands it to the run
// loop without waiting for delivery.
func (h *Hub) Notify(userID uint, message string) {
	payload, err := json.Marshal(Event{
		Event: EventTransactionUpdated,
		Data:  Notification{Message: message, UserID: userID},
	})
	if err != nil {
		logger.Get().Errorw("failed to encode notification", "error", err)
		return
	}

	select {
	case h.events <- targetedEvent{userID: userID, payload: payload}:
	default:
		logger.Get().Warnw("notification dropped, hub event queue full", "user_id", userID)
	}
}
