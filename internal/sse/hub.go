// Package sse fans team change notifications out to connected members.
package sse

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Change types published after a successful mutation.
const (
	TeamUpdated     = "team.updated"
	TeamDeleted     = "team.deleted"
	MembersChanged  = "members.changed"
	TasksChanged    = "tasks.changed"
	FinancesChanged = "finances.changed"
	EventsChanged   = "events.changed"
	ShoppingChanged = "shopping.changed"
)

type Event struct {
	Type string     `json:"type"`
	Data ChangeData `json:"data"`
}

type ChangeData struct {
	TeamID uuid.UUID `json:"teamId"`
	By     string    `json:"by"`
}

// Client is one open stream. It only ever receives events for TeamID.
type Client struct {
	ID     string
	UID    string
	TeamID uuid.UUID
	Send   chan []byte
}

type teamMessage struct {
	TeamID uuid.UUID
	Event  Event
}

type disconnect struct {
	TeamID uuid.UUID
	UID    string
}

type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *teamMessage
	disconnect chan disconnect
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *teamMessage, 256),
		disconnect: make(chan disconnect, 64),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client.ID)
			h.mu.Unlock()

		case d := <-h.disconnect:
			h.mu.Lock()
			for id, client := range h.clients {
				if client.TeamID == d.TeamID && (d.UID == "" || client.UID == d.UID) {
					h.remove(id)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Event)
			if err != nil {
				slog.Error("failed to encode team event", "type", msg.Event.Type, "error", err)
				continue
			}
			h.mu.RLock()
			for _, client := range h.clients {
				if client.TeamID == msg.TeamID {
					select {
					case client.Send <- data:
					default:
						// Client buffer full, skip
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// remove must be called with mu held.
func (h *Hub) remove(id string) {
	if client, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(client.Send)
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Publish queues a change for every stream open on teamID. It never blocks
// the caller; when the queue is full the event is dropped.
func (h *Hub) Publish(teamID uuid.UUID, eventType, by string) {
	msg := &teamMessage{
		TeamID: teamID,
		Event:  Event{Type: eventType, Data: ChangeData{TeamID: teamID, By: by}},
	}
	select {
	case h.broadcast <- msg:
	default:
		slog.Warn("team event dropped", "team_id", teamID, "type", eventType)
	}
}

// Disconnect closes uid's streams on teamID, or every stream on the team
// when uid is empty.
func (h *Hub) Disconnect(teamID uuid.UUID, uid string) {
	select {
	case h.disconnect <- disconnect{TeamID: teamID, UID: uid}:
	default:
		slog.Warn("stream disconnect dropped", "team_id", teamID, "uid", uid)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
