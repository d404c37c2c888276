package handlers

import (
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/nastly29/home-organizer/internal/sse"
)

type StreamHandler struct {
	hub   *sse.Hub
	guard GuardInterface
}

func NewStreamHandler(hub *sse.Hub, guard GuardInterface) *StreamHandler {
	return &StreamHandler{
		hub:   hub,
		guard: guard,
	}
}

// Connect streams change notifications for one team until the client goes
// away or loses membership.
func (h *StreamHandler) Connect(c *drift.Context) {
	teamID, uid, _, ok := teamMember(c, h.guard)
	if !ok {
		return
	}

	sseCtx := c.SSE()

	client := &sse.Client{
		ID:     uuid.New().String(),
		UID:    uid,
		TeamID: teamID,
		Send:   make(chan []byte, 64),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := sseCtx.SendJSON(map[string]string{
		"type":     "connected",
		"clientId": client.ID,
	}, "system", ""); err != nil {
		return
	}

	done := c.Request.Context().Done()
	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := sseCtx.Send(string(msg), "message", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
