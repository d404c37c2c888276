package handlers

import (
	"context"
	"net/http"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/nastly29/home-organizer/internal/services"
	"github.com/nastly29/home-organizer/internal/sse"
	"github.com/nastly29/home-organizer/pkg/dto"
)

type EventHandler struct {
	eventService EventServiceInterface
	guard        GuardInterface
	notifier     Notifier
}

func NewEventHandler(eventService EventServiceInterface, guard GuardInterface, notifier Notifier) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		guard:        guard,
		notifier:     notifier,
	}
}

func eventInput(req dto.EventRequest) services.EventInput {
	return services.EventInput{
		Title: req.Title,
		Date:  req.Date,
		Time:  req.Time,
		Place: req.Place,
		Note:  req.Note,
	}
}

func (h *EventHandler) List(c *drift.Context) {
	teamID, _, _, ok := teamMember(c, h.guard)
	if !ok {
		return
	}

	events, err := h.eventService.List(context.Background(), teamID, c.QueryParam("month"))
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.EventsResponse{Events: events})
}

func (h *EventHandler) Create(c *drift.Context) {
	teamID, uid, _, ok := teamMember(c, h.guard)
	if !ok {
		return
	}

	var req dto.EventRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, codeInvalidBody)
		return
	}

	event, err := h.eventService.Create(context.Background(), teamID, uid, eventInput(req))
	if err != nil {
		respondError(c, err)
		return
	}

	h.notifier.Publish(teamID, sse.EventsChanged, uid)

	_ = c.JSON(http.StatusCreated, dto.EventResponse{Event: event})
}

func (h *EventHandler) Update(c *drift.Context) {
	teamID, uid, _, ok := teamMember(c, h.guard)
	if !ok {
		return
	}
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}

	var req dto.EventRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, codeInvalidBody)
		return
	}

	event, err := h.eventService.Update(context.Background(), teamID, eventID, uid, eventInput(req))
	if err != nil {
		respondError(c, err)
		return
	}

	h.notifier.Publish(teamID, sse.EventsChanged, uid)

	_ = c.JSON(http.StatusOK, dto.EventResponse{Event: event})
}

func (h *EventHandler) Delete(c *drift.Context) {
	teamID, uid, _, ok := teamMember(c, h.guard)
	if !ok {
		return
	}
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}

	if err := h.eventService.Delete(context.Background(), teamID, eventID, uid); err != nil {
		respondError(c, err)
		return
	}

	h.notifier.Publish(teamID, sse.EventsChanged, uid)

	_ = c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}
