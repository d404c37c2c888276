package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/nastly29/home-organizer/pkg/dto"
)

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(c *drift.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		slog.Error("health check failed", "error", err)
		_ = c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "DATABASE_UNAVAILABLE"})
		return
	}

	_ = c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}
