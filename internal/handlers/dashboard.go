package handlers

import (
	"context"
	"net/http"

	"github.com/m1z23r/drift/pkg/drift"
)

type DashboardHandler struct {
	dashboardService DashboardServiceInterface
	guard            GuardInterface
}

func NewDashboardHandler(dashboardService DashboardServiceInterface, guard GuardInterface) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		guard:            guard,
	}
}

func (h *DashboardHandler) Get(c *drift.Context) {
	teamID, uid, _, ok := teamMember(c, h.guard)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.Build(context.Background(), teamID, uid)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, dashboard)
}
