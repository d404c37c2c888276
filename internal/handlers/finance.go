package handlers

import (
	"context"
	"net/http"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/nastly29/home-organizer/internal/services"
	"github.com/nastly29/home-organizer/internal/sse"
	"github.com/nastly29/home-organizer/pkg/dto"
)

type FinanceHandler struct {
	financeService FinanceServiceInterface
	guard          GuardInterface
	notifier       Notifier
}

func NewFinanceHandler(financeService FinanceServiceInterface, guard GuardInterface, notifier Notifier) *FinanceHandler {
	return &FinanceHandler{
		financeService: financeService,
		guard:          guard,
		notifier:       notifier,
	}
}

// List treats any filter other than "mine" as "all".
func (h *FinanceHandler) List(c *drift.Context) {
	teamID, uid, _, ok := teamMember(c, h.guard)
	if !ok {
		return
	}

	items, err := h.financeService.List(context.Background(), teamID, uid, c.QueryParam("filter") == "mine")
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.FinancesResponse{Items: items})
}

func (h *FinanceHandler) Create(c *drift.Context) {
	teamID, uid, _, ok := teamMember(c, h.guard)
	if !ok {
		return
	}

	var req dto.CreateFinanceRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, codeInvalidBody)
		return
	}

	item, err := h.financeService.Create(context.Background(), teamID, uid, services.FinanceInput{
		SpenderUID: req.SpenderUID,
		SpentDate:  req.SpentDate,
		Amount:     float64(req.Amount),
		Note:       req.Note,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.notifier.Publish(teamID, sse.FinancesChanged, uid)

	_ = c.JSON(http.StatusCreated, dto.FinanceResponse{Item: item})
}

func (h *FinanceHandler) Update(c *drift.Context) {
	teamID, uid, _, ok := teamMember(c, h.guard)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	var req dto.UpdateFinanceRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, codeInvalidBody)
		return
	}

	item, err := h.financeService.Update(context.Background(), teamID, itemID, uid, services.FinanceUpdate{
		SpenderUID: req.SpenderUID,
		SpentDate:  req.SpentDate,
		Amount:     req.Amount.Float(),
		Note:       req.Note,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.notifier.Publish(teamID, sse.FinancesChanged, uid)

	_ = c.JSON(http.StatusOK, dto.FinanceResponse{Item: item})
}

func (h *FinanceHandler) Delete(c *drift.Context) {
	teamID, uid, _, ok := teamMember(c, h.guard)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	if err := h.financeService.Delete(context.Background(), teamID, itemID, uid); err != nil {
		respondError(c, err)
		return
	}

	h.notifier.Publish(teamID, sse.FinancesChanged, uid)

	_ = c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}
