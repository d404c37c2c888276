package handlers

import (
	"context"
	"net/http"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/nastly29/home-organizer/internal/services"
	"github.com/nastly29/home-organizer/internal/sse"
	"github.com/nastly29/home-organizer/pkg/dto"
)

type ShoppingHandler struct {
	shoppingService ShoppingServiceInterface
	guard           GuardInterface
	notifier        Notifier
}

func NewShoppingHandler(shoppingService ShoppingServiceInterface, guard GuardInterface, notifier Notifier) *ShoppingHandler {
	return &ShoppingHandler{
		shoppingService: shoppingService,
		guard:           guard,
		notifier:        notifier,
	}
}

func shoppingInput(req dto.ShoppingRequest) services.ShoppingInput {
	return services.ShoppingInput{
		Title:    req.Title,
		Category: req.Category,
		Note:     req.Note,
		QtyValue: req.QtyValue.Float(),
		QtyUnit:  req.QtyUnit,
	}
}

func (h *ShoppingHandler) List(c *drift.Context) {
	teamID, _, _, ok := teamMember(c, h.guard)
	if !ok {
		return
	}

	items, err := h.shoppingService.List(context.Background(), teamID, c.QueryParam("category"))
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.ShoppingListResponse{Items: items})
}

func (h *ShoppingHandler) Create(c *drift.Context) {
	teamID, uid, _, ok := teamMember(c, h.guard)
	if !ok {
		return
	}

	var req dto.ShoppingRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, codeInvalidBody)
		return
	}

	item, err := h.shoppingService.Create(context.Background(), teamID, uid, shoppingInput(req))
	if err != nil {
		respondError(c, err)
		return
	}

	h.notifier.Publish(teamID, sse.ShoppingChanged, uid)

	_ = c.JSON(http.StatusCreated, dto.ShoppingItemResponse{Item: item})
}

func (h *ShoppingHandler) Update(c *drift.Context) {
	teamID, uid, _, ok := teamMember(c, h.guard)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	var req dto.ShoppingRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, codeInvalidBody)
		return
	}

	item, err := h.shoppingService.Update(context.Background(), teamID, itemID, uid, shoppingInput(req))
	if err != nil {
		respondError(c, err)
		return
	}

	h.notifier.Publish(teamID, sse.ShoppingChanged, uid)

	_ = c.JSON(http.StatusOK, dto.ShoppingItemResponse{Item: item})
}

func (h *ShoppingHandler) Delete(c *drift.Context) {
	teamID, uid, _, ok := teamMember(c, h.guard)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	if err := h.shoppingService.Delete(context.Background(), teamID, itemID, uid); err != nil {
		respondError(c, err)
		return
	}

	h.notifier.Publish(teamID, sse.ShoppingChanged, uid)

	_ = c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

// Confirm marks an item as bought, which removes it from the list.
func (h *ShoppingHandler) Confirm(c *drift.Context) {
	teamID, uid, _, ok := teamMember(c, h.guard)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	if err := h.shoppingService.Confirm(context.Background(), teamID, itemID, uid); err != nil {
		respondError(c, err)
		return
	}

	h.notifier.Publish(teamID, sse.ShoppingChanged, uid)

	_ = c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}
