package handlers

import (
	"context"
	"net/http"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/nastly29/home-organizer/internal/middleware"
	"github.com/nastly29/home-organizer/pkg/dto"
)

type UserHandler struct {
	userService UserServiceInterface
}

func NewUserHandler(userService UserServiceInterface) *UserHandler {
	return &UserHandler{userService: userService}
}

// Ensure creates the caller's profile from the verified identity, or updates
// the display name when it already exists.
func (h *UserHandler) Ensure(c *drift.Context) {
	uid, ok := currentUID(c)
	if !ok {
		return
	}

	var req dto.EnsureProfileRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, codeInvalidBody)
		return
	}

	user, err := h.userService.EnsureProfile(context.Background(), uid, middleware.GetEmail(c), req.DisplayName)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.UserResponse{User: user})
}

func (h *UserHandler) Me(c *drift.Context) {
	uid, ok := currentUID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByUID(context.Background(), uid)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.UserResponse{User: user})
}
