package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/nastly29/home-organizer/internal/database"
	"github.com/nastly29/home-organizer/internal/middleware"
	"github.com/nastly29/home-organizer/internal/models"
	"github.com/nastly29/home-organizer/internal/services"
	"github.com/nastly29/home-organizer/pkg/dto"
)

const (
	codeInvalidBody      = "INVALID_BODY"
	codeInvalidID        = "INVALID_ID"
	codeInternal         = "INTERNAL_ERROR"
	codeTeamIDRequired   = "TEAM_ID_REQUIRED"
	codeNewOwnerRequired = "NEW_OWNER_UID_REQUIRED"
)

func statusForKind(kind services.Kind) int {
	switch kind {
	case services.KindUnauthenticated:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// respondError writes err as {"error": CODE}. Errors that are not part of
// the domain vocabulary are logged and reported as INTERNAL_ERROR.
func respondError(c *drift.Context, err error) {
	var de *services.DomainError
	switch {
	case errors.As(err, &de):
		_ = c.JSON(statusForKind(de.Kind), dto.ErrorResponse{Error: de.Code})
	case errors.Is(err, database.ErrTxConflict):
		slog.Warn("transaction conflict", "path", c.Request.URL.Path, "error", err)
		_ = c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "TRANSACTION_CONFLICT"})
	case errors.Is(err, database.ErrTxTimeout):
		slog.Warn("transaction timeout", "path", c.Request.URL.Path, "error", err)
		_ = c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "TRANSACTION_TIMEOUT"})
	default:
		slog.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		_ = c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: codeInternal})
	}
}

func badRequest(c *drift.Context, code string) {
	_ = c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: code})
}

func currentUID(c *drift.Context) (string, bool) {
	uid := middleware.GetUID(c)
	if uid == "" {
		respondError(c, services.ErrUnauthenticated)
		return "", false
	}
	return uid, true
}

func pathID(c *drift.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, codeInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// teamMember resolves the caller and the :id team and checks membership. It
// writes the error response itself and reports false when the request must
// stop.
func teamMember(c *drift.Context, guard GuardInterface) (uuid.UUID, string, *models.Membership, bool) {
	uid, ok := currentUID(c)
	if !ok {
		return uuid.Nil, "", nil, false
	}
	teamID, ok := pathID(c, "id")
	if !ok {
		return uuid.Nil, "", nil, false
	}
	m, err := guard.CheckMembership(context.Background(), teamID, uid)
	if err != nil {
		respondError(c, err)
		return uuid.Nil, "", nil, false
	}
	return teamID, uid, m, true
}

// teamOwner is teamMember for owner-only routes.
func teamOwner(c *drift.Context, guard GuardInterface) (uuid.UUID, string, bool) {
	uid, ok := currentUID(c)
	if !ok {
		return uuid.Nil, "", false
	}
	teamID, ok := pathID(c, "id")
	if !ok {
		return uuid.Nil, "", false
	}
	if _, err := guard.RequireRole(context.Background(), teamID, uid, models.RoleOwner); err != nil {
		respondError(c, err)
		return uuid.Nil, "", false
	}
	return teamID, uid, true
}
