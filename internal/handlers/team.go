package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/nastly29/home-organizer/internal/sse"
	"github.com/nastly29/home-organizer/pkg/dto"
)

type TeamHandler struct {
	teamService TeamServiceInterface
	guard       GuardInterface
	notifier    Notifier
}

func NewTeamHandler(teamService TeamServiceInterface, guard GuardInterface, notifier Notifier) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		guard:       guard,
		notifier:    notifier,
	}
}

func (h *TeamHandler) Create(c *drift.Context) {
	uid, ok := currentUID(c)
	if !ok {
		return
	}

	var req dto.CreateTeamRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, codeInvalidBody)
		return
	}

	team, err := h.teamService.Create(context.Background(), req.Name, uid)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(http.StatusCreated, dto.TeamResponse{Team: team})
}

func (h *TeamHandler) List(c *drift.Context) {
	uid, ok := currentUID(c)
	if !ok {
		return
	}

	teams, err := h.teamService.GetUserTeams(context.Background(), uid)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.TeamsResponse{Teams: teams})
}

func (h *TeamHandler) Get(c *drift.Context) {
	teamID, _, membership, ok := teamMember(c, h.guard)
	if !ok {
		return
	}

	team, err := h.teamService.GetByID(context.Background(), teamID)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.TeamDetailResponse{Team: team, Membership: membership})
}

func (h *TeamHandler) Members(c *drift.Context) {
	teamID, _, _, ok := teamMember(c, h.guard)
	if !ok {
		return
	}

	members, err := h.teamService.GetMembers(context.Background(), teamID)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.MembersResponse{Members: members})
}

func (h *TeamHandler) Join(c *drift.Context) {
	uid, ok := currentUID(c)
	if !ok {
		return
	}

	var req dto.JoinTeamRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, codeInvalidBody)
		return
	}
	if req.TeamID == uuid.Nil {
		badRequest(c, codeTeamIDRequired)
		return
	}

	team, err := h.teamService.Join(context.Background(), req.TeamID, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	h.notifier.Publish(team.ID, sse.MembersChanged, uid)

	_ = c.JSON(http.StatusOK, dto.TeamResponse{Team: team})
}

func (h *TeamHandler) Leave(c *drift.Context) {
	teamID, uid, _, ok := teamMember(c, h.guard)
	if !ok {
		return
	}

	if err := h.teamService.Leave(context.Background(), teamID, uid); err != nil {
		respondError(c, err)
		return
	}
	h.notifier.Disconnect(teamID, uid)
	h.notifier.Publish(teamID, sse.MembersChanged, uid)

	_ = c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

func (h *TeamHandler) Update(c *drift.Context) {
	teamID, uid, ok := teamOwner(c, h.guard)
	if !ok {
		return
	}

	var req dto.UpdateTeamRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, codeInvalidBody)
		return
	}

	team, err := h.teamService.Rename(context.Background(), teamID, uid, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	h.notifier.Publish(teamID, sse.TeamUpdated, uid)

	_ = c.JSON(http.StatusOK, dto.TeamResponse{Team: team})
}

func (h *TeamHandler) Delete(c *drift.Context) {
	teamID, uid, ok := teamOwner(c, h.guard)
	if !ok {
		return
	}

	if err := h.teamService.Delete(context.Background(), teamID, uid); err != nil {
		respondError(c, err)
		return
	}
	h.notifier.Publish(teamID, sse.TeamDeleted, uid)
	h.notifier.Disconnect(teamID, "")

	_ = c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

func (h *TeamHandler) TransferOwner(c *drift.Context) {
	teamID, uid, ok := teamOwner(c, h.guard)
	if !ok {
		return
	}

	var req dto.TransferOwnerRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, codeInvalidBody)
		return
	}
	if strings.TrimSpace(req.NewOwnerUID) == "" {
		badRequest(c, codeNewOwnerRequired)
		return
	}

	if err := h.teamService.TransferOwnership(context.Background(), teamID, uid, req.NewOwnerUID); err != nil {
		respondError(c, err)
		return
	}
	h.notifier.Publish(teamID, sse.MembersChanged, uid)

	_ = c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

func (h *TeamHandler) RemoveMember(c *drift.Context) {
	teamID, uid, _, ok := teamMember(c, h.guard)
	if !ok {
		return
	}

	target := c.Param("uid")
	if err := h.teamService.RemoveMember(context.Background(), teamID, uid, target); err != nil {
		respondError(c, err)
		return
	}
	h.notifier.Disconnect(teamID, target)
	h.notifier.Publish(teamID, sse.MembersChanged, uid)

	_ = c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

func (h *TeamHandler) GetChatLink(c *drift.Context) {
	teamID, _, _, ok := teamMember(c, h.guard)
	if !ok {
		return
	}

	link, err := h.teamService.GetChatLink(context.Background(), teamID)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.ChatLinkResponse{Link: link})
}

func (h *TeamHandler) UpdateChatLink(c *drift.Context) {
	teamID, uid, ok := teamOwner(c, h.guard)
	if !ok {
		return
	}

	var req dto.ChatLinkRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, codeInvalidBody)
		return
	}

	link, err := h.teamService.UpdateChatLink(context.Background(), teamID, uid, req.Link)
	if err != nil {
		respondError(c, err)
		return
	}
	h.notifier.Publish(teamID, sse.TeamUpdated, uid)

	_ = c.JSON(http.StatusOK, dto.ChatLinkResponse{Link: link})
}
