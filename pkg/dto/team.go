package dto

import (
	"github.com/google/uuid"
	"github.com/nastly29/home-organizer/internal/models"
)

type CreateTeamRequest struct {
	Name string `json:"name"`
}

type UpdateTeamRequest struct {
	Name string `json:"name"`
}

type JoinTeamRequest struct {
	TeamID uuid.UUID `json:"teamId"`
}

type TransferOwnerRequest struct {
	NewOwnerUID string `json:"newOwnerUid"`
}

type ChatLinkRequest struct {
	Link string `json:"link"`
}

type TeamResponse struct {
	Team *models.Team `json:"team"`
}

type TeamDetailResponse struct {
	Team       *models.Team       `json:"team"`
	Membership *models.Membership `json:"membership"`
}

type TeamsResponse struct {
	Teams []models.TeamWithRole `json:"teams"`
}

type MembersResponse struct {
	Members []models.TeamMember `json:"members"`
}

type ChatLinkResponse struct {
	Link string `json:"link"`
}
