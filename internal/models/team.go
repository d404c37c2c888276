package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOwner, RoleMember:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	return string(r)
}

type Team struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	OwnerID        string    `json:"ownerId"`
	MembersCount   int       `json:"membersCount"`
	ChatInviteLink string    `json:"chatInviteLink"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// TeamMember is a row of team_members, optionally merged with the member's
// profile.
type TeamMember struct {
	TeamID      uuid.UUID `json:"teamId"`
	UID         string    `json:"uid"`
	Role        Role      `json:"role"`
	JoinedAt    time.Time `json:"joinedAt"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
}

// Membership is a row of user_teams, the reverse index of team_members.
type Membership struct {
	UID      string    `json:"uid"`
	TeamID   uuid.UUID `json:"teamId"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

type TeamWithRole struct {
	Team
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}
