package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/nastly29/home-organizer/internal/models"
	"github.com/nastly29/home-organizer/internal/services"
)

// GuardInterface answers whether a user belongs to a team and in which role.
type GuardInterface interface {
	CheckMembership(ctx context.Context, teamID uuid.UUID, uid string) (*models.Membership, error)
	RequireRole(ctx context.Context, teamID uuid.UUID, uid string, role models.Role) (*models.Membership, error)
}

// TeamServiceInterface defines the methods used by handlers from TeamService
type TeamServiceInterface interface {
	Create(ctx context.Context, name, uid string) (*models.Team, error)
	Join(ctx context.Context, teamID uuid.UUID, uid string) (*models.Team, error)
	Leave(ctx context.Context, teamID uuid.UUID, uid string) error
	TransferOwnership(ctx context.Context, teamID uuid.UUID, currentUID, newOwnerUID string) error
	RemoveMember(ctx context.Context, teamID uuid.UUID, actingUID, targetUID string) error
	Rename(ctx context.Context, teamID uuid.UUID, actingUID, name string) (*models.Team, error)
	Delete(ctx context.Context, teamID uuid.UUID, actingUID string) error
	GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error)
	GetUserTeams(ctx context.Context, uid string) ([]models.TeamWithRole, error)
	GetMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error)
	GetChatLink(ctx context.Context, teamID uuid.UUID) (string, error)
	UpdateChatLink(ctx context.Context, teamID uuid.UUID, actingUID, link string) (string, error)
}

// TaskServiceInterface defines the methods used by handlers from TaskService
type TaskServiceInterface interface {
	List(ctx context.Context, teamID uuid.UUID, uid string, filter services.TaskFilter) ([]models.Task, error)
	Create(ctx context.Context, teamID uuid.UUID, uid string, in services.TaskInput) (*models.Task, error)
	Update(ctx context.Context, teamID, taskID uuid.UUID, uid string, upd services.TaskUpdate) (*models.Task, error)
	Delete(ctx context.Context, teamID, taskID uuid.UUID, uid string) error
	ToggleComplete(ctx context.Context, teamID, taskID uuid.UUID, uid string) (*models.Task, error)
}

// DashboardServiceInterface defines the methods used by handlers from DashboardService
type DashboardServiceInterface interface {
	Build(ctx context.Context, teamID uuid.UUID, uid string) (*models.Dashboard, error)
}

// FinanceServiceInterface defines the methods used by handlers from FinanceService
type FinanceServiceInterface interface {
	List(ctx context.Context, teamID uuid.UUID, uid string, mine bool) ([]models.Finance, error)
	Create(ctx context.Context, teamID uuid.UUID, uid string, in services.FinanceInput) (*models.Finance, error)
	Update(ctx context.Context, teamID, id uuid.UUID, uid string, upd services.FinanceUpdate) (*models.Finance, error)
	Delete(ctx context.Context, teamID, id uuid.UUID, uid string) error
}

// EventServiceInterface defines the methods used by handlers from EventService
type EventServiceInterface interface {
	List(ctx context.Context, teamID uuid.UUID, month string) ([]models.Event, error)
	Create(ctx context.Context, teamID uuid.UUID, uid string, in services.EventInput) (*models.Event, error)
	Update(ctx context.Context, teamID, id uuid.UUID, uid string, in services.EventInput) (*models.Event, error)
	Delete(ctx context.Context, teamID, id uuid.UUID, uid string) error
}

// ShoppingServiceInterface defines the methods used by handlers from ShoppingService
type ShoppingServiceInterface interface {
	List(ctx context.Context, teamID uuid.UUID, category string) ([]models.ShoppingItem, error)
	Create(ctx context.Context, teamID uuid.UUID, uid string, in services.ShoppingInput) (*models.ShoppingItem, error)
	Update(ctx context.Context, teamID, id uuid.UUID, uid string, in services.ShoppingInput) (*models.ShoppingItem, error)
	Delete(ctx context.Context, teamID, id uuid.UUID, uid string) error
	Confirm(ctx context.Context, teamID, id uuid.UUID, uid string) error
}

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	EnsureProfile(ctx context.Context, uid, email, displayName string) (*models.User, error)
	GetByUID(ctx context.Context, uid string) (*models.User, error)
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Notifier tells connected team members that something changed.
type Notifier interface {
	Publish(teamID uuid.UUID, eventType, uid string)
	Disconnect(teamID uuid.UUID, uid string)
}
