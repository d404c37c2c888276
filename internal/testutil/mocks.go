package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/nastly29/home-organizer/internal/models"
	"github.com/nastly29/home-organizer/internal/services"
	"github.com/stretchr/testify/mock"
)

// MockGuard mocks the membership guard
type MockGuard struct {
	mock.Mock
}

func (m *MockGuard) CheckMembership(ctx context.Context, teamID uuid.UUID, uid string) (*models.Membership, error) {
	args := m.Called(ctx, teamID, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}

// AllowMember makes the guard accept uid in teamID with the given role.
func (m *MockGuard) AllowMember(teamID uuid.UUID, uid string, role models.Role) *mock.Call {
	return m.On("CheckMembership", mock.Anything, teamID, uid).
		Return(&models.Membership{UID: uid, TeamID: teamID, Role: role}, nil)
}

func (m *MockGuard) RequireRole(ctx context.Context, teamID uuid.UUID, uid string, role models.Role) (*models.Membership, error) {
	args := m.Called(ctx, teamID, uid, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}

// AllowOwner makes the guard accept uid as owner of teamID.
func (m *MockGuard) AllowOwner(teamID uuid.UUID, uid string) *mock.Call {
	return m.On("RequireRole", mock.Anything, teamID, uid, models.RoleOwner).
		Return(&models.Membership{UID: uid, TeamID: teamID, Role: models.RoleOwner}, nil)
}

// MockTeamService mocks the TeamService
type MockTeamService struct {
	mock.Mock
}

func (m *MockTeamService) Create(ctx context.Context, name, uid string) (*models.Team, error) {
	args := m.Called(ctx, name, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) Join(ctx context.Context, teamID uuid.UUID, uid string) (*models.Team, error) {
	args := m.Called(ctx, teamID, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) Leave(ctx context.Context, teamID uuid.UUID, uid string) error {
	args := m.Called(ctx, teamID, uid)
	return args.Error(0)
}

func (m *MockTeamService) TransferOwnership(ctx context.Context, teamID uuid.UUID, currentUID, newOwnerUID string) error {
	args := m.Called(ctx, teamID, currentUID, newOwnerUID)
	return args.Error(0)
}

func (m *MockTeamService) RemoveMember(ctx context.Context, teamID uuid.UUID, actingUID, targetUID string) error {
	args := m.Called(ctx, teamID, actingUID, targetUID)
	return args.Error(0)
}

func (m *MockTeamService) Rename(ctx context.Context, teamID uuid.UUID, actingUID, name string) (*models.Team, error) {
	args := m.Called(ctx, teamID, actingUID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) Delete(ctx context.Context, teamID uuid.UUID, actingUID string) error {
	args := m.Called(ctx, teamID, actingUID)
	return args.Error(0)
}

func (m *MockTeamService) GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) GetUserTeams(ctx context.Context, uid string) ([]models.TeamWithRole, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TeamWithRole), args.Error(1)
}

func (m *MockTeamService) GetMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TeamMember), args.Error(1)
}

func (m *MockTeamService) GetChatLink(ctx context.Context, teamID uuid.UUID) (string, error) {
	args := m.Called(ctx, teamID)
	return args.String(0), args.Error(1)
}

func (m *MockTeamService) UpdateChatLink(ctx context.Context, teamID uuid.UUID, actingUID, link string) (string, error) {
	args := m.Called(ctx, teamID, actingUID, link)
	return args.String(0), args.Error(1)
}

// MockTaskService mocks the TaskService
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) List(ctx context.Context, teamID uuid.UUID, uid string, filter services.TaskFilter) ([]models.Task, error) {
	args := m.Called(ctx, teamID, uid, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Task), args.Error(1)
}

func (m *MockTaskService) Create(ctx context.Context, teamID uuid.UUID, uid string, in services.TaskInput) (*models.Task, error) {
	args := m.Called(ctx, teamID, uid, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, teamID, taskID uuid.UUID, uid string, upd services.TaskUpdate) (*models.Task, error) {
	args := m.Called(ctx, teamID, taskID, uid, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, teamID, taskID uuid.UUID, uid string) error {
	args := m.Called(ctx, teamID, taskID, uid)
	return args.Error(0)
}

func (m *MockTaskService) ToggleComplete(ctx context.Context, teamID, taskID uuid.UUID, uid string) (*models.Task, error) {
	args := m.Called(ctx, teamID, taskID, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

// MockDashboardService mocks the DashboardService
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Build(ctx context.Context, teamID uuid.UUID, uid string) (*models.Dashboard, error) {
	args := m.Called(ctx, teamID, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dashboard), args.Error(1)
}

// MockFinanceService mocks the FinanceService
type MockFinanceService struct {
	mock.Mock
}

func (m *MockFinanceService) List(ctx context.Context, teamID uuid.UUID, uid string, mine bool) ([]models.Finance, error) {
	args := m.Called(ctx, teamID, uid, mine)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Finance), args.Error(1)
}

func (m *MockFinanceService) Create(ctx context.Context, teamID uuid.UUID, uid string, in services.FinanceInput) (*models.Finance, error) {
	args := m.Called(ctx, teamID, uid, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Finance), args.Error(1)
}

func (m *MockFinanceService) Update(ctx context.Context, teamID, id uuid.UUID, uid string, upd services.FinanceUpdate) (*models.Finance, error) {
	args := m.Called(ctx, teamID, id, uid, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Finance), args.Error(1)
}

func (m *MockFinanceService) Delete(ctx context.Context, teamID, id uuid.UUID, uid string) error {
	args := m.Called(ctx, teamID, id, uid)
	return args.Error(0)
}

// MockEventService mocks the EventService
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) List(ctx context.Context, teamID uuid.UUID, month string) ([]models.Event, error) {
	args := m.Called(ctx, teamID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockEventService) Create(ctx context.Context, teamID uuid.UUID, uid string, in services.EventInput) (*models.Event, error) {
	args := m.Called(ctx, teamID, uid, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventService) Update(ctx context.Context, teamID, id uuid.UUID, uid string, in services.EventInput) (*models.Event, error) {
	args := m.Called(ctx, teamID, id, uid, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventService) Delete(ctx context.Context, teamID, id uuid.UUID, uid string) error {
	args := m.Called(ctx, teamID, id, uid)
	return args.Error(0)
}

// MockShoppingService mocks the ShoppingService
type MockShoppingService struct {
	mock.Mock
}

func (m *MockShoppingService) List(ctx context.Context, teamID uuid.UUID, category string) ([]models.ShoppingItem, error) {
	args := m.Called(ctx, teamID, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ShoppingItem), args.Error(1)
}

func (m *MockShoppingService) Create(ctx context.Context, teamID uuid.UUID, uid string, in services.ShoppingInput) (*models.ShoppingItem, error) {
	args := m.Called(ctx, teamID, uid, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShoppingItem), args.Error(1)
}

func (m *MockShoppingService) Update(ctx context.Context, teamID, id uuid.UUID, uid string, in services.ShoppingInput) (*models.ShoppingItem, error) {
	args := m.Called(ctx, teamID, id, uid, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShoppingItem), args.Error(1)
}

func (m *MockShoppingService) Delete(ctx context.Context, teamID, id uuid.UUID, uid string) error {
	args := m.Called(ctx, teamID, id, uid)
	return args.Error(0)
}

func (m *MockShoppingService) Confirm(ctx context.Context, teamID, id uuid.UUID, uid string) error {
	args := m.Called(ctx, teamID, id, uid)
	return args.Error(0)
}

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) EnsureProfile(ctx context.Context, uid, email, displayName string) (*models.User, error) {
	args := m.Called(ctx, uid, email, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockPinger mocks the database health check
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
