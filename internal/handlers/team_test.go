package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/nastly29/home-organizer/internal/models"
	"github.com/nastly29/home-organizer/internal/services"
	"github.com/nastly29/home-organizer/internal/testutil"
	"github.com/nastly29/home-organizer/pkg/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTeamTest(t *testing.T) (*testutil.MockTeamService, *testutil.MockGuard, *testutil.HTTPTestClient, *services.JWTService) {
	t.Helper()
	teamService := new(testutil.MockTeamService)
	guard := new(testutil.MockGuard)
	h := NewTeamHandler(teamService, guard, new(recordingNotifier))

	client, jwtSvc := newClient(t,
		route{http.MethodGet, "/teams", h.List},
		route{http.MethodPost, "/teams", h.Create},
		route{http.MethodPost, "/teams/join", h.Join},
		route{http.MethodGet, "/teams/:id", h.Get},
		route{http.MethodPatch, "/teams/:id", h.Update},
		route{http.MethodDelete, "/teams/:id", h.Delete},
		route{http.MethodGet, "/teams/:id/members", h.Members},
		route{http.MethodDelete, "/teams/:id/members/:uid", h.RemoveMember},
		route{http.MethodPost, "/teams/:id/leave", h.Leave},
		route{http.MethodPost, "/teams/:id/transfer-owner", h.TransferOwner},
		route{http.MethodGet, "/teams/:id/chat-link", h.GetChatLink},
		route{http.MethodPatch, "/teams/:id/chat-link", h.UpdateChatLink},
	)
	return teamService, guard, client, jwtSvc
}

func TestTeamHandler_RequiresAuthentication(t *testing.T) {
	teamService, _, client, _ := setupTeamTest(t)

	rec := client.GET("/teams", nil)

	assertError(t, rec, http.StatusUnauthorized, "UNAUTHENTICATED")
	teamService.AssertNotCalled(t, "GetUserTeams", mock.Anything, mock.Anything)
}

func TestTeamHandler_Create_Success(t *testing.T) {
	teamService, _, client, jwtSvc := setupTeamTest(t)

	team := &models.Team{ID: uuid.New(), Name: "Home", OwnerID: ownerUID, MembersCount: 1}
	teamService.On("Create", mock.Anything, "Home", ownerUID).Return(team, nil)

	rec := client.POST("/teams", dto.CreateTeamRequest{Name: "Home"}, authAs(t, jwtSvc, ownerUID))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp dto.TeamResponse
	testutil.ParseJSON(t, rec, &resp)
	assert.Equal(t, team.ID, resp.Team.ID)
	assert.Equal(t, 1, resp.Team.MembersCount)
	teamService.AssertExpectations(t)
}

func TestTeamHandler_Create_InvalidName(t *testing.T) {
	teamService, _, client, jwtSvc := setupTeamTest(t)

	teamService.On("Create", mock.Anything, "H", ownerUID).Return(nil, services.ErrInvalidName)

	rec := client.POST("/teams", dto.CreateTeamRequest{Name: "H"}, authAs(t, jwtSvc, ownerUID))

	assertError(t, rec, http.StatusBadRequest, "INVALID_NAME")
}

func TestTeamHandler_List(t *testing.T) {
	teamService, _, client, jwtSvc := setupTeamTest(t)

	teams := []models.TeamWithRole{
		{Team: models.Team{ID: uuid.New(), Name: "Home"}, Role: models.RoleOwner},
		{Team: models.Team{ID: uuid.New(), Name: "Office"}, Role: models.RoleMember},
	}
	teamService.On("GetUserTeams", mock.Anything, ownerUID).Return(teams, nil)

	rec := client.GET("/teams", authAs(t, jwtSvc, ownerUID))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.TeamsResponse
	testutil.ParseJSON(t, rec, &resp)
	require.Len(t, resp.Teams, 2)
	assert.Equal(t, models.RoleOwner, resp.Teams[0].Role)
	assert.Equal(t, "Office", resp.Teams[1].Name)
}

func TestTeamHandler_Get_ReturnsMembership(t *testing.T) {
	teamService, guard, client, jwtSvc := setupTeamTest(t)

	teamID := uuid.New()
	guard.AllowMember(teamID, memberUID, models.RoleMember)
	teamService.On("GetByID", mock.Anything, teamID).Return(&models.Team{ID: teamID, Name: "Home", OwnerID: ownerUID}, nil)

	rec := client.GET("/teams/"+teamID.String(), authAs(t, jwtSvc, memberUID))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.TeamDetailResponse
	testutil.ParseJSON(t, rec, &resp)
	assert.Equal(t, "Home", resp.Team.Name)
	assert.Equal(t, models.RoleMember, resp.Membership.Role)
}

func TestTeamHandler_Get_NotMember(t *testing.T) {
	teamService, guard, client, jwtSvc := setupTeamTest(t)

	teamID := uuid.New()
	guard.On("CheckMembership", mock.Anything, teamID, strayUID).Return(nil, services.ErrNotMember)

	rec := client.GET("/teams/"+teamID.String(), authAs(t, jwtSvc, strayUID))

	assertError(t, rec, http.StatusForbidden, "NOT_A_MEMBER")
	teamService.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestTeamHandler_Get_InvalidID(t *testing.T) {
	_, guard, client, jwtSvc := setupTeamTest(t)

	rec := client.GET("/teams/not-a-uuid", authAs(t, jwtSvc, memberUID))

	assertError(t, rec, http.StatusBadRequest, "INVALID_ID")
	guard.AssertNotCalled(t, "CheckMembership", mock.Anything, mock.Anything, mock.Anything)
}

func TestTeamHandler_Members(t *testing.T) {
	teamService, guard, client, jwtSvc := setupTeamTest(t)

	teamID := uuid.New()
	guard.AllowMember(teamID, memberUID, models.RoleMember)
	teamService.On("GetMembers", mock.Anything, teamID).Return([]models.TeamMember{
		{TeamID: teamID, UID: ownerUID, Role: models.RoleOwner, DisplayName: "Anna"},
		{TeamID: teamID, UID: memberUID, Role: models.RoleMember},
	}, nil)

	rec := client.GET("/teams/"+teamID.String()+"/members", authAs(t, jwtSvc, memberUID))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.MembersResponse
	testutil.ParseJSON(t, rec, &resp)
	require.Len(t, resp.Members, 2)
	assert.Equal(t, "Anna", resp.Members[0].DisplayName)
}

func TestTeamHandler_Join_Success(t *testing.T) {
	teamService, _, client, jwtSvc := setupTeamTest(t)

	teamID := uuid.New()
	teamService.On("Join", mock.Anything, teamID, memberUID).
		Return(&models.Team{ID: teamID, Name: "Home", MembersCount: 2}, nil)

	rec := client.POST("/teams/join", dto.JoinTeamRequest{TeamID: teamID}, authAs(t, jwtSvc, memberUID))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp dto.TeamResponse
	testutil.ParseJSON(t, rec, &resp)
	assert.Equal(t, 2, resp.Team.MembersCount)
}

func TestTeamHandler_Join_InvalidBody(t *testing.T) {
	teamService, _, client, jwtSvc := setupTeamTest(t)

	rec := client.POST("/teams/join", map[string]string{"teamId": "nope"}, authAs(t, jwtSvc, memberUID))

	assertError(t, rec, http.StatusBadRequest, "INVALID_BODY")
	teamService.AssertNotCalled(t, "Join", mock.Anything, mock.Anything, mock.Anything)
}

func TestTeamHandler_Join_MissingTeamID(t *testing.T) {
	teamService, _, client, jwtSvc := setupTeamTest(t)

	rec := client.POST("/teams/join", map[string]string{}, authAs(t, jwtSvc, memberUID))

	assertError(t, rec, http.StatusBadRequest, "TEAM_ID_REQUIRED")
	teamService.AssertNotCalled(t, "Join", mock.Anything, mock.Anything, mock.Anything)
}

func TestTeamHandler_Join_TeamNotFound(t *testing.T) {
	teamService, _, client, jwtSvc := setupTeamTest(t)

	teamID := uuid.New()
	teamService.On("Join", mock.Anything, teamID, memberUID).Return(nil, services.ErrTeamNotFound)

	rec := client.POST("/teams/join", dto.JoinTeamRequest{TeamID: teamID}, authAs(t, jwtSvc, memberUID))

	assertError(t, rec, http.StatusNotFound, "TEAM_NOT_FOUND")
}

func TestTeamHandler_Leave(t *testing.T) {
	tests := []struct {
		name   string
		uid    string
		role   models.Role
		err    error
		status int
	}{
		{name: "member leaves", uid: memberUID, role: models.RoleMember, status: http.StatusOK},
		{name: "owner refused", uid: ownerUID, role: models.RoleOwner, err: services.ErrOwnerCannotLeave, status: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			teamService, guard, client, jwtSvc := setupTeamTest(t)

			teamID := uuid.New()
			guard.AllowMember(teamID, tt.uid, tt.role)
			teamService.On("Leave", mock.Anything, teamID, tt.uid).Return(tt.err)

			rec := client.POST("/teams/"+teamID.String()+"/leave", nil, authAs(t, jwtSvc, tt.uid))

			assert.Equal(t, tt.status, rec.Code)
			teamService.AssertExpectations(t)
		})
	}
}

func TestTeamHandler_Leave_NotMember(t *testing.T) {
	teamService, guard, client, jwtSvc := setupTeamTest(t)

	teamID := uuid.New()
	guard.On("CheckMembership", mock.Anything, teamID, strayUID).Return(nil, services.ErrNotMember)

	rec := client.POST("/teams/"+teamID.String()+"/leave", nil, authAs(t, jwtSvc, strayUID))

	assertError(t, rec, http.StatusForbidden, "NOT_A_MEMBER")
	teamService.AssertNotCalled(t, "Leave", mock.Anything, mock.Anything, mock.Anything)
}

func TestTeamHandler_Update_ByMember(t *testing.T) {
	teamService, guard, client, jwtSvc := setupTeamTest(t)

	teamID := uuid.New()
	guard.On("RequireRole", mock.Anything, teamID, memberUID, models.RoleOwner).Return(nil, services.ErrForbidden)

	rec := client.PATCH("/teams/"+teamID.String(), dto.UpdateTeamRequest{Name: "Flat"}, authAs(t, jwtSvc, memberUID))

	assertError(t, rec, http.StatusForbidden, "FORBIDDEN")
	teamService.AssertNotCalled(t, "Rename", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTeamHandler_Update_ByOwner(t *testing.T) {
	teamService, guard, client, jwtSvc := setupTeamTest(t)

	teamID := uuid.New()
	guard.AllowOwner(teamID, ownerUID)
	teamService.On("Rename", mock.Anything, teamID, ownerUID, "Flat").
		Return(&models.Team{ID: teamID, Name: "Flat", OwnerID: ownerUID, MembersCount: 1}, nil)

	rec := client.PATCH("/teams/"+teamID.String(), dto.UpdateTeamRequest{Name: "Flat"}, authAs(t, jwtSvc, ownerUID))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.TeamResponse
	testutil.ParseJSON(t, rec, &resp)
	assert.Equal(t, "Flat", resp.Team.Name)
}

func TestTeamHandler_Delete(t *testing.T) {
	teamService, guard, client, jwtSvc := setupTeamTest(t)

	teamID := uuid.New()
	guard.AllowOwner(teamID, ownerUID)
	teamService.On("Delete", mock.Anything, teamID, ownerUID).Return(nil)

	rec := client.DELETE("/teams/"+teamID.String(), authAs(t, jwtSvc, ownerUID))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.OKResponse
	testutil.ParseJSON(t, rec, &resp)
	assert.True(t, resp.OK)
	teamService.AssertExpectations(t)
}

func TestTeamHandler_TransferOwner(t *testing.T) {
	teamService, guard, client, jwtSvc := setupTeamTest(t)

	teamID := uuid.New()
	guard.AllowOwner(teamID, ownerUID)
	teamService.On("TransferOwnership", mock.Anything, teamID, ownerUID, memberUID).Return(nil)

	rec := client.POST("/teams/"+teamID.String()+"/transfer-owner",
		dto.TransferOwnerRequest{NewOwnerUID: memberUID}, authAs(t, jwtSvc, ownerUID))

	assert.Equal(t, http.StatusOK, rec.Code)
	teamService.AssertExpectations(t)
}

func TestTeamHandler_TransferOwner_NewOwnerNotMember(t *testing.T) {
	teamService, guard, client, jwtSvc := setupTeamTest(t)

	teamID := uuid.New()
	guard.AllowOwner(teamID, ownerUID)
	teamService.On("TransferOwnership", mock.Anything, teamID, ownerUID, strayUID).Return(services.ErrNewOwnerNotMember)

	rec := client.POST("/teams/"+teamID.String()+"/transfer-owner",
		dto.TransferOwnerRequest{NewOwnerUID: strayUID}, authAs(t, jwtSvc, ownerUID))

	assertError(t, rec, http.StatusBadRequest, "NEW_OWNER_NOT_A_MEMBER")
}

func TestTeamHandler_RemoveMember(t *testing.T) {
	teamService, guard, client, jwtSvc := setupTeamTest(t)

	teamID := uuid.New()
	guard.AllowMember(teamID, ownerUID, models.RoleOwner)
	teamService.On("RemoveMember", mock.Anything, teamID, ownerUID, memberUID).Return(nil)

	rec := client.DELETE("/teams/"+teamID.String()+"/members/"+memberUID, authAs(t, jwtSvc, ownerUID))

	assert.Equal(t, http.StatusOK, rec.Code)
	teamService.AssertExpectations(t)
}

func TestTeamHandler_RemoveMember_Self(t *testing.T) {
	teamService, guard, client, jwtSvc := setupTeamTest(t)

	teamID := uuid.New()
	guard.AllowMember(teamID, ownerUID, models.RoleOwner)
	teamService.On("RemoveMember", mock.Anything, teamID, ownerUID, ownerUID).Return(services.ErrCannotRemoveSelf)

	rec := client.DELETE("/teams/"+teamID.String()+"/members/"+ownerUID, authAs(t, jwtSvc, ownerUID))

	assertError(t, rec, http.StatusBadRequest, "CANT_REMOVE_SELF")
}

func TestTeamHandler_ChatLink(t *testing.T) {
	teamService, guard, client, jwtSvc := setupTeamTest(t)

	teamID := uuid.New()
	guard.AllowMember(teamID, memberUID, models.RoleMember)
	guard.AllowOwner(teamID, ownerUID)
	teamService.On("GetChatLink", mock.Anything, teamID).Return("https://t.me/+abc", nil)
	teamService.On("UpdateChatLink", mock.Anything, teamID, ownerUID, " https://t.me/+xyz ").Return("https://t.me/+xyz", nil)

	rec := client.GET("/teams/"+teamID.String()+"/chat-link", authAs(t, jwtSvc, memberUID))
	require.Equal(t, http.StatusOK, rec.Code)
	var got dto.ChatLinkResponse
	testutil.ParseJSON(t, rec, &got)
	assert.Equal(t, "https://t.me/+abc", got.Link)

	rec = client.PATCH("/teams/"+teamID.String()+"/chat-link",
		dto.ChatLinkRequest{Link: " https://t.me/+xyz "}, authAs(t, jwtSvc, ownerUID))
	require.Equal(t, http.StatusOK, rec.Code)
	testutil.ParseJSON(t, rec, &got)
	assert.Equal(t, "https://t.me/+xyz", got.Link)
}

func TestTeamHandler_RemoveMember_FormerOwnerTargetsNewOwner(t *testing.T) {
	teamService, guard, client, jwtSvc := setupTeamTest(t)

	teamID := uuid.New()
	guard.AllowMember(teamID, ownerUID, models.RoleMember)
	teamService.On("RemoveMember", mock.Anything, teamID, ownerUID, memberUID).Return(services.ErrCannotRemoveOwner)

	rec := client.DELETE("/teams/"+teamID.String()+"/members/"+memberUID, authAs(t, jwtSvc, ownerUID))

	assertError(t, rec, http.StatusConflict, "CANT_REMOVE_OWNER")
}

func TestTeamHandler_TransferOwner_MissingNewOwner(t *testing.T) {
	teamService, guard, client, jwtSvc := setupTeamTest(t)

	teamID := uuid.New()
	guard.AllowOwner(teamID, ownerUID)

	rec := client.POST("/teams/"+teamID.String()+"/transfer-owner",
		dto.TransferOwnerRequest{NewOwnerUID: "  "}, authAs(t, jwtSvc, ownerUID))

	assertError(t, rec, http.StatusBadRequest, "NEW_OWNER_UID_REQUIRED")
	teamService.AssertNotCalled(t, "TransferOwnership", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
