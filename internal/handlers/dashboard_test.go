package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/nastly29/home-organizer/internal/models"
	"github.com/nastly29/home-organizer/internal/services"
	"github.com/nastly29/home-organizer/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupDashboardTest(t *testing.T) (*testutil.MockDashboardService, *testutil.MockGuard, *testutil.HTTPTestClient, *services.JWTService) {
	t.Helper()
	dashboardService := new(testutil.MockDashboardService)
	guard := new(testutil.MockGuard)
	h := NewDashboardHandler(dashboardService, guard)

	client, jwtSvc := newClient(t, route{http.MethodGet, "/teams/:id/dashboard", h.Get})
	return dashboardService, guard, client, jwtSvc
}

func TestDashboardHandler_Get(t *testing.T) {
	dashboardService, guard, client, jwtSvc := setupDashboardTest(t)

	teamID := uuid.New()
	guard.AllowMember(teamID, memberUID, models.RoleMember)
	dashboardService.On("Build", mock.Anything, teamID, memberUID).Return(&models.Dashboard{
		Now:      models.DashboardWindow{Today: "2024-03-10", WeekStart: "2024-03-04", WeekEnd: "2024-03-10", Month: "2024-03"},
		Tasks:    models.TaskSummary{WeekOpenTotal: 3, WeekOpenMine: 1, OverdueOpen: 2},
		Shopping: models.ShoppingSummary{OpenCount: 4},
		Finances: models.FinanceSummary{MonthTotal: 200, MonthMine: 120.5},
		Events:   models.EventSummary{WeekCount: 1, TodayTitles: []string{"Dinner"}},
	}, nil)

	rec := client.GET("/teams/"+teamID.String()+"/dashboard", authAs(t, jwtSvc, memberUID))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp models.Dashboard
	testutil.ParseJSON(t, rec, &resp)
	assert.Equal(t, "2024-03-04", resp.Now.WeekStart)
	assert.Equal(t, 2, resp.Tasks.OverdueOpen)
	assert.Equal(t, 120.5, resp.Finances.MonthMine)
	assert.Equal(t, []string{"Dinner"}, resp.Events.TodayTitles)
}

func TestDashboardHandler_Get_NotMember(t *testing.T) {
	dashboardService, guard, client, jwtSvc := setupDashboardTest(t)

	teamID := uuid.New()
	guard.On("CheckMembership", mock.Anything, teamID, strayUID).Return(nil, services.ErrNotMember)

	rec := client.GET("/teams/"+teamID.String()+"/dashboard", authAs(t, jwtSvc, strayUID))

	assertError(t, rec, http.StatusForbidden, "NOT_A_MEMBER")
	dashboardService.AssertNotCalled(t, "Build", mock.Anything, mock.Anything, mock.Anything)
}

func TestDashboardHandler_Get_SourceFailure(t *testing.T) {
	dashboardService, guard, client, jwtSvc := setupDashboardTest(t)

	teamID := uuid.New()
	guard.AllowMember(teamID, memberUID, models.RoleMember)
	dashboardService.On("Build", mock.Anything, teamID, memberUID).Return(nil, errors.New("events scan failed"))

	rec := client.GET("/teams/"+teamID.String()+"/dashboard", authAs(t, jwtSvc, memberUID))

	assertError(t, rec, http.StatusInternalServerError, "INTERNAL_ERROR")
}
