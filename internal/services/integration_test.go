//go:build integration

package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/nastly29/home-organizer/internal/models"
	"github.com/nastly29/home-organizer/internal/services"
	"github.com/nastly29/home-organizer/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func setupTest(t *testing.T) (*testutil.TestDB, *testutil.Fixtures) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	tdb := testutil.SetupTestDB(t)
	return tdb, testutil.NewFixtures(tdb.DB)
}

func kyiv(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Kyiv")
	require.NoError(t, err)
	return loc
}

func TestTeamLifecycle_Integration(t *testing.T) {
	tdb, fixtures := setupTest(t)
	teams := services.NewTeamService(tdb.DB)
	guard := services.NewGuard(tdb.DB)
	ctx := context.Background()

	a := fixtures.CreateUser(t, testutil.WithDisplayName("Anna"))
	b := fixtures.CreateUser(t)

	team, err := teams.Create(ctx, "Home", a.UID)
	require.NoError(t, err)
	assert.Equal(t, 1, team.MembersCount)

	joined, err := teams.Join(ctx, team.ID, b.UID)
	require.NoError(t, err)
	assert.Equal(t, 2, joined.MembersCount)

	again, err := teams.Join(ctx, team.ID, b.UID)
	require.NoError(t, err)
	assert.Equal(t, 2, again.MembersCount)

	m, err := guard.CheckMembership(ctx, team.ID, b.UID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, m.Role)

	assert.ErrorIs(t, teams.Leave(ctx, team.ID, a.UID), services.ErrOwnerCannotLeave)

	require.NoError(t, teams.TransferOwnership(ctx, team.ID, a.UID, b.UID))
	assert.Equal(t, 1, fixtures.CountOwners(t, team.ID))

	assert.ErrorIs(t, teams.RemoveMember(ctx, team.ID, a.UID, b.UID), services.ErrCannotRemoveOwner)
	assert.Equal(t, 1, fixtures.CountOwners(t, team.ID))

	require.NoError(t, teams.Leave(ctx, team.ID, a.UID))

	got, err := teams.GetByID(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, b.UID, got.OwnerID)
	assert.Equal(t, 1, got.MembersCount)

	_, err = guard.CheckMembership(ctx, team.ID, a.UID)
	assert.ErrorIs(t, err, services.ErrNotMember)
	assert.Equal(t, 0, fixtures.CountLinks(t, a.UID))

	members, err := teams.GetMembers(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, models.RoleOwner, members[0].Role)
	assert.Equal(t, b.Email, members[0].Email)
}

func TestTeamJoin_Integration_ConcurrentJoinsKeepCount(t *testing.T) {
	tdb, fixtures := setupTest(t)
	teams := services.NewTeamService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	team, err := teams.Create(ctx, "Dorm", owner.UID)
	require.NoError(t, err)

	const joiners = 8
	var g errgroup.Group
	for i := range joiners {
		uid := fmt.Sprintf("joiner-%d", i)
		g.Go(func() error {
			_, err := teams.Join(ctx, team.ID, uid)
			return err
		})
	}
	require.NoError(t, g.Wait())

	got, err := teams.GetByID(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, joiners+1, got.MembersCount)

	members, err := teams.GetMembers(ctx, team.ID)
	require.NoError(t, err)
	assert.Len(t, members, joiners+1)
}

func TestTeamRemoveMember_Integration(t *testing.T) {
	tdb, fixtures := setupTest(t)
	teams := services.NewTeamService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	member := fixtures.CreateUser(t)
	team, err := teams.Create(ctx, "Home", owner.UID)
	require.NoError(t, err)
	_, err = teams.Join(ctx, team.ID, member.UID)
	require.NoError(t, err)

	assert.ErrorIs(t, teams.RemoveMember(ctx, team.ID, member.UID, owner.UID), services.ErrCannotRemoveOwner)
	assert.ErrorIs(t, teams.RemoveMember(ctx, team.ID, member.UID, member.UID), services.ErrForbidden)
	assert.ErrorIs(t, teams.RemoveMember(ctx, team.ID, owner.UID, owner.UID), services.ErrCannotRemoveSelf)
	require.NoError(t, teams.RemoveMember(ctx, team.ID, owner.UID, member.UID))

	assert.Equal(t, 0, fixtures.CountLinks(t, member.UID))
	got, err := teams.GetByID(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.MembersCount)
}

func TestTeamDelete_Integration_RemovesLinksAndRecords(t *testing.T) {
	tdb, fixtures := setupTest(t)
	teams := services.NewTeamService(tdb.DB)
	tasks := services.NewTaskService(tdb.DB, kyiv(t))
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	member := fixtures.CreateUser(t)
	team, err := teams.Create(ctx, "Home", owner.UID)
	require.NoError(t, err)
	_, err = teams.Join(ctx, team.ID, member.UID)
	require.NoError(t, err)
	_, err = tasks.Create(ctx, team.ID, owner.UID, services.TaskInput{Title: "Dishes", Assignees: []string{member.UID}})
	require.NoError(t, err)

	assert.ErrorIs(t, teams.Delete(ctx, team.ID, member.UID), services.ErrForbidden)
	require.NoError(t, teams.Delete(ctx, team.ID, owner.UID))

	_, err = teams.GetByID(ctx, team.ID)
	assert.ErrorIs(t, err, services.ErrTeamNotFound)
	assert.Equal(t, 0, fixtures.CountLinks(t, owner.UID))
	assert.Equal(t, 0, fixtures.CountLinks(t, member.UID))

	var taskCount int
	require.NoError(t, tdb.DB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE team_id = $1`, team.ID).Scan(&taskCount))
	assert.Zero(t, taskCount)
}

func TestReconcileOrphanLinks_Integration(t *testing.T) {
	tdb, fixtures := setupTest(t)
	teams := services.NewTeamService(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	live, err := teams.Create(ctx, "Live", user.UID)
	require.NoError(t, err)
	fixtures.CreateDanglingLink(t, user.UID)

	listed, err := teams.GetUserTeams(ctx, user.UID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, live.ID, listed[0].ID)

	n, err := teams.ReconcileOrphanLinks(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, fixtures.CountLinks(t, user.UID))
}

func TestTasksAndDashboard_Integration(t *testing.T) {
	tdb, fixtures := setupTest(t)
	loc := kyiv(t)
	teams := services.NewTeamService(tdb.DB)
	tasks := services.NewTaskService(tdb.DB, loc)
	dashboard := services.NewDashboardService(tdb.DB, loc)
	ctx := context.Background()

	a := fixtures.CreateUser(t)
	b := fixtures.CreateUser(t)
	team, err := teams.Create(ctx, "Home", a.UID)
	require.NoError(t, err)
	_, err = teams.Join(ctx, team.ID, b.UID)
	require.NoError(t, err)

	yesterday := time.Now().In(loc).AddDate(0, 0, -1).Format("2006-01-02")
	overdue, err := tasks.Create(ctx, team.ID, a.UID, services.TaskInput{
		Title:     "Pay rent",
		DueDate:   yesterday,
		DueTime:   "10:00",
		Assignees: []string{b.UID},
	})
	require.NoError(t, err)
	require.NotNil(t, overdue.DeadlineAt)

	undated, err := tasks.Create(ctx, team.ID, a.UID, services.TaskInput{Title: "Fix shelf", Assignees: []string{a.UID}})
	require.NoError(t, err)
	assert.Nil(t, undated.DeadlineAt)

	_, err = tasks.Create(ctx, team.ID, a.UID, services.TaskInput{Title: "Mop", Assignees: []string{"uid-stranger"}})
	assert.ErrorIs(t, err, services.ErrAssigneeNotMember)

	listed, err := tasks.List(ctx, team.ID, b.UID, services.FilterOverdue)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, overdue.ID, listed[0].ID)

	listed, err = tasks.List(ctx, team.ID, b.UID, services.FilterAll)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, undated.ID, listed[0].ID)

	_, err = tasks.ToggleComplete(ctx, team.ID, overdue.ID, a.UID)
	assert.ErrorIs(t, err, services.ErrOnlyAssigneeCanToggle)

	done, err := tasks.ToggleComplete(ctx, team.ID, overdue.ID, b.UID)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	require.NotNil(t, done.CompletedBy)
	assert.Equal(t, b.UID, *done.CompletedBy)

	board, err := dashboard.Build(ctx, team.ID, b.UID)
	require.NoError(t, err)
	assert.Zero(t, board.Tasks.OverdueOpen)
	assert.Equal(t, loc.String(), board.Now.Timezone)

	reopened, err := tasks.ToggleComplete(ctx, team.ID, overdue.ID, b.UID)
	require.NoError(t, err)
	assert.False(t, reopened.Completed)
	assert.Nil(t, reopened.CompletedAt)

	board, err = dashboard.Build(ctx, team.ID, b.UID)
	require.NoError(t, err)
	assert.Equal(t, 1, board.Tasks.OverdueOpen)
}

func TestRecords_Integration(t *testing.T) {
	tdb, fixtures := setupTest(t)
	loc := kyiv(t)
	teams := services.NewTeamService(tdb.DB)
	finances := services.NewFinanceService(tdb.DB, loc)
	shopping := services.NewShoppingService(tdb.DB)
	dashboard := services.NewDashboardService(tdb.DB, loc)
	ctx := context.Background()

	a := fixtures.CreateUser(t)
	b := fixtures.CreateUser(t)
	team, err := teams.Create(ctx, "Home", a.UID)
	require.NoError(t, err)
	_, err = teams.Join(ctx, team.ID, b.UID)
	require.NoError(t, err)

	today := time.Now().In(loc).Format("2006-01-02")
	_, err = finances.Create(ctx, team.ID, a.UID, services.FinanceInput{SpenderUID: b.UID, SpentDate: today, Amount: 120.5})
	require.NoError(t, err)
	_, err = finances.Create(ctx, team.ID, a.UID, services.FinanceInput{SpenderUID: a.UID, SpentDate: today, Amount: 79.5})
	require.NoError(t, err)
	_, err = finances.Create(ctx, team.ID, a.UID, services.FinanceInput{SpenderUID: "uid-stranger", SpentDate: today, Amount: 1})
	assert.ErrorIs(t, err, services.ErrSpenderNotMember)

	mine, err := finances.List(ctx, team.ID, b.UID, true)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 120.5, mine[0].Amount)
	assert.ErrorIs(t, finances.Delete(ctx, team.ID, mine[0].ID, a.UID), services.ErrForbidden)

	milk, err := shopping.Create(ctx, team.ID, a.UID, services.ShoppingInput{Title: "Milk"})
	require.NoError(t, err)
	assert.Equal(t, "other", milk.Category)
	_, err = shopping.Create(ctx, team.ID, b.UID, services.ShoppingInput{Title: "Bread", Category: "food"})
	require.NoError(t, err)

	board, err := dashboard.Build(ctx, team.ID, b.UID)
	require.NoError(t, err)
	assert.Equal(t, 2, board.Shopping.OpenCount)
	assert.Equal(t, 200.0, board.Finances.MonthTotal)
	assert.Equal(t, 120.5, board.Finances.MonthMine)

	require.NoError(t, shopping.Confirm(ctx, team.ID, milk.ID, b.UID))
	items, err := shopping.List(ctx, team.ID, "all")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
