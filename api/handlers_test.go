/*
handlers_test.go - HTTP-level tests against the in-memory store

CORE DESIGN:
- Every request carries the acting user via X-User-ID
- Domain errors surface as 400/403/404; visibility shrinks collections
- used_hours on projects and tasks follows the activity log
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaliko05/time-flow-sub000/tracking"
	"github.com/Jaliko05/time-flow-sub000/tracking/store"
)

func newTestServer(t *testing.T) (*httptest.Server, tracking.Store) {
	t.Helper()
	mem := store.NewMemory()
	require.NoError(t, SeedDemo(context.Background(), mem))
	srv := httptest.NewServer(NewRouter(NewHandler(mem), []string{"*"}))
	t.Cleanup(srv.Close)
	return srv, mem
}

func doRequest(t *testing.T, method, url, actor string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if actor != "" {
		req.Header.Set("X-User-ID", actor)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// =============================================================================
// ACTING USER
// =============================================================================

func TestMissingActingUser_Unauthorized(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/projects", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUnknownActingUser_Unauthorized(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/projects", "ghost", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// =============================================================================
// VISIBILITY
// =============================================================================

func TestListProjects_ScopedByRole(t *testing.T) {
	// GIVEN: The demo data (3 projects; the dev is assigned to 2)
	// WHEN: Listing as superadmin vs. the regular dev
	// THEN: Superadmin sees all three, the dev only their own

	srv, _ := newTestServer(t)

	all := decode[[]ProjectDTO](t, doRequest(t, http.MethodGet, srv.URL+"/api/projects", DemoSuperAdminID, nil))
	assert.Len(t, all, 3)

	mine := decode[[]ProjectDTO](t, doRequest(t, http.MethodGet, srv.URL+"/api/projects", DemoUserID, nil))
	assert.Len(t, mine, 2)
	for _, p := range mine {
		assert.NotEqual(t, "project-backlog", p.ID, "unassigned foreign project must be hidden")
	}
}

func TestListUsers_RegularUserSeesSelf(t *testing.T) {
	srv, _ := newTestServer(t)

	users := decode[[]UserDTO](t, doRequest(t, http.MethodGet, srv.URL+"/api/users", DemoUserID, nil))
	require.Len(t, users, 1)
	assert.Equal(t, DemoUserID, users[0].ID)
}

// =============================================================================
// ACTIVITIES AND USED-HOURS MAINTENANCE
// =============================================================================

func TestCreateActivity_RecomputesUsedHours(t *testing.T) {
	// GIVEN: The demo project with 18.5 used hours from seeded activities
	// WHEN: Logging 2 more hours against it
	// THEN: used_hours is re-derived from the full activity log

	srv, mem := newTestServer(t)

	projectID := "project-portal"
	before, err := mem.GetProject(context.Background(), tracking.ProjectID(projectID))
	require.NoError(t, err)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/activities", DemoUserID, CreateActivityRequest{
		Name:          "Revisión de código",
		ActivityType:  string(tracking.ActivityTypePlanDeTrabajo),
		ExecutionTime: 2,
		Date:          tracking.Today().String(),
		ProjectID:     &projectID,
		Observations:  "revisión del PR",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	after, err := mem.GetProject(context.Background(), tracking.ProjectID(projectID))
	require.NoError(t, err)

	pid := after.ID
	activities, err := mem.ListActivities(context.Background(), tracking.ActivityFilter{ProjectID: &pid})
	require.NoError(t, err)
	assert.True(t, after.UsedHours.Equal(tracking.SumHours(activities)),
		"used hours %s must equal the activity-log sum %s", after.UsedHours, tracking.SumHours(activities))
	assert.True(t, after.UsedHours.GreaterThan(before.UsedHours))
}

func TestCreateActivity_ValidationErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	today := tracking.Today().String()

	cases := []struct {
		name string
		req  CreateActivityRequest
	}{
		{"zero execution time", CreateActivityRequest{
			Name: "x", ActivityType: "interno", ExecutionTime: 0, Date: today,
		}},
		{"unknown type", CreateActivityRequest{
			Name: "x", ActivityType: "mystery", ExecutionTime: 1, Date: today,
		}},
		{"support without other area", CreateActivityRequest{
			Name: "x", ActivityType: "apoyo_solicitado_por_otras_areas", ExecutionTime: 1, Date: today,
		}},
	}
	for _, c := range cases {
		resp := doRequest(t, http.MethodPost, srv.URL+"/api/activities", DemoUserID, c.req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, c.name)
		resp.Body.Close()
	}
}

func TestCreateActivity_ForAnotherUser_Forbidden(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/activities", DemoUserID, CreateActivityRequest{
		UserID: DemoAdminID, Name: "x", ActivityType: "interno",
		ExecutionTime: 1, Date: tracking.Today().String(),
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDeleteActivity_RecomputesUsedHours(t *testing.T) {
	srv, mem := newTestServer(t)

	// act-3 is the 6h entry against project-portal.
	resp := doRequest(t, http.MethodDelete, srv.URL+"/api/activities/act-3", DemoUserID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	project, err := mem.GetProject(context.Background(), "project-portal")
	require.NoError(t, err)
	assert.True(t, project.UsedHours.Equal(tracking.NewHours(12.5)),
		"used hours = %s, want 12.5 after removing the 6h entry", project.UsedHours)
}

// =============================================================================
// STATUS TRANSITIONS
// =============================================================================

func TestUpdateProjectStatus_FreeGraph(t *testing.T) {
	srv, _ := newTestServer(t)
	url := srv.URL + "/api/projects/project-portal/status"

	// Completed reopens: in_progress -> completed -> in_progress.
	resp := doRequest(t, http.MethodPost, url, DemoAdminID, StatusUpdateRequest{Status: "completed"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, http.MethodPost, url, DemoAdminID, StatusUpdateRequest{Status: "in_progress"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, http.MethodPost, url, DemoAdminID, StatusUpdateRequest{Status: "archived"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "unknown status is a client error")
	resp.Body.Close()
}

func TestUpdateProjectStatus_StrangerForbidden(t *testing.T) {
	srv, mem := newTestServer(t)

	// A user with no area and no stake in the project.
	require.NoError(t, mem.SaveUser(context.Background(), tracking.User{
		ID: "stranger", Email: "s@example.com", FullName: "Stranger",
		Role: tracking.RoleUser, IsActive: true, CreatedAt: time.Now().UTC(),
	}))

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/projects/project-portal/status",
		"stranger", StatusUpdateRequest{Status: "paused"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestProcessActivityStatus_DependencyGate(t *testing.T) {
	// GIVEN: The demo chain build(completed) <- test(in_progress) <- deploy(pending)
	// WHEN: Moving deploy to in_progress
	// THEN: 400 while test is unfinished; completing test unblocks deploy

	srv, _ := newTestServer(t)
	deployURL := srv.URL + "/api/process-activities/pa-deploy/status"

	resp := doRequest(t, http.MethodPost, deployURL, DemoUserID, StatusUpdateRequest{Status: "in_progress"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, http.MethodPost, srv.URL+"/api/process-activities/pa-test/status",
		DemoUserID, StatusUpdateRequest{Status: "completed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, http.MethodPost, deployURL, DemoUserID, StatusUpdateRequest{Status: "in_progress"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestCanStartEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	blocked := decode[CanStartDTO](t, doRequest(t, http.MethodGet,
		srv.URL+"/api/process-activities/pa-deploy/can-start", DemoUserID, nil))
	assert.False(t, blocked.CanStart)
	assert.Equal(t, "pa-test", blocked.Blocker)

	free := decode[CanStartDTO](t, doRequest(t, http.MethodGet,
		srv.URL+"/api/process-activities/pa-test/can-start", DemoUserID, nil))
	assert.True(t, free.CanStart)
}

func TestDependencyChainEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	chain := decode[[]string](t, doRequest(t, http.MethodGet,
		srv.URL+"/api/process-activities/pa-deploy/chain", DemoUserID, nil))
	assert.Equal(t, []string{"pa-build", "pa-test", "pa-deploy"}, chain)
}

func TestCreateProcessActivity(t *testing.T) {
	srv, _ := newTestServer(t)
	url := srv.URL + "/api/processes/process-release/activities"

	resp := doRequest(t, http.MethodPost, url, DemoAdminID, CreateProcessActivityRequest{
		Name: "Notificar al equipo", AssignedUserID: DemoUserID, EstimatedHours: 1,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	missing := "pa-missing"
	resp = doRequest(t, http.MethodPost, url, DemoAdminID, CreateProcessActivityRequest{
		Name: "x", AssignedUserID: DemoUserID, DependsOnID: &missing,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "dependency must exist")
	resp.Body.Close()
}

// =============================================================================
// DAILY GOAL
// =============================================================================

func TestDailyGoalEndpoint(t *testing.T) {
	// GIVEN: The demo dev's schedule and their seeded activities for today
	// WHEN: Fetching the daily goal
	// THEN: Expected and logged match the schedule and the activity log

	srv, mem := newTestServer(t)

	day := tracking.Today()
	userID := tracking.UserID(DemoUserID)
	activities, err := mem.ListActivities(context.Background(), tracking.ActivityFilter{
		UserID: &userID, DateFrom: &day, DateTo: &day,
	})
	require.NoError(t, err)
	logged := tracking.SumHours(activities)

	user, err := mem.GetUser(context.Background(), userID)
	require.NoError(t, err)
	expected, err := tracking.ExpectedHours(*user, day)
	require.NoError(t, err)

	url := fmt.Sprintf("%s/api/users/%s/daily-goal?date=%s", srv.URL, DemoUserID, day)
	goal := decode[DailyGoalDTO](t, doRequest(t, http.MethodGet, url, DemoUserID, nil))

	assert.Equal(t, day.String(), goal.Date)
	assert.InDelta(t, logged.Float64(), goal.Logged, 0.001)
	assert.InDelta(t, expected.Float64(), goal.Expected, 0.001)
	assert.NotEmpty(t, goal.Message)
}

func TestDailyGoal_BadDate(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet,
		srv.URL+"/api/users/"+DemoUserID+"/daily-goal?date=not-a-date", DemoUserID, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// REPORTS
// =============================================================================

func TestOverview_SuperadminVsUser(t *testing.T) {
	srv, _ := newTestServer(t)

	all := decode[OverviewDTO](t, doRequest(t, http.MethodGet, srv.URL+"/api/reports/overview", DemoSuperAdminID, nil))
	assert.Equal(t, 3, all.TotalUsers)
	assert.Equal(t, 3, all.TotalProjects)
	assert.Equal(t, 1, all.ActiveProjects)
	assert.Equal(t, 6, all.TotalActivities)

	own := decode[OverviewDTO](t, doRequest(t, http.MethodGet, srv.URL+"/api/reports/overview", DemoUserID, nil))
	assert.Equal(t, 1, own.TotalUsers)
	assert.Equal(t, 2, own.TotalProjects)
	assert.Equal(t, 6, own.TotalActivities, "all seeded activities belong to the dev")
}

func TestProjectReport_UnclampedPercentClampedWidth(t *testing.T) {
	// GIVEN: A project pushed over budget
	// WHEN: Fetching the project report
	// THEN: completion_percent > 100 while progress_width caps at 100

	srv, mem := newTestServer(t)

	project, err := mem.GetProject(context.Background(), "project-portal")
	require.NoError(t, err)
	project.EstimatedHours = tracking.NewHours(10) // used is 18.5
	require.NoError(t, mem.SaveProject(context.Background(), *project))

	rows := decode[[]ProjectSummaryDTO](t, doRequest(t, http.MethodGet,
		srv.URL+"/api/reports/projects", DemoAdminID, nil))

	var found bool
	for _, row := range rows {
		if row.ProjectID == "project-portal" {
			found = true
			assert.Greater(t, row.CompletionPercent, 100.0)
			assert.Equal(t, 100.0, row.ProgressWidth)
			assert.Less(t, row.RemainingHours, 0.0, "remaining stays signed")
		}
	}
	require.True(t, found, "project-portal missing from report")
}

// =============================================================================
// TASK GATES
// =============================================================================

func TestCreateActivity_AgainstNonRegistrableTask(t *testing.T) {
	srv, mem := newTestServer(t)

	task, err := mem.GetTask(context.Background(), "task-login")
	require.NoError(t, err)
	task.Status = tracking.TaskStatusPaused
	require.NoError(t, mem.SaveTask(context.Background(), *task))

	taskID := "task-login"
	projectID := "project-portal"
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/activities", DemoUserID, CreateActivityRequest{
		Name: "x", ActivityType: "interno", ExecutionTime: 1,
		Date: tracking.Today().String(), ProjectID: &projectID, TaskID: &taskID,
		Observations: "obs",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateTask_ReassignmentGate(t *testing.T) {
	srv, _ := newTestServer(t)

	// task-login is in_progress, which does not accept assignment.
	admin := DemoAdminID
	resp := doRequest(t, http.MethodPut, srv.URL+"/api/tasks/task-login", DemoAdminID, UpdateTaskRequest{
		AssignedUserID: &admin,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
