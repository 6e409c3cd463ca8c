/*
handlers.go - HTTP API handlers for the time-tracking system

PURPOSE:
  Exposes the tracking engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Activities:
    GET    /api/activities             List (filters: user_id, project_id, ...)
    POST   /api/activities             Log an activity
    GET    /api/activities/{id}        Get activity
    PUT    /api/activities/{id}        Update activity (date/user immutable)
    DELETE /api/activities/{id}        Delete activity

  Projects / Tasks / Processes:
    CRUD plus POST .../{id}/status for board moves

  Process activities:
    GET  /api/processes/{id}/activities
    POST /api/processes/{id}/activities
    POST /api/process-activities/{id}/status
    GET  /api/process-activities/{id}/can-start
    GET  /api/process-activities/{id}/blocked
    GET  /api/process-activities/{id}/chain

  Users / Areas / Reports:
    GET /api/users/{id}/daily-goal?date=YYYY-MM-DD
    GET /api/reports/overview|users|projects  (role-scoped)

REQUEST FLOW:
  1. Resolve the acting user from the X-User-ID header
  2. Parse and validate input
  3. Fetch raw records, apply the visibility scope
  4. Run the pure computation
  5. Serialize the view model

USED-HOURS MAINTENANCE:
  Whenever an activity linked to a project or task is created, updated, or
  deleted, the owning entity's used_hours is recomputed as the sum of all
  execution time logged against it. This happens HERE, at the edit
  boundary, never inside the computation core.

ERROR HANDLING:
  Domain errors map onto HTTP statuses:
  - 400: validation errors, illegal statuses, unmet dependencies
  - 401: missing or unknown acting user
  - 403: actor lacks edit rights
  - 404: record not found
  - 500: storage errors

SECURITY NOTE:
  The X-User-ID header is demo-grade identification, not authentication.

SEE ALSO:
  - dto.go: request/response data structures
  - server.go: router setup and middleware
  - tracking/visibility.go: the scope applied before every aggregate
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Jaliko05/time-flow-sub000/tracking"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store tracking.Store
}

// NewHandler creates a new handler with the given store.
func NewHandler(store tracking.Store) *Handler {
	return &Handler{Store: store}
}

// actingUser resolves the acting user from the X-User-ID header.
func (h *Handler) actingUser(r *http.Request) (*tracking.User, error) {
	id := r.Header.Get("X-User-ID")
	if id == "" {
		return nil, nil
	}
	return h.Store.GetUser(r.Context(), tracking.UserID(id))
}

// requireActor resolves the acting user or writes a 401.
func (h *Handler) requireActor(w http.ResponseWriter, r *http.Request) (*tracking.User, bool) {
	actor, err := h.actingUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unknown acting user", err)
		return nil, false
	}
	if actor == nil {
		writeError(w, http.StatusUnauthorized, "X-User-ID header required", nil)
		return nil, false
	}
	return actor, true
}

// =============================================================================
// ACTIVITY HANDLERS
// =============================================================================

// ListActivities returns activities visible to the actor, narrowed by
// query filters.
func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	filter, err := activityFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter", err)
		return
	}

	activities, err := h.Store.ListActivities(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list activities", err)
		return
	}

	scoped := tracking.ScopeFor(*actor).Activities(activities)
	writeJSON(w, http.StatusOK, toActivityDTOs(scoped))
}

func activityFilterFromQuery(r *http.Request) (tracking.ActivityFilter, error) {
	q := r.URL.Query()
	var f tracking.ActivityFilter
	if v := q.Get("user_id"); v != "" {
		id := tracking.UserID(v)
		f.UserID = &id
	}
	if v := q.Get("area_id"); v != "" {
		id := tracking.AreaID(v)
		f.AreaID = &id
	}
	if v := q.Get("project_id"); v != "" {
		id := tracking.ProjectID(v)
		f.ProjectID = &id
	}
	if v := q.Get("task_id"); v != "" {
		id := tracking.TaskID(v)
		f.TaskID = &id
	}
	if v := q.Get("type"); v != "" {
		t := tracking.ActivityType(v)
		f.Type = &t
	}
	if v := q.Get("month"); v != "" {
		f.Month = &v
	}
	if v := q.Get("from"); v != "" {
		d, err := tracking.ParseDay(v)
		if err != nil {
			return f, err
		}
		f.DateFrom = &d
	}
	if v := q.Get("to"); v != "" {
		d, err := tracking.ParseDay(v)
		if err != nil {
			return f, err
		}
		f.DateTo = &d
	}
	return f, nil
}

// CreateActivity logs a new activity and recomputes the used hours of the
// linked project and task.
func (h *Handler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	var req CreateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := tracking.ParseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	userID := tracking.UserID(req.UserID)
	if userID == "" {
		userID = actor.ID
	}
	if userID != actor.ID && actor.Role == tracking.RoleUser {
		writeError(w, http.StatusForbidden, "Cannot log activities for another user", nil)
		return
	}

	activity := tracking.Activity{
		ID:            tracking.ActivityID(uuid.NewString()),
		UserID:        userID,
		Name:          req.Name,
		Type:          tracking.ActivityType(req.ActivityType),
		ExecutionTime: tracking.NewHours(req.ExecutionTime),
		OtherArea:     req.OtherArea,
		Observations:  req.Observations,
		CreatedAt:     time.Now().UTC(),
	}
	activity.SetDate(date)
	if req.AreaID != nil {
		id := tracking.AreaID(*req.AreaID)
		activity.AreaID = &id
	} else {
		activity.AreaID = actor.AreaID
	}
	if req.ProjectID != nil {
		id := tracking.ProjectID(*req.ProjectID)
		activity.ProjectID = &id
	}
	if req.TaskID != nil {
		id := tracking.TaskID(*req.TaskID)
		activity.TaskID = &id
	}

	if err := activity.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	if activity.TaskID != nil {
		task, err := h.Store.GetTask(r.Context(), *activity.TaskID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if !task.CanRegisterActivity() {
			writeDomainError(w, &tracking.ValidationError{
				Field:  "task_id",
				Reason: "task status does not accept activity registration",
			})
			return
		}
	}

	if err := h.Store.SaveActivity(r.Context(), activity); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save activity", err)
		return
	}
	if err := h.recomputeUsedHours(r, activity.ProjectID, activity.TaskID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update used hours", err)
		return
	}

	writeJSON(w, http.StatusCreated, toActivityDTO(activity))
}

// GetActivity returns a single activity if the actor may see it.
func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	activity, err := h.Store.GetActivity(r.Context(), tracking.ActivityID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if len(tracking.ScopeFor(*actor).Activities([]tracking.Activity{*activity})) == 0 {
		writeDomainError(w, tracking.ErrPermissionDenied)
		return
	}

	writeJSON(w, http.StatusOK, toActivityDTO(*activity))
}

// UpdateActivity updates an activity's mutable fields. Date and user are
// immutable after creation.
func (h *Handler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	activity, err := h.Store.GetActivity(r.Context(), tracking.ActivityID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if len(tracking.ScopeFor(*actor).Activities([]tracking.Activity{*activity})) == 0 {
		writeDomainError(w, tracking.ErrPermissionDenied)
		return
	}

	var req UpdateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.Name != nil {
		activity.Name = *req.Name
	}
	if req.ActivityType != nil {
		activity.Type = tracking.ActivityType(*req.ActivityType)
	}
	if req.ExecutionTime != nil {
		activity.ExecutionTime = tracking.NewHours(*req.ExecutionTime)
	}
	if req.OtherArea != nil {
		activity.OtherArea = *req.OtherArea
	}
	if req.Observations != nil {
		activity.Observations = *req.Observations
	}

	if err := activity.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.Store.SaveActivity(r.Context(), *activity); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save activity", err)
		return
	}
	if err := h.recomputeUsedHours(r, activity.ProjectID, activity.TaskID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update used hours", err)
		return
	}

	writeJSON(w, http.StatusOK, toActivityDTO(*activity))
}

// DeleteActivity deletes an activity and recomputes the owner's used hours.
func (h *Handler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	activity, err := h.Store.GetActivity(r.Context(), tracking.ActivityID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if len(tracking.ScopeFor(*actor).Activities([]tracking.Activity{*activity})) == 0 {
		writeDomainError(w, tracking.ErrPermissionDenied)
		return
	}

	if err := h.Store.DeleteActivity(r.Context(), activity.ID); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.recomputeUsedHours(r, activity.ProjectID, activity.TaskID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update used hours", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// recomputeUsedHours re-derives a project's and task's used hours from the
// activity log after an activity changed.
func (h *Handler) recomputeUsedHours(r *http.Request, projectID *tracking.ProjectID, taskID *tracking.TaskID) error {
	ctx := r.Context()
	if projectID != nil {
		activities, err := h.Store.ListActivities(ctx, tracking.ActivityFilter{ProjectID: projectID})
		if err != nil {
			return err
		}
		project, err := h.Store.GetProject(ctx, *projectID)
		if err != nil {
			return err
		}
		project.UsedHours = tracking.SumHours(activities)
		if err := h.Store.SaveProject(ctx, *project); err != nil {
			return err
		}
	}
	if taskID != nil {
		activities, err := h.Store.ListActivities(ctx, tracking.ActivityFilter{TaskID: taskID})
		if err != nil {
			return err
		}
		task, err := h.Store.GetTask(ctx, *taskID)
		if err != nil {
			return err
		}
		task.UsedHours = tracking.SumHours(activities)
		if err := h.Store.SaveTask(ctx, *task); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// PROJECT HANDLERS
// =============================================================================

// ListProjects returns projects visible to the actor.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	projects, err := h.Store.ListProjects(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list projects", err)
		return
	}

	scoped := tracking.ScopeFor(*actor).Projects(projects)
	writeJSON(w, http.StatusOK, toProjectDTOs(scoped))
}

// CreateProject creates a project. A project born with an assignee starts
// assigned; otherwise it starts unassigned.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	project := tracking.Project{
		ID:             tracking.ProjectID(uuid.NewString()),
		Name:           req.Name,
		Description:    req.Description,
		Status:         tracking.ProjectStatus(tracking.InitialStatus(tracking.KindProject)),
		Priority:       tracking.PriorityMedium,
		Type:           tracking.ProjectTypePersonal,
		CreatedBy:      actor.ID,
		EstimatedHours: tracking.NewHours(req.EstimatedHours),
		UsedHours:      tracking.ZeroHours(),
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
	if req.Priority != "" {
		project.Priority = tracking.Priority(req.Priority)
	}
	if req.ProjectType != "" {
		project.Type = tracking.ProjectType(req.ProjectType)
	}
	if req.AreaID != nil {
		id := tracking.AreaID(*req.AreaID)
		project.AreaID = &id
	} else {
		project.AreaID = actor.AreaID
	}
	if req.AssignedUserID != nil {
		id := tracking.UserID(*req.AssignedUserID)
		project.AssignedUserID = &id
		project.Status = tracking.ProjectStatusAssigned
	}
	if req.DueDate != nil {
		d, err := tracking.ParseDay(*req.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid due_date format (use YYYY-MM-DD)", err)
			return
		}
		project.DueDate = &d
	}

	if err := h.Store.SaveProject(r.Context(), project); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create project", err)
		return
	}

	writeJSON(w, http.StatusCreated, toProjectDTO(project))
}

// GetProject returns a single project if the actor may see it.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	project, err := h.Store.GetProject(r.Context(), tracking.ProjectID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if len(tracking.ScopeFor(*actor).Projects([]tracking.Project{*project})) == 0 {
		writeDomainError(w, tracking.ErrPermissionDenied)
		return
	}

	writeJSON(w, http.StatusOK, toProjectDTO(*project))
}

// UpdateProject updates a project's editable fields.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	project, err := h.Store.GetProject(r.Context(), tracking.ProjectID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !tracking.CanEdit(*actor, *project) {
		writeDomainError(w, tracking.ErrPermissionDenied)
		return
	}

	var req UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Priority != nil {
		project.Priority = tracking.Priority(*req.Priority)
	}
	if req.AreaID != nil {
		id := tracking.AreaID(*req.AreaID)
		project.AreaID = &id
	}
	if req.AssignedUserID != nil {
		id := tracking.UserID(*req.AssignedUserID)
		project.AssignedUserID = &id
		if project.Status == tracking.ProjectStatusUnassigned {
			project.Status = tracking.ProjectStatusAssigned
		}
	}
	if req.EstimatedHours != nil {
		project.EstimatedHours = tracking.NewHours(*req.EstimatedHours)
	}
	if req.DueDate != nil {
		d, err := tracking.ParseDay(*req.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid due_date format (use YYYY-MM-DD)", err)
			return
		}
		project.DueDate = &d
	}
	if req.IsActive != nil {
		project.IsActive = *req.IsActive
	}

	if err := h.Store.SaveProject(r.Context(), *project); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save project", err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectDTO(*project))
}

// DeleteProject deletes a project.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	project, err := h.Store.GetProject(r.Context(), tracking.ProjectID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !tracking.CanEdit(*actor, *project) {
		writeDomainError(w, tracking.ErrPermissionDenied)
		return
	}

	if err := h.Store.DeleteProject(r.Context(), project.ID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateProjectStatus moves a project on the board.
func (h *Handler) UpdateProjectStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	project, err := h.Store.GetProject(r.Context(), tracking.ProjectID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := tracking.CanTransition(*actor, *project, req.Status); err != nil {
		writeDomainError(w, err)
		return
	}

	project.Status = tracking.ProjectStatus(req.Status)
	if err := h.Store.SaveProject(r.Context(), *project); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save project", err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectDTO(*project))
}

// =============================================================================
// TASK HANDLERS
// =============================================================================

// ListTasks returns tasks visible to the actor, optionally narrowed to a
// project.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	var projectID *tracking.ProjectID
	if v := r.URL.Query().Get("project_id"); v != "" {
		id := tracking.ProjectID(v)
		projectID = &id
	}

	tasks, err := h.Store.ListTasks(r.Context(), projectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}
	projects, err := h.Store.ListProjects(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list projects", err)
		return
	}

	scoped := tracking.ScopeFor(*actor).Tasks(tasks, projects)
	writeJSON(w, http.StatusOK, toTaskDTOs(scoped))
}

// CreateTask creates a task under a project.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" || req.ProjectID == "" {
		writeError(w, http.StatusBadRequest, "name and project_id are required", nil)
		return
	}
	if _, err := h.Store.GetProject(r.Context(), tracking.ProjectID(req.ProjectID)); err != nil {
		writeDomainError(w, err)
		return
	}

	task := tracking.Task{
		ID:             tracking.TaskID(uuid.NewString()),
		ProjectID:      tracking.ProjectID(req.ProjectID),
		Name:           req.Name,
		Description:    req.Description,
		Status:         tracking.TaskStatus(tracking.InitialStatus(tracking.KindTask)),
		Priority:       tracking.PriorityMedium,
		CreatedBy:      actor.ID,
		EstimatedHours: tracking.NewHours(req.EstimatedHours),
		UsedHours:      tracking.ZeroHours(),
		CreatedAt:      time.Now().UTC(),
	}
	if req.Priority != "" {
		task.Priority = tracking.Priority(req.Priority)
	}
	if req.AssignedUserID != nil {
		id := tracking.UserID(*req.AssignedUserID)
		task.AssignedUserID = &id
		task.Status = tracking.TaskStatusAssigned
	}
	if req.DueDate != nil {
		d, err := tracking.ParseDay(*req.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid due_date format (use YYYY-MM-DD)", err)
			return
		}
		task.DueDate = &d
	}

	if err := h.Store.SaveTask(r.Context(), task); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create task", err)
		return
	}

	writeJSON(w, http.StatusCreated, toTaskDTO(task))
}

// GetTask returns a single task.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireActor(w, r); !ok {
		return
	}

	task, err := h.Store.GetTask(r.Context(), tracking.TaskID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskDTO(*task))
}

// UpdateTask updates a task's editable fields. Reassignment is only
// accepted while the task is in an assignable state.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	task, err := h.Store.GetTask(r.Context(), tracking.TaskID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !tracking.CanEdit(*actor, *task) {
		writeDomainError(w, tracking.ErrPermissionDenied)
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.AssignedUserID != nil && !task.CanBeAssigned() {
		writeDomainError(w, &tracking.ValidationError{
			Field:  "assigned_user_id",
			Reason: "task status does not accept assignment",
		})
		return
	}

	if req.Name != nil {
		task.Name = *req.Name
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		task.Priority = tracking.Priority(*req.Priority)
	}
	if req.AssignedUserID != nil {
		id := tracking.UserID(*req.AssignedUserID)
		task.AssignedUserID = &id
		task.Status = tracking.TaskStatusAssigned
	}
	if req.EstimatedHours != nil {
		task.EstimatedHours = tracking.NewHours(*req.EstimatedHours)
	}
	if req.DueDate != nil {
		d, err := tracking.ParseDay(*req.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid due_date format (use YYYY-MM-DD)", err)
			return
		}
		task.DueDate = &d
	}

	if err := h.Store.SaveTask(r.Context(), *task); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save task", err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskDTO(*task))
}

// UpdateTaskStatus moves a task on the board.
func (h *Handler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	task, err := h.Store.GetTask(r.Context(), tracking.TaskID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := tracking.CanTransition(*actor, *task, req.Status); err != nil {
		writeDomainError(w, err)
		return
	}

	task.Status = tracking.TaskStatus(req.Status)
	if err := h.Store.SaveTask(r.Context(), *task); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save task", err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskDTO(*task))
}

// =============================================================================
// PROCESS HANDLERS
// =============================================================================

// ListProcesses returns processes visible to the actor.
func (h *Handler) ListProcesses(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	processes, err := h.Store.ListProcesses(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list processes", err)
		return
	}

	scoped := tracking.ScopeFor(*actor).Processes(processes)
	writeJSON(w, http.StatusOK, toProcessDTOs(scoped))
}

// CreateProcess creates a process.
func (h *Handler) CreateProcess(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	var req CreateProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	process := tracking.Process{
		ID:             tracking.ProcessID(uuid.NewString()),
		Name:           req.Name,
		Description:    req.Description,
		Status:         tracking.ProcessStatus(tracking.InitialStatus(tracking.KindProcess)),
		RequirementID:  req.RequirementID,
		IncidentID:     req.IncidentID,
		CreatedBy:      actor.ID,
		EstimatedHours: tracking.NewHours(req.EstimatedHours),
		UsedHours:      tracking.ZeroHours(),
		CreatedAt:      time.Now().UTC(),
	}
	if req.AreaID != nil {
		id := tracking.AreaID(*req.AreaID)
		process.AreaID = &id
	} else {
		process.AreaID = actor.AreaID
	}

	if err := h.Store.SaveProcess(r.Context(), process); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create process", err)
		return
	}

	writeJSON(w, http.StatusCreated, toProcessDTO(process))
}

// GetProcess returns a single process.
func (h *Handler) GetProcess(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireActor(w, r); !ok {
		return
	}

	process, err := h.Store.GetProcess(r.Context(), tracking.ProcessID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProcessDTO(*process))
}

// UpdateProcessStatus moves a process between its display states.
func (h *Handler) UpdateProcessStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	process, err := h.Store.GetProcess(r.Context(), tracking.ProcessID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := tracking.CanTransition(*actor, *process, req.Status); err != nil {
		writeDomainError(w, err)
		return
	}

	process.Status = tracking.ProcessStatus(req.Status)
	if err := h.Store.SaveProcess(r.Context(), *process); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save process", err)
		return
	}

	writeJSON(w, http.StatusOK, toProcessDTO(*process))
}

// =============================================================================
// PROCESS ACTIVITY HANDLERS
// =============================================================================

// ListProcessActivities returns the steps of a process.
func (h *Handler) ListProcessActivities(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireActor(w, r); !ok {
		return
	}

	processID := tracking.ProcessID(chi.URLParam(r, "id"))
	if _, err := h.Store.GetProcess(r.Context(), processID); err != nil {
		writeDomainError(w, err)
		return
	}

	pas, err := h.Store.ListProcessActivities(r.Context(), processID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list process activities", err)
		return
	}
	writeJSON(w, http.StatusOK, toProcessActivityDTOs(pas))
}

// CreateProcessActivity adds a step to a process. A depends_on edge that
// would close a cycle is rejected.
func (h *Handler) CreateProcessActivity(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireActor(w, r); !ok {
		return
	}

	processID := tracking.ProcessID(chi.URLParam(r, "id"))
	if _, err := h.Store.GetProcess(r.Context(), processID); err != nil {
		writeDomainError(w, err)
		return
	}

	var req CreateProcessActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" || req.AssignedUserID == "" {
		writeError(w, http.StatusBadRequest, "name and assigned_user_id are required", nil)
		return
	}

	pa := tracking.ProcessActivity{
		ID:             tracking.ProcessActivityID(uuid.NewString()),
		ProcessID:      processID,
		Name:           req.Name,
		Status:         tracking.ProcessActivityStatus(tracking.InitialStatus(tracking.KindProcessActivity)),
		AssignedUserID: tracking.UserID(req.AssignedUserID),
		EstimatedHours: tracking.NewHours(req.EstimatedHours),
		UsedHours:      tracking.ZeroHours(),
		CreatedAt:      time.Now().UTC(),
	}
	if req.DependsOnID != nil {
		depID := tracking.ProcessActivityID(*req.DependsOnID)
		dep, err := h.Store.GetProcessActivity(r.Context(), depID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if dep.ProcessID != processID {
			writeDomainError(w, &tracking.ValidationError{
				Field:  "depends_on_id",
				Reason: "dependency must belong to the same process",
			})
			return
		}
		existing, err := h.Store.ListProcessActivities(r.Context(), processID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list process activities", err)
			return
		}
		if tracking.NewDependencyGraph(existing).WouldCycle(pa.ID, depID) {
			writeDomainError(w, tracking.ErrCircularDependency)
			return
		}
		pa.DependsOnID = &depID
	}

	if err := h.Store.SaveProcessActivity(r.Context(), pa); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create process activity", err)
		return
	}

	writeJSON(w, http.StatusCreated, toProcessActivityDTO(pa))
}

// dependencyGraphFor loads a process activity and the dependency graph of
// its process.
func (h *Handler) dependencyGraphFor(r *http.Request) (*tracking.ProcessActivity, *tracking.DependencyGraph, error) {
	pa, err := h.Store.GetProcessActivity(r.Context(), tracking.ProcessActivityID(chi.URLParam(r, "id")))
	if err != nil {
		return nil, nil, err
	}
	siblings, err := h.Store.ListProcessActivities(r.Context(), pa.ProcessID)
	if err != nil {
		return nil, nil, err
	}
	return pa, tracking.NewDependencyGraph(siblings), nil
}

// UpdateProcessActivityStatus moves a process step, with dependency gating
// on the move to in_progress.
func (h *Handler) UpdateProcessActivityStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	pa, graph, err := h.dependencyGraphFor(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := graph.GateTransition(*actor, *pa, req.Status); err != nil {
		writeDomainError(w, err)
		return
	}

	pa.Status = tracking.ProcessActivityStatus(req.Status)
	if err := h.Store.SaveProcessActivity(r.Context(), *pa); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save process activity", err)
		return
	}

	writeJSON(w, http.StatusOK, toProcessActivityDTO(*pa))
}

// GetCanStart answers whether a process step's dependency chain is met.
func (h *Handler) GetCanStart(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireActor(w, r); !ok {
		return
	}

	pa, graph, err := h.dependencyGraphFor(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dto := CanStartDTO{CanStart: true}
	if err := graph.CanStart(pa.ID); err != nil {
		dto.CanStart = false
		dto.Reason = err.Error()
		var depErr *tracking.DependencyError
		if errors.As(err, &depErr) {
			dto.Blocker = string(depErr.DependsOn)
		}
	}
	writeJSON(w, http.StatusOK, dto)
}

// GetBlocked returns the steps directly blocked by this one.
func (h *Handler) GetBlocked(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireActor(w, r); !ok {
		return
	}

	pa, graph, err := h.dependencyGraphFor(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	ids := graph.Blocked(pa.ID)
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetChain returns the step's dependency chain, root first.
func (h *Handler) GetChain(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireActor(w, r); !ok {
		return
	}

	pa, graph, err := h.dependencyGraphFor(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	ids := graph.Chain(pa.ID)
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// USER HANDLERS
// =============================================================================

// ListUsers returns the user directory visible to the actor.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	scoped := tracking.ScopeFor(*actor).Users(users)
	writeJSON(w, http.StatusOK, toUserDTOs(scoped))
}

// CreateUser creates a user account. Only admins and superadmins may.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	if !actor.CanManageUsers() {
		writeDomainError(w, tracking.ErrPermissionDenied)
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Email == "" || req.FullName == "" {
		writeError(w, http.StatusBadRequest, "email and full_name are required", nil)
		return
	}

	user := tracking.User{
		ID:           tracking.UserID(uuid.NewString()),
		Email:        req.Email,
		FullName:     req.FullName,
		Role:         tracking.RoleUser,
		WorkSchedule: req.WorkSchedule,
		LunchBreak:   req.LunchBreak,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if req.Role != "" {
		user.Role = tracking.Role(req.Role)
	}
	if req.AreaID != nil {
		id := tracking.AreaID(*req.AreaID)
		user.AreaID = &id
	}
	if user.WorkSchedule == nil {
		user.WorkSchedule = tracking.WorkSchedule{}
	}

	if err := user.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.Store.SaveUser(r.Context(), user); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create user", err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

// GetUser returns a single user.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireActor(w, r); !ok {
		return
	}

	user, err := h.Store.GetUser(r.Context(), tracking.UserID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(*user))
}

// GetDailyGoal evaluates a user's daily goal for a date (default today).
func (h *Handler) GetDailyGoal(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireActor(w, r); !ok {
		return
	}

	user, err := h.Store.GetUser(r.Context(), tracking.UserID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	day := tracking.Today()
	if v := r.URL.Query().Get("date"); v != "" {
		day, err = tracking.ParseDay(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
	}

	activities, err := h.Store.ListActivities(r.Context(), tracking.ActivityFilter{
		UserID:   &user.ID,
		DateFrom: &day,
		DateTo:   &day,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list activities", err)
		return
	}

	goal, err := tracking.EvaluateDailyGoal(*user, day, tracking.SumHours(activities))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDailyGoalDTO(goal))
}

// =============================================================================
// AREA HANDLERS
// =============================================================================

// ListAreas returns all areas.
func (h *Handler) ListAreas(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireActor(w, r); !ok {
		return
	}

	areas, err := h.Store.ListAreas(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list areas", err)
		return
	}

	dtos := make([]AreaDTO, len(areas))
	for i, a := range areas {
		dtos[i] = toAreaDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateArea creates an area. Superadmin only.
func (h *Handler) CreateArea(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	if actor.Role != tracking.RoleSuperAdmin {
		writeDomainError(w, tracking.ErrPermissionDenied)
		return
	}

	var req CreateAreaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	area := tracking.Area{
		ID:        tracking.AreaID(uuid.NewString()),
		Name:      req.Name,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.SaveArea(r.Context(), area); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create area", err)
		return
	}

	writeJSON(w, http.StatusCreated, toAreaDTO(area))
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// scopedCollections fetches users, projects and activities and filters
// each to the actor's visibility scope.
func (h *Handler) scopedCollections(r *http.Request, actor tracking.User) ([]tracking.User, []tracking.Project, []tracking.Activity, error) {
	ctx := r.Context()
	users, err := h.Store.ListUsers(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	projects, err := h.Store.ListProjects(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	activities, err := h.Store.ListActivities(ctx, tracking.ActivityFilter{})
	if err != nil {
		return nil, nil, nil, err
	}

	scope := tracking.ScopeFor(actor)
	return scope.Users(users), scope.Projects(projects), scope.Activities(activities), nil
}

// GetOverview returns the role-scoped dashboard overview.
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	users, projects, activities, err := h.scopedCollections(r, *actor)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build overview", err)
		return
	}

	summary := tracking.BuildAreaSummary(users, projects, activities)
	distrib := make(map[string]int)
	for status, n := range tracking.StatusDistribution(projects) {
		distrib[string(status)] = n
	}

	writeJSON(w, http.StatusOK, OverviewDTO{
		TotalUsers:         summary.TotalUsers,
		TotalProjects:      summary.TotalProjects,
		ActiveProjects:     summary.ActiveProjects,
		TotalHours:         summary.TotalHours.Float64(),
		TotalActivities:    summary.TotalActivities,
		AverageCompletion:  summary.AverageCompletion.InexactFloat64(),
		StatusDistribution: distrib,
	})
}

// GetUserReport returns per-user summaries within the actor's scope.
func (h *Handler) GetUserReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	users, projects, activities, err := h.scopedCollections(r, *actor)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build user report", err)
		return
	}

	summaries := tracking.BuildUserSummaries(users, projects, activities)
	dtos := make([]UserSummaryDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = UserSummaryDTO{
			UserID:            string(s.UserID),
			TotalActivities:   s.TotalActivities,
			TotalHours:        s.TotalHours.Float64(),
			AssignedProjects:  s.AssignedProjects,
			AverageCompletion: s.AverageCompletion.InexactFloat64(),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetProjectReport returns per-project summaries within the actor's scope.
func (h *Handler) GetProjectReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	projects, err := h.Store.ListProjects(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list projects", err)
		return
	}
	scoped := tracking.ScopeFor(*actor).Projects(projects)

	summaries := tracking.BuildProjectSummaries(scoped)
	dtos := make([]ProjectSummaryDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = ProjectSummaryDTO{
			ProjectID:         string(s.ProjectID),
			Name:              s.Name,
			EstimatedHours:    s.EstimatedHours.Float64(),
			UsedHours:         s.UsedHours.Float64(),
			RemainingHours:    s.RemainingHours.Float64(),
			CompletionPercent: s.CompletionPercent.InexactFloat64(),
			ProgressWidth:     progressWidth(s.CompletionPercent),
			IsActive:          s.IsActive,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps a tracking error onto an HTTP status.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case tracking.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case tracking.IsPermissionDenied(err):
		writeError(w, http.StatusForbidden, "Permission denied", err)
	case tracking.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
