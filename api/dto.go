/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific rendering rules
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

RENDERING RULE:
  Completion and progress percents are reported as their TRUE values, which
  may exceed 100. The only clamp in the whole system is progress_width,
  the visual bar width, capped at 100 here and nowhere else.

SEE ALSO:
  - handlers.go: uses these types
  - tracking/hours.go: the unclamped percent contract
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Jaliko05/time-flow-sub000/tracking"
)

// =============================================================================
// ACTIVITY TYPES
// =============================================================================

// ActivityDTO represents a logged activity in API responses.
type ActivityDTO struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	AreaID        *string `json:"area_id,omitempty"`
	ProjectID     *string `json:"project_id,omitempty"`
	TaskID        *string `json:"task_id,omitempty"`
	Name          string  `json:"name"`
	ActivityType  string  `json:"activity_type"`
	ExecutionTime float64 `json:"execution_time"`
	Date          string  `json:"date"`
	Month         string  `json:"month"`
	OtherArea     string  `json:"other_area,omitempty"`
	Observations  string  `json:"observations,omitempty"`
	CreatedAt     string  `json:"created_at,omitempty"`
}

// CreateActivityRequest is the request to log an activity.
type CreateActivityRequest struct {
	UserID        string  `json:"user_id"`
	AreaID        *string `json:"area_id,omitempty"`
	ProjectID     *string `json:"project_id,omitempty"`
	TaskID        *string `json:"task_id,omitempty"`
	Name          string  `json:"name"`
	ActivityType  string  `json:"activity_type"`
	ExecutionTime float64 `json:"execution_time"`
	Date          string  `json:"date"`
	OtherArea     string  `json:"other_area,omitempty"`
	Observations  string  `json:"observations,omitempty"`
}

// UpdateActivityRequest is the request to update an activity. Date and
// user are immutable; only the listed fields may change.
type UpdateActivityRequest struct {
	Name          *string  `json:"name,omitempty"`
	ActivityType  *string  `json:"activity_type,omitempty"`
	ExecutionTime *float64 `json:"execution_time,omitempty"`
	OtherArea     *string  `json:"other_area,omitempty"`
	Observations  *string  `json:"observations,omitempty"`
}

// =============================================================================
// PROJECT / TASK TYPES
// =============================================================================

// ProjectDTO represents a project with its derived hours metrics.
type ProjectDTO struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description,omitempty"`
	Status            string  `json:"status"`
	Priority          string  `json:"priority"`
	ProjectType       string  `json:"project_type"`
	AreaID            *string `json:"area_id,omitempty"`
	CreatedBy         string  `json:"created_by"`
	AssignedUserID    *string `json:"assigned_user_id,omitempty"`
	EstimatedHours    float64 `json:"estimated_hours"`
	UsedHours         float64 `json:"used_hours"`
	RemainingHours    float64 `json:"remaining_hours"`
	CompletionPercent float64 `json:"completion_percent"`
	ProgressWidth     float64 `json:"progress_width"`
	IsOverBudget      bool    `json:"is_over_budget"`
	IsActive          bool    `json:"is_active"`
	DueDate           *string `json:"due_date,omitempty"`
	CreatedAt         string  `json:"created_at,omitempty"`
}

// CreateProjectRequest is the request to create a project.
type CreateProjectRequest struct {
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	Priority       string  `json:"priority,omitempty"`
	ProjectType    string  `json:"project_type,omitempty"`
	AreaID         *string `json:"area_id,omitempty"`
	AssignedUserID *string `json:"assigned_user_id,omitempty"`
	EstimatedHours float64 `json:"estimated_hours"`
	DueDate        *string `json:"due_date,omitempty"`
}

// UpdateProjectRequest is the request to update a project's editable fields.
type UpdateProjectRequest struct {
	Name           *string  `json:"name,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Priority       *string  `json:"priority,omitempty"`
	AreaID         *string  `json:"area_id,omitempty"`
	AssignedUserID *string  `json:"assigned_user_id,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	DueDate        *string  `json:"due_date,omitempty"`
	IsActive       *bool    `json:"is_active,omitempty"`
}

// TaskDTO represents a task with its derived hours metrics.
type TaskDTO struct {
	ID                string  `json:"id"`
	ProjectID         string  `json:"project_id"`
	Name              string  `json:"name"`
	Description       string  `json:"description,omitempty"`
	Status            string  `json:"status"`
	Priority          string  `json:"priority"`
	AssignedUserID    *string `json:"assigned_user_id,omitempty"`
	CreatedBy         string  `json:"created_by"`
	EstimatedHours    float64 `json:"estimated_hours"`
	UsedHours         float64 `json:"used_hours"`
	RemainingHours    float64 `json:"remaining_hours"`
	CompletionPercent float64 `json:"completion_percent"`
	ProgressWidth     float64 `json:"progress_width"`
	IsOverBudget      bool    `json:"is_over_budget"`
	CanBeAssigned     bool    `json:"can_be_assigned"`
	DueDate           *string `json:"due_date,omitempty"`
	CreatedAt         string  `json:"created_at,omitempty"`
}

// CreateTaskRequest is the request to create a task.
type CreateTaskRequest struct {
	ProjectID      string  `json:"project_id"`
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	Priority       string  `json:"priority,omitempty"`
	AssignedUserID *string `json:"assigned_user_id,omitempty"`
	EstimatedHours float64 `json:"estimated_hours"`
	DueDate        *string `json:"due_date,omitempty"`
}

// UpdateTaskRequest is the request to update a task's editable fields.
type UpdateTaskRequest struct {
	Name           *string  `json:"name,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Priority       *string  `json:"priority,omitempty"`
	AssignedUserID *string  `json:"assigned_user_id,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	DueDate        *string  `json:"due_date,omitempty"`
}

// =============================================================================
// PROCESS TYPES
// =============================================================================

// ProcessDTO represents a process with its derived hours metrics.
type ProcessDTO struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description,omitempty"`
	Status            string  `json:"status"`
	RequirementID     *string `json:"requirement_id,omitempty"`
	IncidentID        *string `json:"incident_id,omitempty"`
	AreaID            *string `json:"area_id,omitempty"`
	CreatedBy         string  `json:"created_by"`
	EstimatedHours    float64 `json:"estimated_hours"`
	UsedHours         float64 `json:"used_hours"`
	RemainingHours    float64 `json:"remaining_hours"`
	CompletionPercent float64 `json:"completion_percent"`
	ProgressWidth     float64 `json:"progress_width"`
	CreatedAt         string  `json:"created_at,omitempty"`
}

// CreateProcessRequest is the request to create a process.
type CreateProcessRequest struct {
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	RequirementID  *string `json:"requirement_id,omitempty"`
	IncidentID     *string `json:"incident_id,omitempty"`
	AreaID         *string `json:"area_id,omitempty"`
	EstimatedHours float64 `json:"estimated_hours"`
}

// ProcessActivityDTO represents one step inside a process.
type ProcessActivityDTO struct {
	ID             string  `json:"id"`
	ProcessID      string  `json:"process_id"`
	Name           string  `json:"name"`
	Status         string  `json:"status"`
	DependsOnID    *string `json:"depends_on_id,omitempty"`
	AssignedUserID string  `json:"assigned_user_id"`
	EstimatedHours float64 `json:"estimated_hours"`
	UsedHours      float64 `json:"used_hours"`
	CreatedAt      string  `json:"created_at,omitempty"`
}

// CreateProcessActivityRequest is the request to add a process step.
type CreateProcessActivityRequest struct {
	Name           string  `json:"name"`
	DependsOnID    *string `json:"depends_on_id,omitempty"`
	AssignedUserID string  `json:"assigned_user_id"`
	EstimatedHours float64 `json:"estimated_hours"`
}

// CanStartDTO answers whether a process activity may start.
type CanStartDTO struct {
	CanStart bool   `json:"can_start"`
	Blocker  string `json:"blocker,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// =============================================================================
// USER / AREA TYPES
// =============================================================================

// UserDTO represents a user account.
type UserDTO struct {
	ID           string                `json:"id"`
	Email        string                `json:"email"`
	FullName     string                `json:"full_name"`
	Role         string                `json:"role"`
	AreaID       *string               `json:"area_id,omitempty"`
	WorkSchedule tracking.WorkSchedule `json:"work_schedule"`
	LunchBreak   tracking.LunchBreak   `json:"lunch_break"`
	IsActive     bool                  `json:"is_active"`
	CreatedAt    string                `json:"created_at,omitempty"`
}

// CreateUserRequest is the request to create a user.
type CreateUserRequest struct {
	Email        string                `json:"email"`
	FullName     string                `json:"full_name"`
	Role         string                `json:"role,omitempty"`
	AreaID       *string               `json:"area_id,omitempty"`
	WorkSchedule tracking.WorkSchedule `json:"work_schedule,omitempty"`
	LunchBreak   tracking.LunchBreak   `json:"lunch_break,omitempty"`
}

// AreaDTO represents an organizational area.
type AreaDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateAreaRequest is the request to create an area.
type CreateAreaRequest struct {
	Name string `json:"name"`
}

// DailyGoalDTO is the daily-goal view for a user's dashboard.
type DailyGoalDTO struct {
	Date      string  `json:"date"`
	Expected  float64 `json:"expected_hours"`
	Logged    float64 `json:"logged_hours"`
	Remaining float64 `json:"remaining_hours"`
	Exceeded  float64 `json:"exceeded_hours"`
	Percent   float64 `json:"percent"`
	BarWidth  float64 `json:"bar_width"`
	Tier      string  `json:"tier"`
	Message   string  `json:"message"`
}

// =============================================================================
// REPORT TYPES
// =============================================================================

// OverviewDTO is the role-scoped dashboard overview.
type OverviewDTO struct {
	TotalUsers         int            `json:"total_users"`
	TotalProjects      int            `json:"total_projects"`
	ActiveProjects     int            `json:"active_projects"`
	TotalHours         float64        `json:"total_hours"`
	TotalActivities    int            `json:"total_activities"`
	AverageCompletion  float64        `json:"average_completion"`
	StatusDistribution map[string]int `json:"status_distribution"`
}

// UserSummaryDTO is the per-user report row.
type UserSummaryDTO struct {
	UserID            string  `json:"user_id"`
	TotalActivities   int     `json:"total_activities"`
	TotalHours        float64 `json:"total_hours"`
	AssignedProjects  int     `json:"assigned_projects"`
	AverageCompletion float64 `json:"average_completion"`
}

// ProjectSummaryDTO is the per-project report row.
type ProjectSummaryDTO struct {
	ProjectID         string  `json:"project_id"`
	Name              string  `json:"name"`
	EstimatedHours    float64 `json:"estimated_hours"`
	UsedHours         float64 `json:"used_hours"`
	RemainingHours    float64 `json:"remaining_hours"`
	CompletionPercent float64 `json:"completion_percent"`
	ProgressWidth     float64 `json:"progress_width"`
	IsActive          bool    `json:"is_active"`
}

// =============================================================================
// SHARED TYPES
// =============================================================================

// StatusUpdateRequest is the request body of every status endpoint.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

// progressWidth clamps a percent to [0,100] for drawing a bar. This is
// the only place in the system the clamp exists.
func progressWidth(percent decimal.Decimal) float64 {
	if percent.GreaterThan(decimal.NewFromInt(100)) {
		return 100
	}
	if percent.IsNegative() {
		return 0
	}
	return percent.InexactFloat64()
}

func strPtr[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func dayPtr(d *tracking.Day) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func toActivityDTO(a tracking.Activity) ActivityDTO {
	return ActivityDTO{
		ID:            string(a.ID),
		UserID:        string(a.UserID),
		AreaID:        strPtr(a.AreaID),
		ProjectID:     strPtr(a.ProjectID),
		TaskID:        strPtr(a.TaskID),
		Name:          a.Name,
		ActivityType:  string(a.Type),
		ExecutionTime: a.ExecutionTime.Float64(),
		Date:          a.Date.String(),
		Month:         a.Month,
		OtherArea:     a.OtherArea,
		Observations:  a.Observations,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
}

func toActivityDTOs(activities []tracking.Activity) []ActivityDTO {
	dtos := make([]ActivityDTO, len(activities))
	for i, a := range activities {
		dtos[i] = toActivityDTO(a)
	}
	return dtos
}

func toProjectDTO(p tracking.Project) ProjectDTO {
	account := p.Account()
	percent := account.CompletionPercent()
	return ProjectDTO{
		ID:                string(p.ID),
		Name:              p.Name,
		Description:       p.Description,
		Status:            string(p.Status),
		Priority:          string(p.Priority),
		ProjectType:       string(p.Type),
		AreaID:            strPtr(p.AreaID),
		CreatedBy:         string(p.CreatedBy),
		AssignedUserID:    strPtr(p.AssignedUserID),
		EstimatedHours:    account.Estimated.Float64(),
		UsedHours:         account.Used.Float64(),
		RemainingHours:    account.Remaining().Float64(),
		CompletionPercent: percent.InexactFloat64(),
		ProgressWidth:     progressWidth(percent),
		IsOverBudget:      account.IsOverBudget(),
		IsActive:          p.IsActive,
		DueDate:           dayPtr(p.DueDate),
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
	}
}

func toProjectDTOs(projects []tracking.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = toProjectDTO(p)
	}
	return dtos
}

func toTaskDTO(t tracking.Task) TaskDTO {
	account := t.Account()
	percent := account.CompletionPercent()
	return TaskDTO{
		ID:                string(t.ID),
		ProjectID:         string(t.ProjectID),
		Name:              t.Name,
		Description:       t.Description,
		Status:            string(t.Status),
		Priority:          string(t.Priority),
		AssignedUserID:    strPtr(t.AssignedUserID),
		CreatedBy:         string(t.CreatedBy),
		EstimatedHours:    account.Estimated.Float64(),
		UsedHours:         account.Used.Float64(),
		RemainingHours:    account.Remaining().Float64(),
		CompletionPercent: percent.InexactFloat64(),
		ProgressWidth:     progressWidth(percent),
		IsOverBudget:      account.IsOverBudget(),
		CanBeAssigned:     t.CanBeAssigned(),
		DueDate:           dayPtr(t.DueDate),
		CreatedAt:         t.CreatedAt.Format(time.RFC3339),
	}
}

func toTaskDTOs(tasks []tracking.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = toTaskDTO(t)
	}
	return dtos
}

func toProcessDTO(p tracking.Process) ProcessDTO {
	account := p.Account()
	percent := account.CompletionPercent()
	return ProcessDTO{
		ID:                string(p.ID),
		Name:              p.Name,
		Description:       p.Description,
		Status:            string(p.Status),
		RequirementID:     p.RequirementID,
		IncidentID:        p.IncidentID,
		AreaID:            strPtr(p.AreaID),
		CreatedBy:         string(p.CreatedBy),
		EstimatedHours:    account.Estimated.Float64(),
		UsedHours:         account.Used.Float64(),
		RemainingHours:    account.Remaining().Float64(),
		CompletionPercent: percent.InexactFloat64(),
		ProgressWidth:     progressWidth(percent),
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
	}
}

func toProcessDTOs(processes []tracking.Process) []ProcessDTO {
	dtos := make([]ProcessDTO, len(processes))
	for i, p := range processes {
		dtos[i] = toProcessDTO(p)
	}
	return dtos
}

func toProcessActivityDTO(pa tracking.ProcessActivity) ProcessActivityDTO {
	return ProcessActivityDTO{
		ID:             string(pa.ID),
		ProcessID:      string(pa.ProcessID),
		Name:           pa.Name,
		Status:         string(pa.Status),
		DependsOnID:    strPtr(pa.DependsOnID),
		AssignedUserID: string(pa.AssignedUserID),
		EstimatedHours: pa.EstimatedHours.Float64(),
		UsedHours:      pa.UsedHours.Float64(),
		CreatedAt:      pa.CreatedAt.Format(time.RFC3339),
	}
}

func toProcessActivityDTOs(pas []tracking.ProcessActivity) []ProcessActivityDTO {
	dtos := make([]ProcessActivityDTO, len(pas))
	for i, pa := range pas {
		dtos[i] = toProcessActivityDTO(pa)
	}
	return dtos
}

func toUserDTO(u tracking.User) UserDTO {
	return UserDTO{
		ID:           string(u.ID),
		Email:        u.Email,
		FullName:     u.FullName,
		Role:         string(u.Role),
		AreaID:       strPtr(u.AreaID),
		WorkSchedule: u.WorkSchedule,
		LunchBreak:   u.LunchBreak,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt.Format(time.RFC3339),
	}
}

func toUserDTOs(users []tracking.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	return dtos
}

func toAreaDTO(a tracking.Area) AreaDTO {
	return AreaDTO{
		ID:        string(a.ID),
		Name:      a.Name,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

func toDailyGoalDTO(g tracking.DailyGoal) DailyGoalDTO {
	return DailyGoalDTO{
		Date:      g.Date.String(),
		Expected:  g.Expected.Float64(),
		Logged:    g.Logged.Float64(),
		Remaining: g.Remaining.Float64(),
		Exceeded:  g.Exceeded.Float64(),
		Percent:   g.Percent.InexactFloat64(),
		BarWidth:  progressWidth(g.Percent),
		Tier:      string(g.Tier),
		Message:   g.Tier.Message(),
	}
}
