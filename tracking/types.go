/*
Package tracking provides the core time-tracking computation engine.

PURPOSE:
  This package contains the domain records and the derived-metric
  computations that every dashboard, Kanban board, and report depends on:
  hours accounting (estimated vs. used), completion percentages, daily-goal
  progress, activity aggregation, and area/user roll-ups.

KEY CONCEPTS IN THIS FILE (types.go):
  - Records: Activity, Project, Task, Process, ProcessActivity, User, Area
  - Enums: Role, statuses per entity kind, priorities, activity types
  - WorkSchedule/LunchBreak: per-user weekly schedule configuration

DESIGN PRINCIPLES:
  1. Purity: every computation is f(records) -> view, no hidden state
  2. Precision: decimal arithmetic so recomputed metrics are bit-identical
     wherever they are recomputed
  3. Type Safety: strong typing for IDs prevents mixing entity IDs
  4. No persistence of derived values: consumers always recompute

USAGE:
  account := tracking.NewHoursAccount(project.EstimatedHours, project.UsedHours)
  percent := account.CompletionPercent()

SEE ALSO:
  - hours.go: HoursAccount and completion calculation
  - schedule.go: daily-goal tracking
  - aggregate.go: activity aggregation
  - rollup.go: area/user/project summaries
  - board.go: status transition policy and dependency gating
*/
package tracking

import "time"

// =============================================================================
// IDENTIFIERS
// =============================================================================

type UserID string
type AreaID string
type ProjectID string
type TaskID string
type ProcessID string
type ProcessActivityID string
type ActivityID string

// =============================================================================
// ROLES
// =============================================================================

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// =============================================================================
// STATUSES - One finite set per entity kind, no sub-states
// =============================================================================

type ProjectStatus string

const (
	ProjectStatusUnassigned ProjectStatus = "unassigned"
	ProjectStatusAssigned   ProjectStatus = "assigned"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusPaused     ProjectStatus = "paused"
	ProjectStatusCompleted  ProjectStatus = "completed"
)

type TaskStatus string

const (
	TaskStatusBacklog    TaskStatus = "backlog"
	TaskStatusAssigned   TaskStatus = "assigned"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusPaused     TaskStatus = "paused"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Process states are the Spanish display states used across the boards.
type ProcessStatus string

const (
	ProcessStatusActive    ProcessStatus = "Activo"
	ProcessStatusPaused    ProcessStatus = "En Pausa"
	ProcessStatusCompleted ProcessStatus = "Completado"
	ProcessStatusCancelled ProcessStatus = "Cancelado"
)

type ProcessActivityStatus string

const (
	ProcessActivityStatusPending    ProcessActivityStatus = "pending"
	ProcessActivityStatusAssigned   ProcessActivityStatus = "assigned"
	ProcessActivityStatusInProgress ProcessActivityStatus = "in_progress"
	ProcessActivityStatusBlocked    ProcessActivityStatus = "blocked"
	ProcessActivityStatusCompleted  ProcessActivityStatus = "completed"
)

// =============================================================================
// PRIORITIES AND PROJECT TYPES
// =============================================================================

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

type ProjectType string

const (
	ProjectTypePersonal ProjectType = "personal"
	ProjectTypeArea     ProjectType = "area"
)

// =============================================================================
// ACTIVITY TYPES
// =============================================================================

type ActivityType string

const (
	ActivityTypePlanDeTrabajo                ActivityType = "plan_de_trabajo"
	ActivityTypeApoyoSolicitadoPorOtrasAreas ActivityType = "apoyo_solicitado_por_otras_areas"
	ActivityTypeTeams                        ActivityType = "teams"
	ActivityTypeInterno                      ActivityType = "interno"
	ActivityTypeSesion                       ActivityType = "sesion"
	ActivityTypeInvestigacion                ActivityType = "investigacion"
	ActivityTypePrototipado                  ActivityType = "prototipado"
	ActivityTypeDisenos                      ActivityType = "disenos"
	ActivityTypePruebas                      ActivityType = "pruebas"
	ActivityTypeDocumentacion                ActivityType = "documentacion"
)

// ValidActivityType reports whether t is one of the known activity types.
func ValidActivityType(t ActivityType) bool {
	switch t {
	case ActivityTypePlanDeTrabajo, ActivityTypeApoyoSolicitadoPorOtrasAreas,
		ActivityTypeTeams, ActivityTypeInterno, ActivityTypeSesion,
		ActivityTypeInvestigacion, ActivityTypePrototipado,
		ActivityTypeDisenos, ActivityTypePruebas, ActivityTypeDocumentacion:
		return true
	}
	return false
}

// =============================================================================
// WORK SCHEDULE
// =============================================================================

// DaySchedule configures one weekday of a user's work schedule.
// Start/End are "HH:MM" clock times on the same day.
type DaySchedule struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// WorkSchedule maps lowercase English weekday names ("monday"..."sunday")
// to their configuration. Missing weekdays count as disabled.
type WorkSchedule map[string]DaySchedule

// LunchBreak is an optional daily deduction from expected hours.
type LunchBreak struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// =============================================================================
// RECORDS - Raw entities as delivered by the persistence layer
// =============================================================================

// Activity is a logged unit of work for a specific calendar day.
// Date and UserID are immutable after creation; name, type, time and
// notes are updatable; deletion is explicit.
type Activity struct {
	ID            ActivityID
	UserID        UserID
	AreaID        *AreaID
	ProjectID     *ProjectID
	TaskID        *TaskID
	Name          string
	Type          ActivityType
	ExecutionTime Hours // always > 0
	Date          Day
	Month         string // "2006-01", derived from Date
	OtherArea     string
	Observations  string
	CreatedAt     time.Time
}

// SetDate sets the activity date and keeps the derived month in sync.
func (a *Activity) SetDate(d Day) {
	a.Date = d
	a.Month = d.Month()
}

// Validate enforces the edit-boundary business rules. These are checked
// when an activity is created or updated, not during aggregation.
func (a Activity) Validate() error {
	if !a.ExecutionTime.IsPositive() {
		return ErrInvalidExecutionTime
	}
	if !ValidActivityType(a.Type) {
		return &ValidationError{Field: "activity_type", Reason: "unknown activity type"}
	}
	if a.ProjectID != nil && a.Observations == "" {
		return ErrObservationsRequired
	}
	if a.Type == ActivityTypeApoyoSolicitadoPorOtrasAreas && a.OtherArea == "" {
		return ErrOtherAreaRequired
	}
	return nil
}

// Project owns zero-or-more tasks. UsedHours is maintained by the edit
// boundary as the sum of execution time logged against the project; the
// computation core only consumes it.
type Project struct {
	ID             ProjectID
	Name           string
	Description    string
	Status         ProjectStatus
	Priority       Priority
	Type           ProjectType
	AreaID         *AreaID
	CreatedBy      UserID
	AssignedUserID *UserID
	EstimatedHours Hours
	UsedHours      Hours
	IsActive       bool
	DueDate        *Day
	CreatedAt      time.Time
}

// Account returns the hours account for the project.
func (p Project) Account() HoursAccount {
	return HoursAccount{Estimated: p.EstimatedHours, Used: p.UsedHours}
}

// Task belongs to a project.
type Task struct {
	ID             TaskID
	ProjectID      ProjectID
	Name           string
	Description    string
	Status         TaskStatus
	Priority       Priority
	AssignedUserID *UserID
	CreatedBy      UserID
	EstimatedHours Hours
	UsedHours      Hours
	DueDate        *Day
	CreatedAt      time.Time
}

func (t Task) Account() HoursAccount {
	return HoursAccount{Estimated: t.EstimatedHours, Used: t.UsedHours}
}

// CanBeAssigned reports whether the task is in a state that accepts a
// new assignee.
func (t Task) CanBeAssigned() bool {
	return t.Status == TaskStatusBacklog || t.Status == TaskStatusAssigned
}

// CanRegisterActivity reports whether work may be logged against the task.
func (t Task) CanRegisterActivity() bool {
	return t.Status == TaskStatusInProgress || t.Status == TaskStatusCompleted
}

// Process belongs to a requirement or an incident and owns zero-or-more
// process activities.
type Process struct {
	ID             ProcessID
	Name           string
	Description    string
	Status         ProcessStatus
	RequirementID  *string
	IncidentID     *string
	AreaID         *AreaID
	CreatedBy      UserID
	EstimatedHours Hours
	UsedHours      Hours
	CreatedAt      time.Time
}

func (p Process) Account() HoursAccount {
	return HoursAccount{Estimated: p.EstimatedHours, Used: p.UsedHours}
}

// ProcessActivity is a unit of work inside a process. DependsOnID points
// to another activity of the same process; the edges form a DAG.
type ProcessActivity struct {
	ID             ProcessActivityID
	ProcessID      ProcessID
	Name           string
	Status         ProcessActivityStatus
	DependsOnID    *ProcessActivityID
	AssignedUserID UserID
	EstimatedHours Hours
	UsedHours      Hours
	CreatedAt      time.Time
}

func (pa ProcessActivity) Account() HoursAccount {
	return HoursAccount{Estimated: pa.EstimatedHours, Used: pa.UsedHours}
}

// User is an account with a role, an optional area, and a weekly work
// schedule used by the daily-goal tracker.
type User struct {
	ID           UserID
	Email        string
	FullName     string
	Role         Role
	AreaID       *AreaID
	WorkSchedule WorkSchedule
	LunchBreak   LunchBreak
	IsActive     bool
	CreatedAt    time.Time
}

// Validate enforces the role/area invariant: admins must belong to an area.
func (u User) Validate() error {
	if u.Role == RoleAdmin && u.AreaID == nil {
		return &ValidationError{Field: "area_id", Reason: "admin role requires an area"}
	}
	return nil
}

// HasAccessToArea reports whether the user may act on entities of an area.
func (u User) HasAccessToArea(areaID AreaID) bool {
	if u.Role == RoleSuperAdmin {
		return true
	}
	if u.Role == RoleAdmin && u.AreaID != nil {
		return *u.AreaID == areaID
	}
	return false
}

// CanManageUsers reports whether the user may administer other users.
func (u User) CanManageUsers() bool {
	return u.Role == RoleSuperAdmin || u.Role == RoleAdmin
}

// Area groups users and area-type projects.
type Area struct {
	ID        AreaID
	Name      string
	IsActive  bool
	CreatedAt time.Time
}
