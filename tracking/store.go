/*
store.go - Persistence interface for raw entity records

PURPOSE:
  Defines the interface between the computation core and the database.
  The core never reaches into a cache or a global: handlers fetch records
  through this interface and hand already-fetched collections to the pure
  functions (dependency injection of data).

DERIVED VALUES:
  No derived metric (remaining hours, completion percent, averages) is
  ever persisted. Used-hours on projects/tasks ARE persisted because they
  are source data maintained at the edit boundary, recomputed from the
  activity log whenever an activity changes.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: production SQLite
  - tracking/store/memory.go: in-memory for tests and demos

SEE ALSO:
  - api/handlers.go: the only consumer
*/
package tracking

import "context"

// ActivityFilter narrows activity listings. Nil fields are ignored.
type ActivityFilter struct {
	UserID    *UserID
	AreaID    *AreaID
	ProjectID *ProjectID
	TaskID    *TaskID
	Type      *ActivityType
	Month     *string
	DateFrom  *Day
	DateTo    *Day
}

// Matches reports whether the activity satisfies every set field.
func (f ActivityFilter) Matches(a Activity) bool {
	if f.UserID != nil && a.UserID != *f.UserID {
		return false
	}
	if f.AreaID != nil && (a.AreaID == nil || *a.AreaID != *f.AreaID) {
		return false
	}
	if f.ProjectID != nil && (a.ProjectID == nil || *a.ProjectID != *f.ProjectID) {
		return false
	}
	if f.TaskID != nil && (a.TaskID == nil || *a.TaskID != *f.TaskID) {
		return false
	}
	if f.Type != nil && a.Type != *f.Type {
		return false
	}
	if f.Month != nil && a.Month != *f.Month {
		return false
	}
	if f.DateFrom != nil && a.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && a.Date.After(*f.DateTo) {
		return false
	}
	return true
}

// Store persists the raw entities. Save is an upsert keyed on ID; Get
// returns ErrNotFound for missing records.
type Store interface {
	// Users
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id UserID) (*User, error)
	SaveUser(ctx context.Context, u User) error

	// Areas
	ListAreas(ctx context.Context) ([]Area, error)
	SaveArea(ctx context.Context, a Area) error

	// Projects
	ListProjects(ctx context.Context) ([]Project, error)
	GetProject(ctx context.Context, id ProjectID) (*Project, error)
	SaveProject(ctx context.Context, p Project) error
	DeleteProject(ctx context.Context, id ProjectID) error

	// Tasks
	ListTasks(ctx context.Context, projectID *ProjectID) ([]Task, error)
	GetTask(ctx context.Context, id TaskID) (*Task, error)
	SaveTask(ctx context.Context, t Task) error

	// Processes
	ListProcesses(ctx context.Context) ([]Process, error)
	GetProcess(ctx context.Context, id ProcessID) (*Process, error)
	SaveProcess(ctx context.Context, p Process) error

	// Process activities
	ListProcessActivities(ctx context.Context, processID ProcessID) ([]ProcessActivity, error)
	GetProcessActivity(ctx context.Context, id ProcessActivityID) (*ProcessActivity, error)
	SaveProcessActivity(ctx context.Context, pa ProcessActivity) error

	// Activities
	ListActivities(ctx context.Context, filter ActivityFilter) ([]Activity, error)
	GetActivity(ctx context.Context, id ActivityID) (*Activity, error)
	SaveActivity(ctx context.Context, a Activity) error
	DeleteActivity(ctx context.Context, id ActivityID) error
}
