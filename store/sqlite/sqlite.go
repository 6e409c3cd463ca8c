/*
Package sqlite provides a SQLite-backed implementation of tracking.Store.

PURPOSE:
  Persists the raw entity records (users, areas, projects, tasks,
  processes, process activities, logged activities). Only SOURCE data is
  stored: no derived metric (remaining hours, completion percent,
  averages) ever touches the database — every consumer recomputes from
  source fields through the tracking package.

KEY TABLES:
  users              Accounts with role, area, JSON work schedule
  areas              Organizational areas
  projects           Projects with estimated/used hours and board status
  tasks              Tasks per project
  processes          Processes owned by requirements/incidents
  process_activities Process steps with depends_on edges
  activities         The immutable-date activity log

INDEXES:
  activities(user_id, date) and activities(project_id) back the hot
  listing paths; month is indexed for the monthly dashboard sums.

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers
  don't block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/timeflow.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - tracking/store.go: interface definitions
  - tracking/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Jaliko05/time-flow-sub000/tracking"
)

// Store implements tracking.Store using SQLite.
type Store struct {
	db *sql.DB
}

// Compile-time check that Store implements tracking.Store.
var _ tracking.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS areas (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		area_id TEXT,
		work_schedule_json TEXT NOT NULL DEFAULT '{}',
		lunch_break_json TEXT NOT NULL DEFAULT '{}',
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_users_area ON users(area_id);

	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		priority TEXT NOT NULL DEFAULT 'medium',
		project_type TEXT NOT NULL DEFAULT 'personal',
		area_id TEXT,
		created_by TEXT NOT NULL,
		assigned_user_id TEXT,
		estimated_hours REAL NOT NULL DEFAULT 0,
		used_hours REAL NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 1,
		due_date TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_projects_area ON projects(area_id);
	CREATE INDEX IF NOT EXISTS idx_projects_assigned ON projects(assigned_user_id);

	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		priority TEXT NOT NULL DEFAULT 'medium',
		assigned_user_id TEXT,
		created_by TEXT NOT NULL,
		estimated_hours REAL NOT NULL DEFAULT 0,
		used_hours REAL NOT NULL DEFAULT 0,
		due_date TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);

	CREATE TABLE IF NOT EXISTS processes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		requirement_id TEXT,
		incident_id TEXT,
		area_id TEXT,
		created_by TEXT NOT NULL,
		estimated_hours REAL NOT NULL DEFAULT 0,
		used_hours REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS process_activities (
		id TEXT PRIMARY KEY,
		process_id TEXT NOT NULL,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		depends_on_id TEXT,
		assigned_user_id TEXT NOT NULL,
		estimated_hours REAL NOT NULL DEFAULT 0,
		used_hours REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_process_activities_process
		ON process_activities(process_id);
	CREATE INDEX IF NOT EXISTS idx_process_activities_depends
		ON process_activities(depends_on_id);

	CREATE TABLE IF NOT EXISTS activities (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		area_id TEXT,
		project_id TEXT,
		task_id TEXT,
		name TEXT NOT NULL,
		activity_type TEXT NOT NULL,
		execution_time REAL NOT NULL,
		date TEXT NOT NULL,
		month TEXT NOT NULL,
		other_area TEXT NOT NULL DEFAULT '',
		observations TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_activities_user_date ON activities(user_id, date);
	CREATE INDEX IF NOT EXISTS idx_activities_project ON activities(project_id);
	CREATE INDEX IF NOT EXISTS idx_activities_month ON activities(month);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func timeToText(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func textToTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func dayToText(d *tracking.Day) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func textToDay(ns sql.NullString) *tracking.Day {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	d, err := tracking.ParseDay(ns.String)
	if err != nil {
		return nil
	}
	return &d
}

func nullText(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// =============================================================================
// USERS
// =============================================================================

const userColumns = `id, email, full_name, role, area_id,
	work_schedule_json, lunch_break_json, is_active, created_at`

func (s *Store) ListUsers(ctx context.Context) ([]tracking.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []tracking.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) GetUser(ctx context.Context, id tracking.UserID) (*tracking.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, string(id))
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tracking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) SaveUser(ctx context.Context, u tracking.User) error {
	scheduleJSON, err := json.Marshal(u.WorkSchedule)
	if err != nil {
		return err
	}
	lunchJSON, err := json.Marshal(u.LunchBreak)
	if err != nil {
		return err
	}
	var areaID sql.NullString
	if u.AreaID != nil {
		areaID = sql.NullString{String: string(*u.AreaID), Valid: true}
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			full_name = excluded.full_name,
			role = excluded.role,
			area_id = excluded.area_id,
			work_schedule_json = excluded.work_schedule_json,
			lunch_break_json = excluded.lunch_break_json,
			is_active = excluded.is_active`,
		string(u.ID), u.Email, u.FullName, string(u.Role), areaID,
		string(scheduleJSON), string(lunchJSON), u.IsActive, timeToText(u.CreatedAt))
	return err
}

func scanUser(row rowScanner) (tracking.User, error) {
	var (
		u            tracking.User
		id, role     string
		areaID       sql.NullString
		scheduleJSON string
		lunchJSON    string
		createdAt    string
	)
	if err := row.Scan(&id, &u.Email, &u.FullName, &role, &areaID,
		&scheduleJSON, &lunchJSON, &u.IsActive, &createdAt); err != nil {
		return tracking.User{}, err
	}
	u.ID = tracking.UserID(id)
	u.Role = tracking.Role(role)
	if areaID.Valid {
		a := tracking.AreaID(areaID.String)
		u.AreaID = &a
	}
	if err := json.Unmarshal([]byte(scheduleJSON), &u.WorkSchedule); err != nil {
		u.WorkSchedule = tracking.WorkSchedule{}
	}
	if err := json.Unmarshal([]byte(lunchJSON), &u.LunchBreak); err != nil {
		u.LunchBreak = tracking.LunchBreak{}
	}
	u.CreatedAt = textToTime(createdAt)
	return u, nil
}

// =============================================================================
// AREAS
// =============================================================================

func (s *Store) ListAreas(ctx context.Context) ([]tracking.Area, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, is_active, created_at FROM areas ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var areas []tracking.Area
	for rows.Next() {
		var (
			a         tracking.Area
			id        string
			createdAt string
		)
		if err := rows.Scan(&id, &a.Name, &a.IsActive, &createdAt); err != nil {
			return nil, err
		}
		a.ID = tracking.AreaID(id)
		a.CreatedAt = textToTime(createdAt)
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

func (s *Store) SaveArea(ctx context.Context, a tracking.Area) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO areas (id, name, is_active, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			is_active = excluded.is_active`,
		string(a.ID), a.Name, a.IsActive, timeToText(a.CreatedAt))
	return err
}

// =============================================================================
// PROJECTS
// =============================================================================

const projectColumns = `id, name, description, status, priority, project_type,
	area_id, created_by, assigned_user_id, estimated_hours, used_hours,
	is_active, due_date, created_at`

func (s *Store) ListProjects(ctx context.Context) ([]tracking.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []tracking.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Store) GetProject(ctx context.Context, id tracking.ProjectID) (*tracking.Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, string(id))
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tracking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) SaveProject(ctx context.Context, p tracking.Project) error {
	var areaID, assigned sql.NullString
	if p.AreaID != nil {
		areaID = sql.NullString{String: string(*p.AreaID), Valid: true}
	}
	if p.AssignedUserID != nil {
		assigned = sql.NullString{String: string(*p.AssignedUserID), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			status = excluded.status,
			priority = excluded.priority,
			project_type = excluded.project_type,
			area_id = excluded.area_id,
			assigned_user_id = excluded.assigned_user_id,
			estimated_hours = excluded.estimated_hours,
			used_hours = excluded.used_hours,
			is_active = excluded.is_active,
			due_date = excluded.due_date`,
		string(p.ID), p.Name, p.Description, string(p.Status), string(p.Priority),
		string(p.Type), areaID, string(p.CreatedBy), assigned,
		p.EstimatedHours.Float64(), p.UsedHours.Float64(),
		p.IsActive, dayToText(p.DueDate), timeToText(p.CreatedAt))
	return err
}

func (s *Store) DeleteProject(ctx context.Context, id tracking.ProjectID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return tracking.ErrNotFound
	}
	return nil
}

func scanProject(row rowScanner) (tracking.Project, error) {
	var (
		p                      tracking.Project
		id, status, priority   string
		projectType, createdBy string
		areaID, assigned, due  sql.NullString
		estimated, used        float64
		createdAt              string
	)
	if err := row.Scan(&id, &p.Name, &p.Description, &status, &priority,
		&projectType, &areaID, &createdBy, &assigned, &estimated, &used,
		&p.IsActive, &due, &createdAt); err != nil {
		return tracking.Project{}, err
	}
	p.ID = tracking.ProjectID(id)
	p.Status = tracking.ProjectStatus(status)
	p.Priority = tracking.Priority(priority)
	p.Type = tracking.ProjectType(projectType)
	p.CreatedBy = tracking.UserID(createdBy)
	if areaID.Valid {
		a := tracking.AreaID(areaID.String)
		p.AreaID = &a
	}
	if assigned.Valid {
		u := tracking.UserID(assigned.String)
		p.AssignedUserID = &u
	}
	p.EstimatedHours = tracking.NewHours(estimated)
	p.UsedHours = tracking.NewHours(used)
	p.DueDate = textToDay(due)
	p.CreatedAt = textToTime(createdAt)
	return p, nil
}

// =============================================================================
// TASKS
// =============================================================================

const taskColumns = `id, project_id, name, description, status, priority,
	assigned_user_id, created_by, estimated_hours, used_hours, due_date, created_at`

func (s *Store) ListTasks(ctx context.Context, projectID *tracking.ProjectID) ([]tracking.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var args []any
	if projectID != nil {
		query += ` WHERE project_id = ?`
		args = append(args, string(*projectID))
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []tracking.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) GetTask(ctx context.Context, id tracking.TaskID) (*tracking.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, string(id))
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tracking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) SaveTask(ctx context.Context, t tracking.Task) error {
	var assigned sql.NullString
	if t.AssignedUserID != nil {
		assigned = sql.NullString{String: string(*t.AssignedUserID), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			status = excluded.status,
			priority = excluded.priority,
			assigned_user_id = excluded.assigned_user_id,
			estimated_hours = excluded.estimated_hours,
			used_hours = excluded.used_hours,
			due_date = excluded.due_date`,
		string(t.ID), string(t.ProjectID), t.Name, t.Description,
		string(t.Status), string(t.Priority), assigned, string(t.CreatedBy),
		t.EstimatedHours.Float64(), t.UsedHours.Float64(),
		dayToText(t.DueDate), timeToText(t.CreatedAt))
	return err
}

func scanTask(row rowScanner) (tracking.Task, error) {
	var (
		t                     tracking.Task
		id, projectID, status string
		priority, createdBy   string
		assigned, due         sql.NullString
		estimated, used       float64
		createdAt             string
	)
	if err := row.Scan(&id, &projectID, &t.Name, &t.Description, &status,
		&priority, &assigned, &createdBy, &estimated, &used, &due, &createdAt); err != nil {
		return tracking.Task{}, err
	}
	t.ID = tracking.TaskID(id)
	t.ProjectID = tracking.ProjectID(projectID)
	t.Status = tracking.TaskStatus(status)
	t.Priority = tracking.Priority(priority)
	t.CreatedBy = tracking.UserID(createdBy)
	if assigned.Valid {
		u := tracking.UserID(assigned.String)
		t.AssignedUserID = &u
	}
	t.EstimatedHours = tracking.NewHours(estimated)
	t.UsedHours = tracking.NewHours(used)
	t.DueDate = textToDay(due)
	t.CreatedAt = textToTime(createdAt)
	return t, nil
}

// =============================================================================
// PROCESSES
// =============================================================================

const processColumns = `id, name, description, status, requirement_id,
	incident_id, area_id, created_by, estimated_hours, used_hours, created_at`

func (s *Store) ListProcesses(ctx context.Context) ([]tracking.Process, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+processColumns+` FROM processes ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var processes []tracking.Process
	for rows.Next() {
		p, err := scanProcess(rows)
		if err != nil {
			return nil, err
		}
		processes = append(processes, p)
	}
	return processes, rows.Err()
}

func (s *Store) GetProcess(ctx context.Context, id tracking.ProcessID) (*tracking.Process, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+processColumns+` FROM processes WHERE id = ?`, string(id))
	p, err := scanProcess(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tracking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) SaveProcess(ctx context.Context, p tracking.Process) error {
	var areaID sql.NullString
	if p.AreaID != nil {
		areaID = sql.NullString{String: string(*p.AreaID), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO processes (`+processColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			status = excluded.status,
			requirement_id = excluded.requirement_id,
			incident_id = excluded.incident_id,
			area_id = excluded.area_id,
			estimated_hours = excluded.estimated_hours,
			used_hours = excluded.used_hours`,
		string(p.ID), p.Name, p.Description, string(p.Status),
		nullText(p.RequirementID), nullText(p.IncidentID), areaID,
		string(p.CreatedBy), p.EstimatedHours.Float64(), p.UsedHours.Float64(),
		timeToText(p.CreatedAt))
	return err
}

func scanProcess(row rowScanner) (tracking.Process, error) {
	var (
		p                     tracking.Process
		id, status, createdBy string
		reqID, incID, areaID  sql.NullString
		estimated, used       float64
		createdAt             string
	)
	if err := row.Scan(&id, &p.Name, &p.Description, &status, &reqID, &incID,
		&areaID, &createdBy, &estimated, &used, &createdAt); err != nil {
		return tracking.Process{}, err
	}
	p.ID = tracking.ProcessID(id)
	p.Status = tracking.ProcessStatus(status)
	p.CreatedBy = tracking.UserID(createdBy)
	if reqID.Valid {
		v := reqID.String
		p.RequirementID = &v
	}
	if incID.Valid {
		v := incID.String
		p.IncidentID = &v
	}
	if areaID.Valid {
		a := tracking.AreaID(areaID.String)
		p.AreaID = &a
	}
	p.EstimatedHours = tracking.NewHours(estimated)
	p.UsedHours = tracking.NewHours(used)
	p.CreatedAt = textToTime(createdAt)
	return p, nil
}

// =============================================================================
// PROCESS ACTIVITIES
// =============================================================================

const processActivityColumns = `id, process_id, name, status, depends_on_id,
	assigned_user_id, estimated_hours, used_hours, created_at`

func (s *Store) ListProcessActivities(ctx context.Context, processID tracking.ProcessID) ([]tracking.ProcessActivity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+processActivityColumns+` FROM process_activities
		 WHERE process_id = ? ORDER BY id`, string(processID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pas []tracking.ProcessActivity
	for rows.Next() {
		pa, err := scanProcessActivity(rows)
		if err != nil {
			return nil, err
		}
		pas = append(pas, pa)
	}
	return pas, rows.Err()
}

func (s *Store) GetProcessActivity(ctx context.Context, id tracking.ProcessActivityID) (*tracking.ProcessActivity, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+processActivityColumns+` FROM process_activities WHERE id = ?`,
		string(id))
	pa, err := scanProcessActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tracking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pa, nil
}

func (s *Store) SaveProcessActivity(ctx context.Context, pa tracking.ProcessActivity) error {
	var dependsOn sql.NullString
	if pa.DependsOnID != nil {
		dependsOn = sql.NullString{String: string(*pa.DependsOnID), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO process_activities (`+processActivityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			status = excluded.status,
			depends_on_id = excluded.depends_on_id,
			assigned_user_id = excluded.assigned_user_id,
			estimated_hours = excluded.estimated_hours,
			used_hours = excluded.used_hours`,
		string(pa.ID), string(pa.ProcessID), pa.Name, string(pa.Status),
		dependsOn, string(pa.AssignedUserID),
		pa.EstimatedHours.Float64(), pa.UsedHours.Float64(),
		timeToText(pa.CreatedAt))
	return err
}

func scanProcessActivity(row rowScanner) (tracking.ProcessActivity, error) {
	var (
		pa                    tracking.ProcessActivity
		id, processID, status string
		assignedUserID        string
		dependsOn             sql.NullString
		estimated, used       float64
		createdAt             string
	)
	if err := row.Scan(&id, &processID, &pa.Name, &status, &dependsOn,
		&assignedUserID, &estimated, &used, &createdAt); err != nil {
		return tracking.ProcessActivity{}, err
	}
	pa.ID = tracking.ProcessActivityID(id)
	pa.ProcessID = tracking.ProcessID(processID)
	pa.Status = tracking.ProcessActivityStatus(status)
	pa.AssignedUserID = tracking.UserID(assignedUserID)
	if dependsOn.Valid {
		d := tracking.ProcessActivityID(dependsOn.String)
		pa.DependsOnID = &d
	}
	pa.EstimatedHours = tracking.NewHours(estimated)
	pa.UsedHours = tracking.NewHours(used)
	pa.CreatedAt = textToTime(createdAt)
	return pa, nil
}

// =============================================================================
// ACTIVITIES
// =============================================================================

const activityColumns = `id, user_id, area_id, project_id, task_id, name,
	activity_type, execution_time, date, month, other_area, observations, created_at`

func (s *Store) ListActivities(ctx context.Context, filter tracking.ActivityFilter) ([]tracking.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE 1=1`
	var args []any
	if filter.UserID != nil {
		query += ` AND user_id = ?`
		args = append(args, string(*filter.UserID))
	}
	if filter.AreaID != nil {
		query += ` AND area_id = ?`
		args = append(args, string(*filter.AreaID))
	}
	if filter.ProjectID != nil {
		query += ` AND project_id = ?`
		args = append(args, string(*filter.ProjectID))
	}
	if filter.TaskID != nil {
		query += ` AND task_id = ?`
		args = append(args, string(*filter.TaskID))
	}
	if filter.Type != nil {
		query += ` AND activity_type = ?`
		args = append(args, string(*filter.Type))
	}
	if filter.Month != nil {
		query += ` AND month = ?`
		args = append(args, *filter.Month)
	}
	if filter.DateFrom != nil {
		query += ` AND date >= ?`
		args = append(args, filter.DateFrom.String())
	}
	if filter.DateTo != nil {
		query += ` AND date <= ?`
		args = append(args, filter.DateTo.String())
	}
	query += ` ORDER BY date DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []tracking.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (s *Store) GetActivity(ctx context.Context, id tracking.ActivityID) (*tracking.Activity, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE id = ?`, string(id))
	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tracking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) SaveActivity(ctx context.Context, a tracking.Activity) error {
	var areaID, projectID, taskID sql.NullString
	if a.AreaID != nil {
		areaID = sql.NullString{String: string(*a.AreaID), Valid: true}
	}
	if a.ProjectID != nil {
		projectID = sql.NullString{String: string(*a.ProjectID), Valid: true}
	}
	if a.TaskID != nil {
		taskID = sql.NullString{String: string(*a.TaskID), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activities (`+activityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			activity_type = excluded.activity_type,
			execution_time = excluded.execution_time,
			other_area = excluded.other_area,
			observations = excluded.observations`,
		string(a.ID), string(a.UserID), areaID, projectID, taskID, a.Name,
		string(a.Type), a.ExecutionTime.Float64(), a.Date.String(), a.Month,
		a.OtherArea, a.Observations, timeToText(a.CreatedAt))
	return err
}

func (s *Store) DeleteActivity(ctx context.Context, id tracking.ActivityID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return tracking.ErrNotFound
	}
	return nil
}

func scanActivity(row rowScanner) (tracking.Activity, error) {
	var (
		a                         tracking.Activity
		id, userID, activityType  string
		areaID, projectID, taskID sql.NullString
		execution                 float64
		date, createdAt           string
	)
	if err := row.Scan(&id, &userID, &areaID, &projectID, &taskID, &a.Name,
		&activityType, &execution, &date, &a.Month, &a.OtherArea,
		&a.Observations, &createdAt); err != nil {
		return tracking.Activity{}, err
	}
	a.ID = tracking.ActivityID(id)
	a.UserID = tracking.UserID(userID)
	a.Type = tracking.ActivityType(activityType)
	if areaID.Valid {
		v := tracking.AreaID(areaID.String)
		a.AreaID = &v
	}
	if projectID.Valid {
		v := tracking.ProjectID(projectID.String)
		a.ProjectID = &v
	}
	if taskID.Valid {
		v := tracking.TaskID(taskID.String)
		a.TaskID = &v
	}
	a.ExecutionTime = tracking.NewHours(execution)
	if d, err := tracking.ParseDay(date); err == nil {
		a.Date = d
	}
	a.CreatedAt = textToTime(createdAt)
	return a, nil
}
