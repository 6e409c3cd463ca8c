// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/Jaliko05/time-flow-sub000/tracking"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu                sync.RWMutex
	users             map[tracking.UserID]tracking.User
	areas             map[tracking.AreaID]tracking.Area
	projects          map[tracking.ProjectID]tracking.Project
	tasks             map[tracking.TaskID]tracking.Task
	processes         map[tracking.ProcessID]tracking.Process
	processActivities map[tracking.ProcessActivityID]tracking.ProcessActivity
	activities        map[tracking.ActivityID]tracking.Activity
}

func NewMemory() *Memory {
	return &Memory{
		users:             make(map[tracking.UserID]tracking.User),
		areas:             make(map[tracking.AreaID]tracking.Area),
		projects:          make(map[tracking.ProjectID]tracking.Project),
		tasks:             make(map[tracking.TaskID]tracking.Task),
		processes:         make(map[tracking.ProcessID]tracking.Process),
		processActivities: make(map[tracking.ProcessActivityID]tracking.ProcessActivity),
		activities:        make(map[tracking.ActivityID]tracking.Activity),
	}
}

// Compile-time check that Memory implements tracking.Store.
var _ tracking.Store = (*Memory)(nil)

// -----------------------------------------------------------------------------
// Users
// -----------------------------------------------------------------------------

func (m *Memory) ListUsers(_ context.Context) ([]tracking.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]tracking.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *Memory) GetUser(_ context.Context, id tracking.UserID) (*tracking.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, tracking.ErrNotFound
	}
	return &u, nil
}

func (m *Memory) SaveUser(_ context.Context, u tracking.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

// -----------------------------------------------------------------------------
// Areas
// -----------------------------------------------------------------------------

func (m *Memory) ListAreas(_ context.Context) ([]tracking.Area, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	areas := make([]tracking.Area, 0, len(m.areas))
	for _, a := range m.areas {
		areas = append(areas, a)
	}
	sort.Slice(areas, func(i, j int) bool { return areas[i].ID < areas[j].ID })
	return areas, nil
}

func (m *Memory) SaveArea(_ context.Context, a tracking.Area) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.areas[a.ID] = a
	return nil
}

// -----------------------------------------------------------------------------
// Projects
// -----------------------------------------------------------------------------

func (m *Memory) ListProjects(_ context.Context) ([]tracking.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	projects := make([]tracking.Project, 0, len(m.projects))
	for _, p := range m.projects {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}

func (m *Memory) GetProject(_ context.Context, id tracking.ProjectID) (*tracking.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, tracking.ErrNotFound
	}
	return &p, nil
}

func (m *Memory) SaveProject(_ context.Context, p tracking.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[p.ID] = p
	return nil
}

func (m *Memory) DeleteProject(_ context.Context, id tracking.ProjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return tracking.ErrNotFound
	}
	delete(m.projects, id)
	return nil
}

// -----------------------------------------------------------------------------
// Tasks
// -----------------------------------------------------------------------------

func (m *Memory) ListTasks(_ context.Context, projectID *tracking.ProjectID) ([]tracking.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tasks := make([]tracking.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if projectID != nil && t.ProjectID != *projectID {
			continue
		}
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (m *Memory) GetTask(_ context.Context, id tracking.TaskID) (*tracking.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, tracking.ErrNotFound
	}
	return &t, nil
}

func (m *Memory) SaveTask(_ context.Context, t tracking.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[t.ID] = t
	return nil
}

// -----------------------------------------------------------------------------
// Processes
// -----------------------------------------------------------------------------

func (m *Memory) ListProcesses(_ context.Context) ([]tracking.Process, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	processes := make([]tracking.Process, 0, len(m.processes))
	for _, p := range m.processes {
		processes = append(processes, p)
	}
	sort.Slice(processes, func(i, j int) bool { return processes[i].ID < processes[j].ID })
	return processes, nil
}

func (m *Memory) GetProcess(_ context.Context, id tracking.ProcessID) (*tracking.Process, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.processes[id]
	if !ok {
		return nil, tracking.ErrNotFound
	}
	return &p, nil
}

func (m *Memory) SaveProcess(_ context.Context, p tracking.Process) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processes[p.ID] = p
	return nil
}

// -----------------------------------------------------------------------------
// Process activities
// -----------------------------------------------------------------------------

func (m *Memory) ListProcessActivities(_ context.Context, processID tracking.ProcessID) ([]tracking.ProcessActivity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var pas []tracking.ProcessActivity
	for _, pa := range m.processActivities {
		if pa.ProcessID == processID {
			pas = append(pas, pa)
		}
	}
	sort.Slice(pas, func(i, j int) bool { return pas[i].ID < pas[j].ID })
	return pas, nil
}

func (m *Memory) GetProcessActivity(_ context.Context, id tracking.ProcessActivityID) (*tracking.ProcessActivity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pa, ok := m.processActivities[id]
	if !ok {
		return nil, tracking.ErrNotFound
	}
	return &pa, nil
}

func (m *Memory) SaveProcessActivity(_ context.Context, pa tracking.ProcessActivity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processActivities[pa.ID] = pa
	return nil
}

// -----------------------------------------------------------------------------
// Activities
// -----------------------------------------------------------------------------

func (m *Memory) ListActivities(_ context.Context, filter tracking.ActivityFilter) ([]tracking.Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var activities []tracking.Activity
	for _, a := range m.activities {
		if filter.Matches(a) {
			activities = append(activities, a)
		}
	}
	// Newest first, matching the SQLite ordering.
	sort.Slice(activities, func(i, j int) bool {
		if !activities[i].Date.Equal(activities[j].Date) {
			return activities[j].Date.Before(activities[i].Date)
		}
		return activities[i].ID < activities[j].ID
	})
	return activities, nil
}

func (m *Memory) GetActivity(_ context.Context, id tracking.ActivityID) (*tracking.Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.activities[id]
	if !ok {
		return nil, tracking.ErrNotFound
	}
	return &a, nil
}

func (m *Memory) SaveActivity(_ context.Context, a tracking.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activities[a.ID] = a
	return nil
}

func (m *Memory) DeleteActivity(_ context.Context, id tracking.ActivityID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.activities[id]; !ok {
		return tracking.ErrNotFound
	}
	delete(m.activities, id)
	return nil
}
