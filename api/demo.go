/*
demo.go - Demo data seeding

PURPOSE:
  Seeds a small but complete data set so the API is explorable right after
  startup: an area, one user per role, projects in several board states, a
  task, a process with a dependency chain, and a week of logged activities.

  Seeding is idempotent in effect: fixed IDs make re-seeding overwrite the
  same records instead of multiplying them.

SEE ALSO:
  - cmd/server/main.go: runs the seed when demo.seed is enabled
*/
package api

import (
	"context"
	"time"

	"github.com/Jaliko05/time-flow-sub000/tracking"
)

// Fixed IDs so the demo data can be referenced from docs and re-seeded.
const (
	DemoAreaID       = "area-demo"
	DemoSuperAdminID = "user-root"
	DemoAdminID      = "user-admin"
	DemoUserID       = "user-dev"
)

var demoSchedule = tracking.WorkSchedule{
	"monday":    {Enabled: true, Start: "09:00", End: "18:00"},
	"tuesday":   {Enabled: true, Start: "09:00", End: "18:00"},
	"wednesday": {Enabled: true, Start: "09:00", End: "18:00"},
	"thursday":  {Enabled: true, Start: "09:00", End: "18:00"},
	"friday":    {Enabled: true, Start: "09:00", End: "18:00"},
}

var demoLunch = tracking.LunchBreak{Enabled: true, Start: "13:00", End: "14:00"}

// SeedDemo populates the store with demo data.
func SeedDemo(ctx context.Context, store tracking.Store) error {
	now := time.Now().UTC()
	area := tracking.AreaID(DemoAreaID)

	if err := store.SaveArea(ctx, tracking.Area{
		ID: area, Name: "Ingeniería", IsActive: true, CreatedAt: now,
	}); err != nil {
		return err
	}

	users := []tracking.User{
		{
			ID: DemoSuperAdminID, Email: "root@timeflow.local", FullName: "Root Admin",
			Role: tracking.RoleSuperAdmin, IsActive: true,
			WorkSchedule: demoSchedule, LunchBreak: demoLunch, CreatedAt: now,
		},
		{
			ID: DemoAdminID, Email: "admin@timeflow.local", FullName: "Area Admin",
			Role: tracking.RoleAdmin, AreaID: &area, IsActive: true,
			WorkSchedule: demoSchedule, LunchBreak: demoLunch, CreatedAt: now,
		},
		{
			ID: DemoUserID, Email: "dev@timeflow.local", FullName: "Demo Developer",
			Role: tracking.RoleUser, AreaID: &area, IsActive: true,
			WorkSchedule: demoSchedule, LunchBreak: demoLunch, CreatedAt: now,
		},
	}
	for _, u := range users {
		if err := store.SaveUser(ctx, u); err != nil {
			return err
		}
	}

	dev := tracking.UserID(DemoUserID)
	projects := []tracking.Project{
		{
			ID: "project-portal", Name: "Portal de Clientes",
			Description: "Rediseño del portal web",
			Status:      tracking.ProjectStatusInProgress,
			Priority:    tracking.PriorityHigh, Type: tracking.ProjectTypeArea,
			AreaID: &area, CreatedBy: DemoAdminID, AssignedUserID: &dev,
			EstimatedHours: tracking.NewHours(80), UsedHours: tracking.NewHours(18.5),
			IsActive: true, CreatedAt: now,
		},
		{
			ID: "project-api", Name: "API de Reportes",
			Status:   tracking.ProjectStatusAssigned,
			Priority: tracking.PriorityMedium, Type: tracking.ProjectTypeArea,
			AreaID: &area, CreatedBy: DemoAdminID, AssignedUserID: &dev,
			EstimatedHours: tracking.NewHours(40), UsedHours: tracking.ZeroHours(),
			IsActive: true, CreatedAt: now,
		},
		{
			ID: "project-backlog", Name: "Migración de Datos",
			Status:   tracking.ProjectStatusUnassigned,
			Priority: tracking.PriorityLow, Type: tracking.ProjectTypeArea,
			AreaID: &area, CreatedBy: DemoAdminID,
			EstimatedHours: tracking.NewHours(24), UsedHours: tracking.ZeroHours(),
			IsActive: true, CreatedAt: now,
		},
	}
	for _, p := range projects {
		if err := store.SaveProject(ctx, p); err != nil {
			return err
		}
	}

	if err := store.SaveTask(ctx, tracking.Task{
		ID: "task-login", ProjectID: "project-portal",
		Name: "Pantalla de inicio de sesión",
		Status: tracking.TaskStatusInProgress, Priority: tracking.PriorityHigh,
		AssignedUserID: &dev, CreatedBy: DemoAdminID,
		EstimatedHours: tracking.NewHours(20), UsedHours: tracking.NewHours(18.5),
		CreatedAt: now,
	}); err != nil {
		return err
	}

	if err := store.SaveProcess(ctx, tracking.Process{
		ID: "process-release", Name: "Despliegue v2.0",
		Status: tracking.ProcessStatusActive, AreaID: &area,
		CreatedBy:      DemoAdminID,
		EstimatedHours: tracking.NewHours(16), UsedHours: tracking.NewHours(4),
		CreatedAt: now,
	}); err != nil {
		return err
	}

	// Three-step chain: build -> test -> deploy.
	buildID := tracking.ProcessActivityID("pa-build")
	testID := tracking.ProcessActivityID("pa-test")
	steps := []tracking.ProcessActivity{
		{
			ID: buildID, ProcessID: "process-release", Name: "Compilar artefactos",
			Status: tracking.ProcessActivityStatusCompleted, AssignedUserID: dev,
			EstimatedHours: tracking.NewHours(4), UsedHours: tracking.NewHours(4),
			CreatedAt: now,
		},
		{
			ID: testID, ProcessID: "process-release", Name: "Pruebas de regresión",
			Status: tracking.ProcessActivityStatusInProgress, DependsOnID: &buildID,
			AssignedUserID: dev,
			EstimatedHours: tracking.NewHours(8), UsedHours: tracking.ZeroHours(),
			CreatedAt: now,
		},
		{
			ID: "pa-deploy", ProcessID: "process-release", Name: "Desplegar a producción",
			Status: tracking.ProcessActivityStatusPending, DependsOnID: &testID,
			AssignedUserID: dev,
			EstimatedHours: tracking.NewHours(4), UsedHours: tracking.ZeroHours(),
			CreatedAt: now,
		},
	}
	for _, pa := range steps {
		if err := store.SaveProcessActivity(ctx, pa); err != nil {
			return err
		}
	}

	// A week of activities for the demo developer.
	projectID := tracking.ProjectID("project-portal")
	taskID := tracking.TaskID("task-login")
	today := tracking.Today()
	logs := []struct {
		id      string
		daysAgo int
		name    string
		typ     tracking.ActivityType
		hours   float64
		project bool
	}{
		{"act-1", 0, "Maquetar formulario de login", tracking.ActivityTypePlanDeTrabajo, 3.5, true},
		{"act-2", 0, "Reunión diaria", tracking.ActivityTypeTeams, 0.5, false},
		{"act-3", 1, "Validación de credenciales", tracking.ActivityTypePlanDeTrabajo, 6, true},
		{"act-4", 2, "Investigar librería OAuth", tracking.ActivityTypeInvestigacion, 4, false},
		{"act-5", 3, "Pruebas del formulario", tracking.ActivityTypePruebas, 5, true},
		{"act-6", 4, "Documentar flujo de acceso", tracking.ActivityTypeDocumentacion, 4, true},
	}
	for _, l := range logs {
		a := tracking.Activity{
			ID:            tracking.ActivityID(l.id),
			UserID:        dev,
			AreaID:        &area,
			Name:          l.name,
			Type:          l.typ,
			ExecutionTime: tracking.NewHours(l.hours),
			CreatedAt:     now,
		}
		a.SetDate(today.AddDays(-l.daysAgo))
		if l.project {
			a.ProjectID = &projectID
			a.TaskID = &taskID
			a.Observations = "Avance registrado en la demo"
		}
		if err := store.SaveActivity(ctx, a); err != nil {
			return err
		}
	}

	return nil
}
