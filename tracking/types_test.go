/*
types_test.go - Unit tests for edit-boundary validation rules

CORE DESIGN:
- Rules fire on create/update, never during aggregation
- Month is derived from Date and kept in sync by SetDate
*/
package tracking

import (
	"errors"
	"testing"
	"time"
)

func validActivity() Activity {
	a := Activity{
		ID:            "a1",
		UserID:        "u1",
		Name:          "trabajo",
		Type:          ActivityTypeInterno,
		ExecutionTime: NewHours(2),
	}
	a.SetDate(NewDay(2026, time.June, 15))
	return a
}

func TestActivityValidate_OK(t *testing.T) {
	if err := validActivity().Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestActivityValidate_ExecutionTimeMustBePositive(t *testing.T) {
	a := validActivity()
	a.ExecutionTime = ZeroHours()
	if err := a.Validate(); !errors.Is(err, ErrInvalidExecutionTime) {
		t.Errorf("Expected ErrInvalidExecutionTime for 0, got %v", err)
	}

	a.ExecutionTime = NewHours(-1)
	if err := a.Validate(); !errors.Is(err, ErrInvalidExecutionTime) {
		t.Errorf("Expected ErrInvalidExecutionTime for negative, got %v", err)
	}
}

func TestActivityValidate_UnknownType(t *testing.T) {
	a := validActivity()
	a.Type = "mystery"

	var ve *ValidationError
	if err := a.Validate(); !errors.As(err, &ve) {
		t.Errorf("Expected ValidationError for unknown type, got %v", err)
	}
}

func TestActivityValidate_ProjectRequiresObservations(t *testing.T) {
	// GIVEN: An activity linked to a project with empty observations
	// WHEN: Validating
	// THEN: ErrObservationsRequired; adding observations clears it

	pid := ProjectID("p1")
	a := validActivity()
	a.ProjectID = &pid

	if err := a.Validate(); !errors.Is(err, ErrObservationsRequired) {
		t.Errorf("Expected ErrObservationsRequired, got %v", err)
	}

	a.Observations = "avance del módulo"
	if err := a.Validate(); err != nil {
		t.Errorf("unexpected error after adding observations: %v", err)
	}
}

func TestActivityValidate_SupportRequiresOtherArea(t *testing.T) {
	a := validActivity()
	a.Type = ActivityTypeApoyoSolicitadoPorOtrasAreas

	if err := a.Validate(); !errors.Is(err, ErrOtherAreaRequired) {
		t.Errorf("Expected ErrOtherAreaRequired, got %v", err)
	}

	a.OtherArea = "Finanzas"
	if err := a.Validate(); err != nil {
		t.Errorf("unexpected error after naming the area: %v", err)
	}
}

func TestActivitySetDate_KeepsMonthInSync(t *testing.T) {
	a := validActivity()
	if a.Month != "2026-06" {
		t.Fatalf("month = %q, want 2026-06", a.Month)
	}

	a.SetDate(NewDay(2026, time.December, 1))
	if a.Month != "2026-12" {
		t.Errorf("month after SetDate = %q, want 2026-12", a.Month)
	}
}

func TestValidActivityType_AllTen(t *testing.T) {
	known := []ActivityType{
		ActivityTypePlanDeTrabajo, ActivityTypeApoyoSolicitadoPorOtrasAreas,
		ActivityTypeTeams, ActivityTypeInterno, ActivityTypeSesion,
		ActivityTypeInvestigacion, ActivityTypePrototipado,
		ActivityTypeDisenos, ActivityTypePruebas, ActivityTypeDocumentacion,
	}
	for _, typ := range known {
		if !ValidActivityType(typ) {
			t.Errorf("%s should be valid", typ)
		}
	}
	if ValidActivityType("otro") {
		t.Error("unknown type should be invalid")
	}
}

func TestTaskGates(t *testing.T) {
	cases := []struct {
		status      TaskStatus
		assignable  bool
		registrable bool
	}{
		{TaskStatusBacklog, true, false},
		{TaskStatusAssigned, true, false},
		{TaskStatusInProgress, false, true},
		{TaskStatusPaused, false, false},
		{TaskStatusCompleted, false, true},
	}
	for _, c := range cases {
		task := Task{Status: c.status}
		if task.CanBeAssigned() != c.assignable {
			t.Errorf("%s: CanBeAssigned = %v, want %v", c.status, task.CanBeAssigned(), c.assignable)
		}
		if task.CanRegisterActivity() != c.registrable {
			t.Errorf("%s: CanRegisterActivity = %v, want %v", c.status, task.CanRegisterActivity(), c.registrable)
		}
	}
}

func TestUserValidate_AdminRequiresArea(t *testing.T) {
	u := User{ID: "u1", Role: RoleAdmin}

	var ve *ValidationError
	if err := u.Validate(); !errors.As(err, &ve) {
		t.Errorf("Expected ValidationError for area-less admin, got %v", err)
	}

	area := AreaID("a1")
	u.AreaID = &area
	if err := u.Validate(); err != nil {
		t.Errorf("unexpected error for admin with area: %v", err)
	}
}

func TestUserHasAccessToArea(t *testing.T) {
	eng := AreaID("eng")
	ops := AreaID("ops")

	if !(User{Role: RoleSuperAdmin}).HasAccessToArea(eng) {
		t.Error("superadmin should access any area")
	}
	admin := User{Role: RoleAdmin, AreaID: &eng}
	if !admin.HasAccessToArea(eng) || admin.HasAccessToArea(ops) {
		t.Error("admin should access exactly their own area")
	}
	if (User{Role: RoleUser, AreaID: &eng}).HasAccessToArea(eng) {
		t.Error("regular users do not manage areas")
	}
}
