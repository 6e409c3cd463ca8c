/*
board_test.go - Unit tests for the transition policy and dependency gating

CORE DESIGN:
- Any legal state moves to any other legal state (free graph, no terminal lock)
- The only gate is the actor's edit permission
- Dependency walks terminate on corrupted cycles instead of hanging
*/
package tracking

import (
	"errors"
	"testing"
)

func superadmin() User { return User{ID: "root", Role: RoleSuperAdmin} }

func areaAdmin(area AreaID) User {
	return User{ID: "admin", Role: RoleAdmin, AreaID: &area}
}

// =============================================================================
// TRANSITION POLICY TESTS
// =============================================================================

func TestCanTransition_CompletedReopens(t *testing.T) {
	// GIVEN: A completed project and its creator
	// WHEN: Moving it back to in_progress
	// THEN: Allowed -- no terminal-state lock

	p := project("p1", 10, 10, ProjectStatusCompleted)
	p.CreatedBy = "owner"
	actor := User{ID: "owner", Role: RoleUser}

	if err := CanTransition(actor, p, string(ProjectStatusInProgress)); err != nil {
		t.Errorf("reopening a completed project should be legal, got %v", err)
	}
}

func TestCanTransition_IllegalStatusRejected(t *testing.T) {
	p := project("p1", 10, 0, ProjectStatusAssigned)

	err := CanTransition(superadmin(), p, "archived")
	if !errors.Is(err, ErrIllegalStatus) {
		t.Errorf("Expected ErrIllegalStatus for unknown status, got %v", err)
	}

	var trErr *TransitionError
	if !errors.As(err, &trErr) {
		t.Fatalf("Expected a TransitionError, got %T", err)
	}
	if trErr.Kind != KindProject || trErr.To != "archived" {
		t.Errorf("TransitionError context wrong: %+v", trErr)
	}
}

func TestCanTransition_PermissionGate(t *testing.T) {
	// GIVEN: A project owned by someone else, no assignment, no shared area
	// WHEN: A regular user tries to move it
	// THEN: ErrPermissionDenied

	p := project("p1", 10, 0, ProjectStatusAssigned)
	p.CreatedBy = "someone-else"
	stranger := User{ID: "stranger", Role: RoleUser}

	err := CanTransition(stranger, p, string(ProjectStatusInProgress))
	if !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Expected ErrPermissionDenied, got %v", err)
	}
}

func TestCanEdit_Rules(t *testing.T) {
	area := AreaID("a1")
	otherArea := AreaID("a2")
	assignee := UserID("dev")

	p := project("p1", 10, 0, ProjectStatusAssigned)
	p.CreatedBy = "owner"
	p.AreaID = &area
	p.AssignedUserID = &assignee

	cases := []struct {
		name  string
		actor User
		want  bool
	}{
		{"superadmin always", superadmin(), true},
		{"admin same area", areaAdmin(area), true},
		{"admin other area", areaAdmin(otherArea), false},
		{"creator", User{ID: "owner", Role: RoleUser}, true},
		{"assignee", User{ID: assignee, Role: RoleUser}, true},
		{"stranger", User{ID: "stranger", Role: RoleUser}, false},
	}
	for _, c := range cases {
		if got := CanEdit(c.actor, p); got != c.want {
			t.Errorf("%s: CanEdit = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestLegalStatus_SpanishProcessStates(t *testing.T) {
	for _, s := range []string{"Activo", "En Pausa", "Completado", "Cancelado"} {
		if !LegalStatus(KindProcess, s) {
			t.Errorf("%q should be a legal process status", s)
		}
	}
	if LegalStatus(KindProcess, "active") {
		t.Error("English lowercase should not be legal for processes")
	}
}

func TestInitialStatus(t *testing.T) {
	cases := map[EntityKind]string{
		KindProject:         "unassigned",
		KindTask:            "backlog",
		KindProcess:         "Activo",
		KindProcessActivity: "pending",
	}
	for kind, want := range cases {
		if got := InitialStatus(kind); got != want {
			t.Errorf("InitialStatus(%s) = %q, want %q", kind, got, want)
		}
	}
}

// =============================================================================
// DEPENDENCY GRAPH TESTS
// =============================================================================

func step(id string, status ProcessActivityStatus, dependsOn *ProcessActivityID) ProcessActivity {
	return ProcessActivity{
		ID:             ProcessActivityID(id),
		ProcessID:      "proc",
		Name:           id,
		Status:         status,
		DependsOnID:    dependsOn,
		AssignedUserID: "dev",
	}
}

func TestCanStart_ChainSatisfied(t *testing.T) {
	// GIVEN: a <- b <- c with a and b completed
	// WHEN: Asking whether c can start
	// THEN: Yes

	aID := ProcessActivityID("a")
	bID := ProcessActivityID("b")
	g := NewDependencyGraph([]ProcessActivity{
		step("a", ProcessActivityStatusCompleted, nil),
		step("b", ProcessActivityStatusCompleted, &aID),
		step("c", ProcessActivityStatusPending, &bID),
	})

	if err := g.CanStart("c"); err != nil {
		t.Errorf("c should be startable, got %v", err)
	}
}

func TestCanStart_TransitiveUnmetDependency(t *testing.T) {
	// GIVEN: a <- b <- c where a (two hops up) is still in progress
	// WHEN: Asking whether c can start
	// THEN: Blocked by a, found through the transitive walk

	aID := ProcessActivityID("a")
	bID := ProcessActivityID("b")
	g := NewDependencyGraph([]ProcessActivity{
		step("a", ProcessActivityStatusInProgress, nil),
		step("b", ProcessActivityStatusCompleted, &aID),
		step("c", ProcessActivityStatusPending, &bID),
	})

	err := g.CanStart("c")
	if !errors.Is(err, ErrDependencyUnmet) {
		t.Fatalf("Expected ErrDependencyUnmet, got %v", err)
	}
	var depErr *DependencyError
	if !errors.As(err, &depErr) || depErr.DependsOn != "a" {
		t.Errorf("blocker should be a, got %+v", depErr)
	}
}

func TestCanStart_CycleTerminates(t *testing.T) {
	// GIVEN: Corrupted data where a and b depend on each other
	// WHEN: Walking the chain
	// THEN: The walk terminates with ErrCircularDependency, no hang

	aID := ProcessActivityID("a")
	bID := ProcessActivityID("b")
	g := NewDependencyGraph([]ProcessActivity{
		step("a", ProcessActivityStatusCompleted, &bID),
		step("b", ProcessActivityStatusCompleted, &aID),
	})

	err := g.CanStart("a")
	if !errors.Is(err, ErrCircularDependency) {
		t.Errorf("Expected ErrCircularDependency, got %v", err)
	}
}

func TestBlocked_DirectDependents(t *testing.T) {
	aID := ProcessActivityID("a")
	g := NewDependencyGraph([]ProcessActivity{
		step("a", ProcessActivityStatusInProgress, nil),
		step("b", ProcessActivityStatusPending, &aID),
		step("c", ProcessActivityStatusPending, &aID),
	})

	blocked := g.Blocked("a")
	if len(blocked) != 2 {
		t.Errorf("len(blocked) = %d, want 2", len(blocked))
	}
}

func TestChain_RootFirst(t *testing.T) {
	aID := ProcessActivityID("a")
	bID := ProcessActivityID("b")
	g := NewDependencyGraph([]ProcessActivity{
		step("a", ProcessActivityStatusCompleted, nil),
		step("b", ProcessActivityStatusCompleted, &aID),
		step("c", ProcessActivityStatusPending, &bID),
	})

	chain := g.Chain("c")
	want := []ProcessActivityID{"a", "b", "c"}
	if len(chain) != len(want) {
		t.Fatalf("chain length = %d, want %d", len(chain), len(want))
	}
	for i := range want {
		if chain[i] != want[i] {
			t.Errorf("chain[%d] = %s, want %s", i, chain[i], want[i])
		}
	}
}

func TestWouldCycle(t *testing.T) {
	aID := ProcessActivityID("a")
	g := NewDependencyGraph([]ProcessActivity{
		step("a", ProcessActivityStatusPending, nil),
		step("b", ProcessActivityStatusPending, &aID),
	})

	if !g.WouldCycle("a", "b") {
		t.Error("a depending on b would close a cycle")
	}
	if !g.WouldCycle("a", "a") {
		t.Error("self-dependency is a cycle")
	}
	if g.WouldCycle("b", "a") {
		t.Error("b already depends on a; that edge is not a cycle")
	}
}

func TestGateTransition_BlocksInProgressOnly(t *testing.T) {
	// GIVEN: A step whose dependency is not completed
	// WHEN: Moving it to in_progress vs. to assigned
	// THEN: in_progress is blocked by the dependency; assigned is not

	aID := ProcessActivityID("a")
	pending := step("b", ProcessActivityStatusPending, &aID)
	g := NewDependencyGraph([]ProcessActivity{
		step("a", ProcessActivityStatusInProgress, nil),
		pending,
	})

	err := g.GateTransition(superadmin(), pending, string(ProcessActivityStatusInProgress))
	if !errors.Is(err, ErrDependencyUnmet) {
		t.Errorf("Expected ErrDependencyUnmet for in_progress, got %v", err)
	}

	if err := g.GateTransition(superadmin(), pending, string(ProcessActivityStatusAssigned)); err != nil {
		t.Errorf("non-starting transition should pass the gate, got %v", err)
	}
}
