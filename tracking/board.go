/*
board.go - Status transition policy and dependency gating

PURPOSE:
  Enumerates the legal states for projects, tasks, processes, and process
  activities, and decides which actor may move an entity between states.
  Consumed by the Kanban boards and the status-update endpoints.

MODEL:
  This is a permission-gated FREE GRAPH, not a sequential state machine:
  every legal state may move to every other legal state via explicit user
  action, gated only by the actor's edit rights on the entity. There is no
  terminal-state lock; completed items can be reopened. Encoding the
  policy as a predicate instead of an edge list keeps the any-to-any rule
  explicit.

DEPENDENCY GATING:
  Process activities carry depends_on edges forming a DAG. An activity
  with an unmet dependency must not move to in_progress. CanStart walks
  the dependency chain over an adjacency map with an iterative visited-set
  guard, so a corrupted cycle terminates (and blocks) instead of looping.

ENFORCEMENT:
  The policy only answers legality. Rejecting an illegal actor with an
  authorization error is the API layer's job.

SEE ALSO:
  - errors.go: TransitionError, DependencyError
  - api/handlers.go: status endpoints
*/
package tracking

// =============================================================================
// ENTITY KINDS AND LEGAL STATE SETS
// =============================================================================

type EntityKind string

const (
	KindProject         EntityKind = "project"
	KindTask            EntityKind = "task"
	KindProcess         EntityKind = "process"
	KindProcessActivity EntityKind = "process_activity"
)

var legalStates = map[EntityKind]map[string]bool{
	KindProject: {
		string(ProjectStatusUnassigned): true,
		string(ProjectStatusAssigned):   true,
		string(ProjectStatusInProgress): true,
		string(ProjectStatusPaused):     true,
		string(ProjectStatusCompleted):  true,
	},
	KindTask: {
		string(TaskStatusBacklog):    true,
		string(TaskStatusAssigned):   true,
		string(TaskStatusInProgress): true,
		string(TaskStatusPaused):     true,
		string(TaskStatusCompleted):  true,
	},
	KindProcess: {
		string(ProcessStatusActive):    true,
		string(ProcessStatusPaused):    true,
		string(ProcessStatusCompleted): true,
		string(ProcessStatusCancelled): true,
	},
	KindProcessActivity: {
		string(ProcessActivityStatusPending):    true,
		string(ProcessActivityStatusAssigned):   true,
		string(ProcessActivityStatusInProgress): true,
		string(ProcessActivityStatusBlocked):    true,
		string(ProcessActivityStatusCompleted):  true,
	},
}

// LegalStatus reports whether status belongs to the kind's legal set.
func LegalStatus(kind EntityKind, status string) bool {
	return legalStates[kind][status]
}

// InitialStatus is the lowest-privilege starting state per entity kind.
func InitialStatus(kind EntityKind) string {
	switch kind {
	case KindProject:
		return string(ProjectStatusUnassigned)
	case KindTask:
		return string(TaskStatusBacklog)
	case KindProcess:
		return string(ProcessStatusActive)
	default:
		return string(ProcessActivityStatusPending)
	}
}

// =============================================================================
// BOARDABLE ENTITIES
// =============================================================================

// Boardable is anything that lives on a status board.
type Boardable interface {
	BoardKind() EntityKind
	BoardStatus() string
	BoardOwner() UserID
	BoardAssignee() *UserID
	BoardArea() *AreaID
}

func (p Project) BoardKind() EntityKind { return KindProject }
func (p Project) BoardStatus() string   { return string(p.Status) }
func (p Project) BoardOwner() UserID    { return p.CreatedBy }
func (p Project) BoardAssignee() *UserID { return p.AssignedUserID }
func (p Project) BoardArea() *AreaID    { return p.AreaID }

func (t Task) BoardKind() EntityKind  { return KindTask }
func (t Task) BoardStatus() string    { return string(t.Status) }
func (t Task) BoardOwner() UserID     { return t.CreatedBy }
func (t Task) BoardAssignee() *UserID { return t.AssignedUserID }
func (t Task) BoardArea() *AreaID     { return nil }

func (p Process) BoardKind() EntityKind  { return KindProcess }
func (p Process) BoardStatus() string    { return string(p.Status) }
func (p Process) BoardOwner() UserID     { return p.CreatedBy }
func (p Process) BoardAssignee() *UserID { return nil }
func (p Process) BoardArea() *AreaID     { return p.AreaID }

func (pa ProcessActivity) BoardKind() EntityKind { return KindProcessActivity }
func (pa ProcessActivity) BoardStatus() string   { return string(pa.Status) }
func (pa ProcessActivity) BoardOwner() UserID    { return pa.AssignedUserID }
func (pa ProcessActivity) BoardAssignee() *UserID {
	id := pa.AssignedUserID
	return &id
}
func (pa ProcessActivity) BoardArea() *AreaID { return nil }

// =============================================================================
// TRANSITION POLICY
// =============================================================================

// CanEdit reports whether the actor has edit rights on the entity:
// superadmins always, admins within their area, regular users on entities
// they created or are assigned to.
func CanEdit(actor User, entity Boardable) bool {
	switch actor.Role {
	case RoleSuperAdmin:
		return true
	case RoleAdmin:
		area := entity.BoardArea()
		if area != nil && actor.AreaID != nil && *area == *actor.AreaID {
			return true
		}
	}
	if entity.BoardOwner() == actor.ID {
		return true
	}
	assignee := entity.BoardAssignee()
	return assignee != nil && *assignee == actor.ID
}

// CanTransition decides whether the actor may move the entity from its
// current status to the requested one. Any legal state may move to any
// other legal state; the only gate is the actor's edit permission.
func CanTransition(actor User, entity Boardable, to string) error {
	kind := entity.BoardKind()
	from := entity.BoardStatus()
	if !LegalStatus(kind, from) || !LegalStatus(kind, to) {
		return &TransitionError{Kind: kind, From: from, To: to, Reason: ErrIllegalStatus}
	}
	if !CanEdit(actor, entity) {
		return &TransitionError{Kind: kind, From: from, To: to, Reason: ErrPermissionDenied}
	}
	return nil
}

// =============================================================================
// DEPENDENCY GRAPH
// =============================================================================

// DependencyGraph holds the depends_on adjacency of one process's
// activities. Built fresh from records on every check; never cached.
type DependencyGraph struct {
	dependsOn map[ProcessActivityID][]ProcessActivityID
	dependents map[ProcessActivityID][]ProcessActivityID
	status    map[ProcessActivityID]ProcessActivityStatus
}

// NewDependencyGraph indexes the activities' dependency edges.
func NewDependencyGraph(activities []ProcessActivity) *DependencyGraph {
	g := &DependencyGraph{
		dependsOn:  make(map[ProcessActivityID][]ProcessActivityID, len(activities)),
		dependents: make(map[ProcessActivityID][]ProcessActivityID),
		status:     make(map[ProcessActivityID]ProcessActivityStatus, len(activities)),
	}
	for _, a := range activities {
		g.status[a.ID] = a.Status
		if a.DependsOnID != nil {
			g.dependsOn[a.ID] = append(g.dependsOn[a.ID], *a.DependsOnID)
			g.dependents[*a.DependsOnID] = append(g.dependents[*a.DependsOnID], a.ID)
		}
	}
	return g
}

// CanStart reports whether the activity's dependency chain is fully
// completed. The walk is iterative with a visited set: acyclicity is a
// backend invariant, but a corrupted cycle must terminate (and block)
// rather than hang.
func (g *DependencyGraph) CanStart(id ProcessActivityID) error {
	visited := map[ProcessActivityID]bool{id: true}
	queue := append([]ProcessActivityID(nil), g.dependsOn[id]...)
	for len(queue) > 0 {
		dep := queue[0]
		queue = queue[1:]
		if visited[dep] {
			return &DependencyError{Activity: id, DependsOn: dep, Reason: ErrCircularDependency}
		}
		visited[dep] = true
		if status, ok := g.status[dep]; ok && status != ProcessActivityStatusCompleted {
			return &DependencyError{Activity: id, DependsOn: dep, Reason: ErrDependencyUnmet}
		}
		queue = append(queue, g.dependsOn[dep]...)
	}
	return nil
}

// Blocked returns the activities that directly depend on the given one.
func (g *DependencyGraph) Blocked(id ProcessActivityID) []ProcessActivityID {
	return g.dependents[id]
}

// Chain returns the dependency chain of the activity, root first, the
// activity itself last. A cycle truncates the walk.
func (g *DependencyGraph) Chain(id ProcessActivityID) []ProcessActivityID {
	var chain []ProcessActivityID
	visited := make(map[ProcessActivityID]bool)
	current := id
	for {
		if visited[current] {
			break
		}
		visited[current] = true
		chain = append([]ProcessActivityID{current}, chain...)
		deps := g.dependsOn[current]
		if len(deps) == 0 {
			break
		}
		current = deps[0]
	}
	return chain
}

// WouldCycle reports whether adding a depends_on edge from activity to
// target would create a cycle.
func (g *DependencyGraph) WouldCycle(activity, target ProcessActivityID) bool {
	if activity == target {
		return true
	}
	visited := make(map[ProcessActivityID]bool)
	queue := []ProcessActivityID{target}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == activity {
			return true
		}
		if visited[current] {
			continue
		}
		visited[current] = true
		queue = append(queue, g.dependsOn[current]...)
	}
	return false
}

// GateTransition layers dependency gating on top of CanTransition for
// process activities: moving to in_progress requires a satisfied chain.
func (g *DependencyGraph) GateTransition(actor User, activity ProcessActivity, to string) error {
	if err := CanTransition(actor, activity, to); err != nil {
		return err
	}
	if to == string(ProcessActivityStatusInProgress) {
		if err := g.CanStart(activity.ID); err != nil {
			return err
		}
	}
	return nil
}
