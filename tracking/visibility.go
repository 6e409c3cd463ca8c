/*
visibility.go - Role-scoped visibility filters

PURPOSE:
  Three roles see strictly nested scopes:
    user       -> entities they created or are assigned to
    admin      -> entities whose area matches their own area
    superadmin -> everything, unfiltered

  The filter is applied to input collections BEFORE they reach the
  aggregation and rollup components; those components are role-agnostic
  and never special-case roles internally.

SEE ALSO:
  - aggregate.go, rollup.go: consumers of scoped collections
  - api/handlers.go: resolves the acting user and applies the scope
*/
package tracking

// Scope filters collections down to what one acting user may see.
type Scope struct {
	actor User
}

// ScopeFor builds the visibility scope of the acting user.
func ScopeFor(actor User) Scope {
	return Scope{actor: actor}
}

// Actor returns the user the scope was built for.
func (s Scope) Actor() User { return s.actor }

func (s Scope) sameArea(areaID *AreaID) bool {
	return areaID != nil && s.actor.AreaID != nil && *areaID == *s.actor.AreaID
}

// Projects filters projects to the actor's scope.
func (s Scope) Projects(projects []Project) []Project {
	if s.actor.Role == RoleSuperAdmin {
		return projects
	}
	var visible []Project
	for _, p := range projects {
		switch s.actor.Role {
		case RoleAdmin:
			if s.sameArea(p.AreaID) {
				visible = append(visible, p)
			}
		default:
			if p.CreatedBy == s.actor.ID ||
				(p.AssignedUserID != nil && *p.AssignedUserID == s.actor.ID) {
				visible = append(visible, p)
			}
		}
	}
	return visible
}

// Activities filters activities to the actor's scope.
func (s Scope) Activities(activities []Activity) []Activity {
	if s.actor.Role == RoleSuperAdmin {
		return activities
	}
	var visible []Activity
	for _, a := range activities {
		switch s.actor.Role {
		case RoleAdmin:
			if s.sameArea(a.AreaID) {
				visible = append(visible, a)
			}
		default:
			if a.UserID == s.actor.ID {
				visible = append(visible, a)
			}
		}
	}
	return visible
}

// Tasks filters tasks to the actor's scope. A task inherits its area from
// its owning project, so the project collection provides the lookup.
func (s Scope) Tasks(tasks []Task, projects []Project) []Task {
	if s.actor.Role == RoleSuperAdmin {
		return tasks
	}
	areas := make(map[ProjectID]*AreaID, len(projects))
	for _, p := range projects {
		areas[p.ID] = p.AreaID
	}
	var visible []Task
	for _, t := range tasks {
		switch s.actor.Role {
		case RoleAdmin:
			if s.sameArea(areas[t.ProjectID]) {
				visible = append(visible, t)
			}
		default:
			if t.CreatedBy == s.actor.ID ||
				(t.AssignedUserID != nil && *t.AssignedUserID == s.actor.ID) {
				visible = append(visible, t)
			}
		}
	}
	return visible
}

// Processes filters processes to the actor's scope.
func (s Scope) Processes(processes []Process) []Process {
	if s.actor.Role == RoleSuperAdmin {
		return processes
	}
	var visible []Process
	for _, p := range processes {
		switch s.actor.Role {
		case RoleAdmin:
			if s.sameArea(p.AreaID) {
				visible = append(visible, p)
			}
		default:
			if p.CreatedBy == s.actor.ID {
				visible = append(visible, p)
			}
		}
	}
	return visible
}

// Users filters the user directory: regular users see themselves, admins
// see their area, superadmins see everyone.
func (s Scope) Users(users []User) []User {
	if s.actor.Role == RoleSuperAdmin {
		return users
	}
	var visible []User
	for _, u := range users {
		switch s.actor.Role {
		case RoleAdmin:
			if s.sameArea(u.AreaID) {
				visible = append(visible, u)
			}
		default:
			if u.ID == s.actor.ID {
				visible = append(visible, u)
			}
		}
	}
	return visible
}
