/*
rollup.go - Area, user, and project summaries for admin dashboards

PURPOSE:
  Composes hours accounts and activity aggregation across collections of
  projects and activities to build the summaries shown on the admin and
  superadmin dashboards.

CONTRACTS:
  - AverageCompletion is the UNWEIGHTED mean of each project's completion
    percent: a tiny and a huge project influence the average equally.
    Projects with estimated=0 contribute 0 to the mean. This is a
    documented design choice, not an oversight.
  - Summaries are unordered; presentation layers sort (e.g. by total
    hours descending).
  - Inputs arrive already scoped to an area or to "all"; the reporter is
    role-agnostic.

SEE ALSO:
  - hours.go: per-entity completion
  - aggregate.go: activity totals
  - visibility.go: input scoping
*/
package tracking

import "github.com/shopspring/decimal"

// =============================================================================
// SUMMARY VIEW MODELS
// =============================================================================

// AreaSummary rolls a scoped collection up to one area-level row.
type AreaSummary struct {
	TotalUsers        int
	TotalProjects     int
	ActiveProjects    int
	TotalHours        Hours
	TotalActivities   int
	AverageCompletion decimal.Decimal
}

// UserSummary rolls activities and assigned projects up per user.
type UserSummary struct {
	UserID            UserID
	TotalActivities   int
	TotalHours        Hours
	AssignedProjects  int
	AverageCompletion decimal.Decimal
}

// ProjectSummary is the per-project row of the report.
type ProjectSummary struct {
	ProjectID         ProjectID
	Name              string
	EstimatedHours    Hours
	UsedHours         Hours
	RemainingHours    Hours
	CompletionPercent decimal.Decimal
	IsActive          bool
}

// =============================================================================
// REPORT BUILDERS
// =============================================================================

// BuildAreaSummary summarizes an already-scoped collection of users,
// projects and activities. "Active" projects are those in progress.
func BuildAreaSummary(users []User, projects []Project, activities []Activity) AreaSummary {
	active := 0
	for _, p := range projects {
		if p.Status == ProjectStatusInProgress {
			active++
		}
	}
	return AreaSummary{
		TotalUsers:        len(users),
		TotalProjects:     len(projects),
		ActiveProjects:    active,
		TotalHours:        SumHours(activities),
		TotalActivities:   len(activities),
		AverageCompletion: averageCompletion(projects),
	}
}

// BuildUserSummaries produces one summary per user. Assigned projects are
// those whose AssignedUserID matches; each user's completion average runs
// over exactly those projects.
func BuildUserSummaries(users []User, projects []Project, activities []Activity) []UserSummary {
	hoursByUser := SumByUser(activities)
	countByUser := make(map[UserID]int, len(users))
	for _, a := range activities {
		countByUser[a.UserID]++
	}

	summaries := make([]UserSummary, 0, len(users))
	for _, u := range users {
		var assigned []Project
		for _, p := range projects {
			if p.AssignedUserID != nil && *p.AssignedUserID == u.ID {
				assigned = append(assigned, p)
			}
		}
		summaries = append(summaries, UserSummary{
			UserID:            u.ID,
			TotalActivities:   countByUser[u.ID],
			TotalHours:        hoursByUser[u.ID],
			AssignedProjects:  len(assigned),
			AverageCompletion: averageCompletion(assigned),
		})
	}
	return summaries
}

// BuildProjectSummaries produces the per-project rows.
func BuildProjectSummaries(projects []Project) []ProjectSummary {
	summaries := make([]ProjectSummary, 0, len(projects))
	for _, p := range projects {
		account := p.Account()
		summaries = append(summaries, ProjectSummary{
			ProjectID:         p.ID,
			Name:              p.Name,
			EstimatedHours:    account.Estimated,
			UsedHours:         account.Used,
			RemainingHours:    account.Remaining(),
			CompletionPercent: account.CompletionPercent(),
			IsActive:          p.IsActive,
		})
	}
	return summaries
}

// StatusDistribution counts projects per status.
func StatusDistribution(projects []Project) map[ProjectStatus]int {
	distrib := make(map[ProjectStatus]int)
	for _, p := range projects {
		distrib[p.Status]++
	}
	return distrib
}

// averageCompletion is the unweighted mean of per-project completion
// percents. Zero projects average to zero.
func averageCompletion(projects []Project) decimal.Decimal {
	if len(projects) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, p := range projects {
		sum = sum.Add(p.Account().CompletionPercent())
	}
	return sum.Div(decimal.NewFromInt(int64(len(projects))))
}
