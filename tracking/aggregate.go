/*
aggregate.go - Aggregation over logged activities

PURPOSE:
  Groups a collection of logged activities by date/user/project/type and
  produces hours sums, per-day averages, and time-windowed totals.

CONTRACTS:
  - GroupByDate preserves the first-seen order of dates in the input. It
    is NOT necessarily chronological; callers needing chronological order
    sort explicitly.
  - DailyAverage averages per-day sums over days that have at least one
    activity. Empty days do not count as zeros in the denominator, so a
    sparse period does not silently deflate the average.
  - WindowSum includes an activity dated exactly `days` days before the
    reference day and excludes one dated days+1 back (boundary inclusive).
  - The aggregator performs no authorization filtering; inputs arrive
    already scoped by role and date (see visibility.go).

SEE ALSO:
  - visibility.go: scopes the input collection
  - rollup.go: combines aggregation with hours accounts
*/
package tracking

import "github.com/shopspring/decimal"

// =============================================================================
// GROUPING
// =============================================================================

// DateGroup is one calendar day's worth of activities.
type DateGroup struct {
	Date       Day
	Activities []Activity
}

// GroupByDate buckets activities per calendar day, preserving the order
// in which each date first appears in the input.
func GroupByDate(activities []Activity) []DateGroup {
	index := make(map[string]int, len(activities))
	var groups []DateGroup
	for _, a := range activities {
		key := a.Date.String()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DateGroup{Date: a.Date})
		}
		groups[i].Activities = append(groups[i].Activities, a)
	}
	return groups
}

// SumByUser totals execution time per user.
func SumByUser(activities []Activity) map[UserID]Hours {
	sums := make(map[UserID]Hours)
	for _, a := range activities {
		sums[a.UserID] = sums[a.UserID].Add(a.ExecutionTime)
	}
	return sums
}

// SumByProject totals execution time per project; activities without a
// project are skipped.
func SumByProject(activities []Activity) map[ProjectID]Hours {
	sums := make(map[ProjectID]Hours)
	for _, a := range activities {
		if a.ProjectID == nil {
			continue
		}
		sums[*a.ProjectID] = sums[*a.ProjectID].Add(a.ExecutionTime)
	}
	return sums
}

// SumByType totals execution time per activity type.
func SumByType(activities []Activity) map[ActivityType]Hours {
	sums := make(map[ActivityType]Hours)
	for _, a := range activities {
		sums[a.Type] = sums[a.Type].Add(a.ExecutionTime)
	}
	return sums
}

// =============================================================================
// TOTALS
// =============================================================================

// SumHours totals execution time across the collection.
func SumHours(activities []Activity) Hours {
	total := ZeroHours()
	for _, a := range activities {
		total = total.Add(a.ExecutionTime)
	}
	return total
}

// DailyAverage returns the mean of per-day sums over the days that have
// at least one activity. An empty collection averages to zero.
func DailyAverage(activities []Activity) Hours {
	groups := GroupByDate(activities)
	if len(groups) == 0 {
		return ZeroHours()
	}
	total := ZeroHours()
	for _, g := range groups {
		total = total.Add(SumHours(g.Activities))
	}
	return HoursFromDecimal(total.Value.Div(decimal.NewFromInt(int64(len(groups)))))
}

// WindowSum totals execution time for activities dated within the last
// `days` days relative to `today`, boundary inclusive: an activity dated
// exactly `days` days back counts, one dated days+1 back does not.
func WindowSum(activities []Activity, days int, today Day) Hours {
	cutoff := today.AddDays(-days)
	total := ZeroHours()
	for _, a := range activities {
		if a.Date.AfterOrEqual(cutoff) {
			total = total.Add(a.ExecutionTime)
		}
	}
	return total
}

// MonthSum totals execution time for activities in a "YYYY-MM" month.
func MonthSum(activities []Activity, month string) Hours {
	total := ZeroHours()
	for _, a := range activities {
		if a.Month == month {
			total = total.Add(a.ExecutionTime)
		}
	}
	return total
}
