/*
schedule.go - Daily-goal tracking from the weekly work schedule

PURPOSE:
  Computes a user's expected hours for a calendar day from their weekly
  work-schedule configuration (per-day enable/disable, start/end clock
  times, optional lunch deduction) and compares against hours logged that
  day.

ALGORITHM (ExpectedHours):
  1. Look up the weekday in the user's schedule. Missing or disabled
     weekday: expected hours are 0 and the start/end values are ignored
     entirely, not validated.
  2. Raw minutes = end - start. An enabled day whose end is not after its
     start is rejected with ErrInvalidTimeRange: overnight shifts are not
     supported and negative durations must never leak into displays.
  3. If the lunch break is enabled, subtract its duration (validated the
     same way).
  4. Expected hours = max(0, raw - lunch) / 60. A lunch longer than the
     shift clamps to zero rather than going negative.

PROGRESS TIERS:
  The thresholds are a contract shared with every other surface that
  renders daily progress, boundaries inclusive at the lower bound:
    >= 100 complete, [75,100) near, [50,75) halfway, [25,50) started,
    < 25 just beginning.

SEE ALSO:
  - day.go: weekday keys
  - api/handlers.go: the daily-goal endpoint
*/
package tracking

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var sixty = decimal.NewFromInt(60)

// =============================================================================
// EXPECTED HOURS
// =============================================================================

// ExpectedHours returns the hours the user is expected to log on the
// given day. Disabled or missing weekdays yield zero.
func ExpectedHours(u User, day Day) (Hours, error) {
	sched, ok := u.WorkSchedule[day.WeekdayKey()]
	if !ok || !sched.Enabled {
		return ZeroHours(), nil
	}

	start, err := parseClock(sched.Start)
	if err != nil {
		return ZeroHours(), err
	}
	end, err := parseClock(sched.End)
	if err != nil {
		return ZeroHours(), err
	}
	if end < start {
		return ZeroHours(), fmt.Errorf("schedule %s-%s: %w", sched.Start, sched.End, ErrInvalidTimeRange)
	}
	minutes := end - start

	if u.LunchBreak.Enabled {
		lunchStart, err := parseClock(u.LunchBreak.Start)
		if err != nil {
			return ZeroHours(), err
		}
		lunchEnd, err := parseClock(u.LunchBreak.End)
		if err != nil {
			return ZeroHours(), err
		}
		if lunchEnd < lunchStart {
			return ZeroHours(), fmt.Errorf("lunch %s-%s: %w", u.LunchBreak.Start, u.LunchBreak.End, ErrInvalidTimeRange)
		}
		minutes -= lunchEnd - lunchStart
	}

	if minutes < 0 {
		minutes = 0
	}
	return HoursFromDecimal(decimal.NewFromInt(int64(minutes)).Div(sixty)), nil
}

// parseClock converts "HH:MM" into minutes since midnight.
func parseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("clock time %q: %w", s, ErrInvalidTimeRange)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("clock time %q: %w", s, ErrInvalidTimeRange)
	}
	min, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("clock time %q: %w", s, ErrInvalidTimeRange)
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return 0, fmt.Errorf("clock time %q: %w", s, ErrInvalidTimeRange)
	}
	return hour*60 + min, nil
}

// =============================================================================
// PROGRESS
// =============================================================================

// ProgressPercent returns current/expected*100, or 0 when nothing is
// expected (day off).
func ProgressPercent(current, expected Hours) decimal.Decimal {
	if !expected.IsPositive() {
		return decimal.Zero
	}
	return current.Value.Div(expected.Value).Mul(hundred)
}

// GoalTier classifies daily progress. Boundaries are inclusive at the
// lower bound: exactly 100 is complete, exactly 75 is near.
type GoalTier string

const (
	GoalComplete      GoalTier = "complete"
	GoalNear          GoalTier = "near"
	GoalHalfway       GoalTier = "halfway"
	GoalStarted       GoalTier = "started"
	GoalJustBeginning GoalTier = "just_beginning"
)

var (
	tier75 = decimal.NewFromInt(75)
	tier50 = decimal.NewFromInt(50)
	tier25 = decimal.NewFromInt(25)
)

// TierFor returns the tier for a progress percent.
func TierFor(percent decimal.Decimal) GoalTier {
	switch {
	case percent.GreaterThanOrEqual(hundred):
		return GoalComplete
	case percent.GreaterThanOrEqual(tier75):
		return GoalNear
	case percent.GreaterThanOrEqual(tier50):
		return GoalHalfway
	case percent.GreaterThanOrEqual(tier25):
		return GoalStarted
	default:
		return GoalJustBeginning
	}
}

// Message returns the user-facing status line for the tier.
func (t GoalTier) Message() string {
	switch t {
	case GoalComplete:
		return "¡Excelente! Has completado tu jornada"
	case GoalNear:
		return "¡Muy bien! Casi completas tu jornada"
	case GoalHalfway:
		return "Vas por buen camino"
	case GoalStarted:
		return "Continúa, vas avanzando"
	default:
		return "Comienza a registrar"
	}
}

// =============================================================================
// DAILY GOAL VIEW MODEL
// =============================================================================

// DailyGoal is the read-only view returned to dashboards.
type DailyGoal struct {
	Date      Day
	Expected  Hours
	Logged    Hours
	Remaining Hours // max(0, expected - logged)
	Exceeded  Hours // max(0, logged - expected)
	Percent   decimal.Decimal
	Tier      GoalTier
}

// EvaluateDailyGoal computes the full daily-goal view for a user and day
// given the hours already logged that day.
func EvaluateDailyGoal(u User, day Day, logged Hours) (DailyGoal, error) {
	expected, err := ExpectedHours(u, day)
	if err != nil {
		return DailyGoal{}, err
	}

	remaining := expected.Sub(logged)
	if remaining.IsNegative() {
		remaining = ZeroHours()
	}
	exceeded := logged.Sub(expected)
	if exceeded.IsNegative() {
		exceeded = ZeroHours()
	}

	percent := ProgressPercent(logged, expected)
	return DailyGoal{
		Date:      day,
		Expected:  expected,
		Logged:    logged,
		Remaining: remaining,
		Exceeded:  exceeded,
		Percent:   percent,
		Tier:      TierFor(percent),
	}, nil
}
