/*
schedule_test.go - Unit tests for expected hours and daily-goal tiers

CORE DESIGN:
- Disabled/missing weekdays expect 0 hours and skip validation entirely
- Enabled ranges with end < start are rejected, never negative
- Tier boundaries are inclusive at the lower bound
*/
package tracking

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func standardUser() User {
	return User{
		ID:   "u1",
		Role: RoleUser,
		WorkSchedule: WorkSchedule{
			"monday":    {Enabled: true, Start: "09:00", End: "18:00"},
			"tuesday":   {Enabled: true, Start: "09:00", End: "18:00"},
			"wednesday": {Enabled: true, Start: "09:00", End: "18:00"},
			"thursday":  {Enabled: true, Start: "09:00", End: "18:00"},
			"friday":    {Enabled: true, Start: "09:00", End: "18:00"},
		},
		LunchBreak: LunchBreak{Enabled: true, Start: "13:00", End: "14:00"},
	}
}

// A Monday.
var monday = NewDay(2026, time.August, 31)

// A Saturday, absent from the schedule.
var saturday = NewDay(2026, time.August, 29)

// =============================================================================
// EXPECTED HOURS TESTS
// =============================================================================

func TestExpectedHours_StandardDayWithLunch(t *testing.T) {
	// GIVEN: A 09:00-18:00 schedule with a 13:00-14:00 lunch
	// WHEN: Computing expected hours for a Monday
	// THEN: 9h - 1h lunch = 8.0

	expected, err := ExpectedHours(standardUser(), monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !expected.Equal(NewHours(8)) {
		t.Errorf("Expected 8.0 hours, got %s", expected)
	}
}

func TestExpectedHours_MissingWeekday(t *testing.T) {
	// GIVEN: A schedule with no saturday entry
	// WHEN: Computing expected hours for a Saturday
	// THEN: 0, no error

	expected, err := ExpectedHours(standardUser(), saturday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !expected.IsZero() {
		t.Errorf("Expected 0 hours on a day off, got %s", expected)
	}
}

func TestExpectedHours_DisabledDay_GarbageIgnored(t *testing.T) {
	// GIVEN: A disabled monday with an invalid range
	// WHEN: Computing expected hours
	// THEN: 0 and nil error; start/end on a disabled day are never validated

	u := standardUser()
	u.WorkSchedule["monday"] = DaySchedule{Enabled: false, Start: "18:00", End: "09:00"}

	expected, err := ExpectedHours(u, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !expected.IsZero() {
		t.Errorf("Expected 0 hours for disabled day, got %s", expected)
	}
}

func TestExpectedHours_EndBeforeStart_Rejected(t *testing.T) {
	// GIVEN: An enabled monday whose end precedes its start
	// WHEN: Computing expected hours
	// THEN: ErrInvalidTimeRange; overnight shifts are not supported

	u := standardUser()
	u.WorkSchedule["monday"] = DaySchedule{Enabled: true, Start: "18:00", End: "09:00"}

	_, err := ExpectedHours(u, monday)
	if !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("Expected ErrInvalidTimeRange, got %v", err)
	}
}

func TestExpectedHours_InvalidLunchRange_Rejected(t *testing.T) {
	u := standardUser()
	u.LunchBreak = LunchBreak{Enabled: true, Start: "14:00", End: "13:00"}

	_, err := ExpectedHours(u, monday)
	if !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("Expected ErrInvalidTimeRange for reversed lunch, got %v", err)
	}
}

func TestExpectedHours_UnparseableClock_Rejected(t *testing.T) {
	u := standardUser()
	u.WorkSchedule["monday"] = DaySchedule{Enabled: true, Start: "9am", End: "18:00"}

	_, err := ExpectedHours(u, monday)
	if !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("Expected ErrInvalidTimeRange for bad clock, got %v", err)
	}
}

func TestExpectedHours_LunchLongerThanShift_ClampsToZero(t *testing.T) {
	// GIVEN: A 30-minute shift and a one-hour lunch
	// WHEN: Computing expected hours
	// THEN: 0, never negative

	u := standardUser()
	u.WorkSchedule["monday"] = DaySchedule{Enabled: true, Start: "09:00", End: "09:30"}

	expected, err := ExpectedHours(u, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !expected.IsZero() {
		t.Errorf("Expected 0 hours when lunch exceeds shift, got %s", expected)
	}
}

func TestExpectedHours_LunchDisabled_NotDeducted(t *testing.T) {
	u := standardUser()
	u.LunchBreak.Enabled = false

	expected, err := ExpectedHours(u, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !expected.Equal(NewHours(9)) {
		t.Errorf("Expected 9.0 hours without lunch deduction, got %s", expected)
	}
}

func TestExpectedHours_HalfHourGranularity(t *testing.T) {
	u := standardUser()
	u.WorkSchedule["monday"] = DaySchedule{Enabled: true, Start: "08:30", End: "13:15"}
	u.LunchBreak.Enabled = false

	expected, err := ExpectedHours(u, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !expected.Equal(NewHours(4.75)) {
		t.Errorf("Expected 4.75 hours, got %s", expected)
	}
}

// =============================================================================
// TIER TESTS
// =============================================================================

func TestTierFor_BoundariesInclusive(t *testing.T) {
	cases := []struct {
		percent int64
		want    GoalTier
	}{
		{120, GoalComplete},
		{100, GoalComplete},
		{99, GoalNear},
		{75, GoalNear},
		{74, GoalHalfway},
		{50, GoalHalfway},
		{49, GoalStarted},
		{25, GoalStarted},
		{24, GoalJustBeginning},
		{0, GoalJustBeginning},
	}
	for _, c := range cases {
		if got := TierFor(decimal.NewFromInt(c.percent)); got != c.want {
			t.Errorf("TierFor(%d) = %s, want %s", c.percent, got, c.want)
		}
	}
}

func TestTierMessages(t *testing.T) {
	// Every tier carries a non-empty user-facing message.
	for _, tier := range []GoalTier{GoalComplete, GoalNear, GoalHalfway, GoalStarted, GoalJustBeginning} {
		if tier.Message() == "" {
			t.Errorf("Tier %s has no message", tier)
		}
	}
}

// =============================================================================
// DAILY GOAL TESTS
// =============================================================================

func TestEvaluateDailyGoal_PartialDay(t *testing.T) {
	// GIVEN: 8 expected hours and 6 logged
	// WHEN: Evaluating the daily goal
	// THEN: remaining=2, exceeded=0, percent=75, tier=near

	goal, err := EvaluateDailyGoal(standardUser(), monday, NewHours(6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !goal.Remaining.Equal(NewHours(2)) {
		t.Errorf("Remaining = %s, want 2", goal.Remaining)
	}
	if !goal.Exceeded.IsZero() {
		t.Errorf("Exceeded = %s, want 0", goal.Exceeded)
	}
	if !goal.Percent.Equal(decimal.NewFromInt(75)) {
		t.Errorf("Percent = %s, want 75", goal.Percent)
	}
	if goal.Tier != GoalNear {
		t.Errorf("Tier = %s, want near", goal.Tier)
	}
}

func TestEvaluateDailyGoal_Overworked(t *testing.T) {
	// GIVEN: 8 expected hours and 10 logged
	// WHEN: Evaluating the daily goal
	// THEN: remaining=0, exceeded=2, percent=125 (unclamped), tier=complete

	goal, err := EvaluateDailyGoal(standardUser(), monday, NewHours(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !goal.Remaining.IsZero() {
		t.Errorf("Remaining = %s, want 0", goal.Remaining)
	}
	if !goal.Exceeded.Equal(NewHours(2)) {
		t.Errorf("Exceeded = %s, want 2", goal.Exceeded)
	}
	if !goal.Percent.Equal(decimal.NewFromInt(125)) {
		t.Errorf("Percent = %s, want 125 unclamped", goal.Percent)
	}
	if goal.Tier != GoalComplete {
		t.Errorf("Tier = %s, want complete", goal.Tier)
	}
}

func TestEvaluateDailyGoal_DayOff(t *testing.T) {
	// GIVEN: A Saturday with no schedule entry, 3 hours logged anyway
	// WHEN: Evaluating the daily goal
	// THEN: expected=0, percent=0 (no division), exceeded=3

	goal, err := EvaluateDailyGoal(standardUser(), saturday, NewHours(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !goal.Expected.IsZero() {
		t.Errorf("Expected = %s, want 0", goal.Expected)
	}
	if !goal.Percent.IsZero() {
		t.Errorf("Percent = %s, want 0 on a day off", goal.Percent)
	}
	if !goal.Exceeded.Equal(NewHours(3)) {
		t.Errorf("Exceeded = %s, want 3", goal.Exceeded)
	}
}
