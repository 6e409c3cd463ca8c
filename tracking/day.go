package tracking

import (
	"strings"
	"time"
)

// =============================================================================
// DAY - Calendar-day time abstraction (activities are logged per day)
// =============================================================================

// Day is a calendar day in UTC. All date comparisons in the engine happen
// at day granularity; wall-clock times only appear inside work schedules.
type Day struct {
	Time time.Time
}

const dayFormat = "2006-01-02"

// Constructors
func NewDay(year int, month time.Month, day int) Day {
	return Day{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DayOf(t time.Time) Day {
	return NewDay(t.Year(), t.Month(), t.Day())
}

func Today() Day {
	return DayOf(time.Now().UTC())
}

// ParseDay parses a "YYYY-MM-DD" string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayFormat, s)
	if err != nil {
		return Day{}, err
	}
	return DayOf(t), nil
}

// Comparison
func (d Day) Before(o Day) bool        { return d.Time.Before(o.Time) }
func (d Day) After(o Day) bool         { return d.Time.After(o.Time) }
func (d Day) Equal(o Day) bool         { return d.Time.Equal(o.Time) }
func (d Day) BeforeOrEqual(o Day) bool { return !d.After(o) }
func (d Day) AfterOrEqual(o Day) bool  { return !d.Before(o) }

// Arithmetic
func (d Day) AddDays(n int) Day { return DayOf(d.Time.AddDate(0, 0, n)) }

// Properties
func (d Day) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Day) IsZero() bool          { return d.Time.IsZero() }

// WeekdayKey returns the lowercase English weekday name used as a
// WorkSchedule map key ("monday"..."sunday").
func (d Day) WeekdayKey() string {
	return strings.ToLower(d.Weekday().String())
}

// Month returns the "YYYY-MM" month key derived from the day.
func (d Day) Month() string {
	return d.Time.Format("2006-01")
}

func (d Day) String() string {
	return d.Time.Format(dayFormat)
}
