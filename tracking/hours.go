/*
hours.go - Hours amounts and the estimated-vs-used account

PURPOSE:
  The smallest building block of the system: a quantity of hours backed by
  decimal arithmetic, and the HoursAccount pairing estimated against used
  hours for any worked entity (project, task, process, process activity).

POLICY:
  - Both fields of an account are non-negative.
  - Used MAY exceed Estimated: over-budget is a valid, displayed state,
    never an error.
  - Remaining is signed (negative means over-budget).
  - CompletionPercent is 0 when Estimated is 0 so a division-by-zero can
    never propagate into a display.
  - Clamping the percent to 100 is a rendering concern and happens in the
    API layer, never here. Consumers always see the true percent.

SEE ALSO:
  - rollup.go: aggregates accounts across collections
  - api/dto.go: the one place the visual clamp is applied
*/
package tracking

import "github.com/shopspring/decimal"

// =============================================================================
// HOURS - Decimal-backed quantity of hours
// =============================================================================

type Hours struct {
	Value decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

func NewHours(v float64) Hours           { return Hours{Value: decimal.NewFromFloat(v)} }
func HoursFromDecimal(d decimal.Decimal) Hours { return Hours{Value: d} }
func ZeroHours() Hours                   { return Hours{Value: decimal.Zero} }

func (h Hours) Add(o Hours) Hours      { return Hours{Value: h.Value.Add(o.Value)} }
func (h Hours) Sub(o Hours) Hours      { return Hours{Value: h.Value.Sub(o.Value)} }
func (h Hours) Neg() Hours             { return Hours{Value: h.Value.Neg()} }
func (h Hours) IsZero() bool           { return h.Value.IsZero() }
func (h Hours) IsNegative() bool       { return h.Value.IsNegative() }
func (h Hours) IsPositive() bool       { return h.Value.IsPositive() }
func (h Hours) Equal(o Hours) bool     { return h.Value.Equal(o.Value) }
func (h Hours) GreaterThan(o Hours) bool { return h.Value.GreaterThan(o.Value) }
func (h Hours) LessThan(o Hours) bool  { return h.Value.LessThan(o.Value) }
func (h Hours) Float64() float64       { return h.Value.InexactFloat64() }
func (h Hours) String() string         { return h.Value.String() }

// =============================================================================
// HOURS ACCOUNT - Estimated vs. consumed hours for a worked entity
// =============================================================================

// HoursAccount is constructed fresh on every read from raw record fields
// and never mutated in place; when source hours change the account is
// simply recomputed.
type HoursAccount struct {
	Estimated Hours // >= 0
	Used      Hours // >= 0, may exceed Estimated
}

// NewHoursAccount builds an account from raw float fields.
func NewHoursAccount(estimated, used float64) HoursAccount {
	return HoursAccount{Estimated: NewHours(estimated), Used: NewHours(used)}
}

// Remaining returns estimated - used. The result is signed: a negative
// remaining means the entity is over budget.
func (a HoursAccount) Remaining() Hours {
	return a.Estimated.Sub(a.Used)
}

// CompletionPercent returns used/estimated*100, or 0 when estimated is 0.
// The percent may exceed 100; callers that draw progress bars clamp the
// bar width themselves and still display this true value.
func (a HoursAccount) CompletionPercent() decimal.Decimal {
	if !a.Estimated.IsPositive() {
		return decimal.Zero
	}
	return a.Used.Value.Div(a.Estimated.Value).Mul(hundred)
}

// IsOverBudget reports whether more hours were used than estimated.
func (a HoursAccount) IsOverBudget() bool {
	return a.Remaining().IsNegative()
}
