package interval

import (
	"fmt"
	"math"
)

// HoursPerDay converts a day index into an absolute hour offset
const HoursPerDay = 24.0

// Interval is a half-open block of hours [Start, End) relative to the start of its day.
// End may exceed 24 to represent work that crosses midnight (e.g. 21-27 is 21:00 to 03:00).
type Interval struct {
	Start float64 `yaml:"start" json:"start"`
	End   float64 `yaml:"end" json:"end"`
}

// New creates an interval, rejecting empty or negative ranges
func New(start, end float64) (Interval, error) {
	iv := Interval{Start: start, End: end}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

// Validate checks the interval is non-empty and starts within the day
func (iv Interval) Validate() error {
	if math.IsNaN(iv.Start) || math.IsNaN(iv.End) {
		return fmt.Errorf("interval bounds must be numbers")
	}
	if iv.Start < 0 {
		return fmt.Errorf("interval start %g is negative", iv.Start)
	}
	if iv.Start >= HoursPerDay {
		return fmt.Errorf("interval start %g is not within the day", iv.Start)
	}
	if iv.End <= iv.Start {
		return fmt.Errorf("interval end %g must be after start %g", iv.End, iv.Start)
	}
	return nil
}

// Duration returns the length of the interval in hours
func (iv Interval) Duration() float64 {
	return iv.End - iv.Start
}

// String formats the interval as (start, end)
func (iv Interval) String() string {
	return fmt.Sprintf("(%g, %g)", iv.Start, iv.End)
}

// Overlaps reports whether a and b share any time.
// Touching endpoints do not overlap: (9,15) and (15,21) are disjoint.
func Overlaps(a, b Interval) bool {
	return math.Max(a.Start, b.Start) < math.Min(a.End, b.End)
}

// AnyOverlap reports whether some interval in setA overlaps some interval in setB
func AnyOverlap(setA, setB []Interval) bool {
	for _, a := range setA {
		for _, b := range setB {
			if Overlaps(a, b) {
				return true
			}
		}
	}
	return false
}

// GapHours returns the hours between the end of a (on dayA) and the start of b (on dayB).
// The result is negative when b starts before a ends.
//
// Example: GapHours(0, (15,21), 1, (3,9)) = (24 + 3) - (0 + 21) = 6
func GapHours(dayA int, a Interval, dayB int, b Interval) float64 {
	endA := float64(dayA)*HoursPerDay + a.End
	startB := float64(dayB)*HoursPerDay + b.Start
	return startB - endA
}

// RestGap returns the rest between two intervals measured in the ordering where
// the first one finishes before the second one begins.
// Both orderings are evaluated since callers can't assume (day, shift) pairs are
// chronologically sorted. A negative result means the intervals overlap.
func RestGap(dayA int, a Interval, dayB int, b Interval) float64 {
	return math.Max(GapHours(dayA, a, dayB, b), GapHours(dayB, b, dayA, a))
}

// ViolatesRest reports whether any pair of intervals from the two sets leaves
// less than minRestHours between them
func ViolatesRest(dayA int, setA []Interval, dayB int, setB []Interval, minRestHours float64) bool {
	_, _, gap, ok := TightestGap(dayA, setA, dayB, setB)
	return ok && gap < minRestHours
}

// TightestGap finds the interval pair with the smallest rest gap between the two sets.
// ok is false when either set is empty.
func TightestGap(dayA int, setA []Interval, dayB int, setB []Interval) (a, b Interval, gap float64, ok bool) {
	gap = math.Inf(1)
	for _, ia := range setA {
		for _, ib := range setB {
			g := RestGap(dayA, ia, dayB, ib)
			if g < gap {
				a, b, gap, ok = ia, ib, g, true
			}
		}
	}
	return a, b, gap, ok
}

// EarliestStart returns the smallest start hour in the set (+Inf when empty)
func EarliestStart(set []Interval) float64 {
	earliest := math.Inf(1)
	for _, iv := range set {
		earliest = math.Min(earliest, iv.Start)
	}
	return earliest
}

// TotalHours returns the summed duration of every interval in the set
func TotalHours(set []Interval) float64 {
	total := 0.0
	for _, iv := range set {
		total += iv.Duration()
	}
	return total
}
