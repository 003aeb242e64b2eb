package validator

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/jakechorley/shift-planner/pkg/core/interval"
	"github.com/jakechorley/shift-planner/pkg/core/roster"
)

// Kind classifies a violation
type Kind string

const (
	KindCoverage  Kind = "Coverage"
	KindForbidden Kind = "Forbidden"
	KindMinShifts Kind = "Min shifts"
	KindMaxShifts Kind = "Max shifts"
	KindTarget    Kind = "Target"
	KindRest      Kind = "Rest"
)

// Violation is a hard rule broken by a solution
type Violation struct {
	Kind Kind

	// Person is empty for coverage violations
	Person string
	Day    int
	Shift  string

	// StandardShift is the forbidden standard shift an assignment overlaps
	StandardShift string

	// OtherDay and OtherShift are the second assignment of a rest violation
	OtherDay   int
	OtherShift string

	// Required is the required headcount, bound or target. Actual is what the solution has.
	Required int
	Actual   int

	// Gap is the measured rest between Intervals[0] and Intervals[1]
	Gap       float64
	MinRest   float64
	Intervals [2]interval.Interval
}

// Message renders the violation for reports
func (v Violation) Message() string {
	switch v.Kind {
	case KindCoverage:
		return fmt.Sprintf("[%s] Day %d, shift %s: assigned=%d, required=%d", v.Kind, v.Day, v.Shift, v.Actual, v.Required)
	case KindForbidden:
		return fmt.Sprintf("[%s] %s assigned to %s on day %d but marked -1 for %s", v.Kind, v.Person, v.Shift, v.Day, v.StandardShift)
	case KindMinShifts:
		return fmt.Sprintf("[%s] %s, has %d, min %d", v.Kind, v.Person, v.Actual, v.Required)
	case KindMaxShifts:
		return fmt.Sprintf("[%s] %s, has %d, max %d", v.Kind, v.Person, v.Actual, v.Required)
	case KindTarget:
		return fmt.Sprintf("[%s] %s, has %d, target %d", v.Kind, v.Person, v.Actual, v.Required)
	case KindRest:
		return fmt.Sprintf("[%s] %s between %s(day%d, %s) and %s(day%d, %s), rest=%.1fh < %gh",
			v.Kind, v.Person, v.Shift, v.Day, v.Intervals[0], v.OtherShift, v.OtherDay, v.Intervals[1], v.Gap, v.MinRest)
	}
	return fmt.Sprintf("[%s] %s day %d shift %s", v.Kind, v.Person, v.Day, v.Shift)
}

func (v Violation) String() string {
	return v.Message()
}

// slot is an assigned (day, shift) of one person
type slot struct {
	day   int
	shift int
}

// Validate checks a solution against every hard rule of the roster.
// Violations are ordered coverage, forbidden, totals then rest. An error is only
// returned when the solution references people, shifts or days the roster doesn't have.
func Validate(r *roster.Roster, sol roster.Solution) ([]Violation, error) {
	held, err := index(r, sol)
	if err != nil {
		return nil, err
	}

	var violations []Violation
	violations = append(violations, coverage(r, held)...)
	violations = append(violations, forbidden(r, held)...)
	violations = append(violations, totals(r, held)...)
	violations = append(violations, rest(r, held)...)
	return violations, nil
}

// index resolves the solution into assigned slots per person index
func index(r *roster.Roster, sol roster.Solution) ([][]slot, error) {
	held := make([][]slot, r.NumPeople())
	for _, a := range sol.Assignments() {
		p, ok := r.PersonIndex(a.Person)
		if !ok {
			return nil, &roster.InputError{Field: "solution", Reason: fmt.Sprintf("unknown person %q", a.Person)}
		}
		s, ok := r.ShiftIndex(a.Shift)
		if !ok {
			return nil, &roster.InputError{Field: "solution", Reason: fmt.Sprintf("unknown shift %q", a.Shift)}
		}
		if a.Day < 0 || a.Day >= r.Days() {
			return nil, &roster.InputError{Field: "solution", Reason: fmt.Sprintf("day %d outside the horizon of %d days", a.Day, r.Days())}
		}
		held[p] = append(held[p], slot{day: a.Day, shift: s})
	}

	// sort each person's slots chronologically by day then earliest start
	shifts := r.Shifts()
	for p := range held {
		slices.SortFunc(held[p], func(x, y slot) int {
			return cmp.Or(
				cmp.Compare(x.day, y.day),
				cmp.Compare(interval.EarliestStart(shifts[x.shift].Intervals), interval.EarliestStart(shifts[y.shift].Intervals)),
				cmp.Compare(x.shift, y.shift),
			)
		})
	}
	return held, nil
}

func coverage(r *roster.Roster, held [][]slot) []Violation {
	counts := make([][]int, r.Days())
	for d := range counts {
		counts[d] = make([]int, r.NumShifts())
	}
	for _, slots := range held {
		for _, sl := range slots {
			counts[sl.day][sl.shift]++
		}
	}

	var out []Violation
	for d := range r.Days() {
		for s, shift := range r.Shifts() {
			if required := r.Required(s, d); counts[d][s] != required {
				out = append(out, Violation{
					Kind:     KindCoverage,
					Day:      d,
					Shift:    shift.Name,
					Required: required,
					Actual:   counts[d][s],
				})
			}
		}
	}
	return out
}

func forbidden(r *roster.Roster, held [][]slot) []Violation {
	shifts := r.Shifts()
	standard := r.StandardShifts()

	var out []Violation
	for p, person := range r.People() {
		for _, sl := range held[p] {
			for std, stdShift := range standard {
				if r.Signal(p, sl.day, std) != roster.Forbid {
					continue
				}
				if interval.AnyOverlap(shifts[sl.shift].Intervals, stdShift.Intervals) {
					out = append(out, Violation{
						Kind:          KindForbidden,
						Person:        person,
						Day:           sl.day,
						Shift:         shifts[sl.shift].Name,
						StandardShift: stdShift.Name,
					})
				}
			}
		}
	}
	return out
}

func totals(r *roster.Roster, held [][]slot) []Violation {
	var out []Violation
	for p, person := range r.People() {
		total := len(held[p])
		if target, ok := r.Target(p); ok {
			if total != target {
				out = append(out, Violation{Kind: KindTarget, Person: person, Required: target, Actual: total})
			}
			continue
		}
		lo, hi := r.TotalBounds(p)
		if total < lo {
			out = append(out, Violation{Kind: KindMinShifts, Person: person, Required: lo, Actual: total})
		}
		if total > hi {
			out = append(out, Violation{Kind: KindMaxShifts, Person: person, Required: hi, Actual: total})
		}
	}
	return out
}

// rest reports one violation per conflicting pair of a person's assignments,
// naming the interval pair with the smallest gap
func rest(r *roster.Roster, held [][]slot) []Violation {
	shifts := r.Shifts()
	minRest := r.MinRestHours()

	var out []Violation
	for p, person := range r.People() {
		slots := held[p]
		for i := range slots {
			for j := i + 1; j < len(slots); j++ {
				a, b := slots[i], slots[j]
				if a == b {
					continue
				}
				ia, ib, gap, ok := interval.TightestGap(a.day, shifts[a.shift].Intervals, b.day, shifts[b.shift].Intervals)
				if !ok || gap >= minRest {
					continue
				}
				out = append(out, Violation{
					Kind:       KindRest,
					Person:     person,
					Day:        a.day,
					Shift:      shifts[a.shift].Name,
					OtherDay:   b.day,
					OtherShift: shifts[b.shift].Name,
					Gap:        gap,
					MinRest:    minRest,
					Intervals:  [2]interval.Interval{ia, ib},
				})
			}
		}
	}
	return out
}
