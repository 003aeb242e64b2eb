package extract

import (
	"errors"
	"fmt"
	"time"

	"github.com/jakechorley/shift-planner/pkg/core/compiler"
	"github.com/jakechorley/shift-planner/pkg/core/interval"
	"github.com/jakechorley/shift-planner/pkg/core/roster"
	"github.com/jakechorley/shift-planner/pkg/core/solver"
)

// DoubleBooking is a person holding both slots of a penalised pair
type DoubleBooking struct {
	Person string
	Pair   roster.SlotPair
}

// Multiplicity is a person holding more than one shift on a day
type Multiplicity struct {
	Person string
	Day    int
	Shifts []string
}

// Plan is the readable outcome of a solve
type Plan struct {
	Status    solver.Status
	Objective int
	WallTime  time.Duration

	// Solution is nil unless Status has a solution
	Solution roster.Solution

	// ShiftCounts holds every person's total, including zeros
	ShiftCounts map[string]int

	PreferencesHonored   int
	PreferencesRequested int

	DoubleBookings []DoubleBooking
	Multiplicities []Multiplicity
}

// Extract reads solver values back into assignments and recomputes the diagnostics
// from the assignments rather than from the solver's auxiliary variables
func Extract(c *compiler.Compiled, result *solver.Result) (*Plan, error) {
	if c == nil || result == nil {
		return nil, errors.New("compiled problem and result are required")
	}

	r := c.Roster
	plan := &Plan{
		Status:               result.Status,
		WallTime:             result.WallTime,
		PreferencesRequested: PreferencesRequested(r),
	}
	if !result.Status.HasSolution() {
		return plan, nil
	}
	if len(result.Values) != c.Problem.NumVars() {
		return nil, fmt.Errorf("result has %d values, problem has %d variables", len(result.Values), c.Problem.NumVars())
	}

	sol := make(roster.Solution)
	for p, person := range r.People() {
		for d := range r.Days() {
			for s, shift := range r.Shifts() {
				if result.BoolValue(c.Assign(p, d, s)) {
					sol.Add(roster.Assignment{Person: person, Day: d, Shift: shift.Name})
				}
			}
		}
	}

	plan.Objective = result.Objective
	plan.Solution = sol
	plan.ShiftCounts = ShiftCounts(r, sol)
	plan.PreferencesHonored = PreferencesHonored(r, sol)
	plan.DoubleBookings = DoubleBookings(r, sol)
	plan.Multiplicities = Multiplicities(r, sol)
	return plan, nil
}

// ShiftCounts returns each person's total number of assigned shifts
func ShiftCounts(r *roster.Roster, sol roster.Solution) map[string]int {
	counts := make(map[string]int, r.NumPeople())
	for _, person := range r.People() {
		counts[person] = 0
	}
	for a, v := range sol {
		if _, known := counts[a.Person]; v && known {
			counts[a.Person]++
		}
	}
	return counts
}

// DoubleBookings lists every person holding both slots of a configured pair
func DoubleBookings(r *roster.Roster, sol roster.Solution) []DoubleBooking {
	var out []DoubleBooking
	for _, pair := range r.DoubleBookingPairs() {
		for _, person := range r.People() {
			a := roster.Assignment{Person: person, Day: pair.A.Day, Shift: pair.A.Shift}
			b := roster.Assignment{Person: person, Day: pair.B.Day, Shift: pair.B.Shift}
			if sol.Has(a) && sol.Has(b) {
				out = append(out, DoubleBooking{Person: person, Pair: pair})
			}
		}
	}
	return out
}

// Multiplicities lists every person and day with more than one assigned shift
func Multiplicities(r *roster.Roster, sol roster.Solution) []Multiplicity {
	var out []Multiplicity
	for _, person := range r.People() {
		for d := range r.Days() {
			var held []string
			for _, shift := range r.Shifts() {
				if sol.Has(roster.Assignment{Person: person, Day: d, Shift: shift.Name}) {
					held = append(held, shift.Name)
				}
			}
			if len(held) > 1 {
				out = append(out, Multiplicity{Person: person, Day: d, Shifts: held})
			}
		}
	}
	return out
}

// PreferencesRequested counts the prefer signals in the roster
func PreferencesRequested(r *roster.Roster) int {
	count := 0
	standard := len(r.StandardShifts())
	for p := range r.NumPeople() {
		for d := range r.Days() {
			for std := range standard {
				if r.Signal(p, d, std) == roster.Prefer {
					count++
				}
			}
		}
	}
	return count
}

// PreferencesHonored counts prefer signals where the person works at least one
// shift overlapping the preferred standard shift that day
func PreferencesHonored(r *roster.Roster, sol roster.Solution) int {
	count := 0
	shifts := r.Shifts()
	standard := r.StandardShifts()
	for p, person := range r.People() {
		for d := range r.Days() {
			for std, stdShift := range standard {
				if r.Signal(p, d, std) != roster.Prefer {
					continue
				}
				for _, shift := range shifts {
					if sol.Has(roster.Assignment{Person: person, Day: d, Shift: shift.Name}) &&
						interval.AnyOverlap(shift.Intervals, stdShift.Intervals) {
						count++
						break
					}
				}
			}
		}
	}
	return count
}
