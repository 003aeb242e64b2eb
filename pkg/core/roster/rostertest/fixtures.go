// Package rostertest provides roster fixtures shared by tests
package rostertest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jakechorley/shift-planner/pkg/core/interval"
	"github.com/jakechorley/shift-planner/pkg/core/roster"
)

// Standard shift names covering the whole day in six hour blocks
const (
	Early   = "03:00-09:00"
	Day     = "09:00-15:00"
	Evening = "15:00-21:00"
	Night   = "21:00-03:00"
)

// StandardNames returns the standard shift names in request cube order
func StandardNames() []string {
	return []string{Early, Day, Evening, Night}
}

// StandardShifts returns the four standard shifts. The night shift crosses midnight.
func StandardShifts() []roster.Shift {
	return []roster.Shift{
		{Name: Early, Intervals: []interval.Interval{{Start: 3, End: 9}}},
		{Name: Day, Intervals: []interval.Interval{{Start: 9, End: 15}}},
		{Name: Evening, Intervals: []interval.Interval{{Start: 15, End: 21}}},
		{Name: Night, Intervals: []interval.Interval{{Start: 21, End: 27}}},
	}
}

// Shift builds a shift from start/end pairs
func Shift(name string, bounds ...float64) roster.Shift {
	shift := roster.Shift{Name: name}
	for i := 0; i+1 < len(bounds); i += 2 {
		shift.Intervals = append(shift.Intervals, interval.Interval{Start: bounds[i], End: bounds[i+1]})
	}
	return shift
}

// Cube parses a request cube written with raw -1/0/1 values
func Cube(t testing.TB, raw [][][]int) [][][]roster.Signal {
	t.Helper()
	cube := make([][][]roster.Signal, len(raw))
	for p := range raw {
		cube[p] = make([][]roster.Signal, len(raw[p]))
		for d := range raw[p] {
			cube[p][d] = make([]roster.Signal, len(raw[p][d]))
			for s, v := range raw[p][d] {
				signal, err := roster.ParseSignal(v)
				require.NoError(t, err)
				cube[p][d][s] = signal
			}
		}
	}
	return cube
}

// MustNew builds a roster and fails the test on error
func MustNew(t testing.TB, in roster.Input) *roster.Roster {
	t.Helper()
	r, err := roster.New(in)
	require.NoError(t, err)
	return r
}

// SingleShift is two neutral people, one day and one shift "A" (9,15) needing one person
func SingleShift(t testing.TB) *roster.Roster {
	t.Helper()
	return MustNew(t, roster.Input{
		People:         []string{"alice", "bob"},
		Days:           1,
		StandardShifts: []string{"A"},
		Shifts:         []roster.Shift{Shift("A", 9, 15)},
		Coverage:       roster.Coverage{Default: roster.Uniform(1)},
		DefaultBounds:  roster.Between(0, 1),
	})
}

// Week is a six person, three day roster with the four standard shifts, a
// split shift and per-day coverage. It has feasible solutions with a rest of 8 hours.
func Week(t testing.TB) *roster.Roster {
	t.Helper()
	shifts := append(StandardShifts(), Shift("split", 6, 9, 17, 18.5))
	return MustNew(t, roster.Input{
		People:         []string{"ana", "ben", "cal", "dan", "eve", "fay"},
		StandardShifts: StandardNames(),
		Shifts:         shifts,
		Requests: Cube(t, [][][]int{
			{{1, 0, 0, 0}, {1, 0, 0, 0}, {1, 0, 0, 0}},
			{{0, 1, 0, 0}, {0, 1, 0, 0}, {-1, 0, 0, 0}},
			{{0, 0, 1, 0}, {0, 0, 1, 0}, {0, 0, 1, 0}},
			{{0, 0, 0, 1}, {-1, -1, 0, 0}, {0, 0, 0, 1}},
			{{0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			{{-1, 0, 0, 0}, {0, 0, 0, 0}, {0, 1, 0, 0}},
		}),
		Coverage: roster.Coverage{
			Default: roster.Uniform(1),
			ByShift: map[string]roster.Requirement{
				"split": roster.PerDay([]int{0, 1, 0}),
			},
		},
		DefaultBounds: roster.Between(1, 3),
		Targets:       map[string]int{"ana": 3},
		MinRestHours:  8,
	})
}

// WeekSolution is a valid solution of Week
func WeekSolution() roster.Solution {
	at := func(person string, day int, shift string) roster.Assignment {
		return roster.Assignment{Person: person, Day: day, Shift: shift}
	}
	return roster.NewSolution(
		at("ana", 0, Early), at("ben", 0, Day), at("cal", 0, Evening), at("dan", 0, Night),
		at("ana", 1, Early), at("ben", 1, Day), at("cal", 1, Evening), at("eve", 1, Night), at("fay", 1, "split"),
		at("ana", 2, Early), at("fay", 2, Day), at("cal", 2, Evening), at("dan", 2, Night),
	)
}
