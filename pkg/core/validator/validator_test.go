package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/shift-planner/pkg/core/interval"
	"github.com/jakechorley/shift-planner/pkg/core/roster"
	"github.com/jakechorley/shift-planner/pkg/core/roster/rostertest"
)

func assign(person string, day int, shift string) roster.Assignment {
	return roster.Assignment{Person: person, Day: day, Shift: shift}
}

func TestValidate_ValidSolution(t *testing.T) {
	violations, err := Validate(rostertest.Week(t), rostertest.WeekSolution())
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestValidate_RestAcrossMidnight(t *testing.T) {
	r := rostertest.MustNew(t, roster.Input{
		People:         []string{"P"},
		Days:           2,
		StandardShifts: rostertest.StandardNames(),
		Shifts:         rostertest.StandardShifts(),
		Coverage: roster.Coverage{
			Default: roster.Uniform(0),
			ByShift: map[string]roster.Requirement{
				rostertest.Evening: roster.PerDay([]int{1, 0}),
				rostertest.Early:   roster.PerDay([]int{0, 1}),
			},
		},
		MinRestHours: 12,
	})

	// ends at 21:00 on day 0, starts at 03:00 on day 1
	sol := roster.NewSolution(
		assign("P", 1, rostertest.Early),
		assign("P", 0, rostertest.Evening),
	)

	violations, err := Validate(r, sol)
	require.NoError(t, err)
	require.Len(t, violations, 1)

	v := violations[0]
	assert.Equal(t, KindRest, v.Kind)
	assert.Equal(t, "P", v.Person)
	assert.Equal(t, rostertest.Evening, v.Shift)
	assert.Equal(t, 0, v.Day)
	assert.Equal(t, rostertest.Early, v.OtherShift)
	assert.Equal(t, 1, v.OtherDay)
	assert.Equal(t, 6.0, v.Gap)
	assert.Equal(t, [2]interval.Interval{{Start: 15, End: 21}, {Start: 3, End: 9}}, v.Intervals)
	assert.Equal(t, "[Rest] P between 15:00-21:00(day0, (15, 21)) and 03:00-09:00(day1, (3, 9)), rest=6.0h < 12h", v.Message())
}

func TestValidate_Coverage(t *testing.T) {
	r := rostertest.SingleShift(t)

	violations, err := Validate(r, roster.NewSolution(assign("alice", 0, "A"), assign("bob", 0, "A")))
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, Violation{Kind: KindCoverage, Day: 0, Shift: "A", Required: 1, Actual: 2}, violations[0])
	assert.Equal(t, "[Coverage] Day 0, shift A: assigned=2, required=1", violations[0].Message())

	violations, err = Validate(r, roster.NewSolution())
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, 0, violations[0].Actual)
}

func TestValidate_ForbiddenByOverlap(t *testing.T) {
	r := rostertest.MustNew(t, roster.Input{
		People:         []string{"P", "Q"},
		Days:           1,
		StandardShifts: []string{rostertest.Day},
		Shifts: []roster.Shift{
			rostertest.Shift(rostertest.Day, 9, 15),
			rostertest.Shift("X", 12, 14),
			rostertest.Shift("Y", 15, 17),
		},
		Requests: rostertest.Cube(t, [][][]int{{{-1}}, {{0}}}),
		Coverage: roster.Coverage{ByShift: map[string]roster.Requirement{
			rostertest.Day: roster.Uniform(1),
			"X":            roster.Uniform(1),
			"Y":            roster.Uniform(0),
		}},
	})

	violations, err := Validate(r, roster.NewSolution(
		assign("Q", 0, rostertest.Day),
		assign("P", 0, "X"),
	))
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, KindForbidden, violations[0].Kind)
	assert.Equal(t, "[Forbidden] P assigned to X on day 0 but marked -1 for 09:00-15:00", violations[0].Message())
}

func TestValidate_Totals(t *testing.T) {
	r := rostertest.MustNew(t, roster.Input{
		People:         []string{"alice", "bob", "carol"},
		Days:           3,
		StandardShifts: []string{"A"},
		Shifts:         []roster.Shift{rostertest.Shift("A", 9, 15)},
		DefaultBounds:  roster.Between(1, 2),
		Targets:        map[string]int{"carol": 1},
	})

	violations, err := Validate(r, roster.NewSolution(
		assign("alice", 0, "A"),
		assign("alice", 1, "A"),
		assign("alice", 2, "A"),
	))
	require.NoError(t, err)
	require.Len(t, violations, 3)

	assert.Equal(t, Violation{Kind: KindMaxShifts, Person: "alice", Required: 2, Actual: 3}, violations[0])
	assert.Equal(t, Violation{Kind: KindMinShifts, Person: "bob", Required: 1, Actual: 0}, violations[1])
	assert.Equal(t, Violation{Kind: KindTarget, Person: "carol", Required: 1, Actual: 0}, violations[2])
	assert.Equal(t, "[Target] carol, has 0, target 1", violations[2].Message())
}

func TestValidate_OrderIsCoverageForbiddenTotalsRest(t *testing.T) {
	r := rostertest.Week(t)
	sol := rostertest.WeekSolution()
	// dan is forbidden from the early shift on day 1 and it is already covered
	sol.Add(assign("dan", 1, rostertest.Early))

	violations, err := Validate(r, sol)
	require.NoError(t, err)

	var kinds []Kind
	for _, v := range violations {
		kinds = append(kinds, v.Kind)
	}
	// early day 1 now has two people and starts as dan's night shift on day 0 ends
	assert.Equal(t, []Kind{KindCoverage, KindForbidden, KindRest}, kinds)
}

func TestValidate_StructuralErrors(t *testing.T) {
	r := rostertest.SingleShift(t)

	tests := []struct {
		name string
		sol  roster.Solution
	}{
		{"unknown person", roster.NewSolution(assign("zed", 0, "A"))},
		{"unknown shift", roster.NewSolution(assign("alice", 0, "Z"))},
		{"day out of range", roster.NewSolution(assign("alice", 3, "A"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(r, tt.sol)
			require.Error(t, err)
			assert.True(t, errors.Is(err, roster.ErrInvalidInput))
		})
	}
}

func TestValidate_IgnoresFalseEntries(t *testing.T) {
	r := rostertest.SingleShift(t)
	sol := roster.Solution{
		assign("alice", 0, "A"): true,
		assign("bob", 0, "A"):   false,
	}

	violations, err := Validate(r, sol)
	require.NoError(t, err)
	assert.Empty(t, violations)
}
