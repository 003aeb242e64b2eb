package roster_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/shift-planner/pkg/core/roster"
	"github.com/jakechorley/shift-planner/pkg/core/roster/rostertest"
)

func TestSolutionFromDays(t *testing.T) {
	r := rostertest.Week(t)

	sol, err := roster.SolutionFromDays(r, []map[string][]string{
		{rostertest.Early: {"ana"}, rostertest.Day: {"ben"}},
		{"split": {"fay"}},
	})
	require.NoError(t, err)

	assert.Len(t, sol, 3)
	assert.True(t, sol.Has(roster.Assignment{Person: "fay", Day: 1, Shift: "split"}))
	assert.False(t, sol.Has(roster.Assignment{Person: "fay", Day: 0, Shift: "split"}))

	assert.Equal(t, []roster.Assignment{
		{Person: "ana", Day: 0, Shift: rostertest.Early},
		{Person: "ben", Day: 0, Shift: rostertest.Day},
		{Person: "fay", Day: 1, Shift: "split"},
	}, sol.Assignments())
}

func TestSolutionFromDays_Errors(t *testing.T) {
	r := rostertest.Week(t)

	tests := []struct {
		name string
		days []map[string][]string
	}{
		{"unknown person", []map[string][]string{{rostertest.Early: {"zed"}}}},
		{"unknown shift", []map[string][]string{{"lunch": {"ana"}}}},
		{"too many days", make([]map[string][]string, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := roster.SolutionFromDays(r, tt.days)
			require.Error(t, err)
			assert.True(t, errors.Is(err, roster.ErrInvalidInput))
		})
	}
}

func TestToDays(t *testing.T) {
	r := rostertest.Week(t)
	sol := roster.NewSolution(
		roster.Assignment{Person: "ben", Day: 0, Shift: rostertest.Early},
		roster.Assignment{Person: "ana", Day: 0, Shift: rostertest.Early},
		roster.Assignment{Person: "fay", Day: 1, Shift: "split"},
	)

	days := r.ToDays(sol)
	require.Len(t, days, 3)

	// Roster order, not insertion order
	assert.Equal(t, []string{"ana", "ben"}, days[0][rostertest.Early])
	assert.Equal(t, []string{}, days[0][rostertest.Night])

	// Split shift has no requirement on day 0 so it is omitted
	_, ok := days[0]["split"]
	assert.False(t, ok)
	assert.Equal(t, []string{"fay"}, days[1]["split"])

	back, err := roster.SolutionFromDays(r, days)
	require.NoError(t, err)
	assert.Equal(t, sol, back)
}
