package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-planner/pkg/core/extract"
	"github.com/jakechorley/shift-planner/pkg/core/roster"
	"github.com/jakechorley/shift-planner/pkg/core/roster/rostertest"
	"github.com/jakechorley/shift-planner/pkg/core/solver"
	"github.com/jakechorley/shift-planner/pkg/db"
)

func TestSavePlan(t *testing.T) {
	store := &mockRunStore{}
	r := rostertest.SingleShift(t)
	plan := &extract.Plan{
		Status:    solver.Optimal,
		Objective: -1,
		Solution:  roster.NewSolution(roster.Assignment{Person: "bob", Day: 0, Shift: "A"}),
	}

	run, err := SavePlan(context.Background(), store, zap.NewNop(), "single", r, plan)
	require.NoError(t, err)

	_, err = uuid.Parse(run.ID)
	require.NoError(t, err)
	assert.Equal(t, "single", run.RosterName)
	assert.Equal(t, "OPTIMAL", run.Status)
	assert.Equal(t, -1, run.Objective)
	assert.Equal(t, 2, run.People)
	assert.Equal(t, 1, run.Days)
	assert.Equal(t, 1, run.Shifts)
	assert.Equal(t, 1, run.AssignmentCount)
	assert.False(t, run.CreatedAt.IsZero())

	require.Len(t, store.runs, 1)
	assert.Equal(t, []db.Assignment{{RunID: run.ID, Person: "bob", Day: 0, Shift: "A"}}, store.assignments[run.ID])
}

func TestSavePlan_NoSolution(t *testing.T) {
	store := &mockRunStore{}

	run, err := SavePlan(context.Background(), store, zap.NewNop(), "single", rostertest.SingleShift(t),
		&extract.Plan{Status: solver.Infeasible})
	require.NoError(t, err)

	assert.Equal(t, "INFEASIBLE", run.Status)
	assert.Empty(t, store.assignments[run.ID])
}

func TestSavePlan_Errors(t *testing.T) {
	r := rostertest.SingleShift(t)

	_, err := SavePlan(context.Background(), &mockRunStore{}, zap.NewNop(), "single", r, nil)
	assert.Error(t, err)

	store := &mockRunStore{insertErr: errors.New("connection refused")}
	_, err = SavePlan(context.Background(), store, zap.NewNop(), "single", r, &extract.Plan{Status: solver.Infeasible})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert run")
}

func TestListRuns(t *testing.T) {
	store := &mockRunStore{runs: []db.Run{{ID: "run-2"}, {ID: "run-1"}}}

	runs, err := ListRuns(context.Background(), store, zap.NewNop(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
	assert.Equal(t, 10, store.limit)

	_, err = ListRuns(context.Background(), &mockRunStore{listErr: errors.New("boom")}, zap.NewNop(), 0)
	assert.Error(t, err)
}

func TestRunSolution_RoundTrip(t *testing.T) {
	store := &mockRunStore{}
	r := rostertest.Week(t)
	sol := rostertest.WeekSolution()

	run, err := SavePlan(context.Background(), store, zap.NewNop(), "week", r, &extract.Plan{Status: solver.Feasible, Solution: sol})
	require.NoError(t, err)

	loaded, err := RunSolution(context.Background(), store, zap.NewNop(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, sol, loaded)
}

func TestRunSolution_Errors(t *testing.T) {
	_, err := RunSolution(context.Background(), &mockRunStore{}, zap.NewNop(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no assignments")

	_, err = RunSolution(context.Background(), &mockRunStore{getErr: errors.New("boom")}, zap.NewNop(), "run-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get assignments")
}
