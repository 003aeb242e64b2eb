package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-planner/pkg/core/extract"
	"github.com/jakechorley/shift-planner/pkg/core/roster"
	"github.com/jakechorley/shift-planner/pkg/db"
)

// SavePlan persists a plan as a new run with its assignments.
// Plans without a solution are saved with their status and no assignments.
func SavePlan(
	ctx context.Context,
	store db.RunStore,
	logger *zap.Logger,
	rosterName string,
	r *roster.Roster,
	plan *extract.Plan,
) (*db.Run, error) {
	if plan == nil {
		return nil, fmt.Errorf("plan is required")
	}

	run := &db.Run{
		ID:         uuid.New().String(),
		RosterName: rosterName,
		Status:     string(plan.Status),
		Objective:  plan.Objective,
		People:     r.NumPeople(),
		Days:       r.Days(),
		Shifts:     r.NumShifts(),
		CreatedAt:  time.Now().UTC(),
	}

	var assignments []db.Assignment
	if plan.Status.HasSolution() {
		for _, a := range plan.Solution.Assignments() {
			assignments = append(assignments, db.Assignment{
				RunID:  run.ID,
				Person: a.Person,
				Day:    a.Day,
				Shift:  a.Shift,
			})
		}
	}
	run.AssignmentCount = len(assignments)

	logger.Debug("Saving run",
		zap.String("run_id", run.ID),
		zap.String("roster", rosterName),
		zap.String("status", run.Status),
		zap.Int("assignments", len(assignments)))

	if err := store.InsertRun(ctx, run, assignments); err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}

	return run, nil
}

// ListRuns returns the most recent runs, newest first
func ListRuns(ctx context.Context, store db.RunStore, logger *zap.Logger, limit int) ([]db.Run, error) {
	logger.Debug("Listing runs", zap.Int("limit", limit))

	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	logger.Debug("Found runs", zap.Int("count", len(runs)))
	return runs, nil
}

// RunSolution loads the assignments of a saved run back into a solution
func RunSolution(ctx context.Context, store db.AssignmentStore, logger *zap.Logger, runID string) (roster.Solution, error) {
	logger.Debug("Loading run assignments", zap.String("run_id", runID))

	assignments, err := store.GetAssignments(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}
	if len(assignments) == 0 {
		return nil, fmt.Errorf("run %s has no assignments", runID)
	}

	sol := make(roster.Solution, len(assignments))
	for _, a := range assignments {
		sol.Add(roster.Assignment{Person: a.Person, Day: a.Day, Shift: a.Shift})
	}
	return sol, nil
}
