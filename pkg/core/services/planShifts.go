package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-planner/pkg/core/compiler"
	"github.com/jakechorley/shift-planner/pkg/core/extract"
	"github.com/jakechorley/shift-planner/pkg/core/roster"
	"github.com/jakechorley/shift-planner/pkg/core/solver"
	"github.com/jakechorley/shift-planner/pkg/core/validator"
)

// ErrInvalidSolution is returned when a backend's solution breaks a hard rule
var ErrInvalidSolution = errors.New("solver returned a schedule that breaks hard rules")

// PlanResult is the outcome of planning a roster
type PlanResult struct {
	Plan  *extract.Plan
	Stats compiler.Stats

	// Violations is only non-empty alongside ErrInvalidSolution
	Violations []validator.Violation
}

// PlanShifts compiles the roster, solves it, reads the assignments back and checks
// them with the validator. INFEASIBLE and TIMEOUT_NO_SOLUTION are reported through
// the plan status, not as errors.
func PlanShifts(
	ctx context.Context,
	backend solver.Backend,
	r *roster.Roster,
	params solver.Params,
	logger *zap.Logger,
) (*PlanResult, error) {
	logger.Debug("Starting planShifts",
		zap.Int("people", r.NumPeople()),
		zap.Int("days", r.Days()),
		zap.Int("shifts", r.NumShifts()))

	// Step 1: Compile the roster into a problem
	compiled, err := compiler.Compile(r)
	if err != nil {
		return nil, fmt.Errorf("failed to compile roster: %w", err)
	}

	stats := compiled.Stats
	logger.Debug("Compiled roster",
		zap.Int("variables", stats.Variables),
		zap.Int("constraints", stats.Constraints),
		zap.Int("coverage", stats.Coverage),
		zap.Int("forbidden", stats.Forbidden),
		zap.Int("totals", stats.Totals),
		zap.Int("rest", stats.Rest),
		zap.Int("preference_terms", stats.PreferenceTerms),
		zap.Int("double_booking", stats.DoubleBooking),
		zap.Int("multiplicity", stats.Multiplicity))

	// Step 2: Solve
	logger.Info("Solving",
		zap.Duration("time_limit", params.TimeLimit),
		zap.Int("workers", params.Workers))
	result, err := backend.Solve(ctx, compiled.Problem, params)
	if err != nil {
		return nil, fmt.Errorf("failed to solve roster: %w", err)
	}

	logger.Info("Solve finished",
		zap.String("status", string(result.Status)),
		zap.Int("objective", result.Objective),
		zap.Duration("wall_time", result.WallTime),
		zap.Int64("nodes", result.Nodes))

	// Step 3: Read the assignments back
	plan, err := extract.Extract(compiled, result)
	if err != nil {
		return nil, fmt.Errorf("failed to extract plan: %w", err)
	}

	out := &PlanResult{Plan: plan, Stats: stats}
	if !plan.Status.HasSolution() {
		return out, nil
	}

	// Step 4: Check the solution independently of the solver
	violations, err := validator.Validate(r, plan.Solution)
	if err != nil {
		return nil, fmt.Errorf("failed to validate plan: %w", err)
	}

	if len(violations) > 0 {
		for _, v := range violations {
			logger.Error("Plan violation", zap.String("violation", v.Message()))
		}
		out.Violations = violations
		return out, fmt.Errorf("%w: %d violations", ErrInvalidSolution, len(violations))
	}

	logger.Debug("Plan validated",
		zap.Int("assignments", len(plan.Solution.Assignments())),
		zap.Int("preferences_honored", plan.PreferencesHonored),
		zap.Int("preferences_requested", plan.PreferencesRequested),
		zap.Int("double_bookings", len(plan.DoubleBookings)),
		zap.Int("multiplicities", len(plan.Multiplicities)))

	return out, nil
}
