package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-planner/pkg/core/extract"
	"github.com/jakechorley/shift-planner/pkg/core/roster"
	"github.com/jakechorley/shift-planner/pkg/core/validator"
)

// CheckResult describes a schedule checked against a roster
type CheckResult struct {
	Solution   roster.Solution
	Violations []validator.Violation

	ShiftCounts          map[string]int
	PreferencesHonored   int
	PreferencesRequested int
	DoubleBookings       []extract.DoubleBooking
	Multiplicities       []extract.Multiplicity
}

// Valid reports whether the schedule breaks no hard rule
func (c *CheckResult) Valid() bool {
	return len(c.Violations) == 0
}

// CheckSchedule validates a schedule given as one shift -> people map per day,
// such as a hand-edited schedule file or a published sheet
func CheckSchedule(r *roster.Roster, days []map[string][]string, logger *zap.Logger) (*CheckResult, error) {
	logger.Debug("Starting checkSchedule", zap.Int("days", len(days)))

	sol, err := roster.SolutionFromDays(r, days)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule: %w", err)
	}

	violations, err := validator.Validate(r, sol)
	if err != nil {
		return nil, fmt.Errorf("failed to validate schedule: %w", err)
	}

	result := &CheckResult{
		Solution:             sol,
		Violations:           violations,
		ShiftCounts:          extract.ShiftCounts(r, sol),
		PreferencesHonored:   extract.PreferencesHonored(r, sol),
		PreferencesRequested: extract.PreferencesRequested(r),
		DoubleBookings:       extract.DoubleBookings(r, sol),
		Multiplicities:       extract.Multiplicities(r, sol),
	}

	logger.Debug("Schedule checked",
		zap.Int("assignments", len(sol.Assignments())),
		zap.Int("violations", len(violations)))

	return result, nil
}
