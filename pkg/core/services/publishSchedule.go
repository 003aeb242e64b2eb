package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-planner/pkg/clients/sheetsclient"
	"github.com/jakechorley/shift-planner/pkg/core/roster"
)

// SchedulePublisher writes published days to a spreadsheet
type SchedulePublisher interface {
	PublishSchedule(spreadsheetID string, days []sheetsclient.PublishedDay) error
}

// DayTitle names the tab of a day: the date when the roster has a start date,
// otherwise "Day N"
func DayTitle(day int, start *time.Time) string {
	if start == nil {
		return fmt.Sprintf("Day %d", day)
	}
	return start.AddDate(0, 0, day).Format("Mon Jan 02 2006")
}

// DayTitles returns the tab title of every day of the roster
func DayTitles(r *roster.Roster, start *time.Time) []string {
	titles := make([]string, r.Days())
	for d := range titles {
		titles[d] = DayTitle(d, start)
	}
	return titles
}

// BuildPublishedDays lays out one day per tab. Each row is a shift required that
// day, or holding someone, followed by the people working it in roster order.
func BuildPublishedDays(r *roster.Roster, sol roster.Solution, start *time.Time) []sheetsclient.PublishedDay {
	days := make([]sheetsclient.PublishedDay, r.Days())
	for d := range days {
		days[d].Title = DayTitle(d, start)
		for s, shift := range r.Shifts() {
			people := r.Assigned(sol, d, shift.Name)
			if r.Required(s, d) == 0 && len(people) == 0 {
				continue
			}
			days[d].Rows = append(days[d].Rows, sheetsclient.PublishedRow{
				Shift:  shift.Name,
				People: people,
			})
		}
	}
	return days
}

// PublishSchedule publishes a solution to the schedule spreadsheet, one tab per day
func PublishSchedule(
	ctx context.Context,
	publisher SchedulePublisher,
	r *roster.Roster,
	sol roster.Solution,
	spreadsheetID string,
	start *time.Time,
	logger *zap.Logger,
) ([]sheetsclient.PublishedDay, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("schedule spreadsheet ID is required to publish")
	}

	days := BuildPublishedDays(r, sol, start)
	logger.Debug("Publishing schedule",
		zap.String("spreadsheet_id", spreadsheetID),
		zap.Int("days", len(days)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := publisher.PublishSchedule(spreadsheetID, days); err != nil {
		return nil, fmt.Errorf("failed to publish schedule: %w", err)
	}

	return days, nil
}
