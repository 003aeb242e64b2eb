package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-planner/pkg/clients/sheetsclient"
	"github.com/jakechorley/shift-planner/pkg/core/roster"
	"github.com/jakechorley/shift-planner/pkg/core/roster/rostertest"
)

func TestDayTitle(t *testing.T) {
	start := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "Day 0", DayTitle(0, nil))
	assert.Equal(t, "Day 3", DayTitle(3, nil))
	assert.Equal(t, "Sun Jan 05 2025", DayTitle(0, &start))
	assert.Equal(t, "Tue Jan 07 2025", DayTitle(2, &start))
}

func TestBuildPublishedDays(t *testing.T) {
	r := rostertest.Week(t)

	days := BuildPublishedDays(r, rostertest.WeekSolution(), nil)
	require.Len(t, days, 3)

	assert.Equal(t, sheetsclient.PublishedDay{
		Title: "Day 0",
		Rows: []sheetsclient.PublishedRow{
			{Shift: rostertest.Early, People: []string{"ana"}},
			{Shift: rostertest.Day, People: []string{"ben"}},
			{Shift: rostertest.Evening, People: []string{"cal"}},
			{Shift: rostertest.Night, People: []string{"dan"}},
		},
	}, days[0])

	// the split shift is only required on day 1
	require.Len(t, days[1].Rows, 5)
	assert.Equal(t, sheetsclient.PublishedRow{Shift: "split", People: []string{"fay"}}, days[1].Rows[4])
	assert.Len(t, days[2].Rows, 4)
}

func TestBuildPublishedDays_KeepsUnfilledRequiredShifts(t *testing.T) {
	r := rostertest.SingleShift(t)

	days := BuildPublishedDays(r, roster.NewSolution(), nil)
	require.Len(t, days, 1)
	assert.Equal(t, []sheetsclient.PublishedRow{{Shift: "A"}}, days[0].Rows)
}

func TestPublishSchedule(t *testing.T) {
	publisher := &mockPublisher{}
	start := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	r := rostertest.Week(t)

	days, err := PublishSchedule(context.Background(), publisher, r, rostertest.WeekSolution(), "sheet123", &start, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "sheet123", publisher.spreadsheetID)
	assert.Equal(t, days, publisher.days)
	assert.Equal(t, []string{"Sun Jan 05 2025", "Mon Jan 06 2025", "Tue Jan 07 2025"}, DayTitles(r, &start))
	assert.Equal(t, "Mon Jan 06 2025", days[1].Title)
}

func TestPublishSchedule_PublishedDaysCheckClean(t *testing.T) {
	r := rostertest.Week(t)
	days := BuildPublishedDays(r, rostertest.WeekSolution(), nil)

	// reading each tab back gives a schedule that passes the check
	var read []map[string][]string
	for _, day := range days {
		m := make(map[string][]string)
		for _, row := range day.Rows {
			m[row.Shift] = row.People
		}
		read = append(read, m)
	}

	result, err := CheckSchedule(r, read, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, result.Valid())
}

func TestPublishSchedule_Errors(t *testing.T) {
	r := rostertest.SingleShift(t)

	_, err := PublishSchedule(context.Background(), &mockPublisher{}, r, roster.NewSolution(), "", nil, zap.NewNop())
	assert.Error(t, err)

	_, err = PublishSchedule(context.Background(), &mockPublisher{err: errors.New("quota exceeded")}, r, roster.NewSolution(), "sheet123", nil, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish schedule")
}
