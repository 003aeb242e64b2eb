package sheetsclient

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/sheets/v4"
)

// PublishedRow is one shift of a day followed by the people working it
type PublishedRow struct {
	Shift  string
	People []string
}

// PublishedDay is the content of one schedule tab
type PublishedDay struct {
	Title string
	Rows  []PublishedRow
}

// PublishSchedule writes one tab per day. Missing tabs are created and existing
// ones are cleared, then every day is written in one batch.
func (c *Client) PublishSchedule(spreadsheetID string, days []PublishedDay) error {
	existing, err := c.TabTitles(spreadsheetID)
	if err != nil {
		return err
	}

	missing, stale := splitTabs(days, existing)
	if err := c.AddTabs(spreadsheetID, missing); err != nil {
		return err
	}
	if err := c.BatchClearValues(spreadsheetID, stale); err != nil {
		return err
	}

	data := make([]*sheets.ValueRange, 0, len(days))
	for _, day := range days {
		data = append(data, &sheets.ValueRange{
			Range:  quoteTab(day.Title) + "!A1",
			Values: dayValues(day),
		})
	}
	if err := c.BatchUpdateValues(spreadsheetID, data); err != nil {
		return err
	}

	c.logger.Debug("Published schedule",
		zap.Int("days", len(days)),
		zap.Int("created_tabs", len(missing)))
	return nil
}

// ReadSchedule reads the given tabs back into one shift -> people map per tab
func (c *Client) ReadSchedule(spreadsheetID string, titles []string) ([]map[string][]string, error) {
	ranges := make([]string, len(titles))
	for i, title := range titles {
		ranges[i] = quoteTab(title)
	}

	tabs, err := c.BatchGetValues(spreadsheetID, ranges)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule tabs: %w", err)
	}

	days := make([]map[string][]string, len(tabs))
	for i, values := range tabs {
		days[i] = ParseDayValues(values)
	}
	return days, nil
}

// splitTabs returns the day titles with no tab yet, and the ranges of existing
// tabs that will be overwritten
func splitTabs(days []PublishedDay, existing []string) (missing, stale []string) {
	for _, day := range days {
		if slices.Contains(existing, day.Title) {
			stale = append(stale, quoteTab(day.Title))
		} else {
			missing = append(missing, day.Title)
		}
	}
	return missing, stale
}

// dayValues lays a day out with the title in A1, a blank row, then one row per shift
func dayValues(day PublishedDay) [][]interface{} {
	values := [][]interface{}{
		{day.Title},
		{},
	}
	for _, row := range day.Rows {
		line := []interface{}{row.Shift}
		for _, person := range row.People {
			line = append(line, person)
		}
		values = append(values, line)
	}
	return values
}

// ParseDayValues reads a tab laid out by PublishSchedule. Rows before the first
// blank row are the header; every later row names a shift followed by its people.
func ParseDayValues(values [][]interface{}) map[string][]string {
	day := make(map[string][]string)

	start := len(values)
	for i, row := range values {
		if isBlank(row) {
			start = i + 1
			break
		}
	}

	for _, row := range values[min(start, len(values)):] {
		if len(row) == 0 {
			continue
		}
		shift := cellString(row[0])
		if shift == "" {
			continue
		}
		people := []string{}
		for _, cell := range row[1:] {
			if person := cellString(cell); person != "" {
				people = append(people, person)
			}
		}
		day[shift] = append(day[shift], people...)
	}
	return day
}

func isBlank(row []interface{}) bool {
	for _, cell := range row {
		if cellString(cell) != "" {
			return false
		}
	}
	return true
}

func cellString(cell interface{}) string {
	if cell == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(cell))
}

// quoteTab quotes a tab title for A1 notation
func quoteTab(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
