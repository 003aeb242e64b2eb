package services

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-planner/pkg/clients/sheetsclient"
	"github.com/jakechorley/shift-planner/pkg/core/roster"
)

// RequestSheetReader reads the rows of a preferences sheet
type RequestSheetReader interface {
	ReadRequestSheet(spreadsheetID, tab string) ([]sheetsclient.RequestRow, error)
}

// RequestLayout describes the people and cube shape a preferences sheet is read into
type RequestLayout struct {
	People         []string
	Days           int
	StandardShifts int

	// ForbidTokens are the answers meaning "can't work"
	ForbidTokens []string
}

// ImportResult is a request cube read from a preferences sheet
type ImportResult struct {
	// Requests holds raw -1/0/1 signals per person, [day][standard shift]
	Requests map[string][][]int

	// Missing lists people with no row in the sheet
	Missing []string

	// Ignored lists row names that are not people of the roster
	Ignored []string

	Forbids int
	Prefers int
}

// ParseRequestCell converts a preferences answer to a signal. An empty cell is
// neutral, a cell with a forbid token as one of its words forbids, and anything
// else is a preference.
func ParseRequestCell(cell string, forbidTokens []string) roster.Signal {
	words := strings.Fields(cell)
	if len(words) == 0 {
		return roster.Neutral
	}
	for _, word := range words {
		for _, token := range forbidTokens {
			if strings.EqualFold(word, token) {
				return roster.Forbid
			}
		}
	}
	return roster.Prefer
}

// ImportRequests reads a preferences sheet into a request cube. The cells after a
// person's name run day by day, and within a day standard shift by standard shift.
func ImportRequests(
	reader RequestSheetReader,
	spreadsheetID string,
	tab string,
	layout RequestLayout,
	logger *zap.Logger,
) (*ImportResult, error) {
	if layout.Days <= 0 || layout.StandardShifts <= 0 {
		return nil, fmt.Errorf("request layout needs positive days and standard shifts, got %d and %d", layout.Days, layout.StandardShifts)
	}

	logger.Debug("Starting importRequests",
		zap.String("spreadsheet_id", spreadsheetID),
		zap.String("tab", tab),
		zap.Int("people", len(layout.People)))

	// Step 1: Read the sheet
	rows, err := reader.ReadRequestSheet(spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences sheet: %w", err)
	}

	known := make(map[string]bool, len(layout.People))
	for _, person := range layout.People {
		known[person] = true
	}

	// Step 2: Convert each person's row
	width := layout.Days * layout.StandardShifts
	result := &ImportResult{Requests: make(map[string][][]int)}
	for _, row := range rows {
		if !known[row.Name] {
			result.Ignored = append(result.Ignored, row.Name)
			continue
		}
		if _, seen := result.Requests[row.Name]; seen {
			return nil, fmt.Errorf("preferences sheet has more than one row for %q", row.Name)
		}
		if len(row.Cells) > width {
			logger.Debug("Ignoring extra cells", zap.String("person", row.Name), zap.Int("extra", len(row.Cells)-width))
		}

		cube := make([][]int, layout.Days)
		for d := range cube {
			cube[d] = make([]int, layout.StandardShifts)
			for s := range cube[d] {
				cell := ""
				if i := d*layout.StandardShifts + s; i < len(row.Cells) {
					cell = row.Cells[i]
				}
				signal := ParseRequestCell(cell, layout.ForbidTokens)
				switch signal {
				case roster.Forbid:
					result.Forbids++
				case roster.Prefer:
					result.Prefers++
				}
				cube[d][s] = int(signal)
			}
		}
		result.Requests[row.Name] = cube
	}

	for _, person := range layout.People {
		if _, ok := result.Requests[person]; !ok {
			result.Missing = append(result.Missing, person)
		}
	}

	logger.Debug("Imported requests",
		zap.Int("people", len(result.Requests)),
		zap.Int("missing", len(result.Missing)),
		zap.Int("ignored", len(result.Ignored)),
		zap.Int("forbids", result.Forbids),
		zap.Int("prefers", result.Prefers))

	return result, nil
}
