package sheetsclient

import "fmt"

// RequestRow is one person's row of the preferences sheet: the name from column A
// and the raw answers that follow, day by day and standard shift by standard shift
type RequestRow struct {
	Name  string
	Cells []string
}

// ReadRequestSheet reads every named row of the preferences tab
func (c *Client) ReadRequestSheet(spreadsheetID, tab string) ([]RequestRow, error) {
	values, err := c.GetValues(spreadsheetID, quoteTab(tab))
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("preferences tab %q is empty", tab)
	}

	return ParseRequestRows(values, 0), nil
}

// ParseRequestRows keeps rows with a name in column A. Cells are padded with
// empty strings up to width.
func ParseRequestRows(values [][]interface{}, width int) []RequestRow {
	var rows []RequestRow
	for _, row := range values {
		if len(row) == 0 {
			continue
		}
		name := cellString(row[0])
		if name == "" {
			continue
		}

		cells := make([]string, 0, max(width, len(row)-1))
		for _, cell := range row[1:] {
			cells = append(cells, cellString(cell))
		}
		for len(cells) < width {
			cells = append(cells, "")
		}
		rows = append(rows, RequestRow{Name: name, Cells: cells})
	}
	return rows
}
