package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-planner/pkg/core/services"
	"github.com/jakechorley/shift-planner/pkg/db"
)

// ViewRunsCmd creates the viewRuns command
func ViewRunsCmd(app *AppContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "viewRuns",
		Short: "List recently saved planning runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("limit must not be negative, got: %d", limit)
			}
			app.Logger.Debug("viewRuns command", zap.Int("limit", limit))

			database, err := app.Database()
			if err != nil {
				return err
			}

			runs, err := services.ListRuns(app.Ctx, database, app.Logger, limit)
			if err != nil {
				return err
			}

			printRuns(cmd.OutOrStdout(), runs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show (0 for all)")

	return cmd
}

// printRuns writes runs as a table, newest first
func printRuns(w io.Writer, runs []db.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs saved yet.")
		return
	}

	nameWidth := len("Roster")
	for _, run := range runs {
		nameWidth = max(nameWidth, len(run.RosterName))
	}

	header := fmt.Sprintf("%-36s  %-*s  %-19s  %-20s  %9s  %11s",
		"Run", nameWidth, "Roster", "Created", "Status", "Objective", "Assignments")
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	for _, run := range runs {
		fmt.Fprintf(w, "%-36s  %-*s  %-19s  %-20s  %9d  %11d\n",
			run.ID, nameWidth, run.RosterName,
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Status, run.Objective, run.AssignmentCount)
	}
}
