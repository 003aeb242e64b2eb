package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-planner/pkg/core/services"
)

// ImportRequestsCmd creates the importRequests command
func ImportRequestsCmd(app *AppContext) *cobra.Command {
	var (
		tab   string
		write bool
	)

	cmd := &cobra.Command{
		Use:   "importRequests <roster.yaml>",
		Short: "Read everyone's shift requests from the preferences spreadsheet",
		Long: `Read the preferences spreadsheet into the roster's request cube. Each row
holds a name followed by one answer per day and standard shift. With --write
the roster file is updated in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rosterPath := args[0]
			if app.Cfg.RequestsSheetID == "" {
				return fmt.Errorf("requestsSheetID is not configured")
			}
			if !cmd.Flags().Changed("tab") && app.Cfg.RequestsTab != "" {
				tab = app.Cfg.RequestsTab
			}

			rf, r, err := loadRoster(app, rosterPath)
			if err != nil {
				return err
			}

			client, err := app.SheetsClient()
			if err != nil {
				return err
			}

			layout := services.RequestLayout{
				People:         r.People(),
				Days:           r.Days(),
				StandardShifts: len(r.StandardShifts()),
				ForbidTokens:   app.Cfg.Forbids(),
			}
			result, err := services.ImportRequests(client, app.Cfg.RequestsSheetID, tab, layout, app.Logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ Read requests for %d people (%d can't, %d prefer)\n",
				len(result.Requests), result.Forbids, result.Prefers)
			if len(result.Missing) > 0 {
				fmt.Fprintf(out, "  No row for: %s\n", strings.Join(result.Missing, ", "))
			}
			if len(result.Ignored) > 0 {
				fmt.Fprintf(out, "  Ignored rows: %s\n", strings.Join(result.Ignored, ", "))
			}

			if !write {
				fmt.Fprintln(out, "\nRun again with --write to update the roster file.")
				return nil
			}

			rf.Requests = result.Requests
			if rf.Days == 0 {
				rf.Days = r.Days()
			}
			if err := rf.Validate(); err != nil {
				return err
			}
			if _, err := rf.Roster(app.Cfg.Weights); err != nil {
				return fmt.Errorf("imported requests do not fit the roster: %w", err)
			}
			if err := rf.Save(rosterPath); err != nil {
				return err
			}

			app.Logger.Info("Roster requests updated", zap.String("roster", rosterPath))
			fmt.Fprintf(out, "✓ Updated %s\n", rosterPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&tab, "tab", "Requests", "Tab of the preferences spreadsheet")

	return cmd
}
