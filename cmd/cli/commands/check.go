package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-planner/internal/config"
	"github.com/jakechorley/shift-planner/pkg/core/services"
)

// CheckCmd creates the check command
func CheckCmd(app *AppContext) *cobra.Command {
	var fromSheet bool

	cmd := &cobra.Command{
		Use:   "check <roster.yaml> [schedule.yaml]",
		Short: "Check a schedule against every hard rule of a roster",
		Long: `Check a schedule file, or with --from-sheet the published schedule
spreadsheet, against the roster and list every broken hard rule.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromSheet == (len(args) == 2) {
				return fmt.Errorf("give either a schedule file or --from-sheet")
			}

			rf, r, err := loadRoster(app, args[0])
			if err != nil {
				return err
			}
			start := rosterStart(rf)

			var days []map[string][]string
			if fromSheet {
				if app.Cfg.ScheduleSheetID == "" {
					return fmt.Errorf("scheduleSheetID is not configured")
				}
				client, err := app.SheetsClient()
				if err != nil {
					return err
				}
				days, err = client.ReadSchedule(app.Cfg.ScheduleSheetID, services.DayTitles(r, start))
				if err != nil {
					return fmt.Errorf("failed to read published schedule: %w", err)
				}
			} else {
				sf, err := config.LoadScheduleFile(args[1])
				if err != nil {
					return err
				}
				if sf.Roster != "" && sf.Roster != rf.Name {
					app.Logger.Warn("Schedule was written for a different roster",
						zap.String("schedule_roster", sf.Roster),
						zap.String("roster", rf.Name))
				}
				days = sf.Days
			}

			result, err := services.CheckSchedule(r, days, app.Logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSchedule(out, r, result.Solution, start)
			printCounts(out, r, result.ShiftCounts)
			printDiagnostics(out, result.PreferencesHonored, result.PreferencesRequested, result.DoubleBookings, result.Multiplicities)
			printViolations(out, result.Violations)

			if !result.Valid() {
				return fmt.Errorf("schedule breaks %d hard rules", len(result.Violations))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromSheet, "from-sheet", false, "Read the schedule from the schedule spreadsheet")

	return cmd
}
