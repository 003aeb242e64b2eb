package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-planner/internal/config"
	"github.com/jakechorley/shift-planner/pkg/core/roster"
	"github.com/jakechorley/shift-planner/pkg/core/services"
)

// PublishCmd creates the publish command
func PublishCmd(app *AppContext) *cobra.Command {
	var (
		force bool
		runID string
	)

	cmd := &cobra.Command{
		Use:   "publish <roster.yaml> [schedule.yaml]",
		Short: "Publish a schedule to the schedule spreadsheet, one tab per day",
		Long: `Publish a schedule file, or with --run a saved run, to the schedule
spreadsheet. Schedules that break hard rules are refused unless --force is given.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (runID != "") == (len(args) == 2) {
				return fmt.Errorf("give either a schedule file or --run")
			}

			rf, r, err := loadRoster(app, args[0])
			if err != nil {
				return err
			}

			var sol roster.Solution
			if runID != "" {
				database, err := app.Database()
				if err != nil {
					return err
				}
				sol, err = services.RunSolution(app.Ctx, database, app.Logger, runID)
				if err != nil {
					return err
				}
			} else {
				sf, err := config.LoadScheduleFile(args[1])
				if err != nil {
					return err
				}
				sol, err = roster.SolutionFromDays(r, sf.Days)
				if err != nil {
					return fmt.Errorf("failed to read schedule: %w", err)
				}
			}

			result, err := services.CheckSchedule(r, r.ToDays(sol), app.Logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !result.Valid() {
				printViolations(out, result.Violations)
				if !force {
					return fmt.Errorf("refusing to publish a schedule that breaks %d hard rules", len(result.Violations))
				}
				app.Logger.Warn("Publishing a schedule that breaks hard rules", zap.Int("violations", len(result.Violations)))
			}

			if err := publishSolution(app, r, sol, rosterStart(rf)); err != nil {
				return err
			}

			fmt.Fprintf(out, "\n✓ Published %d days to the schedule spreadsheet\n", r.Days())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Publish even if the schedule breaks hard rules")
	cmd.Flags().StringVar(&runID, "run", "", "Publish the assignments of a saved run")

	return cmd
}
