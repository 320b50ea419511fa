package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/teamday/core/scheduler"
	"github.com/kilianp07/teamday/infra/logger"
	"github.com/kilianp07/teamday/pkg/export"
)

var (
	wishesPath   string
	outputFormat string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute a schedule from a wishes file",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&wishesPath, "wishes", "w", "", "wishes file (yaml or json)")
	planCmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "output format: text or json")
	_ = planCmd.MarkFlagRequired("wishes")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	if outputFormat != "text" && outputFormat != "json" {
		return fmt.Errorf("unknown output format %q", outputFormat)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return err
	}
	wishes, err := scheduler.LoadWishes(wishesPath)
	if err != nil {
		return fmt.Errorf("load wishes: %w", err)
	}

	planner, err := scheduler.NewPlanner(cfg.Scheduler, logger.NewWithWriter(cmd.ErrOrStderr(), "planner"), nil)
	if err != nil {
		return err
	}
	plan, err := planner.Compute(cmd.Context(), wishes)
	if err != nil {
		return err
	}
	if outputFormat == "json" {
		return export.WriteJSON(cmd.OutOrStdout(), plan)
	}
	return export.WriteText(cmd.OutOrStdout(), plan)
}
