package cmd

import (
	"fmt"
	"time"

	"temperance/internal/cli"
	"temperance/internal/metrics"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show goal progress and forecast",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	gains, err := s.GainsByCreatedAt(false)
	if err != nil {
		return err
	}
	goal, err := s.GoalAmount()
	if err != nil {
		return err
	}

	m := metrics.ComputeGoalMetrics(gains, goal, time.Now())

	fmt.Println()
	fmt.Println(cli.RenderTitle("節制利益 STATUS"))
	fmt.Println()
	fmt.Println(cli.RenderKeyValue("Today", cli.RenderGood(cli.FormatYen(m.Today))))
	fmt.Println(cli.RenderKeyValue("Total saved", cli.FormatYen(m.Cumulative)))

	if goal == nil || *goal <= 0 {
		fmt.Println(cli.RenderKeyValue("Goal", "not set (temperance goal set <amount>)"))
		fmt.Println()
		return nil
	}

	fmt.Println(cli.RenderKeyValue("Goal", cli.FormatYen(*goal)))
	fmt.Println(cli.RenderKeyValue("Remaining", cli.FormatYen(*m.Remaining)))
	fmt.Println(cli.RenderKeyValue("Progress", cli.RenderProgressBar(*m.ProgressPercent, 30)))

	if m.ForecastDate != nil {
		fmt.Println(cli.RenderKeyValue("Forecast", *m.ForecastDate))
	} else if *m.Remaining == 0 {
		fmt.Println(cli.RenderKeyValue("Forecast", cli.RenderGood("goal reached!")))
	} else {
		fmt.Println(cli.RenderKeyValue("Forecast", "log gains on 2+ days this week for a projection"))
	}
	fmt.Println()

	return nil
}
