package cmd

import (
	"fmt"

	"temperance/internal/cli"
	"temperance/internal/metrics"

	"github.com/spf13/cobra"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Show the cumulative savings chart",
	RunE:  runChart,
}

func init() {
	rootCmd.AddCommand(chartCmd)
}

func runChart(_ *cobra.Command, _ []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	gains, err := s.GainsByCreatedAt(false)
	if err != nil {
		return err
	}

	points := metrics.BuildCumulativeChartPoints(gains)
	if len(points) == 0 {
		fmt.Println("\n  Nothing to chart yet.")
		return nil
	}

	values := make([]int64, 0, len(points))
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		values = append(values, p.Value)
		rows = append(rows, []string{p.Date, cli.FormatYen(p.Value)})
	}

	fmt.Println()
	fmt.Printf("  %s\n\n", cli.RenderSparkline(values))
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Cumulative Savings",
		Headers: []string{"Date", "Total"},
		Rows:    rows,
	}))
	return nil
}
