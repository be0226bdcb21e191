package cmd

import (
	"fmt"

	"temperance/internal/cli"
	"temperance/internal/metrics"
	"temperance/internal/model"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show savings totals by category",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	gains, err := s.GainsByCreatedAt(false)
	if err != nil {
		return err
	}
	if len(gains) == 0 {
		fmt.Println("\n  No gains logged yet.")
		return nil
	}

	totals := metrics.BuildCategoryTotals(gains)
	var grand int64
	for _, v := range totals {
		grand += v
	}

	rows := make([][]string, 0, len(model.CategoryOrder))
	for _, c := range model.CategoryOrder {
		total, ok := totals[c]
		if !ok {
			continue
		}
		share := float64(total) / float64(grand) * 100
		rows = append(rows, []string{
			model.CategoryLabels[c],
			cli.FormatYen(total),
			cli.FormatPercent(share),
		})
	}
	rows = append(rows, []string{"合計", cli.FormatYen(grand), ""})

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Savings by Category",
		Headers: []string{"Category", "Total", "Share"},
		Rows:    rows,
	}))
	return nil
}
