package cmd

import (
	"fmt"
	"strconv"

	"temperance/internal/cli"
	"temperance/internal/model"
	"temperance/internal/store"

	"github.com/spf13/cobra"
)

var gainsCmd = &cobra.Command{
	Use:   "gains",
	Short: "List logged gains",
	RunE:  runGains,
}

var gainsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a gain",
	Args:  cobra.ExactArgs(1),
	RunE:  runGainsDelete,
}

var (
	flagEditAmount   float64
	flagEditLabel    string
	flagEditCategory string
	flagEditDate     string
)

var gainsEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a gain in place",
	Args:  cobra.ExactArgs(1),
	RunE:  runGainsEdit,
}

func init() {
	gainsEditCmd.Flags().Float64Var(&flagEditAmount, "amount", -1, "New amount in yen")
	gainsEditCmd.Flags().StringVar(&flagEditLabel, "label", "", "New label")
	gainsEditCmd.Flags().StringVar(&flagEditCategory, "category", "", "New category")
	gainsEditCmd.Flags().StringVar(&flagEditDate, "date", "", "New calendar date (YYYY-MM-DD)")

	gainsCmd.AddCommand(gainsDeleteCmd)
	gainsCmd.AddCommand(gainsEditCmd)
	rootCmd.AddCommand(gainsCmd)
}

func runGains(_ *cobra.Command, _ []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	gains, err := s.GainsByCreatedAt(true)
	if err != nil {
		return err
	}
	if len(gains) == 0 {
		fmt.Println("\n  No gains logged yet. Try `temperance add 150 --category beverage`.")
		return nil
	}

	rows := make([][]string, 0, len(gains))
	for _, g := range gains {
		rows = append(rows, []string{
			strconv.FormatInt(g.ID, 10),
			cli.FormatDate(g.CreatedAt),
			cli.FormatYen(g.Amount),
			string(g.Category),
			g.Label,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Gains (%d)", len(gains)),
		Headers: []string{"ID", "Date", "Amount", "Category", "Label"},
		Rows:    rows,
	}))

	return nil
}

func runGainsDelete(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", args[0])
	}

	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.DeleteGain(id); err != nil {
		return err
	}
	fmt.Printf("  Deleted gain %d\n", id)
	return nil
}

func runGainsEdit(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", args[0])
	}

	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	var patch store.GainPatch
	if flagEditAmount >= 0 {
		patch.Amount = &flagEditAmount
	}
	if flagEditLabel != "" {
		patch.Label = &flagEditLabel
	}
	if flagEditCategory != "" {
		category, err := model.ParseCategory(flagEditCategory)
		if err != nil {
			return err
		}
		patch.Category = &category
	}
	if flagEditDate != "" {
		createdAt, err := dateToTimestamp(flagEditDate)
		if err != nil {
			return err
		}
		patch.CreatedAt = &createdAt
	}

	if err := s.UpdateGain(id, patch); err != nil {
		return err
	}
	fmt.Printf("  Updated gain %d\n", id)
	return nil
}
