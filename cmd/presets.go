package cmd

import (
	"fmt"
	"strconv"

	"temperance/internal/cli"
	"temperance/internal/model"

	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List quick-entry presets",
	RunE:  runPresets,
}

var flagPresetCategory string

var presetsAddCmd = &cobra.Command{
	Use:   "add <amount> <label>",
	Short: "Create a preset",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runPresetsAdd,
}

var presetsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a preset (existing gains keep their reference)",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetsDelete,
}

func init() {
	presetsAddCmd.Flags().StringVarP(&flagPresetCategory, "category", "c", string(model.CategoryOther), "Category")
	presetsCmd.AddCommand(presetsAddCmd)
	presetsCmd.AddCommand(presetsDeleteCmd)
	rootCmd.AddCommand(presetsCmd)
}

func runPresets(_ *cobra.Command, _ []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	presets, err := s.PresetsByCategory()
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(presets))
	for _, p := range presets {
		rows = append(rows, []string{p.ID, string(p.Category), cli.FormatYen(p.Amount), p.Label})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Presets",
		Headers: []string{"ID", "Category", "Amount", "Label"},
		Rows:    rows,
	}))
	return nil
}

func runPresetsAdd(_ *cobra.Command, args []string) error {
	amount, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[0])
	}
	category, err := model.ParseCategory(flagPresetCategory)
	if err != nil {
		return err
	}

	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	p, err := s.PutPreset(model.Preset{
		Label:    args[1],
		Amount:   amount,
		Category: category,
	})
	if err != nil {
		return err
	}
	fmt.Printf("  Created preset %s\n", p.ID)
	return nil
}

func runPresetsDelete(_ *cobra.Command, args []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.DeletePreset(args[0]); err != nil {
		return err
	}
	fmt.Printf("  Deleted preset %s\n", args[0])
	return nil
}
