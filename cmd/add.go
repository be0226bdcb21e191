package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"temperance/internal/cli"
	"temperance/internal/mentor"
	"temperance/internal/model"
	"temperance/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagAddCategory string
	flagAddPreset   string
	flagAddDate     string
)

var addCmd = &cobra.Command{
	Use:   "add [amount] [label]",
	Short: "Log an avoided spending gain",
	Long: `Log a gain, either manually (amount + optional label) or from a preset.

Examples:
  temperance add 500 "外食ランチを弁当に" --category food
  temperance add --preset preset-beer
  temperance add 150 --category beverage --date 2025-08-30`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&flagAddCategory, "category", "c", string(model.CategoryOther), "Category (food|beverage|work|shopping|alcohol|gamble|other)")
	addCmd.Flags().StringVarP(&flagAddPreset, "preset", "p", "", "Log from a preset id instead of a manual amount")
	addCmd.Flags().StringVar(&flagAddDate, "date", "", "Calendar date for the gain (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(_ *cobra.Command, args []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	input, manual, err := buildGainInput(s, args)
	if err != nil {
		return err
	}

	if flagAddDate != "" {
		createdAt, err := dateToTimestamp(flagAddDate)
		if err != nil {
			return err
		}
		input.CreatedAt = createdAt
		if err := s.SetLastSelectedDate(flagAddDate); err != nil {
			return err
		}
	}

	g, err := s.CreateGain(input)
	if err != nil {
		return err
	}

	fmt.Printf("\n  Logged %s  %s (%s)\n", cli.RenderGood(cli.FormatYen(g.Amount)), g.Label, g.Category)

	if manual {
		if err := maybeAutoPreset(s, g); err != nil {
			return err
		}
	}

	// Logging a gain is a tip occasion; roughly half of them show one.
	tip, err := mentor.New(s).MaybePickTip(mentor.ContextGain, false)
	if err != nil {
		return err
	}
	if tip != nil {
		fmt.Printf("\n  💡 %s\n", tip.Text)
	}
	fmt.Println()

	return nil
}

// buildGainInput resolves either the preset path or the manual path into a
// CreateGainInput. The bool reports whether the entry was manual.
func buildGainInput(s *store.Store, args []string) (store.CreateGainInput, bool, error) {
	if flagAddPreset != "" {
		presets, err := s.PresetsByCategory()
		if err != nil {
			return store.CreateGainInput{}, false, err
		}
		for _, p := range presets {
			if p.ID == flagAddPreset {
				return store.CreateGainInput{
					Amount:   float64(p.Amount),
					Label:    p.Label,
					Category: p.Category,
					PresetID: p.ID,
				}, false, nil
			}
		}
		return store.CreateGainInput{}, false, fmt.Errorf("preset %q not found (see `temperance presets`)", flagAddPreset)
	}

	if len(args) == 0 {
		return store.CreateGainInput{}, false, fmt.Errorf("amount required (or use --preset)")
	}
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return store.CreateGainInput{}, false, fmt.Errorf("invalid amount %q", args[0])
	}
	category, err := model.ParseCategory(flagAddCategory)
	if err != nil {
		return store.CreateGainInput{}, false, err
	}

	return store.CreateGainInput{
		Amount:   amount,
		Label:    strings.Join(args[1:], " "),
		Category: category,
	}, true, nil
}

// maybeAutoPreset turns a manual entry into a preset when the
// autoPresetFromManual setting is on.
func maybeAutoPreset(s *store.Store, g model.Gain) error {
	enabled, err := s.AutoPresetFromManual()
	if err != nil || !enabled {
		return err
	}
	p, err := s.PutPreset(model.Preset{
		Label:    g.Label,
		Amount:   g.Amount,
		Category: g.Category,
	})
	if err != nil {
		return err
	}
	fmt.Printf("  Saved as preset %s\n", p.ID)
	return nil
}

// dateToTimestamp anchors a YYYY-MM-DD input at local noon, matching how
// the entry form records user-picked dates.
func dateToTimestamp(date string) (string, error) {
	d, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return "", fmt.Errorf("invalid date %q (want YYYY-MM-DD)", date)
	}
	return d.Add(12 * time.Hour).Format(time.RFC3339), nil
}
