package cmd

import (
	"fmt"

	"temperance/internal/mentor"

	"github.com/spf13/cobra"
)

var flagTipForce bool

var tipCmd = &cobra.Command{
	Use:   "tip",
	Short: "Maybe show a coaching tip",
	Long:  "Shows a coaching tip, bounded by the per-day frequency setting. Unforced calls show one roughly half the time.",
	RunE:  runTip,
}

func init() {
	tipCmd.Flags().BoolVarP(&flagTipForce, "force", "f", false, "Skip the coin flip (quota still applies)")
	rootCmd.AddCommand(tipCmd)
}

func runTip(_ *cobra.Command, _ []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	tip, err := mentor.New(s).MaybePickTip(mentor.ContextLaunch, flagTipForce)
	if err != nil {
		return err
	}
	if tip == nil {
		fmt.Println("  No tip right now.")
		return nil
	}
	fmt.Printf("\n  💡 %s\n\n", tip.Text)
	return nil
}
