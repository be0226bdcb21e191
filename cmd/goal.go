package cmd

import (
	"fmt"
	"strconv"

	"temperance/internal/cli"

	"github.com/spf13/cobra"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Show or change the savings goal",
	RunE:  runGoalShow,
}

var goalSetCmd = &cobra.Command{
	Use:   "set <amount>",
	Short: "Set the savings goal in yen",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalSet,
}

var goalClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the savings goal",
	RunE:  runGoalClear,
}

func init() {
	goalCmd.AddCommand(goalSetCmd)
	goalCmd.AddCommand(goalClearCmd)
	rootCmd.AddCommand(goalCmd)
}

func runGoalShow(_ *cobra.Command, _ []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	goal, err := s.GoalAmount()
	if err != nil {
		return err
	}
	if goal == nil {
		fmt.Println("  No goal set. Use `temperance goal set <amount>`.")
		return nil
	}
	fmt.Printf("  Goal: %s\n", cli.FormatYen(*goal))
	return nil
}

func runGoalSet(_ *cobra.Command, args []string) error {
	amount, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[0])
	}

	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.SetGoalAmount(amount); err != nil {
		return err
	}
	fmt.Printf("  Goal set to %s\n", cli.FormatYen(amount))
	return nil
}

func runGoalClear(_ *cobra.Command, _ []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.ClearGoalAmount(); err != nil {
		return err
	}
	fmt.Println("  Goal cleared")
	return nil
}
