package cmd

import (
	"fmt"
	"strconv"

	"temperance/internal/cli"
	"temperance/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration and settings",
	RunE:  runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE:  runConfigInit,
}

var configFrequencyCmd = &cobra.Command{
	Use:   "frequency <1-3>",
	Short: "Set how many tips may be shown per day",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigFrequency,
}

var configAutoPresetCmd = &cobra.Command{
	Use:   "auto-preset <on|off>",
	Short: "Toggle creating presets from manual entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigAutoPreset,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configFrequencyCmd)
	configCmd.AddCommand(configAutoPresetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data dir: %s\n", cfg.DataDir())
	fmt.Println()

	fmt.Println("  [Serve]")
	fmt.Printf("    Addr:     %s\n", cfg.Serve.Addr)
	fmt.Printf("    Upstream: %s\n", cfg.Serve.Upstream)
	fmt.Println()

	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	goal, err := s.GoalAmount()
	if err != nil {
		return err
	}
	frequency, err := s.MentorFrequency()
	if err != nil {
		return err
	}
	autoPreset, err := s.AutoPresetFromManual()
	if err != nil {
		return err
	}
	lastDate, err := s.LastSelectedDate()
	if err != nil {
		return err
	}

	fmt.Println("  [Settings]")
	if goal != nil {
		fmt.Printf("    Goal:            %s\n", cli.FormatYen(*goal))
	} else {
		fmt.Println("    Goal:            not set")
	}
	fmt.Printf("    Tip frequency:   %d/day\n", frequency)
	fmt.Printf("    Auto preset:     %v\n", autoPreset)
	if lastDate != nil {
		fmt.Printf("    Last entry date: %s\n", *lastDate)
	}
	fmt.Println()

	return nil
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	if config.Exists() {
		return fmt.Errorf("config file already exists at %s", config.ConfigPath())
	}
	if err := config.Save(config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("  Wrote %s\n", config.ConfigPath())
	return nil
}

func runConfigFrequency(_ *cobra.Command, args []string) error {
	perDay, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid frequency %q", args[0])
	}

	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.SetMentorFrequency(perDay); err != nil {
		return err
	}
	updated, err := s.MentorFrequency()
	if err != nil {
		return err
	}
	fmt.Printf("  Tip frequency set to %d/day\n", updated)
	return nil
}

func runConfigAutoPreset(_ *cobra.Command, args []string) error {
	var enabled bool
	switch args[0] {
	case "on":
		enabled = true
	case "off":
		enabled = false
	default:
		return fmt.Errorf("expected on or off, got %q", args[0])
	}

	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.SetAutoPresetFromManual(enabled); err != nil {
		return err
	}
	fmt.Printf("  Auto preset: %v\n", enabled)
	return nil
}
