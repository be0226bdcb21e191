package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"temperance/internal/backup"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export or import a whole-store snapshot",
}

var backupExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write a backup snapshot (stdout if no file given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBackupExport,
}

var backupImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore the store from a backup snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupImport,
}

func init() {
	backupCmd.AddCommand(backupExportCmd)
	backupCmd.AddCommand(backupImportCmd)
	rootCmd.AddCommand(backupCmd)
}

func runBackupExport(_ *cobra.Command, args []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	snapshot, err := backup.Export(s)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(args[0], data, 0o600); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	fmt.Printf("  Exported %d gains, %d presets to %s\n", len(snapshot.Gains), len(snapshot.Presets), args[0])
	return nil
}

func runBackupImport(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading backup: %w", err)
	}

	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := backup.Import(s, data); err != nil {
		return err
	}
	fmt.Printf("  Restored store from %s\n", args[0])
	return nil
}
