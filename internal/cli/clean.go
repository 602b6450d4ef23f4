package cli

import (
	"fmt"
	"os"

	"github.com/ksyq12/sitec/internal/input"
	"github.com/ksyq12/sitec/internal/logger"
	"github.com/ksyq12/sitec/internal/output"
	"github.com/spf13/cobra"
)

var cleanYes bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the output directory",
	Long: `Remove the output directory and everything in it.

A build already starts by removing it; clean does only that step.

Examples:
  sitec clean
  sitec clean --yes`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&cleanYes, "yes", "y", false, "Remove without confirmation")
	rootCmd.AddCommand(cleanCmd)
}

// CleanResult is the --json report of clean
type CleanResult struct {
	Success bool   `json:"success"`
	Dir     string `json:"dir"`
	Removed bool   `json:"removed"`
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dir := cfg.OutPath()
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return outputResult(CleanResult{Success: true, Dir: dir}, "Nothing to clean: %s does not exist", dir)
	}

	// Confirm removal unless --yes; JSON mode cannot prompt
	if !cleanYes {
		if jsonOutput {
			return fmt.Errorf("refusing to remove %s without --yes", dir)
		}
		output.Prompt("Remove %s and everything in it? [y/N]: ", dir)
		if !input.Confirm(deps.StdinReader) {
			output.Info("Clean cancelled")
			return nil
		}
	}

	logger.Info("removing %s", dir)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", dir, err)
	}

	return outputResult(CleanResult{Success: true, Dir: dir, Removed: true}, "Removed %s", dir)
}
