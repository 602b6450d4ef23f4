package cli

import (
	"fmt"
	"os"

	"github.com/ksyq12/sitec/internal/config"
	siteerrors "github.com/ksyq12/sitec/internal/errors"
	"github.com/ksyq12/sitec/internal/output"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a starter project",
	Long: `Write a starter project: sitec.yaml with the default settings,
skeleton.json, templates, data and assets. Nothing is written if any of
the files already exists.

Examples:
  sitec init
  sitec init mysite`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// InitResult is the --json report of init
type InitResult struct {
	Success bool     `json:"success"`
	Dir     string   `json:"dir"`
	Files   []string `json:"files"`
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	cfg := config.New()
	cfg.Root = dir
	cfgPath := config.Path(dir)
	if _, err := os.Stat(cfgPath); err == nil {
		return siteerrors.AlreadyExists(cfgPath)
	}

	files, err := deps.Scaffolder.Write(dir)
	if err != nil {
		return err
	}

	if err := deps.ConfigLoader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	files = append(files, cfgPath)

	if !jsonOutput {
		for _, f := range files {
			output.Print("  created %s", f)
		}
	}

	return outputResult(InitResult{
		Success: true,
		Dir:     dir,
		Files:   files,
	}, "Created starter project in %s. Run 'sitec build -C %s' to compile it", dir, dir)
}
