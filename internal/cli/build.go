package cli

import (
	"github.com/ksyq12/sitec/internal/compiler"
	"github.com/ksyq12/sitec/internal/output"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile the site",
	Long: `Compile every page of the page tree into the output directory.

The output directory is removed first. The build stops at the first
error, leaving already written pages in place.

Examples:
  sitec build
  sitec build --root ./site
  sitec build --json`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

// BuildResult is the --json report of a build
type BuildResult struct {
	Success bool                  `json:"success"`
	OutDir  string                `json:"out_dir"`
	Pages   []compiler.PageResult `json:"pages"`
	Assets  string                `json:"assets,omitempty"`
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	result, err := buildSite(cfg)
	if err != nil {
		return err
	}
	if len(result.Pages) == 0 && !jsonOutput {
		output.Warn("%s describes no pages", cfg.DescriptionPath())
	}

	return outputResult(BuildResult{
		Success: true,
		OutDir:  result.OutDir,
		Pages:   result.Pages,
		Assets:  result.Assets,
	}, "Built %d page(s) into %s", len(result.Pages), result.OutDir)
}
