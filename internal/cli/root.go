package cli

import (
	"os"

	"github.com/ksyq12/sitec/internal/logger"
	"github.com/ksyq12/sitec/internal/output"
	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	verbose    bool
	rootDir    string
	configFile string
	version    = "dev"
)

// rootCmd represents the base command. Run without a subcommand it builds.
var rootCmd = &cobra.Command{
	Use:   "sitec",
	Short: "Static site template compiler",
	Long: `sitec compiles a tree of HTML templates into a static site.

Pages are described in skeleton.json (or a YAML file). Every page is
expanded through <template-include> directives and written to
out/<path>/index.html, and the assets directory is copied alongside.

Running sitec without a subcommand is the same as sitec build.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBuild,
}

// Execute runs the root command
func Execute() {
	// Initialize logger based on verbose flag (parsed by cobra)
	cobra.OnInitialize(func() {
		logger.Init(verbose)
	})

	os.Exit(run(os.Args[1:]))
}

// run executes the command line and returns the process exit code.
// Errors are printed in red.
func run(args []string) int {
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		output.Error("%v", err)
		return 1
	}
	return 0
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging for debugging")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root", "C", ".", "Project root directory")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default <root>/sitec.yaml)")
}
