package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ksyq12/sitec/internal/output"
	"github.com/ksyq12/sitec/internal/preview"
	"github.com/spf13/cobra"
)

var (
	serveAddr    string
	serveNoBuild bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the site and serve it locally",
	Long: `Build the site, then serve the output directory over HTTP until
interrupted. Directory URLs are answered with their index.html.

Examples:
  sitec serve
  sitec serve --addr 127.0.0.1:3000
  sitec serve --no-build`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", preview.DefaultAddr, "Listen address")
	serveCmd.Flags().BoolVar(&serveNoBuild, "no-build", false, "Serve the existing output without building")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if !serveNoBuild {
		result, err := buildSite(cfg)
		if err != nil {
			return err
		}
		if !jsonOutput {
			output.Success("Built %d page(s) into %s", len(result.Pages), result.OutDir)
		}
	}

	dir := cfg.OutPath()
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("output directory %s does not exist, run 'sitec build' first", dir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !jsonOutput {
		output.Info("Serving %s on %s (Ctrl+C to stop)", dir, serveAddr)
	}
	if err := deps.ServerFactory.Create(dir).Serve(ctx, serveAddr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
