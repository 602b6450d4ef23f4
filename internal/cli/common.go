package cli

import (
	"fmt"

	"github.com/ksyq12/sitec/internal/compiler"
	"github.com/ksyq12/sitec/internal/config"
	"github.com/ksyq12/sitec/internal/output"
)

// loadConfig loads the project config named by --root and --config
func loadConfig() (*config.Config, error) {
	cfg, err := deps.ConfigLoader.Load(rootDir, configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// buildSite runs a full build, reporting pages as they are written unless
// JSON output is requested
func buildSite(cfg *config.Config) (*compiler.Result, error) {
	var onPage func(compiler.PageResult)
	if !jsonOutput {
		onPage = func(pr compiler.PageResult) {
			output.Page(pr.SitePath, pr.File)
		}
	}

	result, err := deps.CompilerFactory.Create(cfg, onPage).Build()
	if err != nil {
		return nil, fmt.Errorf("build failed: %w", err)
	}
	return result, nil
}

// outputResult handles JSON or human-readable output
func outputResult(data interface{}, successMsg string, args ...interface{}) error {
	if jsonOutput {
		return output.JSON(data)
	}
	output.Success(successMsg, args...)
	return nil
}
