package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	siteerrors "github.com/ksyq12/sitec/internal/errors"
)

// FileName is the project configuration file looked up in the project root.
const FileName = "sitec.yaml"

// Description formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config represents the project configuration
type Config struct {
	OutDir          string `yaml:"out_dir"`
	AssetsDir       string `yaml:"assets_dir"`
	Description     string `yaml:"description"`
	Format          string `yaml:"format,omitempty"`
	InjectSkeleton  bool   `yaml:"inject_skeleton"`
	SkeletonVar     string `yaml:"skeleton_var"`
	DataVar         string `yaml:"data_var"`
	BodyMarker      string `yaml:"body_marker"`
	MaxIncludeDepth int    `yaml:"max_include_depth"`

	// Root is the project root every template, data and description path
	// is resolved against. It is set by Load, never read from the file.
	Root string `yaml:"-"`
}

// New creates a new Config with default values
func New() *Config {
	return &Config{
		OutDir:          "out",
		AssetsDir:       "assets",
		Description:     "skeleton.json",
		InjectSkeleton:  true,
		SkeletonVar:     "_skeleton",
		DataVar:         "_data",
		BodyMarker:      "<template-body>",
		MaxIncludeDepth: 64,
		Root:            ".",
	}
}

// Path returns the default config file path for a project root
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Load reads the config for the project at root. An empty file argument
// means <root>/sitec.yaml; a missing default file yields the defaults,
// while a missing explicit file is an error.
func Load(root, file string) (*Config, error) {
	explicit := file != ""
	if !explicit {
		file = Path(root)
	}

	cfg := New()
	cfg.Root = root

	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, siteerrors.Wrap(siteerrors.ErrCodeConfig, "failed to read config", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, siteerrors.Wrap(siteerrors.ErrCodeConfig, fmt.Sprintf("failed to parse %s", file), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to <root>/sitec.yaml
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return siteerrors.Wrap(siteerrors.ErrCodeConfig, "failed to marshal config", err)
	}
	if err := os.WriteFile(Path(c.Root), data, 0644); err != nil {
		return siteerrors.Wrap(siteerrors.ErrCodeConfig, "failed to write config", err)
	}
	return nil
}

// Validate checks the values Load cannot catch through YAML typing.
func (c *Config) Validate() error {
	if c.OutDir == "" {
		return siteerrors.Validation("out_dir cannot be empty")
	}
	if c.Description == "" {
		return siteerrors.Validation("description cannot be empty")
	}
	if c.Format != "" && !IsValidFormat(c.Format) {
		return siteerrors.Validation(fmt.Sprintf("invalid format: %s. Valid formats: %s", c.Format, strings.Join(ValidFormats(), ", ")))
	}
	if c.SkeletonVar == "" || c.DataVar == "" {
		return siteerrors.Validation("skeleton_var and data_var cannot be empty")
	}
	if c.BodyMarker == "" {
		return siteerrors.Validation("body_marker cannot be empty")
	}
	if c.MaxIncludeDepth < 0 {
		return siteerrors.Validation("max_include_depth cannot be negative")
	}
	return nil
}

// DescriptionFormat returns the configured format, or the one implied by
// the description file extension.
func (c *Config) DescriptionFormat() string {
	if c.Format != "" {
		return c.Format
	}
	switch strings.ToLower(filepath.Ext(c.Description)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// OutPath returns the output root joined onto the project root.
func (c *Config) OutPath() string {
	return c.join(c.OutDir)
}

// AssetsPath returns the assets directory joined onto the project root,
// or "" when asset copying is disabled.
func (c *Config) AssetsPath() string {
	if c.AssetsDir == "" {
		return ""
	}
	return c.join(c.AssetsDir)
}

// DescriptionPath returns the description file joined onto the project root.
func (c *Config) DescriptionPath() string {
	return c.join(c.Description)
}

func (c *Config) join(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// ValidFormats returns all valid description formats
func ValidFormats() []string {
	return []string{FormatJSON, FormatYAML}
}

// IsValidFormat checks if the given format is valid
func IsValidFormat(f string) bool {
	for _, valid := range ValidFormats() {
		if f == valid {
			return true
		}
	}
	return false
}
