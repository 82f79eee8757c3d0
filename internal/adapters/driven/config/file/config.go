package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/dataset-analyzer/buildpipe/internal/core/domain"
)

// FileName is the per-project configuration file looked up in the
// project directory.
const FileName = "buildpipe.toml"

// defaultHistoryKeep is the run retention per pipeline when the config
// does not set history.keep.
const defaultHistoryKeep = 50

// Config is the on-disk TOML configuration.
// All sections are optional; zero values fall back to the framework's
// conventional layout.
type Config struct {
	Project   ProjectSection             `toml:"project"`
	History   HistorySection             `toml:"history"`
	Pipelines map[string]PipelineSection `toml:"pipelines"`

	path string
}

// ProjectSection overrides the project layout the built-in pipelines use.
type ProjectSection struct {
	// Python is the interpreter for management commands.
	Python string `toml:"python"`

	// Pip is the package installer binary.
	Pip string `toml:"pip"`

	// Manage is the path to the management script.
	Manage string `toml:"manage"`

	// Manifest is the path to the dependency manifest.
	Manifest string `toml:"manifest"`

	// Dirs lists runtime directories to provision.
	Dirs []string `toml:"dirs"`
}

// HistorySection controls run history retention.
type HistorySection struct {
	// Keep is how many runs per pipeline are retained. Zero means the
	// default; a negative value disables pruning.
	Keep int `toml:"keep"`
}

// PipelineSection defines a user pipeline in the config file.
type PipelineSection struct {
	Description string        `toml:"description"`
	Steps       []StepSection `toml:"steps"`
}

// StepSection defines one step of a user pipeline.
type StepSection struct {
	ID      string   `toml:"id"`
	Name    string   `toml:"name"`
	Kind    string   `toml:"kind"`
	Command []string `toml:"command"`
	Dirs    []string `toml:"dirs"`
}

// Default returns an empty configuration backed by no file.
func Default() *Config {
	return &Config{}
}

// Load reads configuration from an explicit path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.path = path
	return &cfg, nil
}

// Discover finds configuration for the given project directory:
// <dir>/buildpipe.toml first, then ~/.buildpipe/config.toml.
// Missing files are not an error; the defaults apply.
func Discover(dir string) (*Config, error) {
	candidates := []string{filepath.Join(dir, FileName)}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".buildpipe", "config.toml"))
	}

	for _, path := range candidates {
		cfg, err := Load(path)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	return Default(), nil
}

// Path returns the file the configuration was loaded from.
// Empty for a default configuration.
func (c *Config) Path() string {
	return c.path
}

// HistoryKeep returns the effective run retention per pipeline.
// Zero means pruning is disabled.
func (c *Config) HistoryKeep() int {
	switch {
	case c.History.Keep < 0:
		return 0
	case c.History.Keep == 0:
		return defaultHistoryKeep
	default:
		return c.History.Keep
	}
}

// CustomPipelines converts the [pipelines] tables into domain pipelines,
// sorted by name for a stable listing order. Each pipeline is validated.
func (c *Config) CustomPipelines() ([]domain.Pipeline, error) {
	if len(c.Pipelines) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(c.Pipelines))
	for name := range c.Pipelines {
		names = append(names, name)
	}
	sort.Strings(names)

	pipelines := make([]domain.Pipeline, 0, len(names))
	for _, name := range names {
		section := c.Pipelines[name]
		pipeline := domain.Pipeline{
			Name:        name,
			Description: section.Description,
		}
		for i, s := range section.Steps {
			step := domain.Step{
				ID:   s.ID,
				Name: s.Name,
				Kind: domain.StepKind(s.Kind),
				Argv: s.Command,
				Dirs: s.Dirs,
			}
			if step.ID == "" {
				step.ID = fmt.Sprintf("step%d", i+1)
			}
			if step.Kind == "" {
				step.Kind = domain.StepKindCommand
			}
			pipeline.Steps = append(pipeline.Steps, step)
		}
		if err := pipeline.Validate(); err != nil {
			return nil, fmt.Errorf("config %s: %w", c.path, err)
		}
		pipelines = append(pipelines, pipeline)
	}
	return pipelines, nil
}

// WriteStarter writes a commented example configuration to path.
// Refuses to overwrite an existing file.
func WriteStarter(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", os.ErrExist, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return os.WriteFile(path, []byte(starterConfig), 0600)
}

const starterConfig = `# buildpipe configuration.
# Every key is optional; defaults match the conventional project layout.

[project]
# python = "python"
# pip = "pip"
# manage = "manage.py"
# manifest = "requirements.txt"
# dirs = ["staticfiles", "media"]

[history]
# Runs kept per pipeline. Negative disables pruning.
# keep = 50

# Custom pipelines run with the same fail-fast semantics as the built-ins.
# [pipelines.smoke]
# description = "Configuration check only"
#
# [[pipelines.smoke.steps]]
# id = "check"
# name = "Checking framework configuration"
# kind = "config_check"
# command = ["python", "manage.py", "check"]
`
