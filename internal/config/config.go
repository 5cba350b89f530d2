// Package config loads the simulation configuration from a YAML file
// and validates it before the model is built. Configuration errors are
// fatal at startup, never discovered mid-run.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultConfigYAML = `# teams-core simulation configuration
engineers: 5
grid:
  width: 10
  height: 10
ticks: 100
initial_tasks: 3
knowledge_space: 20
initial_psych_safety: 0.5
psych_safety_threshold: 0.5
seed: 0
stop_when_done: false
log:
  path: teams.log
record:
  path: ""
`

// GridConfig sets the workspace dimensions.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// LogConfig points the run's logbook at a file. An empty path disables
// file logging.
type LogConfig struct {
	Path string `yaml:"path"`
}

// RecordConfig points the run recorder at a SQLite database. An empty
// path disables recording.
type RecordConfig struct {
	Path string `yaml:"path"`
}

// Config holds every recognized simulation option.
type Config struct {
	Engineers            int          `yaml:"engineers"`
	Grid                 GridConfig   `yaml:"grid"`
	Ticks                int          `yaml:"ticks"`
	InitialTasks         int          `yaml:"initial_tasks"`
	KnowledgeSpace       int          `yaml:"knowledge_space"`
	InitialPsychSafety   float64      `yaml:"initial_psych_safety"`
	PsychSafetyThreshold float64      `yaml:"psych_safety_threshold"`
	Seed                 int64        `yaml:"seed"`
	StopWhenDone         bool         `yaml:"stop_when_done"`
	Log                  LogConfig    `yaml:"log"`
	Record               RecordConfig `yaml:"record"`
}

// Default returns the built-in configuration.
func Default() Config {
	var cfg Config
	// The default document always parses.
	_ = yaml.Unmarshal([]byte(defaultConfigYAML), &cfg)
	return cfg
}

// Load reads a configuration file, layering it over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WriteDefault writes the default configuration document to path.
func WriteDefault(path string) error {
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate rejects configurations the model cannot run with.
func (c Config) Validate() error {
	if c.Engineers <= 0 {
		return fmt.Errorf("config: engineers must be positive, got %d", c.Engineers)
	}
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("config: grid dimensions must be positive, got %dx%d", c.Grid.Width, c.Grid.Height)
	}
	if c.Ticks < 0 {
		return fmt.Errorf("config: ticks must not be negative, got %d", c.Ticks)
	}
	if c.InitialTasks < 0 {
		return fmt.Errorf("config: initial_tasks must not be negative, got %d", c.InitialTasks)
	}
	if c.KnowledgeSpace <= 0 {
		return fmt.Errorf("config: knowledge_space must be positive, got %d", c.KnowledgeSpace)
	}
	if c.InitialPsychSafety < 0 || c.InitialPsychSafety > 1 {
		return fmt.Errorf("config: initial_psych_safety must be in [0,1], got %v", c.InitialPsychSafety)
	}
	if c.PsychSafetyThreshold < 0 || c.PsychSafetyThreshold > 1 {
		return fmt.Errorf("config: psych_safety_threshold must be in [0,1], got %v", c.PsychSafetyThreshold)
	}
	return nil
}
