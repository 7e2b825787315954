// Package scenario provides loading and parsing of scenario.yaml files.
// A scenario describes one exploration run: the grid layout as rows of
// cell tokens, the starting position, the step budget, and the token
// that marks a goal-reaching observation.
package scenario

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gridmind-ai/sdk/agent"
	"github.com/gridmind-ai/sdk/grid"
)

// Config represents a scenario.yaml file.
type Config struct {
	// Name identifies the scenario.
	Name string `yaml:"name"`

	// Description explains what the scenario exercises.
	Description string `yaml:"description,omitempty"`

	// Rows is the grid layout, one string per row. Each character is a
	// cell token: '.' open, 'W' wall, 'T' goal.
	Rows []string `yaml:"rows"`

	// Start is the agent's initial position.
	Start PositionConfig `yaml:"start"`

	// StepBudget caps the number of loop iterations.
	// Default: 25
	StepBudget int `yaml:"step_budget,omitempty"`

	// SuccessToken is the substring that marks a goal-reaching
	// observation.
	// Default: "SUCCESS"
	SuccessToken string `yaml:"success_token,omitempty"`
}

// PositionConfig is a grid coordinate in scenario.yaml.
type PositionConfig struct {
	Row int `yaml:"row"`
	Col int `yaml:"col"`
}

// Default returns the built-in 5x5 demo scenario: walls on the border,
// one interior wall, goal on the east edge, start at (1, 1).
func Default() *Config {
	return &Config{
		Name:        "demo-5x5",
		Description: "Built-in 5x5 world with one interior wall and an east-edge goal.",
		Rows: []string{
			"WWWWW",
			"W..WW",
			"W.W.T",
			"W...W",
			"WWWWW",
		},
		Start: PositionConfig{Row: 1, Col: 1},
	}
}

// GetStepBudget returns the configured step budget or the default value.
func (c *Config) GetStepBudget() int {
	if c == nil || c.StepBudget <= 0 {
		return agent.DefaultStepBudget
	}
	return c.StepBudget
}

// GetSuccessToken returns the configured success token or the default
// value.
func (c *Config) GetSuccessToken() string {
	if c == nil || c.SuccessToken == "" {
		return agent.SuccessToken
	}
	return c.SuccessToken
}

// Layout parses the scenario's rows into a grid layout.
func (c *Config) Layout() (*grid.Layout, error) {
	return grid.ParseLayout(c.Rows)
}

// StartPosition returns the agent's initial position.
func (c *Config) StartPosition() grid.Position {
	return grid.Position{Row: c.Start.Row, Col: c.Start.Col}
}

// Validate checks that the scenario describes a usable world: a
// well-formed rectangular layout and a start position on a walkable
// in-bounds cell. A missing goal is allowed; the planner reports it as
// a final message at run time.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("scenario: name is required")
	}
	layout, err := c.Layout()
	if err != nil {
		return fmt.Errorf("scenario %q: %w", c.Name, err)
	}
	start := c.StartPosition()
	if !layout.InBounds(start) {
		return fmt.Errorf("scenario %q: start %s is out of bounds", c.Name, start)
	}
	if !layout.Walkable(start) {
		return fmt.Errorf("scenario %q: start %s is a wall cell", c.Name, start)
	}
	return nil
}

// Parse parses scenario YAML and validates the result.
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("scenario: parse yaml: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Load reads and parses a scenario file from the given path.
// If the path is a directory, it looks for scenario.yaml or scenario.yml
// in that directory.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: stat path: %w", err)
	}

	configPath := path
	if info.IsDir() {
		yamlPath := filepath.Join(path, "scenario.yaml")
		if _, err := os.Stat(yamlPath); err == nil {
			configPath = yamlPath
		} else {
			ymlPath := filepath.Join(path, "scenario.yml")
			if _, err := os.Stat(ymlPath); err != nil {
				return nil, fmt.Errorf("scenario: no scenario.yaml or scenario.yml found in %s", path)
			}
			configPath = ymlPath
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("scenario: read file: %w", err)
	}
	return Parse(data)
}
