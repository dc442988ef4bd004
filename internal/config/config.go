package config

import (
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/vibsim/internal/dynamo"
)

const (
	DefaultI        = 1.0
	DefaultW        = 2 * math.Pi
	DefaultDt       = 0.05
	DefaultPeriods  = 5.0
	DefaultPlotFile = "plot1.png"
	DefaultSamples  = 1001
)

type Config struct {
	Name     string     `yaml:"name"`
	I        float64    `yaml:"i"`
	W        float64    `yaml:"w"`
	Dt       float64    `yaml:"dt"`
	Duration float64    `yaml:"duration"`
	Periods  float64    `yaml:"periods"`
	Plot     PlotConfig `yaml:"plot"`
}

type PlotConfig struct {
	File    string `yaml:"file"`
	Save    bool   `yaml:"save"`
	Show    bool   `yaml:"show"`
	Samples int    `yaml:"samples"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:    "undamped",
		I:       DefaultI,
		W:       DefaultW,
		Dt:      DefaultDt,
		Periods: DefaultPeriods,
		Plot: PlotConfig{
			File:    DefaultPlotFile,
			Save:    true,
			Samples: DefaultSamples,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// A file that names only a duration means seconds, not the default periods.
	var keys map[string]any
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, err
	}
	_, hasDuration := keys["duration"]
	_, hasPeriods := keys["periods"]
	if hasDuration && !hasPeriods {
		cfg.Periods = 0
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Horizon returns Periods*2π/|w| when Periods is set, else Duration. With
// w = 0 there is no period; an unset Duration then reads Periods as seconds.
func (c *Config) Horizon() float64 {
	if c.Periods > 0 && c.W != 0 {
		return c.Periods * 2 * math.Pi / math.Abs(c.W)
	}
	if c.W == 0 && c.Duration <= 0 && c.Periods > 0 {
		return c.Periods
	}
	return c.Duration
}

// Params converts the config to solver input. Validation is left to the solver.
func (c *Config) Params() dynamo.Params {
	return dynamo.Params{
		I:  c.I,
		W:  c.W,
		Dt: c.Dt,
		T:  c.Horizon(),
	}
}
