package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "SKIRMISH"

// Config holds the runner settings.
type Config struct {
	Sim     SimConfig     `mapstructure:"sim"`
	Log     LogConfig     `mapstructure:"log"`
	Prefabs PrefabsConfig `mapstructure:"prefabs"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type SimConfig struct {
	TickRate    float64       `mapstructure:"tick_rate"`
	PhysicsRate float64       `mapstructure:"physics_rate"`
	Duration    time.Duration `mapstructure:"duration"`
	Seed        int64         `mapstructure:"seed"`
	MaxSubsteps int           `mapstructure:"max_substeps"`
	Scenario    string        `mapstructure:"scenario"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type PrefabsConfig struct {
	Dir   string `mapstructure:"dir"`
	Watch bool   `mapstructure:"watch"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// TickInterval is the variable-rate step in seconds.
func (c SimConfig) TickInterval() float64 {
	return 1 / c.TickRate
}

// PhysicsInterval is the fixed step in seconds.
func (c SimConfig) PhysicsInterval() float64 {
	return 1 / c.PhysicsRate
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sim.tick_rate", 60.0)
	v.SetDefault("sim.physics_rate", 50.0)
	v.SetDefault("sim.duration", "30s")
	v.SetDefault("sim.seed", 1)
	v.SetDefault("sim.max_substeps", 8)
	v.SetDefault("sim.scenario", "scenario.yaml")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)

	v.SetDefault("prefabs.dir", "prefabs")
	v.SetDefault("prefabs.watch", false)

	v.SetDefault("metrics.enabled", false)
}

// Load reads configuration from path, or from skirmish.yaml in the working
// directory or ./config when path is empty. A missing default file is not an
// error. SKIRMISH_* environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("skirmish")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var ErrInvalid = errors.New("config: invalid value")

func (c *Config) Validate() error {
	switch {
	case c.Sim.TickRate <= 0:
		return fmt.Errorf("%w: sim.tick_rate must be positive", ErrInvalid)
	case c.Sim.PhysicsRate <= 0:
		return fmt.Errorf("%w: sim.physics_rate must be positive", ErrInvalid)
	case c.Sim.Duration <= 0:
		return fmt.Errorf("%w: sim.duration must be positive", ErrInvalid)
	case c.Sim.MaxSubsteps <= 0:
		return fmt.Errorf("%w: sim.max_substeps must be positive", ErrInvalid)
	}
	return nil
}
