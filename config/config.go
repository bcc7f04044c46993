// Package config loads planner settings from a YAML file, HARVEST_ environment variables
// and built-in defaults, in decreasing priority.
package config

import (
	"fmt"
	"strings"
	"time"

	"harvest/meta"

	"github.com/spf13/viper"
)

// Planner holds the goal and the limits of one planning session.
type Planner struct {
	RequiredGold    int  `mapstructure:"required_gold" validate:"gte=0"`
	RequiredWood    int  `mapstructure:"required_wood" validate:"gte=0"`
	BuildPeasants   bool `mapstructure:"build_peasants"`
	HarvestCapacity int  `mapstructure:"harvest_capacity" validate:"gt=0"`
	// MaxExpansions bounds the search. Zero means unbounded.
	MaxExpansions int `mapstructure:"max_expansions" validate:"gte=0"`
	// Deadline bounds the wall-clock time of the search. Zero means none.
	Deadline    time.Duration `mapstructure:"deadline" validate:"gte=0"`
	PeasantCost int           `mapstructure:"peasant_cost" validate:"gt=0"`
	BuildTime   int           `mapstructure:"build_time" validate:"gte=1"`
	// MaxWorkers caps the worker count when producing. Zero means no cap.
	MaxWorkers int `mapstructure:"max_workers" validate:"gte=0"`
}

type Logging struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error disabled"`
	Format string `mapstructure:"format" validate:"required,oneof=json console"`
}

type Config struct {
	Planner Planner `mapstructure:"planner"`
	Logging Logging `mapstructure:"logging"`
}

func Default() Config {
	return Config{
		Planner: Planner{
			HarvestCapacity: meta.HARVEST_CAPACITY,
			PeasantCost:     meta.PEASANT_COST,
			BuildTime:       meta.BUILD_TIME,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the YAML file at path, applies HARVEST_ environment overrides and validates
// the result. An empty path skips the file.
func Load(path string) (Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("HARVEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already configured viper instance.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults also registers every key, so AutomaticEnv can override keys absent from the file.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("planner.required_gold", d.Planner.RequiredGold)
	v.SetDefault("planner.required_wood", d.Planner.RequiredWood)
	v.SetDefault("planner.build_peasants", d.Planner.BuildPeasants)
	v.SetDefault("planner.harvest_capacity", d.Planner.HarvestCapacity)
	v.SetDefault("planner.max_expansions", d.Planner.MaxExpansions)
	v.SetDefault("planner.deadline", d.Planner.Deadline)
	v.SetDefault("planner.peasant_cost", d.Planner.PeasantCost)
	v.SetDefault("planner.build_time", d.Planner.BuildTime)
	v.SetDefault("planner.max_workers", d.Planner.MaxWorkers)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}
