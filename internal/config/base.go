package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	ShutdownTimeout string `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	Log      LogConfig      `mapstructure:"log"      yaml:"log"`
	Metadata MetadataConfig `mapstructure:"metadata" yaml:"metadata"`
}

// LoadConfig unmarshals the configuration viper has collected from file,
// environment and flags on top of the defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	setDefaults()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Metadata.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
