package config

import "fmt"

// MetadataConfig holds metadata store configuration
type MetadataConfig struct {
	Type   string               `mapstructure:"type"   yaml:"type"`
	SQLite MetadataSQLiteConfig `mapstructure:"sqlite" yaml:"sqlite"`
}

// MetadataSQLiteConfig holds SQLite-specific configuration
type MetadataSQLiteConfig struct {
	Path         string `mapstructure:"path"           yaml:"path"`
	MaxOpenConns int    `mapstructure:"max_open_conns" yaml:"max_open_conns"`
}

func (c MetadataConfig) Validate() error {
	switch c.Type {
	case "sqlite":
		if c.SQLite.Path == "" {
			return fmt.Errorf("metadata.sqlite.path is required")
		}
		return nil
	default:
		return fmt.Errorf("unsupported metadata store type %q", c.Type)
	}
}
