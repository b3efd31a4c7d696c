package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	envFiles   = []string{".env", ".env.local"}
	configDirs = []string{".", "./config", "/etc/qfilter", "$HOME/.qfilter"}
)

// loadEnvFiles loads the .env files found in dir; missing files are fine.
func loadEnvFiles(dir string) {
	for _, envFile := range envFiles {
		_ = godotenv.Load(filepath.Join(dir, envFile))
	}
}

func initConfig(path string) error {
	if path != "" {
		viper.SetConfigFile(path)
		loadEnvFiles(filepath.Dir(path))
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		for _, dir := range configDirs {
			viper.AddConfigPath(dir)
			loadEnvFiles(dir)
		}
	}

	viper.SetEnvPrefix("QFILTER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}
