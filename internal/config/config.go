// This file defines the configuration structure for the application.
package config

import (
	// use Viper for loading the config.yml file.
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port         int `mapstructure:"port"`
	ScanInterval int `mapstructure:"scan_interval"`
	Storage      struct {
		// DataPath is where the per-series JSON documents live.
		DataPath string `mapstructure:"data_path"`
		// LibraryPath is the root of the source chapter archives,
		// one subdirectory per series.
		LibraryPath string `mapstructure:"library_path"`
		// ImagesPath is the root of the extracted chapter images.
		ImagesPath string `mapstructure:"images_path"`
		// CoversPath is the shared cover image directory.
		CoversPath string `mapstructure:"covers_path"`
	} `mapstructure:"storage"`
}

// Load reads configuration from a file named "config.yml" in the
// current directory and unmarshals it into a Config struct.
func Load() (*Config, error) {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or "yaml"
	viper.AddConfigPath(".")      // looking for config in the current directory

	// --- Environment Variable Overrides ---
	// This tells Viper to look for environment variables with a "TANKOBON_"
	// prefix. e.g., TANKOBON_STORAGE_DATA_PATH overrides `storage.data_path`.
	viper.SetEnvPrefix("TANKOBON")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("port", 8080)
	viper.SetDefault("scan_interval", 60)
	viper.SetDefault("storage.data_path", "./storage/data")
	viper.SetDefault("storage.library_path", "./storage/library")
	viper.SetDefault("storage.images_path", "./storage/images")
	viper.SetDefault("storage.covers_path", "./storage/covers")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error and use defaults
		} else {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
