package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Backend selection values for StorageConfig.Backend.
const (
	BackendAuto   = "auto"   // use SQLite when the database can be opened, JSON files otherwise
	BackendSQLite = "sqlite" // require the relational store
	BackendJSON   = "json"   // require the JSON file store
)

// DatabaseFileName is the embedded database file created under the data root.
const DatabaseFileName = "training.db"

type Config struct {
	DataDir string
	Storage StorageConfig
	Logger  LoggerConfig
}

type StorageConfig struct {
	Backend string `yaml:"backend"`
	// DatabasePath overrides the default <data_dir>/training.db location.
	DatabasePath string `yaml:"database_path"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

// LoadConfig reads config.yaml (optional) and environment overrides. The
// backend choice is resolved here exactly once; nothing else in the process
// re-reads it.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("data_dir", "data")
	viper.SetDefault("storage.backend", BackendAuto)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; the defaults and environment carry it.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	config := &Config{
		DataDir: viper.GetString("data_dir"),
		Storage: StorageConfig{
			Backend:      viper.GetString("storage.backend"),
			DatabasePath: viper.GetString("storage.database_path"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
	}

	// Override with environment variables if set
	if dataDir := os.Getenv("QUIZVAULT_DATA_DIR"); dataDir != "" {
		config.DataDir = dataDir
	}
	if backend := os.Getenv("QUIZVAULT_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = backend
	}
	if dbPath := os.Getenv("QUIZVAULT_DATABASE_PATH"); dbPath != "" {
		config.Storage.DatabasePath = dbPath
	}
	if level := os.Getenv("QUIZVAULT_LOG_LEVEL"); level != "" {
		config.Logger.Level = level
	}

	switch config.Storage.Backend {
	case BackendAuto, BackendSQLite, BackendJSON:
	default:
		return nil, errors.New("storage.backend must be one of auto, sqlite, json")
	}

	return config, nil
}

// DatabasePath returns the embedded database file location.
func (c *Config) DatabasePath() string {
	if c.Storage.DatabasePath != "" {
		return c.Storage.DatabasePath
	}
	return filepath.Join(c.DataDir, DatabaseFileName)
}
