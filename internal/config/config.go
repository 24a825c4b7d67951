// Package config loads crudsql settings from a YAML file, the environment and
// optional .env files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem used for config discovery and request files.
var AppFs = afero.NewOsFs()

// Config holds the CLI and generator settings.
type Config struct {
	LogLevel      string
	LogFormat     string
	AllowedTables []string          // empty allows any valid table name
	MatchColumns  map[string]string // table -> update/delete match column
	ConfigFile    string            // file actually read, if any
}

// Load reads configuration. configFile, when non-empty, replaces the search
// path. A missing config file is not an error.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetFs(AppFs)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(".crudsql")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "crudsql"))
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v.SetEnvPrefix("CRUDSQL")
	v.AutomaticEnv()

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return &Config{
		LogLevel:      v.GetString("log_level"),
		LogFormat:     v.GetString("log_format"),
		AllowedTables: v.GetStringSlice("allowed_tables"),
		MatchColumns:  v.GetStringMapString("match_columns"),
		ConfigFile:    v.ConfigFileUsed(),
	}, nil
}

// loadDotEnv applies .env and then .env.local from AppFs. Values from .env
// never replace variables already set; .env.local overrides both.
func loadDotEnv() error {
	if err := applyEnvFile(".env", false); err != nil {
		return err
	}
	return applyEnvFile(".env.local", true)
}

func applyEnvFile(name string, override bool) error {
	raw, err := afero.ReadFile(AppFs, name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	vars, err := godotenv.UnmarshalBytes(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	for k, v := range vars {
		if _, set := os.LookupEnv(k); set && !override {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("set %s from %s: %w", k, name, err)
		}
	}
	return nil
}
