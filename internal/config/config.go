// Copyright 2025 Scott Friedman
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for cyclesubmit.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides
// (e.g., CYCLESUBMIT_SERVER_HOST).
const EnvPrefix = "CYCLESUBMIT"

// Config holds the application configuration.
type Config struct {
	Server struct {
		Host    string        `mapstructure:"host"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"server"`

	// Passwords are never read from config; they come from flags or a prompt.
	Submit struct {
		Username string `mapstructure:"username"`
		Group    string `mapstructure:"group"`
		PoolID   string `mapstructure:"pool_id"`
	} `mapstructure:"submit"`

	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// LoadFile loads the configuration from path, or from the default locations
// when path is empty. Flags in flags that were set on the command line take
// precedence over the environment, which takes precedence over the file.
// bindings maps config keys to flag names.
func LoadFile(path string, flags *pflag.FlagSet, bindings ...Binding) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		configDir, err := GetConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	// Set defaults
	v.SetDefault("server.host", "localhost:8080")
	v.SetDefault("server.timeout", 30*time.Second)
	v.SetDefault("submit.username", "")
	v.SetDefault("submit.group", "")
	v.SetDefault("submit.pool_id", "")
	v.SetDefault("aws.region", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for _, b := range bindings {
			flag := flags.Lookup(b.Flag)
			if flag == nil {
				return nil, fmt.Errorf("unknown flag %q for config key %q", b.Flag, b.Key)
			}
			if err := v.BindPFlag(b.Key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %q: %w", b.Flag, err)
			}
		}
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we'll use defaults
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Binding ties a config key to a command-line flag.
type Binding struct {
	Key  string
	Flag string
}

// GetConfigDir returns the configuration directory for cyclesubmit.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".cyclesubmit"), nil
}
