/*
© Copyright IBM Corporation 2026

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/websphere-automation/was-modules/internal/journal"
	"github.com/websphere-automation/was-modules/internal/module"
)

const (
	envPrefix        = "WASCTL"
	configFileName   = ".wasctl"
	configFileFormat = "yaml"
)

// JournalConfig configures the run journal; an empty Dir disables it
type JournalConfig struct {
	Dir      string `mapstructure:"dir"`
	MaxBytes int    `mapstructure:"max_bytes"`
	Files    int    `mapstructure:"files"`
}

// Config is the wasctl configuration file
type Config struct {
	Debug    bool                   `mapstructure:"debug"`
	Defaults map[string]interface{} `mapstructure:"defaults"`
	Journal  JournalConfig          `mapstructure:"journal"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("journal.dir", "")
	v.SetDefault("journal.max_bytes", journal.DefaultMaxBytes)
	v.SetDefault("journal.files", journal.DefaultFiles)
}

// loadConfig reads configFile, or $HOME/.wasctl.yaml when configFile is
// empty, overlaid with WASCTL_* environment variables.  A missing default
// config file is not an error.
func loadConfig(v *viper.Viper, configFile string) (*Config, error) {
	setDefaults(v)
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileFormat)
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	err = v.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if config.Journal.Dir != "" {
		config.Journal.Dir = filepath.Clean(config.Journal.Dir)
	}
	return &config, nil
}

// applyDefaults fills arguments the caller left out from the configured
// defaults.  Only keys which the module accepts are applied.
func applyDefaults(m module.Module, defaults map[string]interface{}, args map[string]interface{}) {
	for _, key := range m.Keys() {
		if _, set := args[key]; set {
			continue
		}
		if value, ok := defaults[key]; ok {
			args[key] = value
		}
	}
}
