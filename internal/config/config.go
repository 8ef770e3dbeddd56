// Package config loads hivedigger settings from a YAML file, HIVEDIGGER_*
// environment variables and defaults, in that order of precedence below
// command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/joshuapare/hivedigger/internal/format"
)

const (
	// AppName names the config file (hivedigger.yaml) and its directory.
	AppName = "hivedigger"

	// EnvPrefix is the prefix of environment overrides, e.g.
	// HIVEDIGGER_LOG_LEVEL.
	EnvPrefix = "HIVEDIGGER"
)

// Config is the resolved configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
		File   string `mapstructure:"file"`
	} `mapstructure:"log"`

	Output struct {
		Format string `mapstructure:"format"`
	} `mapstructure:"output"`

	Lookup struct {
		HintFallback bool `mapstructure:"hint_fallback"`
		SegmentSize  int  `mapstructure:"segment_size"`
	} `mapstructure:"lookup"`

	Syskey struct {
		ResolveControlSet bool `mapstructure:"resolve_control_set"`
	} `mapstructure:"syskey"`

	Batch struct {
		Concurrency int `mapstructure:"concurrency"`
	} `mapstructure:"batch"`
}

// New returns a viper instance with defaults, search paths and environment
// binding set up but nothing read yet. Callers bind flags to it before Load.
func New(cfgFile string) *viper.Viper {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", AppName))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("output.format", "hex")
	v.SetDefault("lookup.hint_fallback", false)
	// Set to format.DBSegmentSize for hives written with full 16384-byte segments.
	v.SetDefault("lookup.segment_size", format.DBChunkSize)
	v.SetDefault("syskey.resolve_control_set", true)
	v.SetDefault("batch.concurrency", 4)
}

// Load reads the config file if there is one and decodes the result. A
// missing file in the search paths is not an error; a missing file named
// explicitly is.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("error reading config file: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("error parsing config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("batch.concurrency must be at least 1, got %d", c.Batch.Concurrency)
	}
	if c.Lookup.SegmentSize < 1 {
		return fmt.Errorf("lookup.segment_size must be positive, got %d", c.Lookup.SegmentSize)
	}
	return nil
}
