package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cmbt/covid19-webclient/internal/chart"
)

// EnvPrefix is the prefix of environment overrides, e.g. COVIDCHART_SERVER
const EnvPrefix = "covidchart"

// FileConfig is the headless configuration read from a YAML file, the
// environment and command line flags, in increasing priority.
type FileConfig struct {
	Server     string        `mapstructure:"server"`
	UseHTTPS   bool          `mapstructure:"https"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Probe      bool          `mapstructure:"probe"`
	EncodePath bool          `mapstructure:"encode_path"`
	Catalog    string        `mapstructure:"catalog"`
	Log        struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// LoadFileConfig reads the configuration. An empty path searches
// ./covidchart.yaml and $HOME/.config/covidchart.yaml; a missing file is not
// an error unless path was given explicitly. Flags in fs that were changed
// override file and environment values.
func LoadFileConfig(path string, fs *pflag.FlagSet) (*FileConfig, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("covidchart")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/")
	}

	v.SetDefault("server", DefaultServer)
	v.SetDefault("https", DefaultUseHTTPS)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("probe", DefaultProbeServer)
	v.SetDefault("encode_path", DefaultEncodePath)
	v.SetDefault("catalog", DefaultCatalogVersion)
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	var cfg FileConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// ServerConfig returns the chart client configuration
func (fc *FileConfig) ServerConfig() chart.ServerConfig {
	return chart.ServerConfig{
		Host:       fc.Server,
		UseHTTPS:   fc.UseHTTPS,
		Timeout:    fc.Timeout,
		Probe:      fc.Probe,
		EncodePath: fc.EncodePath,
	}
}
