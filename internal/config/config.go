package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "LEAVEREASON"

type Config struct {
	Artifact struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"artifact"`

	Training struct {
		MaxIter int     `mapstructure:"max_iter"`
		C       float64 `mapstructure:"c"`
	} `mapstructure:"training"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // "text" or "json"
		File   string `mapstructure:"file"`   // empty logs to stderr
	} `mapstructure:"log"`

	// History is opt-in; an empty driver disables recording.
	History struct {
		Driver string `mapstructure:"driver"` // "sqlite3" or "postgres"
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"history"`

	Server struct {
		Addr string `mapstructure:"addr"`
		Port int    `mapstructure:"port"`
	} `mapstructure:"server"`

	Cache struct {
		Size int `mapstructure:"size"`
	} `mapstructure:"cache"`
}

// FlagBindings maps persistent CLI flag names to config keys.
var FlagBindings = map[string]string{
	"artifact":  "artifact.path",
	"log-level": "log.level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("artifact.path", "reason_classifier.json")
	v.SetDefault("training.max_iter", 1000)
	v.SetDefault("training.c", 1.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("history.driver", "")
	v.SetDefault("history.dsn", "")
	v.SetDefault("server.addr", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("cache.size", 1024)
}

// LoadConfig reads config.yaml from the working directory, or configFile when
// set, then overlays LEAVEREASON_* environment variables and any flags that
// were explicitly changed. A missing default config file is not an error.
func LoadConfig(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range FlagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	path, err := ExpandPath(cfg.Artifact.Path)
	if err != nil {
		return nil, err
	}
	cfg.Artifact.Path = path
	return &cfg, nil
}
