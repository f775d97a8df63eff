package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config is the client-side configuration. Values come from flags, the
// environment (DARKROOM_*), or a darkroom.yaml found in $HOME or the
// working directory, in that precedence order.
type Config struct {
	ServerURL      string        `mapstructure:"server_url"`
	DebounceWindow time.Duration `mapstructure:"debounce_window"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	OutputDir      string        `mapstructure:"output_dir"`
	UploadWorkers  int           `mapstructure:"upload_workers"`
	Debug          bool          `mapstructure:"debug"`
}

// New returns a viper instance with defaults and lookup paths registered.
// cmd binds flags onto it before Load is called.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("server_url", "http://localhost:5001")
	v.SetDefault("debounce_window", 300*time.Millisecond)
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("output_dir", "exports")
	v.SetDefault("upload_workers", 4)
	v.SetDefault("debug", false)

	v.SetConfigName("darkroom")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")

	v.SetEnvPrefix("DARKROOM")
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file and materializes the Config. A missing
// file is fine; a malformed one is not.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.DebounceWindow <= 0 {
		cfg.DebounceWindow = 300 * time.Millisecond
	}
	if cfg.RequestTimeout < 0 {
		cfg.RequestTimeout = 0
	}
	if cfg.UploadWorkers <= 0 {
		cfg.UploadWorkers = 1
	}
	return cfg, nil
}
