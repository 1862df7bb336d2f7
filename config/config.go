// Package config loads settings from an optional YAML file, CDR_* environment
// variables and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "CDR"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Paths    PathsConfig    `mapstructure:"paths"`
	CellDB   CellDBConfig   `mapstructure:"celldb"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	MaxUploadMB     int64         `mapstructure:"max_upload_mb"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type PathsConfig struct {
	Uploads string `mapstructure:"uploads"`
	Reports string `mapstructure:"reports"`
}

// CellDBConfig points at the SQLite cell directory. An empty path disables
// enrichment.
type CellDBConfig struct {
	Path string `mapstructure:"path"`
}

type AnalysisConfig struct {
	TopK       int  `mapstructure:"top_k"`
	SampleSize int  `mapstructure:"sample_size"`
	ISODates   bool `mapstructure:"iso_dates"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_upload_mb", 64)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("paths.uploads", "uploads")
	v.SetDefault("paths.reports", "filtered")
	v.SetDefault("celldb.path", "")
	v.SetDefault("analysis.top_k", 10)
	v.SetDefault("analysis.sample_size", 100)
	v.SetDefault("analysis.iso_dates", false)
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads path (skipped when empty), the environment and any flags in
// bind, keyed by config key, e.g. "server.addr".
func Load(path string, bind map[string]*pflag.Flag) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
		}
	}
	for key, f := range bind {
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("binding flag %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	var errs []error
	if cfg.Analysis.TopK <= 0 {
		errs = append(errs, fmt.Errorf("analysis.top_k must be positive, got %d", cfg.Analysis.TopK))
	}
	if cfg.Analysis.SampleSize <= 0 {
		errs = append(errs, fmt.Errorf("analysis.sample_size must be positive, got %d", cfg.Analysis.SampleSize))
	}
	if cfg.Server.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("server.max_upload_mb must be positive, got %d", cfg.Server.MaxUploadMB))
	}
	if strings.TrimSpace(cfg.Paths.Uploads) == "" || strings.TrimSpace(cfg.Paths.Reports) == "" {
		errs = append(errs, errors.New("paths.uploads and paths.reports are required"))
	}
	return errors.Join(errs...)
}
