package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configDir  = ".reactatoms"
	configName = "config"
	envPrefix  = "REACTATOMS"
)

// Config is the merged configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Content struct {
		// Dir is a content bundle on disk. Empty selects the embedded bundle.
		Dir string `mapstructure:"dir"`
	} `mapstructure:"content"`

	Server struct {
		Addr      string  `mapstructure:"addr"`
		Dev       bool    `mapstructure:"dev"`
		CacheSize int     `mapstructure:"cache_size"`
		RateLimit float64 `mapstructure:"rate_limit"`
		Burst     int     `mapstructure:"burst"`
	} `mapstructure:"server"`

	Export struct {
		Out     string `mapstructure:"out"`
		Workers int    `mapstructure:"workers"`
	} `mapstructure:"export"`

	Publish struct {
		Bucket   string `mapstructure:"bucket"`
		Prefix   string `mapstructure:"prefix"`
		Region   string `mapstructure:"region"`
		Endpoint string `mapstructure:"endpoint"`
	} `mapstructure:"publish"`

	MCP struct {
		LogFile string `mapstructure:"log_file"`
	} `mapstructure:"mcp"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("content.dir", "")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.dev", false)
	v.SetDefault("server.cache_size", 512)
	v.SetDefault("server.rate_limit", 0.0)
	v.SetDefault("server.burst", 0)
	v.SetDefault("export.out", "dist")
	v.SetDefault("export.workers", 0)
	v.SetDefault("publish.bucket", "")
	v.SetDefault("publish.prefix", "")
	v.SetDefault("publish.region", "")
	v.SetDefault("publish.endpoint", "")
	v.SetDefault("mcp.log_file", "")
}

// loadConfig merges .env, the config file and REACTATOMS_* variables into
// v. A missing default config file is fine; a missing explicit one is not.
func loadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	// .env only fills variables that are not already set.
	_ = godotenv.Load()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(configDir)
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}
