package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the optional YAML configuration. Flags override it.
type Config struct {
	DataDir   string `yaml:"data_dir"`
	CacheDir  string `yaml:"cache_dir"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func defaultConfig() Config {
	return Config{
		DataDir:   "data",
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// readConfig loads configFile over the defaults. An empty name means no file.
func readConfig(configFile string) (Config, error) {
	config := defaultConfig()
	if configFile == "" {
		return config, nil
	}
	cf, err := os.ReadFile(configFile)
	if err != nil {
		return config, fmt.Errorf("error reading config file %s: %w", configFile, err)
	}
	if err := yaml.Unmarshal(cf, &config); err != nil {
		return config, fmt.Errorf("error loading config from %s: %w", configFile, err)
	}
	return config, nil
}

// newLogger builds a console or json logger at level (debug, info, warn,
// error; anything else is info).
func newLogger(level, format string) (*zap.Logger, error) {
	zapLevel := zapcore.InfoLevel
	if l, err := zapcore.ParseLevel(level); err == nil {
		zapLevel = l
	}
	var config zap.Config
	if format == "json" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.OutputPaths = []string{"stdout"}
	} else {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	return config.Build()
}
