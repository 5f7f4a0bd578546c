// Package config loads runtime configuration from the environment and an
// optional configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. SATSTRESS_SERVER_PORT.
const EnvPrefix = "SATSTRESS"

// Config holds all runtime configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Log       LogConfig       `mapstructure:"log" validate:"required"`
	Love      LoveConfig      `mapstructure:"love" validate:"required"`
	Satellite SatelliteConfig `mapstructure:"satellite"`
}

// ServerConfig contains the HTTP server settings.
type ServerConfig struct {
	Port               int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	CORSAllowedOrigins string `mapstructure:"cors_allowed_origins"`
}

// LogConfig contains the logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// LoveConfig selects and bounds the Love number solver.
type LoveConfig struct {
	Program string        `mapstructure:"program" validate:"required"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
	WorkDir string        `mapstructure:"workdir"`
	// Static, when set, bypasses the external program: "h2r,h2i,k2r,k2i,l2r,l2i".
	Static string `mapstructure:"static"`
}

// SatelliteConfig names the satellite served by the HTTP API.
type SatelliteConfig struct {
	File string `mapstructure:"file"`
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_allowed_origins", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("love.program", "calcLoveWahr4Layer")
	v.SetDefault("love.timeout", 60*time.Second)
	v.SetDefault("love.workdir", os.TempDir())
	v.SetDefault("love.static", "")
	v.SetDefault("satellite.file", "")
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from v, merging configFile first when it is not
// empty, and validates the result.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct tags of cfg and reports every failing field.
func Validate(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate configuration: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s (value %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// RequireSatellite reports an error when no satellite file is configured.
func (c *Config) RequireSatellite() error {
	if strings.TrimSpace(c.Satellite.File) == "" {
		return fmt.Errorf("no satellite definition configured (set %s_SATELLITE_FILE or satellite.file)", EnvPrefix)
	}
	return nil
}
