// Package config loads nkeysd configuration from a file and NKEYS_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/spf13/viper"

	"xdao.co/nkeys/nkeys"
)

// Config is the signer daemon configuration.
type Config struct {
	// Listen is the gRPC listen address.
	Listen string `mapstructure:"listen"`

	// SeedFile holds one encoded seed.
	SeedFile string `mapstructure:"seed_file"`

	// ExpectRole, when set, rejects seeds of any other role.
	ExpectRole string `mapstructure:"expect_role"`

	// MaxMsgBytes bounds gRPC request and response sizes.
	MaxMsgBytes int `mapstructure:"max_msg_bytes"`

	Log LogConfig `mapstructure:"log"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: console or json
	Format string `mapstructure:"format"`
	// Outputs: stdout, stderr, or file paths
	Outputs []string `mapstructure:"outputs"`

	Rotation    RotationConfig `mapstructure:"rotation"`
	Development bool           `mapstructure:"development"`
}

// RotationConfig controls log file rotation for file outputs.
type RotationConfig struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		Listen:      "127.0.0.1:7777",
		MaxMsgBytes: 4 << 20,
		Log: LogConfig{
			Level:   "info",
			Format:  "console",
			Outputs: []string{"stderr"},
			Rotation: RotationConfig{
				Filename:   "logs/nkeysd.log",
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
	}
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("listen", d.Listen)
	v.SetDefault("seed_file", d.SeedFile)
	v.SetDefault("expect_role", d.ExpectRole)
	v.SetDefault("max_msg_bytes", d.MaxMsgBytes)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.outputs", d.Log.Outputs)
	v.SetDefault("log.development", d.Log.Development)
	v.SetDefault("log.rotation.enable", d.Log.Rotation.Enable)
	v.SetDefault("log.rotation.filename", d.Log.Rotation.Filename)
	v.SetDefault("log.rotation.max_size_mb", d.Log.Rotation.MaxSizeMB)
	v.SetDefault("log.rotation.max_backups", d.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age_days", d.Log.Rotation.MaxAgeDays)
	v.SetDefault("log.rotation.compress", d.Log.Rotation.Compress)
}

// Load reads configuration from path (YAML, JSON or TOML by extension) and
// NKEYS_* environment variables, e.g. NKEYS_SEED_FILE or NKEYS_LOG_LEVEL.
// An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix("NKEYS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config: nil config")
	}
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return fmt.Errorf("config: invalid listen address %q: %w", c.Listen, err)
	}
	if strings.TrimSpace(c.SeedFile) == "" {
		return errors.New("config: seed_file is required")
	}
	if c.ExpectRole != "" {
		if _, err := nkeys.ParseRole(c.ExpectRole); err != nil {
			return fmt.Errorf("config: expect_role: %w", err)
		}
	}
	if c.MaxMsgBytes < 0 {
		return fmt.Errorf("config: max_msg_bytes must not be negative, got %d", c.MaxMsgBytes)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("config: invalid log format %q", c.Log.Format)
	}
	return nil
}

// Role returns the parsed ExpectRole, or zero when unset.
func (c *Config) Role() nkeys.Role {
	if c.ExpectRole == "" {
		return 0
	}
	r, _ := nkeys.ParseRole(c.ExpectRole)
	return r
}
