// Package config holds the settings shared by the hill commands and the
// HTTP adapter, loaded through viper and checked with validator tags.
package config

import (
	"fmt"
	"runtime"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/bgallie/hill/cryptors/key"
)

// Output formats.
const (
	FormatText    = "text"
	FormatPEM     = "pem"
	FormatASCII85 = "ascii85"
)

// Server configures the HTTP adapter.
type Server struct {
	Addr         string   `mapstructure:"addr"          validate:"required,hostname_port"`
	AllowOrigins []string `mapstructure:"allow-origins" validate:"dive,required"`
}

type Config struct {
	// Key material.  Size zero means infer from a numeric key, or 2 for a
	// phrase.
	Size   int    `validate:"omitempty,oneof=2 3"`
	Key    string `validate:"excluded_with=Phrase"`
	Phrase string

	// Output
	Format   string `validate:"oneof=text pem ascii85"`
	Compress bool   `validate:"armored=Format"`
	Wrap     bool
	Steps    bool

	Parallel int `validate:"min=1"`
	Verbose  bool

	Server Server
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Format:   FormatText,
		Parallel: runtime.NumCPU(),
		Server: Server{
			Addr:         "localhost:8080",
			AllowOrigins: []string{"*"},
		},
	}
}

// Load overlays the settings known to v on Default and validates the result.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate validates the configuration against the struct tags
func (c Config) Validate() error {
	validate := validator.New()
	if err := registerArmored(validate); err != nil {
		return err
	}

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	// Additional key validation
	if c.Key != "" {
		if _, err := key.Parse(c.Key, c.Size); err != nil {
			return fmt.Errorf("invalid key format: %w", err)
		}
	}

	return nil
}
