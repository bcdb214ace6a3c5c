package config_test

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgallie/hill/cryptors/key"
	"github.com/bgallie/hill/internal/config"
)

func failedTags(t *testing.T, err error) []string {
	t.Helper()

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs), "got %v", err)

	tags := make([]string, len(verrs))
	for i, fe := range verrs {
		tags[i] = fe.Tag()
	}

	return tags
}

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, config.FormatText, cfg.Format)
	assert.GreaterOrEqual(t, cfg.Parallel, 1)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
		tag    string
	}{
		{"bad size", func(c *config.Config) { c.Size = 4 }, "oneof"},
		{"bad format", func(c *config.Config) { c.Format = "binary" }, "oneof"},
		{"key and phrase", func(c *config.Config) { c.Key, c.Phrase = "3 3 2 5", "HELP" }, "excluded_with"},
		{"compressed text", func(c *config.Config) { c.Compress = true }, "armored"},
		{"no workers", func(c *config.Config) { c.Parallel = 0 }, "min"},
		{"no address", func(c *config.Config) { c.Server.Addr = "" }, "required"},
		{"empty origin", func(c *config.Config) { c.Server.AllowOrigins = []string{""} }, "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.modify(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validating configuration")
			assert.Contains(t, failedTags(t, err), tt.tag)
		})
	}
}

func TestCompressWithArmor(t *testing.T) {
	for _, format := range []string{config.FormatPEM, config.FormatASCII85} {
		cfg := config.Default()
		cfg.Format, cfg.Compress = format, true
		assert.NoError(t, cfg.Validate(), format)
	}
}

func TestKeyFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Key = "3 3 2 5"
	require.NoError(t, cfg.Validate())

	cfg.Key = "3 3 two 5"
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, key.ErrMalformed))

	cfg.Key, cfg.Size = "3 3 2 5", 3
	assert.Error(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	v := viper.New()
	v.Set("format", "pem")
	v.Set("compress", true)
	v.Set("phrase", "GYBNQKURP")
	v.Set("size", 3)
	v.Set("server.addr", "127.0.0.1:9090")

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, config.FormatPEM, cfg.Format)
	assert.True(t, cfg.Compress)
	assert.Equal(t, 3, cfg.Size)
	assert.Equal(t, "GYBNQKURP", cfg.Phrase)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowOrigins)
}

func TestLoadInvalid(t *testing.T) {
	v := viper.New()
	v.Set("compress", true)

	_, err := config.Load(v)
	assert.Contains(t, failedTags(t, err), "armored")
}
