package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/kodex/internal/client/client"
	"github.com/dmitrijs2005/kodex/internal/payload"
	"github.com/dmitrijs2005/kodex/internal/qrcode"
	"github.com/gookit/validate"
)

// Config holds runtime settings for the kodex CLI.
//
// An empty ServerEndpointAddr keeps the client offline: history is only
// stored locally and the sync and share commands report that they are
// disabled.
type Config struct {
	DatabasePath        string `validate:"required"`
	OutputDir           string `validate:"required"`
	ImageSize           int    `validate:"required|min:64|max:4096"`
	Foreground          string `validate:"required"`
	MaxPayloadLength    int    `validate:"required|min:1|max:2953"`
	ServerEndpointAddr  string
	AccessToken         string
	RequestTimeout      time.Duration `validate:"required|min:1"`
	OnlineCheckInterval time.Duration `validate:"required|min:1"`
	LogLevel            string        `validate:"required|in:debug,info,warn,error"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "kodex.db"
	c.OutputDir = "qr"
	c.ImageSize = qrcode.DefaultSize
	c.Foreground = "#000000"
	c.MaxPayloadLength = payload.MaxLength
	c.ServerEndpointAddr = ""
	c.AccessToken = ""
	c.RequestTimeout = client.DefaultCallTimeout
	c.OnlineCheckInterval = 10 * time.Second
	c.LogLevel = "info"
}

// Validate checks field ranges and that Foreground is a usable color.
func (c *Config) Validate() error {
	v := validate.Struct(c)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}
	if _, err := qrcode.ParseColor(c.Foreground); err != nil {
		return fmt.Errorf("invalid config: foreground: %w", err)
	}
	return nil
}

// Online reports whether a sync server is configured.
func (c *Config) Online() bool {
	return c.ServerEndpointAddr != ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones. The result is validated.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
