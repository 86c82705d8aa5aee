package config

import (
	"os"

	"github.com/dmitrijs2005/kodex/internal/flagx"
	"github.com/dmitrijs2005/kodex/internal/timex"
	"github.com/goccy/go-json"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It is seeded
// from the current Config, so keys missing from the file keep their value.
type JsonConfig struct {
	DatabasePath        string         `json:"database_path"`
	OutputDir           string         `json:"output_dir"`
	ImageSize           int            `json:"image_size"`
	Foreground          string         `json:"foreground"`
	MaxPayloadLength    int            `json:"max_payload_length"`
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	AccessToken         string         `json:"access_token"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	LogLevel            string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from the file named by -c or
// -config. Without either flag it does nothing. Read and decode errors panic.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	jc := JsonConfig{
		DatabasePath:        cfg.DatabasePath,
		OutputDir:           cfg.OutputDir,
		ImageSize:           cfg.ImageSize,
		Foreground:          cfg.Foreground,
		MaxPayloadLength:    cfg.MaxPayloadLength,
		ServerEndpointAddr:  cfg.ServerEndpointAddr,
		AccessToken:         cfg.AccessToken,
		RequestTimeout:      timex.Duration{Duration: cfg.RequestTimeout},
		OnlineCheckInterval: timex.Duration{Duration: cfg.OnlineCheckInterval},
		LogLevel:            cfg.LogLevel,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.DatabasePath = jc.DatabasePath
	cfg.OutputDir = jc.OutputDir
	cfg.ImageSize = jc.ImageSize
	cfg.Foreground = jc.Foreground
	cfg.MaxPayloadLength = jc.MaxPayloadLength
	cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	cfg.AccessToken = jc.AccessToken
	cfg.RequestTimeout = jc.RequestTimeout.Duration
	cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	cfg.LogLevel = jc.LogLevel
}
