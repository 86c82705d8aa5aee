package config

import (
	"os"

	"github.com/dmitrijs2005/kodex/internal/flagx"
	"github.com/dmitrijs2005/kodex/internal/timex"
	"github.com/goccy/go-json"
)

// JsonConfig is the on-disk form of Config. Durations use timex.Duration, so
// both "15m" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrGRPC      string         `json:"endpoint_addr_grpc"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
	PresignExpiry         timex.Duration `json:"presign_expiry"`
	URLCacheSizeMB        int            `json:"url_cache_size_mb"`
	MetricsAddr           string         `json:"metrics_addr"`
	LogLevel              string         `json:"log_level"`
}

// parseJson overlays config with the file named by -c or -config. Keys
// missing from the file keep their current values. Read and decode errors
// panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{
		EndpointAddrGRPC:      config.EndpointAddrGRPC,
		DatabaseDSN:           config.DatabaseDSN,
		SecretKey:             config.SecretKey,
		TokenValidityDuration: timex.Duration{Duration: config.TokenValidityDuration},
		S3RootUser:            config.S3RootUser,
		S3RootPassword:        config.S3RootPassword,
		S3Bucket:              config.S3Bucket,
		S3Region:              config.S3Region,
		S3BaseEndpoint:        config.S3BaseEndpoint,
		PresignExpiry:         timex.Duration{Duration: config.PresignExpiry},
		URLCacheSizeMB:        config.URLCacheSizeMB,
		MetricsAddr:           config.MetricsAddr,
		LogLevel:              config.LogLevel,
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrGRPC = c.EndpointAddrGRPC
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.TokenValidityDuration = c.TokenValidityDuration.Duration
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.PresignExpiry = c.PresignExpiry.Duration
	config.URLCacheSizeMB = c.URLCacheSizeMB
	config.MetricsAddr = c.MetricsAddr
	config.LogLevel = c.LogLevel
}
