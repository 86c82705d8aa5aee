// Package config loads runtime configuration for the kodex CLI.
//
// Sources and precedence:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// The merged result is validated before LoadConfig returns it.
//
// # JSON schema
//
// Durations use timex.Duration, so "15s" and integer nanoseconds both work:
//
//	{
//	  "database_path": "kodex.db",
//	  "output_dir": "qr",
//	  "image_size": 512,
//	  "foreground": "#000000",
//	  "max_payload_length": 1000,
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "access_token": "...",
//	  "request_timeout": "15s",
//	  "online_check_interval": "10s",
//	  "log_level": "info"
//	}
package config
