package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/kodex/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-d string   SQLite database file
//	-o string   directory for saved PNG images
//	-s int      image side in pixels
//	-f string   foreground color, #RRGGBB
//	-a string   address:port of the sync server (empty = offline)
//	-t string   device access token
//	-r int      request timeout in seconds
//	-i int      online check interval in seconds
//	-l string   log level
//
// os.Args is filtered with flagx.FilterArgs so the -c flag consumed by
// parseJson does not trip the flag set.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-o", "-s", "-f", "-a", "-t", "-r", "-i", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "SQLite database file")
	fs.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "directory for saved images")
	fs.IntVar(&cfg.ImageSize, "s", cfg.ImageSize, "image size in pixels")
	fs.StringVar(&cfg.Foreground, "f", cfg.Foreground, "foreground color")
	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port of the sync server")
	fs.StringVar(&cfg.AccessToken, "t", cfg.AccessToken, "device access token")
	timeout := fs.Int("r", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
}
