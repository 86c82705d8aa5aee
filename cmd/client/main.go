package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/kodex/internal/buildinfo"
	"github.com/dmitrijs2005/kodex/internal/client/cli"
	"github.com/dmitrijs2005/kodex/internal/client/config"
	"github.com/dmitrijs2005/kodex/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, "text")
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
