package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/MacaulyV/foodbridge/internal/client/cli"
	"github.com/MacaulyV/foodbridge/internal/client/config"
	"github.com/MacaulyV/foodbridge/internal/logging"
)

func main() {

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
