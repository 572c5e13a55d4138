package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/RyanBlaney/sonido-doa/cmd/doascan/app"
	"github.com/RyanBlaney/sonido-doa/logging"
)

func main() {
	logger := logging.NewDefaultLogger()

	var configPath string
	flag.StringVar(&configPath, "c", "", "Path to the scenario configuration file")
	flag.Parse()

	if configPath == "" {
		logger.Fatal(nil, "no configuration file provided")
	}

	config, err := app.LoadConfig(configPath)
	if err != nil {
		logger.Fatal(err, "failed to load configuration file", logging.Fields{"path": configPath})
	}

	level, err := logging.ParseLevel(config.Settings.LogLevel)
	if err != nil {
		logger.Fatal(err, "invalid log level")
	}
	logger.SetLevel(level)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if _, err = app.Run(ctx, config, logger, os.Stdout); err != nil {
		cancel()
		logger.Fatal(err, fmt.Sprintf("run %s", configPath))
	}
}
