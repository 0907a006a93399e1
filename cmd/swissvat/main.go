package main

import (
	"os"

	"github.com/hypervisual/swiss-compliance/internal/interfaces/cli"
	"github.com/hypervisual/swiss-compliance/pkg/config"
	"github.com/hypervisual/swiss-compliance/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Debug().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting")

	os.Exit(cli.Execute(&cli.App{Config: cfg, Log: log}, os.Args[1:]))
}
