package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/oculog/internal/devapi"
	"github.com/dmitrijs2005/oculog/internal/devapi/config"
	"github.com/dmitrijs2005/oculog/internal/logging"
)

func main() {
	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel, "json", os.Stdout)

	if err := devapi.NewApp(cfg, logger).Run(context.Background()); err != nil {
		os.Exit(1)
	}
}
