package main

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/oculog/internal/client/cli"
	"github.com/dmitrijs2005/oculog/internal/client/config"
	"github.com/dmitrijs2005/oculog/internal/filex"
	"github.com/dmitrijs2005/oculog/internal/logging"
)

func main() {
	cfg := config.LoadConfig()

	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" {
		if err := filex.EnsureParentDir(cfg.LogFile); err != nil {
			log.Fatalf("%v", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			log.Fatalf("error opening log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := logging.New(cfg.LogLevel, "text", logOut)

	ctx := context.Background()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "cli stopped", "error", err)
	}
}
