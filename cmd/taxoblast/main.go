// Command taxoblast runs the genome comparison job service. The SERVICES
// environment variable selects which parts run in this process: the HTTP API,
// the queue worker, or both.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/bioquery/taxoblast/internal/bootstrap"
)

func main() {
	logger := bootstrap.InitLogger()
	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	if err := bootstrap.ValidateServiceConfig(&cfg); err != nil {
		return err
	}

	logger.Info("starting taxoblast", "services", cfg.Services, "dev", cfg.IsDev)
	return bootstrap.Run(context.Background(), &cfg, logger)
}
