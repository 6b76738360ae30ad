package main

import (
	"context"

	"cowork/config"
	"cowork/di"
	"cowork/helper"
	"cowork/shared/logger"
	"cowork/shared/metrics"

	"github.com/rs/zerolog/log"
)

// @title Cowork API
// @version 1.0
// @description Coworking space meeting room reservation service.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	if cfg.Metrics.Enable {
		metrics.Register()
	}

	if cfg.Kafka.Enable {
		listener := di.InitializeReservationListener()

		go listener.Run(context.Background())
	}

	http := di.InitializeService()
	http.Serve()
}
