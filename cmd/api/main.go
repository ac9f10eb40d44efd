package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/bootstrap"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/config"
	httpHandlers "github.com/ANIKETSHETTY47/facility-intake-engine/internal/http"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/logger"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	lg := logger.Setup(config.LogLevel(), config.LogPretty())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, lg)
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap failed")
	}
	defer app.Close()

	srv := fiber.New(fiber.Config{DisableStartupMessage: true})
	srv.Use(recover.New())

	httpHandlers.Register(srv, app.Services, app.Registry)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := srv.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
	}()

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Str("store", config.StoreDriver()).Msg("api listening")
	if err := srv.Listen(addr); err != nil {
		log.Error().Err(err).Msg("server exit")
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Services.Drain(drainCtx); err != nil {
		log.Warn().Err(err).Msg("queued dispatches still running at exit")
	}
}
