package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/alexmeckes/draftagent/go/internal/dbconfig"
	"github.com/alexmeckes/draftagent/go/internal/draft/gateway"
)

func main() {
	startedAt := time.Now()

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	config, err := loadConfig(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	database, dialect, err := setupDatabase(ctx, dbconfig.NewConfigFromEnv())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up database")
	}
	defer database.Close()

	gatewayConfig := gateway.DefaultConfig()
	gatewayConfig.Driver = gateway.Driver(getEnv("BROADCAST_DRIVER", string(gateway.DriverMemory)))
	gatewayConfig.NATSConfig.URL = getEnv("NATS_URL", gatewayConfig.NATSConfig.URL)
	gatewayConfig.NATSConfig.SubjectPrefix = getEnv("NATS_SUBJECT_PREFIX", gatewayConfig.NATSConfig.SubjectPrefix)

	gatewayService, err := gateway.NewService(gatewayConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create gateway service")
	}

	services := setupServices(database, dialect, config, gatewayService, startedAt)
	server := setupServer(services)

	// Start gateway service (connection manager)
	go gatewayService.Start(ctx)

	// Start HTTP server
	go func() {
		log.Info().Str("addr", server.Addr).Str("store", string(dialect)).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	services.Syncer.StopAllSyncs()
	cancel()

	if err := gatewayService.Stop(); err != nil {
		log.Error().Err(err).Msg("gateway shutdown failed")
	}

	log.Info().Msg("draftagent shutdown complete")
}
