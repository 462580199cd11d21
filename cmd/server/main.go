package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/cinesync/cinesync/internal/adapters/http"
	"github.com/cinesync/cinesync/internal/app"
	"github.com/cinesync/cinesync/internal/billing"
	"github.com/cinesync/cinesync/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Local .env for dev; real deployments set env vars directly.
	_ = godotenv.Load()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Mode == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	relay := app.NewRelay()

	// The payment boundary is wired only when fully configured; the relay
	// must never depend on it.
	var pay *billing.API
	if cfg.BillingEnabled() {
		store, err := billing.NewStore(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatal().Err(err).Msg("billing store connect")
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("billing schema")
		}
		pay = &billing.API{
			Gateway: billing.NewGateway(cfg.GatewayKey, cfg.GatewaySecret),
			Store:   store,
		}
		log.Info().Msg("billing enabled")
	} else {
		log.Info().Msg("billing disabled, relay only")
	}

	r := router.SetupRouter(ctx, cfg, relay, pay)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("CineSync server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
