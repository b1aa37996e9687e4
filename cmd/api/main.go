package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ojasva22/frontend-deployment/internal/config"
	"github.com/ojasva22/frontend-deployment/internal/db"
	"github.com/ojasva22/frontend-deployment/internal/guard"
	"github.com/ojasva22/frontend-deployment/internal/history"
	internalhttp "github.com/ojasva22/frontend-deployment/internal/http"
	"github.com/ojasva22/frontend-deployment/internal/remote"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api encerrada com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	ctx := context.Background()
	deps := internalhttp.Dependencies{Checks: map[string]internalhttp.Checker{}}

	client, err := remote.NewFromConfig(ctx, cfg.Remote)
	if err != nil {
		return fmt.Errorf("remote: %w", err)
	}
	deps.Remote = client
	if store, ok := client.(*remote.ObjectStore); ok {
		deps.Checks["bucket"] = store.Ping
	}
	if cfg.APIKey == "" {
		log.Warn().Msg("API_KEY vazia; o gateway deve recusar as chamadas")
	}

	if cfg.DBDSN != "" {
		pool, err := db.NewPool(ctx, cfg.DBDSN)
		if err != nil {
			return fmt.Errorf("db: %w", err)
		}
		defer pool.Close()

		repo := history.NewRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("history schema: %w", err)
		}
		deps.History = repo
		deps.Checks["db"] = repo.Ping
	}

	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis parse: %w", err)
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()

		deps.Checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		if cfg.SubmitGuardTTL > 0 {
			deps.Guard = guard.NewRedisGuard(redisClient, cfg.SubmitGuardTTL)
			log.Info().Dur("ttl", cfg.SubmitGuardTTL).Msg("trava de submissão duplicada ativa")
		}
	}

	if cfg.MetricsEnabled {
		deps.Metrics = internalhttp.NewMetrics()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           internalhttp.NewRouter(cfg, deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("remote", cfg.Remote.Provider).Msgf("galeria ouvindo em :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("encerrando...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
