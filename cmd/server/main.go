package main

import (
	"case-map-service/internal/api"
	"case-map-service/internal/app"
	"case-map-service/internal/config"
	"case-map-service/internal/domain"
	"case-map-service/internal/platform/graceful"
	"case-map-service/internal/platform/obs"
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// main is the application composition root.
// It wires the case source and atlas provider behind ports and starts the HTTP server.
func main() {
	envErr := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := obs.NewLogger(cfg.Logger.Level)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Info("no .env file loaded (using environment variables)", zap.Error(envErr))
	}

	if err := run(cfg); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config) error {
	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	policy, err := domain.ParsePolicy(cfg.Map.MissingFieldPolicy)
	if err != nil {
		return err
	}

	source, err := app.NewCaseSource(cfg.Cases)
	if err != nil {
		return err
	}

	atlasProvider, closeAtlas, err := app.NewAtlasProvider(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeAtlas()

	router := api.NewRouter(source, atlasProvider, api.RouterOptions{
		Title:  cfg.Map.Title,
		Policy: policy,
	})

	// Timeouts allow for a cold atlas cache plus a slow case feed.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}
