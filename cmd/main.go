package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/zerolog"

	"gradebook/internal/config"
	"gradebook/internal/database"
	"gradebook/internal/handler"
	"gradebook/internal/service"
	"gradebook/internal/session"
	"gradebook/internal/store"
	"gradebook/internal/web"
	"gradebook/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	// Initialize the record store backend
	factory, err := storeFactory(cfg)
	if err != nil {
		return err
	}

	sessions := session.NewManager(factory, cfg.SessionTTL, log)
	sweeper, err := sessions.StartSweeper(cfg.SessionSweep)
	if err != nil {
		return fmt.Errorf("invalid SESSION_SWEEP %q: %w", cfg.SessionSweep, err)
	}
	defer sweeper.Stop()

	tmpl, err := web.Templates()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	// Initialize services and routes
	router := handler.NewRouter(handler.Deps{
		Templates:      tmpl,
		Sessions:       sessions,
		Records:        service.NewRecordService(log),
		Analysis:       service.NewAnalysisService(),
		Charts:         service.NewChartService(),
		Transfer:       service.NewTransferService(log),
		MaxUploadBytes: cfg.MaxUploadBytes,
		Log:            log,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handlers.CORS(handlers.AllowedOrigins(cfg.CORSOrigins))(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	return sessions.Close()
}

func storeFactory(cfg *config.Config) (store.Factory, error) {
	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	if db == nil {
		return store.MemoryFactory(), nil
	}
	return store.GormFactory(db), nil
}
