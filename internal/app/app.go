// Package app wires configuration, storage and services into a runnable
// application shared by the API server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"campusnav/internal/ai"
	"campusnav/internal/config"
	apphttp "campusnav/internal/http"
	"campusnav/internal/infra"
	"campusnav/internal/maps"
	"campusnav/internal/modules/aiusage"
	"campusnav/internal/modules/catalog"
	"campusnav/internal/modules/favorites"
	"campusnav/internal/modules/history"
	"campusnav/internal/modules/notification"
	"campusnav/internal/modules/position"
	"campusnav/internal/service"
)

const shutdownTimeout = 10 * time.Second

// App holds the wired services.
type App struct {
	Config        config.Config
	Logger        *slog.Logger
	Navigator     *service.Navigator
	Directions    *maps.RouteService
	Sessions      *service.SessionRegistry
	History       *history.Service
	Favorites     *favorites.Service
	Notifications *notification.Service
	Sources       position.Sources

	closers []func()
}

// New builds the application. Firebase and Gemini are optional and only
// wired when configured; the directions service is always created and
// reports maps.ErrNotConfigured without an API key.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, Logger: logger, Sources: position.Sources{MaxAge: cfg.Navigation.DeviceFixMaxAge}}

	cat, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	store, closeStore, err := infra.OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.closers = append(a.closers, closeStore)

	a.Directions, err = maps.NewRouteService(maps.Options{
		APIKey:  cfg.Maps.APIKey,
		Timeout: cfg.Maps.Timeout,
		Logger:  logger,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("directions: %w", err)
	}

	var sender notification.Sender
	if cfg.FirebaseEnabled() {
		fb, err := infra.NewFirebase(ctx, cfg.Firebase.ProjectID, cfg.Firebase.DatabaseURL, cfg.Firebase.CredentialsFile)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("firebase init: %w", err)
		}
		a.Sources.Devices = position.NewRTDBReader(fb.Database)
		sender = notification.NewFCMSender(fb.Messaging)
		logger.Info("firebase enabled", "project_id", cfg.Firebase.ProjectID)
	}

	var interpreter ai.QueryInterpreter
	if cfg.AI.GeminiKey != "" {
		gemini, err := ai.NewGeminiInterpreter(ctx, cfg.AI.GeminiKey)
		if err != nil {
			logger.Warn("assisted search disabled", "err", err)
		} else {
			usage := aiusage.NewService(store, cfg.AI.MonthlyQuota, logger)
			interpreter = usage.Metered(gemini)
			a.closers = append(a.closers, gemini.Close)
		}
	}

	a.Navigator = service.NewNavigator(cat, a.Directions, interpreter, logger)
	a.Sessions = service.NewSessionRegistry(a.Navigator,
		service.WithIdleTTL(cfg.Navigation.SessionIdleTTL),
		service.WithMaxSessions(cfg.Navigation.MaxSessions))
	a.History = history.NewService(store, logger)
	a.Favorites = favorites.NewService(store, logger)
	a.Notifications = notification.NewService(store, sender, logger)
	return a, nil
}

// Close releases backend connections in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Handler builds the HTTP API.
func (a *App) Handler() http.Handler {
	return apphttp.NewServer(apphttp.ServerDeps{
		Navigator:      a.Navigator,
		Directions:     a.Directions,
		Sessions:       a.Sessions,
		History:        a.History,
		Favorites:      a.Favorites,
		Notifications:  a.Notifications,
		Sources:        a.Sources,
		NearbyRadiusKm: a.Config.Navigation.NearbyRadiusKm,
		Logger:         a.Logger,
	}).Routes()
}

// Serve runs the HTTP server until ctx is cancelled or a shutdown signal
// arrives, then drains in-flight requests.
func (a *App) Serve(ctx context.Context) error {
	logger := a.Logger
	if !a.Notifications.Greet(ctx) {
		logger.Warn("welcome notification not recorded")
	}

	httpServer := &http.Server{
		Addr:              a.Config.HTTP.Addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting HTTP server", "address", a.Config.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("received shutdown signal", "signal", sig.String())
		case <-gCtx.Done():
			logger.Info("context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("application error", "err", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}
