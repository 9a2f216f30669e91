package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"umbrella-customizer/app/controller"
	"umbrella-customizer/app/router"
	"umbrella-customizer/config"
	"umbrella-customizer/logger"
	"umbrella-customizer/repository"
	"umbrella-customizer/service"
)

// App is the wired customizer service
type App struct {
	Handler  http.Handler
	Sessions *repository.SessionRepository[*service.Customizer]
	Renderer *service.Renderer

	cancel context.CancelFunc
}

// NewBaseImageSource chains the configured base image sources:
// Google Drive (when credentials are set), the assets directory, then the drawn placeholder
func NewBaseImageSource(ctx context.Context, cfg *config.Config, log *logger.Logger) (service.BaseImageSource, error) {
	var drive service.BaseImageSource
	if cfg.DriveCredentials != "" {
		driveService, err := service.NewDriveService(ctx, cfg.DriveCredentials)
		if err != nil {
			return nil, err
		}
		drive = service.NewDriveSource(driveService, cfg.DriveFolderID, cfg.Themes)
		log.Info("☁️  base images from Google Drive", "folder", cfg.DriveFolderID)
	}

	return service.NewFallbackSource(log,
		drive,
		service.NewDirSource(cfg.AssetsDir, cfg.Themes),
		service.NewPlaceholderSource(cfg.Themes),
	), nil
}

// NewRenderer creates the renderer shared by every session
func NewRenderer(ctx context.Context, cfg *config.Config, log *logger.Logger) (*service.Renderer, error) {
	source, err := NewBaseImageSource(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return service.NewRenderer(source,
		service.WithLogger(log.With("component", "renderer")),
		service.WithLogoURL(controller.LogoURL),
		service.WithLoadTimeout(cfg.ImageLoadTimeout),
	), nil
}

// SessionOptions returns the options every session is created with
func SessionOptions(cfg *config.Config, log *logger.Logger) service.CustomizerOptions {
	return service.CustomizerOptions{
		Logger:              log.With("component", "customizer"),
		NotificationTimeout: cfg.NotificationTimeout,
		NotificationExit:    cfg.NotificationExit,
	}
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	renderer, err := NewRenderer(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize renderer: %w", err)
	}

	optimizer := service.NewImageOptimizer(cfg.CacheDir, log.With("component", "optimizer"))
	if err := optimizer.EnsureCacheDir(); err != nil {
		return nil, err
	}

	var exports *service.ExportWriter
	if cfg.ExportDir != "" {
		exports = service.NewExportWriter(cfg.ExportDir, log.With("component", "exports"))
	}

	sessions := repository.NewSessionRepository[*service.Customizer](log.With("component", "sessions"))
	janitorCtx, cancel := context.WithCancel(ctx)
	sessions.StartJanitor(janitorCtx, cfg.SessionTTL, janitorInterval(cfg.SessionTTL))

	// Create controllers
	controllers := &router.Controllers{
		Customizer: controller.NewCustomizerController(
			sessions, renderer, cfg.Themes, exports, SessionOptions(cfg, log), log.With("component", "http"),
		),
		Asset: controller.NewAssetController(renderer, optimizer, log.With("component", "http")),
	}

	mux := http.NewServeMux()
	router.SetupRoutes(mux, controllers)

	return &App{
		Handler:  mux,
		Sessions: sessions,
		Renderer: renderer,
		cancel:   cancel,
	}, nil
}

// Close stops the janitor and closes every session
func (a *App) Close() {
	a.cancel()
	a.Sessions.CloseAll()
}

func janitorInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Second {
		return time.Second
	}
	if interval > 5*time.Minute {
		return 5 * time.Minute
	}
	return interval
}
