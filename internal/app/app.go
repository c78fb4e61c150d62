package app

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"kindremind/internal/config"
)

type App struct {
	httpServer *http.Server
	cleanup    func() error
}

// New connects storage and builds the HTTP server. Token configuration
// errors surface here, before anything listens.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	inf, err := setupInfra(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	router, err := setupHTTP(cfg, inf, log)
	if err != nil {
		_ = inf.close()
		return nil, err
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		httpServer: server,
		cleanup:    inf.close,
	}, nil
}

func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

func (a *App) Run() error {
	return a.httpServer.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
