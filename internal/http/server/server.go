package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/autolink/internal/app"
	"github.com/dropDatabas3/autolink/internal/config"
	"github.com/dropDatabas3/autolink/internal/observability/logger"
)

// Serve corre el servidor hasta que ctx se cancela, luego hace un shutdown
// ordenado: deja de aceptar requests y espera los start del agente en vuelo.
func Serve(ctx context.Context, cfg *config.Config, a *app.App) error {
	log := logger.L().With(logger.Component("server"))

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           a.Handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.Error("http shutdown failed", logger.Err(err))
		}
		if err := a.Orchestrator.Wait(sctx); err != nil {
			log.Warn("automation still running at shutdown", logger.Err(err))
		}
		return nil
	})
	return g.Wait()
}
