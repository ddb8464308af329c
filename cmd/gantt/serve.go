package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/metalagman/gantt/internal/app"
	"github.com/metalagman/gantt/internal/config"
	"github.com/metalagman/gantt/internal/db"
	"github.com/metalagman/gantt/internal/timeline"
	"github.com/metalagman/gantt/internal/view"
	"github.com/metalagman/gantt/internal/web"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

const readHeaderTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repoRoot, err := os.Getwd()
			if err != nil {
				return err
			}
			cfg, err := loadConfig(repoRoot)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return runServer(cmd.Context(), newServerApp(cfg), cfg.Server.ShutdownTimeout)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config server.addr)")
	return cmd
}

func newServerApp(cfg config.Config, extra ...fx.Option) *fx.App {
	opts := []fx.Option{
		fx.NopLogger,
		fx.Supply(cfg),
		fx.Provide(
			provideStore,
			provideService,
			provideWebServer,
			provideHTTPServer,
		),
		fx.Invoke(func(*http.Server) {}),
	}
	return fx.New(append(opts, extra...)...)
}

func runServer(ctx context.Context, fxApp *fx.App, shutdownTimeout time.Duration) error {
	if err := fxApp.Err(); err != nil {
		return err
	}
	startCtx, cancel := context.WithTimeout(context.Background(), fxApp.StartTimeout())
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	select {
	case sig := <-fxApp.Wait():
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()
	return fxApp.Stop(stopCtx)
}

func provideStore(lc fx.Lifecycle, cfg config.Config) (*db.Store, error) {
	conn, err := db.Open(cfg.DBPath())
	if err != nil {
		return nil, err
	}
	store := db.NewStore(conn)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return store.Close() },
	})
	return store, nil
}

func provideService(cfg config.Config, store *db.Store) (*app.Service, error) {
	return newService(cfg, store)
}

func provideWebServer(cfg config.Config, svc *app.Service) (*web.Server, error) {
	sort, err := view.ParseSortKey(cfg.Chart.SortBy)
	if err != nil {
		return nil, err
	}
	colorBy, err := timeline.ParseColorBy(cfg.Chart.ColorBy)
	if err != nil {
		return nil, err
	}
	return web.NewServer(svc, web.Defaults{
		Sort:              sort,
		ColorBy:           colorBy,
		HighlightCritical: cfg.Chart.HighlightCritical,
	})
}

func provideHTTPServer(lc fx.Lifecycle, cfg config.Config, ws *web.Server) *http.Server {
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           ws.Routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
			log.Info().Msgf("serving UI on http://%s", ln.Addr())
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Msg("http server stopped")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
	return srv
}
