// Package app wires the service together: connection pool, click tracker,
// resolver, extractor and HTTP server are constructed here and passed down
// as explicit dependencies.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	api "github.com/imalyshev/shortlink/internal/api/http"
	"github.com/imalyshev/shortlink/internal/config"
	"github.com/imalyshev/shortlink/internal/database/postgres"
	"github.com/imalyshev/shortlink/internal/ogtags"
	"github.com/imalyshev/shortlink/internal/service"
	pgpool "github.com/imalyshev/shortlink/pkg/postgres"
)

func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	logger := newLogger(cfg.Env)

	db, err := pgpool.New(
		ctx,
		cfg.Postgres.DSN(),
		pgpool.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
		pgpool.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
		pgpool.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
		pgpool.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
	)
	if err != nil {
		return fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}
	defer db.Close()

	if err := pgpool.RunMigrations("file://migrations", cfg.Postgres.DSN()); err != nil {
		return fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	urlRepo := postgres.NewURLRepository(db)

	tracker := service.NewTracker(urlRepo, logger.Logger, cfg.Resolver.TrackerQueueSize)
	defer tracker.Close()

	resolver := service.NewResolver(urlRepo, tracker, cfg.Resolver.StaticRoutes)

	var extractor ogtags.MetadataExtractor = ogtags.NewExtractor(
		cfg.Extractor.Timeout,
		cfg.Extractor.UserAgent,
		logger.Logger,
	)

	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		extractor = ogtags.NewCachedExtractor(extractor, rdb, cfg.Extractor.CacheTTL, logger.Logger)
	}

	r := api.NewRouter(logger, resolver, extractor, api.RouterOptions{
		RedirectMaxAge:  cfg.Resolver.RedirectMaxAge,
		FastTableMaxAge: cfg.Resolver.FastTableMaxAge,
		FastStoreMaxAge: cfg.Resolver.FastStoreMaxAge,
	})

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        r,
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}

func newLogger(env string) *httplog.Logger {
	opts := httplog.Options{
		LogLevel: slog.LevelDebug,
		Concise:  true,
	}

	switch env {
	case config.EnvStage:
		opts = httplog.Options{
			LogLevel: slog.LevelDebug,
			JSON:     true,
		}
	case config.EnvProd:
		opts = httplog.Options{
			LogLevel: slog.LevelInfo,
			JSON:     true,
		}
	}

	return httplog.NewLogger("shortlink", opts)
}
