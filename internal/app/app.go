package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"golang.org/x/sync/errgroup"

	myhttp "github.com/ndanilin/golinks/internal/api/http"
	"github.com/ndanilin/golinks/internal/auth"
	"github.com/ndanilin/golinks/internal/config"
	"github.com/ndanilin/golinks/internal/database"
	"github.com/ndanilin/golinks/internal/database/redis"
	"github.com/ndanilin/golinks/internal/metadata"
	"github.com/ndanilin/golinks/internal/ratelimit"
	"github.com/ndanilin/golinks/internal/service"
)

func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	kv, err := redis.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("%s: failed to connect to redis: %w", op, err)
	}
	defer kv.Close()

	logger := httplog.NewLogger("golinks", httplog.Options{
		LogLevel: slog.LevelInfo,
		Concise:  cfg.Env != config.EnvProd,
		JSON:     cfg.Env == config.EnvProd,
	})

	repo := database.NewRecordRepository(kv)
	fetcher := metadata.NewFetcher(cfg.MetadataTimeout)
	svc := service.NewURLService(repo, fetcher)
	limiter := ratelimit.New(kv)
	authn := auth.New(cfg.Secret)

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr(),
		Handler:      myhttp.NewRouter(logger, cfg, svc, limiter, authn),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
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
