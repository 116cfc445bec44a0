package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	"github.com/Siddarth2230/kiters/internal/config"
	"github.com/Siddarth2230/kiters/internal/handler"
	"github.com/Siddarth2230/kiters/internal/middleware"
	"github.com/Siddarth2230/kiters/internal/repository"
	"github.com/Siddarth2230/kiters/internal/service"
	"github.com/Siddarth2230/kiters/pkg/cache"
	"github.com/Siddarth2230/kiters/pkg/idgen"
	"github.com/Siddarth2230/kiters/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := logging.New(cfg.Logging())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("kitersd stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	// One generator per width/mode, owned here and shared by reference.
	generators := make([]*idgen.Generator, 0, 4)
	for _, w := range []idgen.Width{idgen.Narrow, idgen.Wide} {
		for _, mixed := range []bool{false, true} {
			g, err := idgen.New(w, mixed)
			if err != nil {
				return err
			}
			generators = append(generators, g)
		}
	}
	rids := service.NewRequestIDService(generators...)
	requestGen, err := requestGenerator(rids, cfg.Width(), cfg.RequestIDMixed)
	if err != nil {
		return err
	}

	var store service.Store
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}
		repo := repository.NewExternalIDRepository(db, logger)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		store = repo
		logger.Info("postgres store enabled")
	} else {
		logger.Warn("KITERS_DATABASE_URL not set, external ids are kept in memory only")
	}

	var l2 *cache.RedisCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:        cfg.RedisAddr,
			Password:    cfg.RedisPassword,
			DB:          cfg.RedisDB,
			DialTimeout: 5 * time.Second,
			ReadTimeout: 3 * time.Second,
		})
		defer func() {
			_ = client.Close()
		}()

		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		l2 = cache.NewRedisCache(client, service.ExternalIDKeyPrefix, cfg.CacheTTL)
		logger.Info("redis cache enabled", "addr", cfg.RedisAddr)
	}

	eids := service.NewExternalIDService(store, l2, cfg.CacheSize, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newHTTPHandler(requestGen, rids, eids, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"addr", cfg.HTTPAddr,
			"request_id_width", cfg.Width().String(),
			"request_id_mixed", cfg.RequestIDMixed,
		)
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

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestGenerator picks the generator that tags HTTP requests.
func requestGenerator(rids *service.RequestIDService, w idgen.Width, mixed bool) (*idgen.Generator, error) {
	gen, ok := rids.Generator(w, mixed)
	if !ok {
		return nil, fmt.Errorf("request id generator %s (mixed=%t): %w", w, mixed, service.ErrGeneratorNotServed)
	}
	return gen, nil
}

// newHTTPHandler wraps the router itself so requests no route matches are
// still tagged and counted.
func newHTTPHandler(gen *idgen.Generator, rids *service.RequestIDService, eids *service.ExternalIDService, logger *slog.Logger) http.Handler {
	r := mux.NewRouter()
	handler.New(rids, eids, logger).Register(r)
	return middleware.RequestID(gen, logger)(middleware.Metrics(r))
}
