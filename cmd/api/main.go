package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/catalog-api/api/routes"
	"github.com/angelmondragon/catalog-api/internal/items"
	"github.com/angelmondragon/catalog-api/internal/users"
	"github.com/angelmondragon/catalog-api/pkg/config"
	"github.com/angelmondragon/catalog-api/pkg/db"
	"github.com/angelmondragon/catalog-api/pkg/instance"
	"github.com/angelmondragon/catalog-api/pkg/logger"
	"github.com/angelmondragon/catalog-api/pkg/metrics"
	"github.com/angelmondragon/catalog-api/pkg/security"
)

type repositories struct {
	items items.Repository
	users users.Repository
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openRepositories(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap record store", err)
		os.Exit(1)
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	records := metrics.NewStoreMetrics(reg)
	seedRecordGauge(ctx, logg, records, repos)

	itemService, err := items.NewService(items.ServiceParams{Repo: repos.items, Metrics: records, Logger: logg})
	if err != nil {
		logg.Error(ctx, "failed to create item service", err)
		os.Exit(1)
	}
	userService, err := users.NewService(users.ServiceParams{
		Repo:    repos.users,
		Hasher:  security.NewHasher(cfg.Password),
		Metrics: records,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create user service", err)
		os.Exit(1)
	}

	addr := ":" + cfg.App.Port
	startCtx := logg.WithFields(ctx, map[string]any{
		"project":  cfg.App.ProjectName,
		"version":  cfg.App.Version,
		"env":      cfg.App.Env,
		"debug":    cfg.App.Debug,
		"store":    cfg.DB.Driver(),
		"addr":     addr,
		"instance": instance.ID(),
	})
	logg.Info(startCtx, "starting api server")

	server := &http.Server{
		Addr:         addr,
		Handler:      routes.NewRouter(cfg, logg, reg, metrics.NewHTTPMetrics(reg), itemService, userService),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(startCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
		return
	case <-ctx.Done():
	}

	logg.Info(startCtx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(startCtx, "graceful shutdown failed", err)
	}
}

// openRepositories keeps records in process memory unless DATABASE_URL names
// a sqlite or postgres database.
func openRepositories(ctx context.Context, cfg *config.Config, logg *logger.Logger) (repositories, func(), error) {
	if cfg.DB.Driver() == config.DriverMemory {
		return repositories{
			items: items.NewMemoryRepository(),
			users: users.NewMemoryRepository(),
		}, func() {}, nil
	}

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return repositories{}, nil, err
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}

	if err := client.Ping(ctx); err != nil {
		closeFn()
		return repositories{}, nil, err
	}
	if err := client.Migrate(ctx, append(items.Models(), users.Models()...)...); err != nil {
		closeFn()
		return repositories{}, nil, err
	}

	conn := client.DB(ctx)
	return repositories{
		items: items.NewSQLRepository(conn),
		users: users.NewSQLRepository(conn),
	}, closeFn, nil
}

func seedRecordGauge(ctx context.Context, logg *logger.Logger, records *metrics.StoreMetrics, repos repositories) {
	if n, err := repos.items.Count(ctx); err != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "failed to count items")
	} else {
		records.Set(items.Resource, n)
	}
	if n, err := repos.users.Count(ctx); err != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "failed to count users")
	} else {
		records.Set(users.Resource, n)
	}
}
