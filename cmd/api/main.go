package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/alcotrade/alcotrade-cms/api/controllers"
	"github.com/alcotrade/alcotrade-cms/api/routes"
	"github.com/alcotrade/alcotrade-cms/internal/auth"
	"github.com/alcotrade/alcotrade-cms/internal/brands"
	"github.com/alcotrade/alcotrade-cms/internal/media"
	"github.com/alcotrade/alcotrade-cms/internal/partners"
	product "github.com/alcotrade/alcotrade-cms/internal/products"
	"github.com/alcotrade/alcotrade-cms/internal/profile"
	"github.com/alcotrade/alcotrade-cms/internal/sitesettings"
	"github.com/alcotrade/alcotrade-cms/internal/users"
	"github.com/alcotrade/alcotrade-cms/pkg/auth/session"
	"github.com/alcotrade/alcotrade-cms/pkg/config"
	"github.com/alcotrade/alcotrade-cms/pkg/db"
	"github.com/alcotrade/alcotrade-cms/pkg/env"
	"github.com/alcotrade/alcotrade-cms/pkg/logger"
	"github.com/alcotrade/alcotrade-cms/pkg/metrics"
	"github.com/alcotrade/alcotrade-cms/pkg/migrate"
	"github.com/alcotrade/alcotrade-cms/pkg/redis"
	"github.com/alcotrade/alcotrade-cms/pkg/storage"
	"github.com/alcotrade/alcotrade-cms/pkg/storage/provider"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "alcotrade-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "alcotrade-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	exitOnErr(ctx, logg, "failed to bootstrap database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	exitOnErr(ctx, logg, "failed to run dev migrations", migrate.MaybeRunDev(ctx, cfg, logg, dbClient))

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	exitOnErr(ctx, logg, "failed to bootstrap redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	exitOnErr(ctx, logg, "failed to create session manager", err)

	store, err := provider.New(ctx, cfg, logg)
	exitOnErr(ctx, logg, "failed to bootstrap object storage", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	cmsMetrics := metrics.NewCMSMetrics(registry)

	services, err := buildServices(cfg, logg, dbClient, redisClient, sessionManager, store, cmsMetrics)
	exitOnErr(ctx, logg, "failed to build services", err)

	handler := routes.NewRouter(cfg, logg, routes.Infra{
		Sessions:    sessionManager,
		RateLimiter: redisClient,
		Registry:    registry,
		HTTPMetrics: httpMetrics,
		Readiness: map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
		},
	}, services)

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx = logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"storage": cfg.Storage.Provider,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			stop()
		}
	}()

	<-ctx.Done()
	logg.Info(context.Background(), "shutting down api server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "graceful shutdown failed", err)
	}
}

func buildServices(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	sessionManager *session.Manager,
	store storage.ObjectStore,
	counters *metrics.CMSMetrics,
) (routes.Services, error) {
	gdb := dbClient.DB()
	usersRepo := users.NewRepository(gdb)

	authSvc, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		return routes.Services{}, err
	}

	mediaSvc, err := media.NewService(dbClient, media.NewRepository(gdb), store, media.Options{
		DefaultFolder:  cfg.Storage.DefaultFolder,
		MaxUploadBytes: cfg.Media.MaxUploadBytes(),
	}, logg, counters)
	if err != nil {
		return routes.Services{}, err
	}

	productSvc, err := product.NewService(product.NewRepository(gdb), dbClient, counters)
	if err != nil {
		return routes.Services{}, err
	}

	brandSvc, err := brands.NewService(brands.NewRepository(gdb), dbClient, redisClient, cfg.Redis.CacheTTL, logg, counters)
	if err != nil {
		return routes.Services{}, err
	}

	partnerSvc, err := partners.NewService(partners.NewRepository(gdb), mediaSvc, logg)
	if err != nil {
		return routes.Services{}, err
	}

	userSvc, err := users.NewService(usersRepo, cfg.Password, cfg.Media.DefaultUserImage)
	if err != nil {
		return routes.Services{}, err
	}

	profileSvc, err := profile.NewService(usersRepo, mediaSvc, profile.Options{
		RootFolder:    cfg.Storage.DefaultFolder,
		DefaultAvatar: cfg.Media.DefaultUserImage,
		MaxBytes:      cfg.Media.MaxAvatarBytes(),
	}, logg)
	if err != nil {
		return routes.Services{}, err
	}

	settingsSvc, err := sitesettings.NewService(sitesettings.NewRepository(gdb), mediaSvc, sitesettings.Options{
		RootFolder: cfg.Storage.DefaultFolder,
		MaxOGBytes: cfg.Media.MaxOGImageBytes(),
	}, logg)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:         authSvc,
		Products:     productSvc,
		Brands:       brandSvc,
		Media:        mediaSvc,
		Partners:     partnerSvc,
		Users:        userSvc,
		Profile:      profileSvc,
		SiteSettings: settingsSvc,
	}, nil
}

func exitOnErr(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, msg, err)
	os.Exit(1)
}
