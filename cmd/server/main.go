package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"ohlcv_dashboard/internal/app/di"
	"ohlcv_dashboard/internal/app/router"
	authadapters "ohlcv_dashboard/internal/feature/auth/adapters"
	authhandler "ohlcv_dashboard/internal/feature/auth/transport/handler"
	authusecase "ohlcv_dashboard/internal/feature/auth/usecase"
	ohlcvadapters "ohlcv_dashboard/internal/feature/ohlcv/adapters"
	ohlcvhandler "ohlcv_dashboard/internal/feature/ohlcv/transport/handler"
	ohlcvusecase "ohlcv_dashboard/internal/feature/ohlcv/usecase"
	"ohlcv_dashboard/internal/platform/config"
	infradb "ohlcv_dashboard/internal/platform/db"
	"ohlcv_dashboard/internal/platform/http/handler"
	jwtmw "ohlcv_dashboard/internal/platform/jwt"
	"ohlcv_dashboard/internal/platform/logging"
	infraredis "ohlcv_dashboard/internal/platform/redis"
	"ohlcv_dashboard/internal/platform/scheduler"
	"ohlcv_dashboard/internal/shared/ratelimiter"
)

const (
	loginAttemptsPerMinute = 10
	uploadSweepCron        = "0 0 * * * *"
)

func main() {
	// 設定
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.NewLogger(cfg.LogLevel))

	creds, err := config.LoadCredentials(cfg.CredentialsFile)
	if err != nil {
		if errors.Is(err, config.ErrMissingCredentialsFile) {
			slog.Error("credentials file not found; run gencreds first", "path", cfg.CredentialsFile)
		} else {
			slog.Error("failed to load credentials", "path", cfg.CredentialsFile, "error", err)
		}
		os.Exit(1)
	}

	// db
	db, err := infradb.OpenDB(infradb.LoadConfigFromEnv(), di.Models()...)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(infraredis.LoadConfig()); err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// Repository
	sessionRepo := di.NewSessionRepository(rdb, db)
	credentialRepo := authadapters.NewCredentialStore(creds)
	uploadStore := di.NewUploadStore(rdb, db, cfg.IdleTimeout)

	// Usecase
	guard := authusecase.NewSessionGuard(credentialRepo, sessionRepo, authusecase.Options{
		IdleTimeout: cfg.IdleTimeout,
		SessionTTL:  creds.Cookie.Expiry(),
	})
	dashboard := ohlcvusecase.NewDashboard(
		ohlcvusecase.NewLoader(ohlcvadapters.NewSampleFile(cfg.SampleDataFile)),
		uploadStore,
	)

	// Handler
	codec := jwtmw.NewCodec(creds.Cookie.Key, creds.Cookie.Expiry())
	authH := authhandler.NewAuthHandler(guard, codec, ratelimiter.NewRateLimiter(loginAttemptsPerMinute, time.Minute), authhandler.CookieOptions{
		Name:   creds.Cookie.Name,
		MaxAge: creds.Cookie.Expiry(),
		Secure: cfg.CookieSecure,
	})
	dashboardH := ohlcvhandler.NewDashboardHandler(dashboard, cfg.MaxUploadBytes)
	healthH := handler.NewHealthHandler(healthChecks(db, rdb))

	// 定期メンテナンス
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sched := scheduler.NewScheduler(ctx, 0)
	if err := sched.Register("session-sweep", cfg.SessionSweepCron, sessionRepo.DeleteExpired); err != nil {
		slog.Error("failed to schedule session sweep", "error", err)
		os.Exit(1)
	}
	if err := sched.Register("upload-sweep", uploadSweepCron, func(ctx context.Context) (int64, error) {
		return uploadStore.DeleteOlderThan(ctx, time.Now().Add(-creds.Cookie.Expiry()))
	}); err != nil {
		slog.Error("failed to schedule upload sweep", "error", err)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	// ルータ生成
	r := router.NewRouter(healthH, authH, dashboardH, jwtmw.CookieRequired(creds.Cookie.Name, codec))

	slog.Info("server starting", "port", cfg.Port, "credentials", cfg.CredentialsFile, "redis", rdb != nil)
	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("server stopped", "error", err)
	}
}
