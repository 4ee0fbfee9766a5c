package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/aklinic/internal/audit"
	"github.com/BruksfildServices01/aklinic/internal/auth"
	"github.com/BruksfildServices01/aklinic/internal/config"
	dbpkg "github.com/BruksfildServices01/aklinic/internal/db"
	infraRepo "github.com/BruksfildServices01/aklinic/internal/infra/repository"
	"github.com/BruksfildServices01/aklinic/internal/logging"
	"github.com/BruksfildServices01/aklinic/internal/metrics"
	"github.com/BruksfildServices01/aklinic/internal/middleware"
	"github.com/BruksfildServices01/aklinic/internal/notify"
	"github.com/BruksfildServices01/aklinic/internal/receipts"
	"github.com/BruksfildServices01/aklinic/internal/reminder"
	"github.com/BruksfildServices01/aklinic/internal/routes"
	"github.com/BruksfildServices01/aklinic/internal/timezone"
	ucVisit "github.com/BruksfildServices01/aklinic/internal/usecase/visit"
)

func newServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), config.Load(), migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", true, "run schema migration before serving")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, migrate bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set; staff login will fail")
	}

	if !timezone.IsValid(cfg.ClinicTimezone) {
		log.Warn().Str("timezone", cfg.ClinicTimezone).Msg("invalid CLINIC_TIMEZONE, using UTC")
	}
	calendar := ucVisit.NewCalendar(timezone.Location(cfg.ClinicTimezone))

	// ======================================================
	// 🔧 INFRA
	// ======================================================
	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return err
	}
	if migrate {
		if err := dbpkg.Migrate(db); err != nil {
			return err
		}
	}

	var rdb redis.Cmdable
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()
		rdb = client
	} else {
		log.Info().Msg("REDIS_ADDR not set, login rate limit disabled")
	}

	var archiver *receipts.S3Archiver
	if cfg.S3Bucket != "" {
		archiver = receipts.NewS3Archiver(receipts.NewS3Client(receipts.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.AWSAccessKeyID,
			SecretKey: cfg.AWSSecretKey,
		}), cfg.S3Bucket)
	}

	m := metrics.New()

	sender := notify.NewTelegramSender(cfg.TelegramAPIBase, cfg.TelegramBotToken, cfg.TelegramChatID)
	if !sender.Enabled() {
		log.Info().Msg("telegram not configured, notifications are no-ops")
	}
	notifier := notify.NewDispatcher(sender, log, m)
	defer notifier.Close()

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)
	defer auditDispatcher.Close()

	guard := auth.NewGuard(
		auth.NewCodec(cfg.JWTSecret),
		auth.CookieGateway{Secure: cfg.IsProduction()},
		infraRepo.NewUserGormRepository(db),
	)

	followUps := reminder.NewFollowUps(
		infraRepo.NewVisitGormRepository(db),
		notifier,
		calendar,
		log,
	)
	scheduler, err := followUps.Start(cfg.ReminderAt)
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	// ======================================================
	// 🌍 HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.CORSMiddleware(cfg.CORSOrigins),
		gzip.Gzip(gzip.DefaultCompression),
		m.Middleware(),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	if err := routes.RegisterRoutes(r, routes.Dependencies{
		DB:       db,
		Guard:    guard,
		Calendar: calendar,
		Notifier: notifier,
		Audit:    auditDispatcher,
		Metrics:  m,
		Redis:    rdb,
		Archiver: archiver,
		Logger:   log,
		LoginRateLimit: middleware.RateLimitConfig{
			Limit:  cfg.LoginRateLimit,
			Window: cfg.LoginRateWindow,
		},
	}); err != nil {
		return fmt.Errorf("register routes: %w", err)
	}

	return run(ctx, &http.Server{Addr: cfg.Addr(), Handler: r}, cfg, log)
}

func run(ctx context.Context, srv *http.Server, cfg *config.Config, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
