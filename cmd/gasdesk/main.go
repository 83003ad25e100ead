package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gasdesk/gasdesk/db"
	"github.com/gasdesk/gasdesk/internal/app"
	"github.com/gasdesk/gasdesk/internal/dealer"
	"github.com/gasdesk/gasdesk/internal/invoice"
	"github.com/gasdesk/gasdesk/internal/memo"
	"github.com/gasdesk/gasdesk/internal/platform/cache"
	platformdb "github.com/gasdesk/gasdesk/internal/platform/db"
	"github.com/gasdesk/gasdesk/internal/records"
	"github.com/gasdesk/gasdesk/internal/shared"
	"github.com/gasdesk/gasdesk/internal/view"
	"github.com/gasdesk/gasdesk/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		slog.Default().Info("no .env file, relying on environment")
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if err := db.RunMigrations(cfg.PGDSN, cfg.MigrationsPath); err != nil {
		logger.Error("run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	dbpool, err := platformdb.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "gasdesk_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	auditLogger := shared.NewAuditLogger(dbpool)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	invoiceRepo := invoice.NewRepository(dbpool)
	invoiceService := invoice.NewService(invoiceRepo)
	invoiceHandler := invoice.NewHandler(logger, invoiceService)

	dealerRepo := dealer.NewRepository(dbpool)
	dealerService := dealer.NewService(dealerRepo, auditLogger, logger)
	dealerService.SetCommitter(dealer.SectionRates, invoiceService.CommitRatesPayload)
	dealerHandler := dealer.NewHandler(logger, dealerService, sessionManager, dealer.AdminCredentials{
		Code: cfg.AdminCode,
		PIN:  cfg.AdminPIN,
	})

	recordsService := records.NewService(logger)
	recordsHandler := records.NewHandler(logger, recordsService)

	reportClient := report.NewClient(cfg.GotenbergURL)
	if err := reportClient.Ping(ctx); err != nil {
		logger.Warn("gotenberg unreachable, pdf output degraded", slog.Any("error", err))
	}
	memoService := memo.NewService(logger, recordsService, dealerService, templates, reportClient)
	memoHandler := memo.NewHandler(logger, memoService)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		DealerHandler:  dealerHandler,
		RecordsHandler: recordsHandler,
		InvoiceHandler: invoiceHandler,
		MemoHandler:    memoHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
