package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/chethandvg/tenantmanagement/internal/application/billing"
	"github.com/chethandvg/tenantmanagement/internal/infrastructure/config"
	"github.com/chethandvg/tenantmanagement/internal/infrastructure/logger"
	"github.com/chethandvg/tenantmanagement/internal/infrastructure/persistence"
	"github.com/chethandvg/tenantmanagement/internal/interfaces/http/handler"
	"github.com/chethandvg/tenantmanagement/internal/interfaces/http/middleware"
	"github.com/chethandvg/tenantmanagement/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	chargeTypeRepo := persistence.NewGormChargeTypeRepository(db.DB)
	chargeRepo := persistence.NewGormRecurringChargeRepository(db.DB)
	ratePlanRepo := persistence.NewGormUtilityRatePlanRepository(db.DB)
	statementRepo := persistence.NewGormUtilityStatementRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	creditNoteRepo := persistence.NewGormCreditNoteRepository(db.DB)
	runRepo := persistence.NewGormInvoiceRunRepository(db.DB)
	sequenceRepo := persistence.NewGormSequenceRepository(db.DB)
	leaseRepo := persistence.NewGormLeaseRepository(db.DB)

	// Services
	aggregator := billingapp.NewChargeAggregator(chargeTypeRepo, chargeRepo, statementRepo)
	generator := billingapp.NewInvoiceGenerator(aggregator, invoiceRepo, leaseRepo)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, creditNoteRepo, sequenceRepo, leaseRepo)
	creditNoteService := billingapp.NewCreditNoteService(creditNoteRepo, invoiceRepo)
	statementService := billingapp.NewUtilityStatementService(statementRepo, ratePlanRepo)
	ratePlanService := billingapp.NewRatePlanService(ratePlanRepo)
	chargeService := billingapp.NewChargeService(chargeTypeRepo, chargeRepo)
	settingsService := billingapp.NewLeaseSettingsService(leaseRepo)
	orchestrator := billingapp.NewInvoiceRunOrchestrator(
		generator,
		runRepo,
		sequenceRepo,
		leaseRepo,
		cfg.Billing.RunWorkerCount,
		cfg.Billing.RunTimeout,
		log,
	)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.CORSWithConfig(corsCfg),
		middleware.OrgContext("/api/v1/system/health", "/api/v1/system/info"),
	)

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(handler.NewInvoiceHandler(invoiceService, generator)).
		Register(handler.NewCreditNoteHandler(creditNoteService)).
		Register(handler.NewInvoiceRunHandler(orchestrator)).
		Register(handler.NewChargeHandler(chargeService)).
		Register(handler.NewUtilityHandler(ratePlanService, statementService)).
		Register(handler.NewLeaseSettingsHandler(settingsService)).
		Register(handler.NewSystemHandler(db)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}
