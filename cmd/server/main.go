// @title           Face Fortune Backend API
// @version         1.0.0
// @description     Backend API for face-reading reports: photo analysis, per-type report generation, payment confirmation with automatic retries, and report unlocking.

// @contact.name   API Support

// @host      localhost:8080
// @BasePath  /

package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"face-fortune-backend/docs"
	"face-fortune-backend/internal/analytics"
	"face-fortune-backend/internal/config"
	"face-fortune-backend/internal/database"
	"face-fortune-backend/internal/fortune"
	"face-fortune-backend/internal/handlers"
	"face-fortune-backend/internal/payments"
	"face-fortune-backend/internal/report"
	"face-fortune-backend/internal/saju"
	"face-fortune-backend/internal/session"
	"face-fortune-backend/internal/store"
	"face-fortune-backend/internal/supabase"
	"face-fortune-backend/internal/unlock"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.BaseURL != "" {
		if baseURL, err := url.Parse(cfg.BaseURL); err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	migrator, err := database.NewMigrator(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("failed to initialize migrator", zap.Error(err))
	}
	if err := migrator.Run(); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	migrator.Close()

	db, err := store.Open(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Validate(ctx); err != nil {
		logger.Warn("record validation failed", zap.Error(err))
	}
	cancel()

	fortuneClient := fortune.NewClient(cfg.FortuneAPIBaseURL)
	sajuClient := saju.NewClient(cfg.SajuAPIBaseURL)
	tossClient := payments.NewClient(cfg.PaymentAPIBaseURL)
	events := analytics.NewClient(cfg.MixpanelAPIURL, cfg.MixpanelToken, logger)

	var images *supabase.StorageClient
	var mirror *supabase.Mirror
	if cfg.MirrorEnabled() {
		images, err = supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseStorageBucket)
		if err != nil {
			logger.Warn("supabase storage unavailable", zap.Error(err))
		}
		mirror, err = supabase.NewMirror(cfg.SupabaseURL, cfg.SupabaseKey, logger)
		if err != nil {
			logger.Warn("supabase mirror unavailable", zap.Error(err))
		}
	}

	var marker unlock.Marker = db
	if mirror != nil {
		marker = unlock.NewMirroredMarker(db, mirror, logger)
	}

	machine := unlock.NewMachine(tossClient, marker, events, logger)
	renderer := report.NewRenderer(db, fortuneClient, sajuClient, events, logger, cfg.BaseURL, cfg.TossClientKey)

	uploadHandler := handlers.NewUploadHandler(fortuneClient, db, images, mirror, events, logger)
	reportHandler := handlers.NewReportHandler(renderer)
	paymentHandler := handlers.NewPaymentHandler(machine, events)
	historyHandler := handlers.NewHistoryHandler(db)
	sajuHandler := handlers.NewSajuHandler(sajuClient, db, events)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(session.Middleware(cfg.SessionJWTSecret))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/payment/success", paymentHandler.Success)
	router.GET("/payment/fail", paymentHandler.Fail)

	api := router.Group("/api/v1")
	api.POST("/face/upload", uploadHandler.UploadFace)
	api.GET("/face/records", historyHandler.List)
	api.POST("/couple/upload", uploadHandler.UploadCouple)
	api.GET("/reports/:type", reportHandler.Get)
	api.POST("/saju/compute", sajuHandler.Compute)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown incomplete", zap.Error(err))
	}
}
