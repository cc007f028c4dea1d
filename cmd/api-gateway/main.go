package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/edu-admin-api/api/swagger"
	"github.com/noah-isme/edu-admin-api/internal/handler"
	"github.com/noah-isme/edu-admin-api/internal/middleware"
	"github.com/noah-isme/edu-admin-api/internal/repository"
	"github.com/noah-isme/edu-admin-api/internal/service"
	"github.com/noah-isme/edu-admin-api/pkg/cache"
	"github.com/noah-isme/edu-admin-api/pkg/config"
	"github.com/noah-isme/edu-admin-api/pkg/database"
	"github.com/noah-isme/edu-admin-api/pkg/export"
	"github.com/noah-isme/edu-admin-api/pkg/jobs"
	"github.com/noah-isme/edu-admin-api/pkg/logger"
	"github.com/noah-isme/edu-admin-api/pkg/mailer"
	corsmiddleware "github.com/noah-isme/edu-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/edu-admin-api/pkg/middleware/requestid"
)

// @title Edu Admin API
// @version 1.0.0
// @description Administrative backend for course and diploma management
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, summary cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	sender := mailer.NewSMTPSender(cfg.SMTP)

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	instructorRepo := repository.NewInstructorRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	historyRepo := repository.NewPaymentHistoryRepository(db)
	refundRepo := repository.NewRefundRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	reportRepo := repository.NewReportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Summary.CacheTTL, logr,
		cfg.Summary.CacheEnabled && redisClient != nil)

	accessSvc := service.NewAccessService(staffRepo, studentRepo, instructorRepo, validate, logr, service.AccessTokenConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	summarySvc := service.NewStudentSummaryService(enrollmentRepo, courseRepo, paymentRepo, historyRepo, cacheSvc, cfg.Summary.CacheTTL, logr)
	occupancySvc := service.NewCourseOccupancyService(instructorRepo, courseRepo, enrollmentRepo, sender, logr)

	studentSvc := service.NewStudentService(studentRepo, userRepo, validate, logr)
	instructorSvc := service.NewInstructorService(instructorRepo, userRepo, validate, logr)
	staffSvc := service.NewStaffService(staffRepo, userRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, instructorRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, studentRepo, courseRepo, validate, logr)
	paymentSvc := service.NewPaymentService(paymentRepo, enrollmentRepo, validate, logr)
	historySvc := service.NewPaymentHistoryService(historyRepo, paymentRepo, validate, logr)
	refundSvc := service.NewRefundService(refundRepo, paymentRepo, validate, logr)
	reportSvc := service.NewReportService(reportRepo, export.NewCSVExporter(), export.NewPDFExporter(), validate, logr)

	var notificationSvc *service.NotificationService
	queue := jobs.NewQueue("notifications", func(ctx context.Context, d jobs.Delivery) error {
		return notificationSvc.Deliver(ctx, d)
	}, jobs.QueueConfig{
		Workers: cfg.Notifications.WorkerCount,
		Logger:  logr,
	})
	notificationSvc = service.NewNotificationService(notificationRepo, queue, sender, validate, logr)

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Notifications.DispatchEnabled {
		queue.Start(rootCtx)
		defer queue.Stop()
		go dispatchLoop(rootCtx, notificationSvc, cfg.Notifications.DispatchInterval, logr)
	}

	accessHandler := handler.NewAccessHandler(accessSvc)
	studentHandler := handler.NewStudentHandler(studentSvc, summarySvc)
	instructorHandler := handler.NewInstructorHandler(instructorSvc, occupancySvc)
	staffHandler := handler.NewStaffHandler(staffSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	historyHandler := handler.NewPaymentHistoryHandler(historySvc)
	refundHandler := handler.NewRefundHandler(refundSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/access/check", accessHandler.Check)

		api.GET("/students", studentHandler.List)
		api.POST("/students", studentHandler.Create)
		api.GET("/students/:id", studentHandler.Get)
		api.PUT("/students/:id", studentHandler.Update)
		api.DELETE("/students/:id", studentHandler.Delete)
		api.GET("/students/:id/summary", studentHandler.Summary)

		api.GET("/instructors", instructorHandler.List)
		api.POST("/instructors", instructorHandler.Create)
		api.GET("/instructors/:id", instructorHandler.Get)
		api.PUT("/instructors/:id", instructorHandler.Update)
		api.DELETE("/instructors/:id", instructorHandler.Delete)
		api.GET("/instructors/:id/courses", instructorHandler.Courses)

		api.GET("/staff", staffHandler.List)
		api.POST("/staff", staffHandler.Create)
		api.GET("/staff/:id", staffHandler.Get)
		api.PUT("/staff/:id", staffHandler.Update)
		api.DELETE("/staff/:id", staffHandler.Delete)

		api.GET("/courses", courseHandler.List)
		api.POST("/courses", courseHandler.Create)
		api.GET("/courses/:id", courseHandler.Get)
		api.PUT("/courses/:id", courseHandler.Update)
		api.DELETE("/courses/:id", courseHandler.Delete)

		api.GET("/enrollments", enrollmentHandler.List)
		api.POST("/enrollments", enrollmentHandler.Create)
		api.GET("/enrollments/:id", enrollmentHandler.Get)
		api.PUT("/enrollments/:id", enrollmentHandler.Update)
		api.DELETE("/enrollments/:id", enrollmentHandler.Delete)

		api.GET("/payments", paymentHandler.List)
		api.POST("/payments", paymentHandler.Create)
		api.GET("/payments/by-enrollment/:enrollmentID", paymentHandler.ListByEnrollment)
		api.GET("/payments/:id", paymentHandler.Get)
		api.PUT("/payments/:id", paymentHandler.Update)
		api.PATCH("/payments/:id/status", paymentHandler.UpdateStatus)
		api.DELETE("/payments/:id", paymentHandler.Delete)

		api.GET("/payment-histories", historyHandler.List)
		api.POST("/payment-histories", historyHandler.Create)
		api.GET("/payment-histories/:id", historyHandler.Get)
		api.PUT("/payment-histories/:id", historyHandler.Update)
		api.DELETE("/payment-histories/:id", historyHandler.Delete)

		api.GET("/refunds", refundHandler.List)
		api.POST("/refunds", refundHandler.Create)
		api.GET("/refunds/:id", refundHandler.Get)
		api.PUT("/refunds/:id", refundHandler.Resolve)
		api.DELETE("/refunds/:id", refundHandler.Delete)

		api.GET("/notifications", notificationHandler.List)
		api.POST("/notifications", notificationHandler.Create)
		api.POST("/notifications/dispatch", notificationHandler.Dispatch)
		api.GET("/notifications/:id", notificationHandler.Get)
		api.PUT("/notifications/:id", notificationHandler.Update)
		api.DELETE("/notifications/:id", notificationHandler.Delete)

		api.GET("/reports", reportHandler.List)
		api.POST("/reports", reportHandler.Create)
		api.GET("/reports/:id", reportHandler.Get)
		api.GET("/reports/:id/export", reportHandler.Export)
		api.PUT("/reports/:id", reportHandler.Update)
		api.DELETE("/reports/:id", reportHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Sugar().Infow("server shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}

// dispatchLoop periodically queues pending notifications for delivery.
func dispatchLoop(ctx context.Context, notifications *service.NotificationService, interval time.Duration, logr *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := notifications.DispatchPending(ctx, 50); err != nil {
				logr.Warn("notification dispatch failed", zap.Error(err))
			}
		}
	}
}
