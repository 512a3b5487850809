package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sales-ops-api/internal/repository"
	"github.com/noah-isme/sales-ops-api/internal/service"
	"github.com/noah-isme/sales-ops-api/pkg/cache"
	"github.com/noah-isme/sales-ops-api/pkg/config"
	"github.com/noah-isme/sales-ops-api/pkg/database"
	"github.com/noah-isme/sales-ops-api/pkg/jobs"
	"github.com/noah-isme/sales-ops-api/pkg/logger"
)

// @title Sales Ops API
// @version 1.0.0
// @description Sales interaction and permission approval workflows
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	redisClient := cache.Optional(ctx, cfg.Redis, cfg.Cache.Enabled || cfg.Notifications.PushEnabled, logr)
	if redisClient != nil {
		defer redisClient.Close()
	}

	metricsSvc := service.NewMetricsService()
	transactor := database.NewTransactor(db, logr, metricsSvc)

	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	cacheSvc := service.NewCacheService(repository.NewCacheRepository(redisClient, logr), metricsSvc, cfg.Cache.EmployeeTTL, logr, cfg.Cache.Enabled && redisClient != nil)
	employeeSvc := service.NewEmployeeService(employeeRepo, cacheSvc, logr)

	var publisher *repository.PushPublisher
	if cfg.Notifications.PushEnabled && redisClient != nil {
		publisher = repository.NewPushPublisher(redisClient, cfg.Notifications.PushChannelPrefix)
	}
	notificationSvc := service.NewNotificationService(notificationRepo, employeeSvc, publisher, metricsSvc, logr)

	pushQueue := jobs.NewQueue("notifications.push", notificationSvc.DeliverPush, jobs.QueueConfig{
		Workers:    cfg.Notifications.PushWorkers,
		BufferSize: cfg.Notifications.PushBufferSize,
		MaxRetries: cfg.Notifications.PushMaxRetries,
		RetryDelay: cfg.Notifications.PushRetryDelay,
		Logger:     logr,
	})
	if publisher != nil {
		pushQueue.Start(ctx)
		defer pushQueue.Stop()
		notificationSvc.SetPushQueue(pushQueue)
	}

	managers := managerRoles(cfg.Workflow)

	validate := validator.New()
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	interactionSvc := service.NewInteractionService(service.InteractionServiceDeps{
		Transactor:    transactor,
		Clients:       repository.NewClientRepository(db),
		Opportunities: repository.NewOpportunityRepository(db),
		Interactions:  repository.NewInteractionRepository(db),
		Tasks:         repository.NewTaskRepository(db),
		Notifier:      notificationSvc,
		ManagerRoles:  managers,
		Validator:     validate,
		Metrics:       metricsSvc,
		Logger:        logr,
	})
	permissionSvc := service.NewPermissionService(service.PermissionServiceDeps{
		Transactor:   transactor,
		Permissions:  repository.NewPermissionRepository(db),
		Attendance:   repository.NewAttendanceRepository(db),
		Employees:    employeeSvc,
		Notifier:     notificationSvc,
		ManagerRoles: managers,
		Validator:    validate,
		Metrics:      metricsSvc,
		Logger:       logr,
	})

	r := newRouter(cfg, logr, routerDeps{
		auth:          authSvc,
		audit:         userRepo,
		interactions:  interactionSvc,
		permissions:   permissionSvc,
		notifications: notificationSvc,
		metrics:       metricsSvc,
		db:            db,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
