package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/studypulse/survey-scheduling/internal/config"
	"github.com/studypulse/survey-scheduling/internal/dispatch"
	"github.com/studypulse/survey-scheduling/internal/handler"
	"github.com/studypulse/survey-scheduling/internal/health"
	"github.com/studypulse/survey-scheduling/internal/infra/ledger"
	"github.com/studypulse/survey-scheduling/internal/infra/repository"
	"github.com/studypulse/survey-scheduling/internal/infra/runrecorder"
	"github.com/studypulse/survey-scheduling/internal/infra/taskqueue"
	"github.com/studypulse/survey-scheduling/internal/observability/logging"
	"github.com/studypulse/survey-scheduling/internal/observability/metrics"
	"github.com/studypulse/survey-scheduling/internal/observability/middleware"
	"github.com/studypulse/survey-scheduling/internal/publisher"
	"github.com/studypulse/survey-scheduling/internal/service/assignment"
	"github.com/studypulse/survey-scheduling/internal/service/notification"
	"github.com/studypulse/survey-scheduling/internal/service/schedule"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obs, err := initObservability(ctx)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	if err := cfg.TaskQueue.Validate(); err != nil {
		slog.Error("task queue configuration error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	schedulingMetrics, err := metrics.NewSchedulingMetrics()
	if err != nil {
		slog.Error("failed to initialize scheduling metrics", slog.String("error", err.Error()))
		return 1
	}

	notificationMetrics, err := metrics.NewNotificationMetrics()
	if err != nil {
		slog.Error("failed to initialize notification metrics", slog.String("error", err.Error()))
		return 1
	}

	// Initialize run result recorder (InfluxDB for local, BigQuery for gcloud)
	runRecorderCfg := runrecorder.LoadConfig()
	runRecorder, err := runrecorder.NewRecorder(ctx, runRecorderCfg)
	if err != nil {
		slog.Error("failed to initialize run recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := runRecorder.Close(); err != nil {
			slog.Warn("failed to close run recorder", slog.String("error", err.Error()))
		}
	}()

	// Initialize task queue
	taskQueue, cleanup, err := initTaskQueue(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize task queue", slog.String("error", err.Error()))
		return 1
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("task queue cleanup error", slog.String("error", err.Error()))
			}
		}()
	}

	mongoClient, db, err := repository.NewMongoDatabase(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		slog.Error("failed to connect mongodb",
			slog.String("event", "mongo.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			slog.Warn("failed to disconnect mongodb", slog.String("error", err.Error()))
		}
	}()

	slog.Info("mongodb connected",
		slog.String("database", cfg.Mongo.Database),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}()

	slog.Info("redis connected",
		slog.String("addr", cfg.Redis.Addr),
	)

	assignmentRepo := repository.NewAssignmentRepository(db, cfg.Assignment.ExpirationDelay)
	scheduleRepo := repository.NewScheduleRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	surveyRepo := repository.NewSurveyRepository(db)
	userRepo := repository.NewUserRepository(db)

	dispatchLedger := ledger.NewRedisLedger(redisClient)

	seed := cfg.Scheduler.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(seed))

	publishers := buildPublishers(cfg.Channels)

	notificationService := notification.NewService(
		assignmentRepo,
		surveyRepo,
		userRepo,
		publishers,
		notificationMetrics,
	)

	var notificationScheduler dispatch.NotificationScheduler
	var assignmentScheduler dispatch.AssignmentScheduler
	if taskQueue != nil && !cfg.Scheduler.DirectDispatch {
		notificationScheduler = taskqueue.NewQueuedNotificationScheduler(taskQueue)
	} else {
		notificationScheduler = dispatch.NewDirectNotificationScheduler(notificationService)
	}

	assignmentService := assignment.NewService(
		notificationScheduler,
		assignmentRepo,
		surveyRepo,
		cfg.Assignment.ReminderDelays,
		rnd,
	)

	if taskQueue != nil && !cfg.Scheduler.DirectDispatch {
		assignmentScheduler = taskqueue.NewQueuedAssignmentScheduler(taskQueue)
	} else {
		assignmentScheduler = dispatch.NewDirectAssignmentScheduler(assignmentService)
	}

	scheduleService := schedule.NewService(
		assignmentScheduler,
		scheduleRepo,
		groupRepo,
		rnd,
		schedulingMetrics,
		runRecorder,
	)

	schedulerHandler := handler.NewSchedulerHandler(scheduleService)
	taskHandler := handler.NewTaskHandler(assignmentService, notificationService, dispatchLedger)
	userAppHandler := handler.NewUserAppHandler(assignmentRepo, surveyRepo, userRepo)

	// Setup router with observability middleware
	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:  []string{"/health", "/health/live", "/health/ready", "/metrics"},
		Module:     logging.Module("survey-scheduling"),
		Worker:     true,
		TracerName: "github.com/studypulse/survey-scheduling/internal/observability/middleware",
		JobNameResolver: func(c *gin.Context) string {
			return c.Request.URL.Path
		},
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	// Health check endpoints
	healthChecker := health.NewChecker(mongoClient, redisClient, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	// API routes
	v1 := r.Group("/api/v1")
	{
		v1.POST("/scheduler/run", schedulerHandler.HandleRun)

		v1.POST("/tasks/assignments", taskHandler.HandleAssignmentTask)
		v1.POST("/tasks/notifications", taskHandler.HandleNotificationTask)

		users := v1.Group("/users/:user_id")
		{
			users.GET("/assignments", userAppHandler.HandleListAssignments)
			users.GET("/assignments/:assignment_id", userAppHandler.HandleGetAssignment)
			users.PUT("/assignments/:assignment_id", userAppHandler.HandleSubmitAssignment)
			users.POST("/devices", userAppHandler.HandleRegisterDevice)
		}
	}

	// Optional in-process trigger for scheduling runs
	if cfg.Scheduler.Cron != "" {
		c := cron.New()
		if _, err := c.AddFunc(cfg.Scheduler.Cron, func() {
			if _, err := scheduleService.ScheduleAssignments(ctx, time.Now().UTC()); err != nil {
				slog.Error("cron scheduling run failed", slog.String("error", err.Error()))
			}
		}); err != nil {
			slog.Error("invalid scheduler cron expression",
				slog.String("cron", cfg.Scheduler.Cron),
				slog.String("error", err.Error()),
			)
			return 1
		}
		c.Start()
		defer c.Stop()

		slog.Info("scheduler cron enabled", slog.String("cron", cfg.Scheduler.Cron))
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Int("publishers", len(publishers)),
			slog.Duration("expiration_delay", cfg.Assignment.ExpirationDelay),
			slog.Int("reminder_count", len(cfg.Assignment.ReminderDelays)),
		)
		serverErr <- srv.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}

// buildPublishers constructs one publisher per configured channel. Push is
// always available; email and SMS require credentials.
func buildPublishers(cfg *config.ChannelsConfig) []publisher.Publisher {
	publishers := []publisher.Publisher{
		publisher.NewExpoPublisher(cfg.Expo.BaseURL),
	}

	if cfg.Resend.APIKey != "" {
		publishers = append(publishers, publisher.NewResendPublisher(cfg.Resend.APIKey, cfg.Resend.Sender))
	}

	if cfg.Vonage.APIKey != "" && cfg.Vonage.APISecret != "" {
		publishers = append(publishers, publisher.NewVonagePublisher(
			cfg.Vonage.APIKey,
			cfg.Vonage.APISecret,
			cfg.Vonage.Sender,
			cfg.Vonage.BaseURL,
		))
	}

	return publishers
}
