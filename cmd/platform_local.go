//go:build !gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/studypulse/survey-scheduling/internal/config"
	"github.com/studypulse/survey-scheduling/internal/infra/taskqueue"
	"github.com/studypulse/survey-scheduling/internal/observability"
	"github.com/studypulse/survey-scheduling/internal/observability/logging"
)

func initTaskQueue(_ context.Context, cfg *config.Config) (taskqueue.TaskQueue, func() error, error) {
	if cfg.TaskQueue.EmulatorURL == "" {
		slog.Warn("TASKS_EMULATOR_URL not set, queue dispatch disabled")

		return nil, nil, nil
	}

	tq := taskqueue.NewHTTPTasksClient(taskqueue.HTTPTasksConfig{
		BaseURL:     cfg.TaskQueue.EmulatorURL,
		QueueName:   cfg.TaskQueue.QueueName,
		CallbackURL: cfg.TaskQueue.CallbackBaseURL,
		MaxRetries:  cfg.TaskQueue.MaxRetries,
	})

	slog.Info("task queue initialized",
		slog.String("type", "tasks_emulator"),
		slog.String("url", cfg.TaskQueue.EmulatorURL),
		slog.String("queue", cfg.TaskQueue.QueueName),
	)

	return tq, nil, nil
}

func initObservability(ctx context.Context) (*observability.Resources, error) {
	// Local runs read their environment from a .env file when present.
	_ = godotenv.Load()

	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "survey-scheduling"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: "",
		},
		Environment:   env,
		GCPProjectID:  "",
		SamplingRate:  1.0,
		DefaultModule: logging.Module("survey-scheduling"),
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}
