package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port      string
	LogLevel  slog.Level
	TaskQueue TaskQueueConfig
	Redis     *RedisConfig
	Mongo     *MongoConfig
	Scheduler *SchedulerConfig
	Channels  *ChannelsConfig

	Assignment *AssignmentConfig
}

type TaskQueueConfig struct {
	EmulatorURL     string
	QueueName       string
	CallbackBaseURL string

	GCloudProjectID  string
	GCloudLocationID string
	GCloudQueueID    string

	MaxRetries int
}

func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	queueName := os.Getenv("TASK_QUEUE_NAME")
	if queueName == "" {
		queueName = "default"
	}

	maxRetries := 3
	if v := os.Getenv("TASK_QUEUE_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxRetries = parsed
		}
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	mongoConfig, err := LoadMongoConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:     port,
		LogLevel: parseLogLevel(os.Getenv("LOG_LEVEL")),
		TaskQueue: TaskQueueConfig{
			EmulatorURL:     os.Getenv("TASKS_EMULATOR_URL"),
			QueueName:       queueName,
			CallbackBaseURL: os.Getenv("TASK_CALLBACK_BASE_URL"),

			GCloudProjectID:  os.Getenv("GCLOUD_PROJECT_ID"),
			GCloudLocationID: os.Getenv("GCLOUD_LOCATION_ID"),
			GCloudQueueID:    os.Getenv("GCLOUD_QUEUE_ID"),

			MaxRetries: maxRetries,
		},
		Redis:      redisConfig,
		Mongo:      mongoConfig,
		Scheduler:  LoadSchedulerConfig(),
		Channels:   LoadChannelsConfig(),
		Assignment: LoadAssignmentConfig(),
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
