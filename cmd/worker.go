package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"newsforge/internal/app"
	"newsforge/internal/pipeline"
	"newsforge/internal/tasks"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the background digest worker",
	Long: `Starts the Asynq worker process that handles scheduled digest
generation tasks, plus the scheduler that enqueues one run per day.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get application context: %w", err)
		}
		return runWorker(appInstance)
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(appInstance *app.App) error {
	cfg := appInstance.Config

	redisOpts := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: cfg.Worker.Concurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.WithFields(log.Fields{
					"type":    task.Type(),
					"payload": string(task.Payload()),
				}).WithError(err).Error("Task failed")
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeDigestGenerate, handleDigestTask(appInstance))

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{Location: time.Local})
	task, err := tasks.NewDigestTask(cfg.Feeds.LookbackHours)
	if err != nil {
		return fmt.Errorf("failed to build digest task: %w", err)
	}
	if _, err := scheduler.Register(cfg.Worker.Schedule, task); err != nil {
		return fmt.Errorf("failed to register digest schedule: %w", err)
	}

	log.WithFields(log.Fields{
		"concurrency": cfg.Worker.Concurrency,
		"schedule":    cfg.Worker.Schedule,
	}).Info("Starting digest worker")

	if err := srv.Start(mux); err != nil {
		return fmt.Errorf("failed to start worker server: %w", err)
	}
	if err := scheduler.Start(); err != nil {
		srv.Shutdown()
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	log.Info("Shutdown signal received")
	scheduler.Shutdown()
	srv.Shutdown()
	return nil
}

func handleDigestTask(appInstance *app.App) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload tasks.DigestPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal digest payload: %v: %w", err, asynq.SkipRetry)
		}

		p := pipeline.New(
			appInstance.NewAggregator(nil),
			appInstance.NewSynthesizer(),
			appInstance.Store,
		)

		_, err := p.Run(ctx, pipeline.Options{
			RunID:    payload.RunID,
			Lookback: time.Duration(payload.Hours) * time.Hour,
		})
		return err
	}
}
