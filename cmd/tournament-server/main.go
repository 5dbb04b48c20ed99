// cmd/tournament-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"coffee-tournament/internal/api"
	"coffee-tournament/internal/app"
	"coffee-tournament/internal/common/camunda"
	"coffee-tournament/internal/common/config"
	"coffee-tournament/internal/common/database"
	"coffee-tournament/internal/common/logger"
	"coffee-tournament/internal/common/observability"

	battle "coffee-tournament/internal/workers/tournament/battle-coffee-shops"
	discover "coffee-tournament/internal/workers/tournament/find-coffee-shops"
	locate "coffee-tournament/internal/workers/tournament/resolve-location"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting tournament server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Redis (optional: provider cache + rate limiting) ---
	var rc *database.RedisClient
	if cfg.Database.Redis.Enabled() {
		err = retryWithBackoff(func() error {
			var err error
			rc, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rc.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		zapLog.Info("Redis connected successfully")
	} else {
		zapLog.Info("Redis not configured, provider cache and rate limiting disabled")
	}

	a := app.New(ctx, cfg, rc, log)
	defer a.Close()

	// --- Zeebe job workers (optional) ---
	var workers []*camunda.CamundaWorker
	var zc *camunda.Client
	if cfg.Camunda.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			zc, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		defer zc.Close()
		zapLog.Info("Zeebe client connected successfully")

		handlers := map[string]camunda.JobHandler{
			locate.TaskType:   a.Locate,
			discover.TaskType: a.Discover,
			battle.TaskType:   a.Battle,
		}
		for taskType, handler := range handlers {
			wcfg := config.GetWorkerConfig(cfg, taskType)
			if !wcfg.Enabled {
				log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
				continue
			}
			workers = append(workers, camunda.NewWorker(
				zc.GetClient(), taskType, wcfg.MaxJobsActive, config.GetDuration(wcfg.Timeout), handler, log,
			))
		}
	}

	// --- HTTP API ---
	services := a.Services(obs)
	if zc != nil {
		services.Ready = func(ctx context.Context) error {
			if err := a.Ready(ctx); err != nil {
				return err
			}
			return zc.HealthCheck(ctx)
		}
	}
	server := api.NewServer(services)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start(cfg.Server.Address,
			config.GetDuration(cfg.Server.ReadTimeout),
			config.GetDuration(cfg.Server.WriteTimeout))
	}()

	zapLog.Info("Tournament server started",
		zap.String("address", cfg.Server.Address),
		zap.Bool("llmJudge", a.Judge.UsesLLM()),
		zap.Int("workers", len(workers)),
	)

	select {
	case <-ctx.Done():
		zapLog.Info("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			zapLog.Error("http server stopped", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http server shutdown failed", zap.Error(err))
	}
	zapLog.Info("Tournament server stopped")
}
