// internal/workers/tournament/battle-coffee-shops/handler.go
package battlecoffeeshops

import (
	"context"
	"strings"
	"time"

	"coffee-tournament/internal/common/camunda"
	"coffee-tournament/internal/common/errors"
	"coffee-tournament/internal/common/logger"
	"coffee-tournament/internal/common/metrics"
	"coffee-tournament/internal/models"
	"coffee-tournament/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "battle-coffee-shops"
)

// Judge decides a battle and never fails.
type Judge interface {
	JudgeBattle(ctx context.Context, a, b models.Shop) models.BattleResult
}

type Handler struct {
	config       *Config
	judge        Judge
	validator    camunda.InputValidator
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, judge Judge, log logger.Logger) *Handler {
	if config.Timeout <= 0 {
		config.Timeout = 45 * time.Second
	}
	log = log.With(map[string]interface{}{"taskType": TaskType})

	h := &Handler{
		config:       config,
		judge:        judge,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}
	if op, ok := registry.Default().LookupTaskType(TaskType); ok {
		h.validator = op
	}
	return h
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := camunda.DecodeVariables(job, h.validator, &input); err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"error": err})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

// Execute judges shop1 against shop2. The only error is a missing shop.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Shop1 == nil || input.Shop2 == nil ||
		strings.TrimSpace(input.Shop1.Name) == "" || strings.TrimSpace(input.Shop2.Name) == "" {
		return nil, errors.NewInvalidArgumentError("Both shops are required")
	}

	result := h.judge.JudgeBattle(ctx, *input.Shop1, *input.Shop2)

	return &Output{
		Success:   true,
		Winner:    result.Winner.Name,
		Scores:    result.Scores,
		Reasoning: result.Reasoning,
		Timestamp: result.Timestamp,
		Fallback:  result.Fallback,
		Result:    result,
	}, nil
}
