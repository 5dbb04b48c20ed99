// internal/workers/tournament/resolve-location/handler.go
package resolvelocation

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
	TaskType = "resolve-location"
)

// Locator is the slice of the places client this operation needs.
type Locator interface {
	ResolveLocation(ctx context.Context, query string) (*models.LocationResult, error)
}

type Handler struct {
	config       *Config
	places       Locator
	validator    camunda.InputValidator
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, places Locator, log logger.Logger) *Handler {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	log = log.With(map[string]interface{}{"taskType": TaskType})

	h := &Handler{
		config:       config,
		places:       places,
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

// Execute resolves input.Location to coordinates.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	query := strings.TrimSpace(input.Location)
	if query == "" {
		return nil, errors.NewInvalidArgumentError("Location is required")
	}

	loc, err := h.places.ResolveLocation(ctx, query)
	if err != nil {
		return nil, err
	}

	h.logger.Info("location resolved", map[string]interface{}{
		"location":         query,
		"formattedAddress": loc.FormattedAddress,
	})

	return &Output{
		Success:          true,
		Lat:              loc.Lat,
		Lng:              loc.Lng,
		FormattedAddress: loc.FormattedAddress,
		Location:         input.Location,
	}, nil
}
