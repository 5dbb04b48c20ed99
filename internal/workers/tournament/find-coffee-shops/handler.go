// internal/workers/tournament/find-coffee-shops/handler.go
package findcoffeeshops

import (
	"context"
	"time"

	"coffee-tournament/internal/common/camunda"
	"coffee-tournament/internal/common/errors"
	"coffee-tournament/internal/common/logger"
	"coffee-tournament/internal/common/metrics"
	"coffee-tournament/internal/models"
	"coffee-tournament/internal/places"
	"coffee-tournament/internal/ranker"
	"coffee-tournament/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "find-coffee-shops"
)

// Searcher is the slice of the places client this operation needs.
type Searcher interface {
	FindNearbyCafes(ctx context.Context, lat, lng float64, radius int) ([]places.Candidate, error)
	PhotoURL(ref string) string
}

type Handler struct {
	config       *Config
	places       Searcher
	validator    camunda.InputValidator
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, places Searcher, log logger.Logger) *Handler {
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

// Execute searches near the given coordinates and returns the eight seeds.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Lat == nil || input.Lng == nil {
		return nil, errors.NewInvalidArgumentError("Latitude and longitude are required")
	}
	lat, lng := *input.Lat, *input.Lng

	candidates, err := h.places.FindNearbyCafes(ctx, lat, lng, input.Radius)
	if err != nil {
		return nil, err
	}

	shops, err := ranker.RankAndSeed(candidates, h.places.PhotoURL)
	if err != nil {
		h.logger.Warn("not enough shops to seed", map[string]interface{}{
			"lat":        lat,
			"lng":        lng,
			"candidates": len(candidates),
		})
		return nil, err
	}

	h.logger.Info("coffee shops seeded", map[string]interface{}{
		"lat":        lat,
		"lng":        lng,
		"candidates": len(candidates),
		"seeded":     len(shops),
	})

	return &Output{
		Success:        true,
		CoffeeShops:    shops,
		Count:          len(shops),
		SearchLocation: models.Coordinates{Lat: lat, Lng: lng},
	}, nil
}
