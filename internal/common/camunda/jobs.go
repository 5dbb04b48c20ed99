// internal/common/camunda/jobs.go
package camunda

import (
	"context"
	"encoding/json"
	"fmt"

	"coffee-tournament/internal/common/errors"
	"coffee-tournament/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// InputValidator checks raw job variables before they are decoded.
type InputValidator interface {
	ValidateInputJSON(raw []byte) (*validation.ValidationResult, error)
}

// DecodeVariables validates job variables against v (when non-nil) and
// unmarshals them into out. Failures are INVALID_ARGUMENT errors.
func DecodeVariables(job entities.Job, v InputValidator, out interface{}) error {
	raw := []byte(job.Variables)
	if len(raw) == 0 {
		raw = []byte("{}")
	}

	if v != nil {
		result, err := v.ValidateInputJSON(raw)
		if err != nil {
			return errors.NewInternalError(err)
		}
		if !result.Valid {
			return errors.NewInvalidArgumentError(result.Error())
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errors.NewInvalidArgumentError(fmt.Sprintf("parse input: %v", err))
	}
	return nil
}

// CompleteJob completes job with output as its variables.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("create complete job command: %w", err)
	}
	if _, err := cmd.Send(ctx); err != nil {
		return fmt.Errorf("send complete job command: %w", err)
	}
	return nil
}
