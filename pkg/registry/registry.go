// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"coffee-tournament/internal/common/validation"
)

const Version = "1.0.0"

// Default returns a fresh copy of the built-in tournament operations.
func Default() *OperationRegistry {
	return &OperationRegistry{
		Version:     Version,
		LastUpdated: "2026-01-01",
		Operations:  builtinOperations(),
	}
}

func LoadRegistry(path string) (*OperationRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg OperationRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// Save writes the registry as indented JSON, stamping LastUpdated.
func (r *OperationRegistry) Save(path string) error {
	r.LastUpdated = time.Now().UTC().Format("2006-01-02")
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (r *OperationRegistry) Lookup(id string) (Operation, bool) {
	for _, op := range r.Operations {
		if op.ID == id {
			return op, true
		}
	}
	return Operation{}, false
}

func (r *OperationRegistry) LookupTaskType(taskType string) (Operation, bool) {
	for _, op := range r.Operations {
		if op.TaskType == taskType {
			return op, true
		}
	}
	return Operation{}, false
}

// Validate checks every operation has an id, a task type and a compilable
// input schema, and that ids and task types are unique.
func (r *OperationRegistry) Validate() error {
	ids := map[string]bool{}
	taskTypes := map[string]bool{}
	for i, op := range r.Operations {
		if op.ID == "" || op.TaskType == "" {
			return fmt.Errorf("operation %d: id and taskType are required", i)
		}
		if ids[op.ID] {
			return fmt.Errorf("duplicate operation id %q", op.ID)
		}
		if taskTypes[op.TaskType] {
			return fmt.Errorf("duplicate task type %q", op.TaskType)
		}
		ids[op.ID] = true
		taskTypes[op.TaskType] = true

		if _, err := validation.Compile(op.InputSchema); err != nil {
			return fmt.Errorf("operation %q: %w", op.ID, err)
		}
	}
	return nil
}

// ValidateInput checks a decoded input document against the operation's
// input schema.
func (op Operation) ValidateInput(doc interface{}) (*validation.ValidationResult, error) {
	schema, err := op.schema()
	if err != nil {
		return nil, err
	}
	return schema.Validate(doc), nil
}

// ValidateInputJSON is ValidateInput for raw JSON, such as job variables.
func (op Operation) ValidateInputJSON(raw []byte) (*validation.ValidationResult, error) {
	schema, err := op.schema()
	if err != nil {
		return nil, err
	}
	return schema.ValidateJSON(raw), nil
}

func (op Operation) schema() (*validation.Schema, error) {
	s, err := validation.Compile(op.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("compile input schema for %q: %w", op.ID, err)
	}
	return s, nil
}
