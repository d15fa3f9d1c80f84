package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskProductTypeCreated follows a committed product type.
	TaskProductTypeCreated = "producttypes:created"
	// TaskTaxClassRefresh invalidates cached tax class pages.
	TaskTaxClassRefresh = "taxclasses:refresh"
)

// ProductTypeCreatedPayload identifies the created product type.
type ProductTypeCreatedPayload struct {
	ID string `json:"id"`
}

// NewProductTypeCreatedTask constructs an Asynq task.
func NewProductTypeCreatedTask(id string) (*asynq.Task, error) {
	if id == "" {
		return nil, fmt.Errorf("jobs: product type id required")
	}
	data, err := json.Marshal(ProductTypeCreatedPayload{ID: id})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProductTypeCreated, data, asynq.Queue(QueueDefault), asynq.MaxRetry(5)), nil
}

// NewTaxClassRefreshTask builds the periodic refresh task.
func NewTaxClassRefreshTask() *asynq.Task {
	return asynq.NewTask(TaskTaxClassRefresh, nil, asynq.Queue(QueueDefault))
}
