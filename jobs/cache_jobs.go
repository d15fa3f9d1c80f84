package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/odyssey-erp/backoffice/internal/jobs"
)

// Bumper invalidates a cache namespace.
type Bumper interface {
	Bump(ctx context.Context) error
}

// ProductTypeCreatedJob refreshes product type listings after a create.
type ProductTypeCreatedJob struct {
	lists   Bumper
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewProductTypeCreatedJob wires the job.
func NewProductTypeCreatedJob(lists Bumper, logger *slog.Logger, metrics *jobmetrics.Metrics) *ProductTypeCreatedJob {
	return &ProductTypeCreatedJob{lists: lists, logger: logger, metrics: metrics}
}

// Handle processes TaskProductTypeCreated tasks.
func (j *ProductTypeCreatedJob) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics.Track(TaskProductTypeCreated)
	var payload ProductTypeCreatedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.ID == "" {
		return tracker.End(fmt.Errorf("jobs: decode %s payload: %w", TaskProductTypeCreated, asynq.SkipRetry))
	}
	if err := j.lists.Bump(ctx); err != nil {
		return tracker.End(fmt.Errorf("jobs: bump product type lists: %w", err))
	}
	j.logger.Info("product type lists refreshed", slog.String("product_type_id", payload.ID))
	return tracker.End(nil)
}

// TaxClassRefreshJob drops cached tax class pages.
type TaxClassRefreshJob struct {
	taxes   Bumper
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewTaxClassRefreshJob wires the job.
func NewTaxClassRefreshJob(taxes Bumper, logger *slog.Logger, metrics *jobmetrics.Metrics) *TaxClassRefreshJob {
	return &TaxClassRefreshJob{taxes: taxes, logger: logger, metrics: metrics}
}

// Handle processes TaskTaxClassRefresh tasks.
func (j *TaxClassRefreshJob) Handle(ctx context.Context, _ *asynq.Task) error {
	tracker := j.metrics.Track(TaskTaxClassRefresh)
	if err := j.taxes.Bump(ctx); err != nil {
		return tracker.End(fmt.Errorf("jobs: bump tax classes: %w", err))
	}
	j.logger.Debug("tax class cache refreshed")
	return tracker.End(nil)
}
