package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/backoffice/jobs"
)

func TestBuildTask(t *testing.T) {
	task, err := BuildTask(jobs.TaskTaxClassRefresh)
	require.NoError(t, err)
	assert.Equal(t, jobs.TaskTaxClassRefresh, task.Type())

	task, err = BuildTask(jobs.TaskProductTypeCreated, "pt-1")
	require.NoError(t, err)
	var payload jobs.ProductTypeCreatedPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "pt-1", payload.ID)

	_, err = BuildTask(jobs.TaskProductTypeCreated)
	assert.Error(t, err)

	_, err = BuildTask("reports:nightly")
	assert.ErrorContains(t, err, "unsupported job")
}

func TestNilCLIReportsMisconfiguration(t *testing.T) {
	var c *JobsCLI
	_, err := c.Trigger(context.Background(), jobs.TaskTaxClassRefresh)
	assert.Error(t, err)
	_, err = c.InspectQueue(context.Background())
	assert.Error(t, err)
	_, err = c.ListScheduled(context.Background(), 0)
	assert.Error(t, err)
}
