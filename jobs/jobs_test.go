package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/odyssey-erp/backoffice/internal/jobs"
)

type countingBumper struct {
	calls int
	err   error
}

func (b *countingBumper) Bump(context.Context) error {
	b.calls++
	return b.err
}

type stubInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (s stubInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) {
	return s.info, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProductTypeCreatedJobBumpsLists(t *testing.T) {
	lists := &countingBumper{}
	job := NewProductTypeCreatedJob(lists, discardLogger(), jobmetrics.NewMetrics(prometheus.NewRegistry()))

	task, err := NewProductTypeCreatedTask("pt-1")
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, 1, lists.calls)
}

func TestProductTypeCreatedJobSkipsRetryOnBadPayload(t *testing.T) {
	lists := &countingBumper{}
	job := NewProductTypeCreatedJob(lists, discardLogger(), nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskProductTypeCreated, []byte(`{}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Zero(t, lists.calls)
}

func TestTaxClassRefreshJobPropagatesErrors(t *testing.T) {
	boom := errors.New("redis down")
	job := NewTaxClassRefreshJob(&countingBumper{err: boom}, discardLogger(), nil)

	assert.ErrorIs(t, job.Handle(context.Background(), NewTaxClassRefreshTask()), boom)
}

func TestNewProductTypeCreatedTaskRequiresID(t *testing.T) {
	_, err := NewProductTypeCreatedTask("")
	assert.Error(t, err)

	task, err := NewProductTypeCreatedTask("pt-9")
	require.NoError(t, err)
	var payload ProductTypeCreatedPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "pt-9", payload.ID)
}

func TestHealthEndpoint(t *testing.T) {
	cases := []struct {
		name      string
		inspector QueueInspector
		status    int
		pending   int
	}{
		{name: "no inspector", status: http.StatusOK},
		{name: "queue info", inspector: stubInspector{info: &asynq.QueueInfo{Queue: QueueDefault, Pending: 4, Retry: 1}}, status: http.StatusOK, pending: 4},
		{name: "redis error", inspector: stubInspector{err: errors.New("dial tcp")}, status: http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(tc.inspector, discardLogger(), jobmetrics.NewMetrics(prometheus.NewRegistry()))
			r := chi.NewRouter()
			r.Route("/jobs", h.MountRoutes)

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
			require.Equal(t, tc.status, rr.Code)
			if tc.status != http.StatusOK {
				return
			}
			var out queueHealth
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
			assert.Equal(t, QueueDefault, out.Queue)
			assert.Equal(t, tc.pending, out.Pending)
		})
	}
}
