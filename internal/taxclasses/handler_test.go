package taxclasses

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() http.Handler {
	svc := NewService(newMemoryRepo(fixtures()...), nil, 2)
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
	r := chi.NewRouter()
	r.Route("/tax-classes", h.MountRoutes)
	return r
}

func TestHandlerListReturnsPage(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tax-classes/?first=2&after=E", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var page Page
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Equal(t, []TaxClass{{ID: "B", Name: "Reduced"}, {ID: "A", Name: "Standard"}}, page.Items)
	assert.True(t, page.HasMore)
	assert.Equal(t, "A", page.EndCursor)
}

func TestHandlerRejectsBadFirst(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tax-classes/?first=zero", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlerShowMissing(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tax-classes/Z", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
