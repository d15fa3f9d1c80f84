package producttypes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/backoffice/internal/metadata"
	"github.com/odyssey-erp/backoffice/internal/shared"
	"github.com/odyssey-erp/backoffice/internal/view"
)

type handlerFixture struct {
	router    http.Handler
	drafts    *DraftStore
	repo      *memoryRepo
	publisher *recordingPublisher
	session   *shared.Session
}

func newHandlerFixture(t *testing.T) handlerFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sessions := shared.NewSessionManager(client, "backoffice_session", time.Hour, false)
	sess, err := sessions.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	engine, err := view.NewEngine()
	require.NoError(t, err)

	repo := &memoryRepo{}
	pub := &recordingPublisher{}
	taxes := newTaxSource()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(repo, taxes, ServiceOptions{Publisher: pub, Logger: logger})
	drafts := NewDraftStore(client, time.Hour)
	h := NewHandler(logger, svc, taxes, drafts, engine, shared.NewCSRFManager("test-secret"), nil)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(shared.ContextWithSession(r.Context(), sess)))
		})
	})
	r.Route("/product-types", h.MountRoutes)
	return handlerFixture{router: r, drafts: drafts, repo: repo, publisher: pub, session: sess}
}

func (f handlerFixture) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

// mount opens a draft and returns its URL.
func (f handlerFixture) mount(t *testing.T, query string) string {
	t.Helper()
	rr := f.do(t, http.MethodGet, "/product-types/add"+query, nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	loc := rr.Header().Get("Location")
	require.True(t, strings.HasPrefix(loc, "/product-types/add/"), loc)
	return loc
}

func (f handlerFixture) draft(t *testing.T, draftURL string) Draft {
	t.Helper()
	d, err := f.drafts.Load(context.Background(), strings.TrimPrefix(draftURL, "/product-types/add/"))
	require.NoError(t, err)
	return d
}

func TestHandlerMountSeedsKindFromQuery(t *testing.T) {
	f := newHandlerFixture(t)
	loc := f.mount(t, "?kind=GIFT_CARD")
	assert.Equal(t, KindGiftCard, f.draft(t, loc).Page.Data.Kind)

	loc = f.mount(t, "")
	assert.Equal(t, KindNormal, f.draft(t, loc).Page.Data.Kind)
}

func TestHandlerKindChangeIsRememberedForNextMount(t *testing.T) {
	f := newHandlerFixture(t)
	loc := f.mount(t, "")

	rr := f.do(t, http.MethodPost, loc, url.Values{"kind": {"GIFT_CARD"}, "_action": {"change-kind"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, loc, rr.Header().Get("Location"))
	assert.Equal(t, KindGiftCard, f.draft(t, loc).Page.Data.Kind)
	assert.Equal(t, "GIFT_CARD", f.session.Get(SessionKindKey))

	next := f.mount(t, "")
	assert.Equal(t, KindGiftCard, f.draft(t, next).Page.Data.Kind)
}

func TestHandlerFoldsCheckboxAndTaxClass(t *testing.T) {
	f := newHandlerFixture(t)
	loc := f.mount(t, "")

	rr := f.do(t, http.MethodPost, loc, url.Values{
		"isShippingRequired": {"false", "on"},
		"taxClassId":         {"A"},
		"_action":            {"refresh"},
	})
	require.Equal(t, http.StatusSeeOther, rr.Code)

	d := f.draft(t, loc)
	assert.True(t, d.Page.Data.IsShippingRequired)
	assert.Equal(t, "A", d.Page.Data.TaxClassID)
	assert.Equal(t, "Standard", d.Page.TaxClassDisplayName)

	rr = f.do(t, http.MethodPost, loc, url.Values{"isShippingRequired": {"false"}, "_action": {"refresh"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.False(t, f.draft(t, loc).Page.Data.IsShippingRequired)
}

func TestHandlerRejectsUnparseableWeight(t *testing.T) {
	f := newHandlerFixture(t)
	loc := f.mount(t, "")

	rr := f.do(t, http.MethodPost, loc, url.Values{"weight": {"heavy"}, "name": {"Boxes"}, "_action": {"refresh"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Enter a valid value.")
	assert.Equal(t, "Boxes", f.draft(t, loc).Page.Data.Name)
}

func TestHandlerRejectsNonFiniteWeight(t *testing.T) {
	f := newHandlerFixture(t)
	loc := f.mount(t, "")

	for _, raw := range []string{"NaN", "Inf", "-Inf"} {
		rr := f.do(t, http.MethodPost, loc, url.Values{"weight": {raw}, "_action": {"refresh"}})
		assert.Equal(t, http.StatusBadRequest, rr.Code, raw)
		assert.Contains(t, rr.Body.String(), "Enter a valid value.")
	}
	assert.Zero(t, f.draft(t, loc).Page.Data.Weight)
}

func TestHandlerLowercaseKindIsNormalised(t *testing.T) {
	f := newHandlerFixture(t)
	loc := f.mount(t, "")

	rr := f.do(t, http.MethodPost, loc, url.Values{"kind": {"gift_card"}, "_action": {"change-kind"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, KindGiftCard, f.draft(t, loc).Page.Data.Kind)
	assert.Equal(t, "GIFT_CARD", f.session.Get(SessionKindKey))
}

func TestHandlerMetadataActions(t *testing.T) {
	f := newHandlerFixture(t)
	loc := f.mount(t, "")

	rr := f.do(t, http.MethodPost, loc, url.Values{"metadata.present": {"1"}, "_action": {"metadata-add:private"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	d := f.draft(t, loc)
	assert.Equal(t, []metadata.Input{{}}, d.Page.Data.PrivateMetadata)
	assert.True(t, d.Page.IsPrivateMetadataModified)
	assert.False(t, d.Page.IsMetadataModified)

	rr = f.do(t, http.MethodPost, loc, url.Values{
		"metadata.present":      {"1"},
		"privateMetadata.key":   {"sku"},
		"privateMetadata.value": {"42"},
		"_action":               {"refresh"},
	})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, []metadata.Input{{Key: "sku", Value: "42"}}, f.draft(t, loc).Page.Data.PrivateMetadata)

	rr = f.do(t, http.MethodPost, loc, url.Values{
		"metadata.present":      {"1"},
		"privateMetadata.key":   {"sku"},
		"privateMetadata.value": {"42"},
		"_action":               {"metadata-remove:private:0"},
	})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Empty(t, f.draft(t, loc).Page.Data.PrivateMetadata)

	rr = f.do(t, http.MethodPost, loc, url.Values{"_action": {"metadata-remove:private:5"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlerFetchMoreTaxClasses(t *testing.T) {
	f := newHandlerFixture(t)
	loc := f.mount(t, "")

	rr := f.do(t, http.MethodGet, loc, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "Zero rated")
	assert.Contains(t, rr.Body.String(), "fetch-more-tax-classes")

	rr = f.do(t, http.MethodPost, loc, url.Values{"_action": {"fetch-more-tax-classes"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, 2, f.draft(t, loc).TaxClassPages)

	rr = f.do(t, http.MethodGet, loc, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Zero rated")
}

func TestHandlerShowRendersPage(t *testing.T) {
	f := newHandlerFixture(t)
	loc := f.mount(t, "")

	rr := f.do(t, http.MethodGet, loc, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `href="/product-types/"`)
	assert.Contains(t, body, "Create product type")
	assert.Contains(t, body, `data-test-id="button-bar-confirm" disabled`)
	assert.Contains(t, body, `name="csrf_token"`)
	assert.Less(t, strings.Index(body, "product-type-details"), strings.Index(body, "product-type-taxes"))
	assert.Less(t, strings.Index(body, "product-type-taxes"), strings.Index(body, `data-test-id="metadata"`))
	assert.Less(t, strings.Index(body, `data-test-id="metadata"`), strings.Index(body, "product-type-shipping"))
}

func TestHandlerSaveCreatesAndRedirects(t *testing.T) {
	f := newHandlerFixture(t)
	loc := f.mount(t, "")

	rr := f.do(t, http.MethodPost, loc, url.Values{"name": {"Shoes"}, "weight": {"2"}, "_action": {"save"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, ListURL(), rr.Header().Get("Location"))

	created := f.repo.created()
	require.Len(t, created, 1)
	assert.Equal(t, "Shoes", created[0].Name)
	assert.Equal(t, 2.0, created[0].Weight)
	assert.Equal(t, []string{created[0].ID}, f.publisher.ids)

	_, err := f.drafts.Load(context.Background(), strings.TrimPrefix(loc, "/product-types/add/"))
	assert.ErrorIs(t, err, ErrDraftNotFound)

	rr = f.do(t, http.MethodGet, ListURL(), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Product type created.")
	assert.Contains(t, rr.Body.String(), `class="TableCellAvatar-root"`)
	assert.Contains(t, rr.Body.String(), "Shoes")
}

func TestHandlerSaveWithoutEditsSubmitsDefaults(t *testing.T) {
	f := newHandlerFixture(t)
	loc := f.mount(t, "")

	rr := f.do(t, http.MethodPost, loc, url.Values{"_action": {"save"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "This field is required.")
	assert.Contains(t, rr.Body.String(), `data-state="error"`)
	assert.Empty(t, f.repo.created())

	f.draft(t, loc)
}

func TestHandlerSaveWhileSubmitting(t *testing.T) {
	f := newHandlerFixture(t)
	loc := f.mount(t, "")
	id := strings.TrimPrefix(loc, "/product-types/add/")

	ok, err := f.drafts.Begin(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok)

	rr := f.do(t, http.MethodPost, loc, url.Values{"name": {"Shoes"}, "_action": {"save"}})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), `data-state="loading"`)
	assert.Empty(t, f.repo.created())
}

func TestHandlerEditsWhileSubmittingAreRejected(t *testing.T) {
	f := newHandlerFixture(t)
	loc := f.mount(t, "")
	rr := f.do(t, http.MethodPost, loc, url.Values{
		"name":               {"Original"},
		"isShippingRequired": {"false", "on"},
		"_action":            {"refresh"},
	})
	require.Equal(t, http.StatusSeeOther, rr.Code)

	id := strings.TrimPrefix(loc, "/product-types/add/")
	ok, err := f.drafts.Begin(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok)

	rr = f.do(t, http.MethodPost, loc, url.Values{
		"name":               {"Hijack"},
		"isShippingRequired": {"false"},
		"_action":            {"refresh"},
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `data-state="loading"`)
	assert.Contains(t, body, `<input type="hidden" name="isShippingRequired" value="false" disabled>`)
	assert.NotRegexp(t, `data-test-id="button-bar-cancel"[^>]*disabled`, body)

	d := f.draft(t, loc)
	assert.Equal(t, "Original", d.Page.Data.Name)
	assert.True(t, d.Page.Data.IsShippingRequired)

	require.NoError(t, f.drafts.Release(context.Background(), id))
	require.NoError(t, f.drafts.Discard(context.Background(), id))
	rr = f.do(t, http.MethodPost, loc, url.Values{"name": {"late"}, "_action": {"refresh"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, ListURL(), rr.Header().Get("Location"))
	_, err = f.drafts.Load(context.Background(), id)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestHandlerCancelDiscardsDraft(t *testing.T) {
	f := newHandlerFixture(t)
	loc := f.mount(t, "")

	rr := f.do(t, http.MethodPost, loc+"/cancel", url.Values{})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/product-types/", rr.Header().Get("Location"))

	rr = f.do(t, http.MethodPost, loc, url.Values{"name": {"late"}, "_action": {"save"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, ListURL(), rr.Header().Get("Location"))
	assert.Empty(t, f.repo.created())
}
