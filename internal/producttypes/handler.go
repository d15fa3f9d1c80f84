package producttypes

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/backoffice/internal/components/avatar"
	"github.com/odyssey-erp/backoffice/internal/form"
	"github.com/odyssey-erp/backoffice/internal/metadata"
	"github.com/odyssey-erp/backoffice/internal/shared"
	"github.com/odyssey-erp/backoffice/internal/taxclasses"
	"github.com/odyssey-erp/backoffice/internal/view"
)

// SessionKindKey remembers the last selected kind for the next mount.
const SessionKindKey = "producttypes.kind"

// Posted control names outside the payload fields.
const (
	fieldAction        = "_action"
	fieldMetadataKey   = "metadata.key"
	fieldMetadataValue = "metadata.value"
	fieldPrivateKey    = "privateMetadata.key"
	fieldPrivateValue  = "privateMetadata.value"
	fieldMetadataShown = "metadata.present"
)

// Form actions.
const (
	actionSave           = "save"
	actionChangeKind     = "change-kind"
	actionChangeTaxClass = "change-tax-class"
	actionFetchMore      = "fetch-more-tax-classes"
	actionMetadataAdd    = "metadata-add"
	actionMetadataRemove = "metadata-remove"
	actionRefresh        = "refresh"
)

// TaxClassSource loads tax class windows for the picker.
type TaxClassSource interface {
	ListPages(ctx context.Context, pages int) (taxclasses.Page, error)
}

// LocalizerFunc resolves the localizer of a request.
type LocalizerFunc func(ctx context.Context) Localizer

// Handler serves the product type pages.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	taxes     TaxClassSource
	drafts    *DraftStore
	templates *view.Engine
	csrf      *shared.CSRFManager
	localize  LocalizerFunc
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, taxes TaxClassSource, drafts *DraftStore, templates *view.Engine, csrf *shared.CSRFManager, localize LocalizerFunc) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		taxes:     taxes,
		drafts:    drafts,
		templates: templates,
		csrf:      csrf,
		localize:  localize,
	}
}

// MountRoutes registers product type routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Get("/add", h.handleMount)
	r.Get("/add/{draft}", h.handleShow)
	r.Post("/add/{draft}", h.handleUpdate)
	r.Post("/add/{draft}/cancel", h.handleCancel)
}

type listRow struct {
	ProductType
	Avatar avatar.TableCellAvatarProps
}

type listData struct {
	L              Localizer
	Rows           []listRow
	HasMore        bool
	NextURL        string
	Search         string
	Kind           Kind
	KindOptions    []Option
	AddURL         string
	AddGiftCardURL string
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind, _ := ParseKind(q.Get("kind"))
	first, _ := strconv.Atoi(q.Get("first"))
	filters := ListFilters{
		Search: strings.TrimSpace(q.Get("search")),
		Kind:   kind,
		Page:   shared.CursorPage{First: first, After: q.Get("after")},
	}
	res, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list product types", slog.Any("error", err))
		http.Error(w, "Failed to load product types", http.StatusInternalServerError)
		return
	}

	l := h.localizer(r.Context())
	rows := make([]listRow, 0, len(res.Items))
	for _, pt := range res.Items {
		rows = append(rows, listRow{
			ProductType: pt,
			Avatar: avatar.TableCellAvatarProps{
				Props: avatar.Props{Alt: pt.Name, Initials: avatar.Initials(pt.Name), Size: avatar.AvatarSizeSmall},
			},
		})
	}
	data := listData{
		L:              l,
		Rows:           rows,
		HasMore:        res.HasMore,
		Search:         filters.Search,
		Kind:           kind,
		KindOptions:    kindOptions(l, kind),
		AddURL:         AddURL(""),
		AddGiftCardURL: AddURL(KindGiftCard),
	}
	if res.HasMore {
		next := q
		next.Set("after", res.EndCursor)
		data.NextURL = ListURL() + "?" + next.Encode()
	}
	h.render(w, r, "pages/product_types/list.html", l.Message("Product Types"), data, http.StatusOK)
}

// handleMount mounts a new page and hands the browser its draft URL.
func (h *Handler) handleMount(w http.ResponseWriter, r *http.Request) {
	var kind Kind
	if k, err := ParseKind(r.URL.Query().Get("kind")); err == nil {
		kind = k
	} else if sess := shared.SessionFromContext(r.Context()); sess != nil {
		kind, _ = ParseKind(sess.Get(SessionKindKey))
	}
	page := NewCreatePage(CreatePageProps{Kind: kind, DefaultWeightUnit: h.service.DefaultWeightUnit()})
	d, err := h.drafts.New(r.Context(), page)
	if err != nil {
		h.logger.Error("create draft", slog.Any("error", err))
		http.Error(w, "Failed to open form", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, DraftURL(d.ID), http.StatusSeeOther)
}

func (h *Handler) handleShow(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDraft(w, r)
	if !ok {
		return
	}
	page, err := h.restore(r, &d, nil, ConfirmDefault)
	if err != nil {
		h.fail(w, r, "restore product type draft", err)
		return
	}
	h.renderPage(w, r, d.ID, page, http.StatusOK)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	d, ok := h.loadDraft(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	page, err := h.restore(r, &d, nil, ConfirmDefault)
	if err != nil {
		h.fail(w, r, "restore product type draft", err)
		return
	}
	if page.Props().Disabled {
		// A submit of this draft is in flight; edits would race it.
		h.addFlash(r, "warning", h.localizer(ctx).Message("The form is being saved."))
		h.renderPage(w, r, d.ID, page, http.StatusConflict)
		return
	}

	if errs := h.fold(ctx, page, r); len(errs) > 0 {
		if err := h.drafts.Save(ctx, Draft{ID: d.ID, Page: page.Snapshot(), TaxClassPages: d.TaxClassPages}); err != nil {
			h.fail(w, r, "save product type draft", err)
			return
		}
		props := page.Props()
		props.Errors = errs
		props.SaveButtonBarState = ConfirmError
		page.SetProps(props)
		h.renderPage(w, r, d.ID, page, http.StatusBadRequest)
		return
	}

	action, arg, _ := strings.Cut(r.PostForm.Get(fieldAction), ":")
	switch action {
	case actionSave:
		h.save(w, r, &d, page)
		return
	case actionFetchMore:
		if _, err := page.Update(ctx, FetchMoreTaxClasses{}); err != nil {
			h.fail(w, r, "fetch more tax classes", err)
			return
		}
	case actionMetadataAdd:
		if _, err := page.Update(ctx, MetadataChanged{Event: metadata.Event{Target: metadataTarget(arg), Action: metadata.Add}}); err != nil {
			h.fail(w, r, "add metadata", err)
			return
		}
	case actionMetadataRemove:
		target, idx, _ := strings.Cut(arg, ":")
		index, err := strconv.Atoi(idx)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		_, err = page.Update(ctx, MetadataChanged{Event: metadata.Event{Target: metadataTarget(target), Action: metadata.Remove, Index: index}})
		if errors.Is(err, metadata.ErrIndexOutOfRange) {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if err != nil {
			h.fail(w, r, "remove metadata", err)
			return
		}
	case actionChangeKind, actionChangeTaxClass, actionRefresh, "":
		// Folding the posted controls already applied these.
	default:
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.drafts.Save(ctx, Draft{ID: d.ID, Page: page.Snapshot(), TaxClassPages: d.TaxClassPages}); err != nil {
		h.fail(w, r, "save product type draft", err)
		return
	}
	http.Redirect(w, r, DraftURL(d.ID), http.StatusSeeOther)
}

// save submits the page under the draft's submit lock.
func (h *Handler) save(w http.ResponseWriter, r *http.Request, d *Draft, page *CreatePage) {
	ctx := r.Context()
	l := h.localizer(ctx)
	locked, err := h.drafts.Begin(ctx, d.ID)
	if err != nil {
		h.fail(w, r, "lock product type draft", err)
		return
	}
	if !locked {
		props := page.Props()
		props.Disabled = true
		props.SaveButtonBarState = ConfirmLoading
		page.SetProps(props)
		if _, err := page.Update(ctx, Submit{}); !errors.Is(err, form.ErrDisabled) {
			h.logger.Warn("submit while locked", slog.String("draft", d.ID), slog.Any("error", err))
		}
		h.addFlash(r, "warning", l.Message("The form is being saved."))
		h.renderPage(w, r, d.ID, page, http.StatusConflict)
		return
	}
	defer func() {
		if err := h.drafts.Release(context.WithoutCancel(ctx), d.ID); err != nil {
			h.logger.Warn("release product type draft", slog.String("draft", d.ID), slog.Any("error", err))
		}
	}()

	var created ProductType
	props := page.Props()
	props.OnSubmit = func(ctx context.Context, data Form) ([]shared.UserError, error) {
		pt, errs, err := h.service.Create(ctx, actorOf(r), data)
		created = pt
		return errs, err
	}
	page.SetProps(props)

	out, err := page.Update(ctx, Submit{})
	if err != nil {
		h.logger.Error("create product type", slog.String("draft", d.ID), slog.Any("error", err))
		out.Errors = append(out.Errors, shared.UserError{Code: shared.CodeGeneric, Message: shared.UserSafeMessage(err)})
	}
	if out.Submitted {
		if err := h.drafts.Discard(ctx, d.ID); err != nil {
			h.logger.Warn("discard product type draft", slog.String("draft", d.ID), slog.Any("error", err))
		}
		page.Unmount()
		h.logger.Info("product type saved", slog.String("id", created.ID), slog.String("draft", d.ID))
		h.redirectWithFlash(w, r, ListURL(), "success", l.Message("Product type created."))
		return
	}

	if err := h.drafts.Save(ctx, Draft{ID: d.ID, Page: page.Snapshot(), TaxClassPages: d.TaxClassPages}); err != nil {
		h.logger.Warn("save product type draft", slog.String("draft", d.ID), slog.Any("error", err))
	}
	props = page.Props()
	props.Errors = out.Errors
	props.SaveButtonBarState = ConfirmError
	page.SetProps(props)
	status := http.StatusBadRequest
	if err != nil {
		status = http.StatusInternalServerError
	}
	h.renderPage(w, r, d.ID, page, status)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "draft")
	d, err := h.drafts.Load(ctx, id)
	if errors.Is(err, ErrDraftNotFound) {
		http.Redirect(w, r, ListURL(), http.StatusSeeOther)
		return
	}
	if err != nil {
		h.fail(w, r, "load product type draft", err)
		return
	}
	page := RestoreCreatePage(d.Page, CreatePageProps{})
	out, err := page.Update(ctx, Cancel{})
	if err != nil {
		h.fail(w, r, "cancel product type draft", err)
		return
	}
	if err := h.drafts.Discard(ctx, d.ID); err != nil {
		h.logger.Warn("discard product type draft", slog.String("draft", d.ID), slog.Any("error", err))
	}
	http.Redirect(w, r, out.Navigate, http.StatusSeeOther)
}

// loadDraft resolves the draft of the route. Missing drafts send the browser
// back to the list without applying anything.
func (h *Handler) loadDraft(w http.ResponseWriter, r *http.Request) (Draft, bool) {
	d, err := h.drafts.Load(r.Context(), chi.URLParam(r, "draft"))
	if errors.Is(err, ErrDraftNotFound) {
		h.redirectWithFlash(w, r, ListURL(), "info", h.localizer(r.Context()).Message("The form has expired."))
		return Draft{}, false
	}
	if err != nil {
		h.fail(w, r, "load product type draft", err)
		return Draft{}, false
	}
	return d, true
}

// restore continues the mounted page of d with freshly computed props.
func (h *Handler) restore(r *http.Request, d *Draft, errs []shared.UserError, state ConfirmButtonState) (*CreatePage, error) {
	ctx := r.Context()
	l := h.localizer(ctx)
	taxes, err := h.taxes.ListPages(ctx, d.TaxClassPages)
	if err != nil {
		return nil, err
	}
	submitting, err := h.drafts.Submitting(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	if submitting {
		state = ConfirmLoading
	}
	props := CreatePageProps{
		Errors:             errs,
		DefaultWeightUnit:  h.service.DefaultWeightUnit(),
		Disabled:           submitting,
		PageTitle:          l.Message("Create product type"),
		SaveButtonBarState: state,
		TaxClasses:         taxes.Items,
		FetchMoreTaxClasses: shared.FetchMoreProps{
			HasMore:     taxes.HasMore,
			Loading:     submitting,
			OnFetchMore: func() { d.TaxClassPages++ },
		},
		OnChangeKind: func(kind Kind) {
			if sess := shared.SessionFromContext(ctx); sess != nil {
				sess.Set(SessionKindKey, string(kind))
			}
		},
	}
	return RestoreCreatePage(d.Page, props), nil
}

// fold turns the posted controls into page messages. Controls that fail to
// convert are reported as field errors.
func (h *Handler) fold(ctx context.Context, page *CreatePage, r *http.Request) []shared.UserError {
	var errs []shared.UserError
	apply := func(field string, msg Msg) {
		if _, err := page.Update(ctx, msg); err != nil {
			errs = append(errs, shared.UserError{Field: field, Code: shared.CodeInvalid, Message: "Enter a valid value."})
		}
	}
	post := r.PostForm
	current := page.Data()

	if vals, ok := post[FieldName]; ok {
		apply(FieldName, FieldChanged{Event: form.ChangeEvent{Name: FieldName, Value: form.ValueFromControl("text", last(vals))}})
	}
	if vals, ok := post[FieldWeight]; ok {
		apply(FieldWeight, FieldChanged{Event: form.ChangeEvent{Name: FieldWeight, Value: form.ValueFromControl("number", last(vals))}})
	}
	if vals, ok := post[FieldIsShippingRequired]; ok {
		apply(FieldIsShippingRequired, FieldChanged{Event: form.ChangeEvent{Name: FieldIsShippingRequired, Value: form.ValueFromControl("checkbox", last(vals))}})
	}
	if vals, ok := post[FieldKind]; ok && Kind(last(vals)) != current.Kind {
		apply(FieldKind, KindChanged{Kind: Kind(last(vals))})
	}
	if vals, ok := post[FieldTaxClassID]; ok && last(vals) != current.TaxClassID {
		apply(FieldTaxClassID, TaxClassChanged{ID: last(vals)})
	}
	if _, ok := post[fieldMetadataShown]; !ok {
		return errs
	}
	if entries := postedMetadata(post[fieldMetadataKey], post[fieldMetadataValue]); !slices.Equal(entries, current.Metadata) {
		apply(metadata.FieldMetadata, MetadataChanged{Event: metadata.Event{Target: metadata.Public, Action: metadata.Replace, Entries: entries}})
	}
	if entries := postedMetadata(post[fieldPrivateKey], post[fieldPrivateValue]); !slices.Equal(entries, current.PrivateMetadata) {
		apply(metadata.FieldPrivateMetadata, MetadataChanged{Event: metadata.Event{Target: metadata.Private, Action: metadata.Replace, Entries: entries}})
	}
	return errs
}

func postedMetadata(keys, values []string) []metadata.Input {
	out := make([]metadata.Input, len(keys))
	for i, k := range keys {
		out[i].Key = k
		if i < len(values) {
			out[i].Value = values[i]
		}
	}
	return out
}

// last returns the final value; a hidden "false" input precedes each checkbox.
func last(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return vals[len(vals)-1]
}

func metadataTarget(raw string) metadata.Target {
	if raw == "private" {
		return metadata.Private
	}
	return metadata.Public
}

func actorOf(r *http.Request) string {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		return "session:" + sess.ID
	}
	return "anonymous"
}

type createData struct {
	L            Localizer
	View         CreatePageView
	FormAction   string
	CancelAction string
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, draftID string, page *CreatePage, status int) {
	l := h.localizer(r.Context())
	v := page.View(l)
	h.render(w, r, "pages/product_types/create.html", v.Title, createData{
		L:            l,
		View:         v,
		FormAction:   DraftURL(draftID),
		CancelAction: CancelURL(draftID),
	}, status)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, template, title string, data any, status int) {
	sess := shared.SessionFromContext(r.Context())
	var (
		csrfToken string
		flash     *shared.FlashMessage
	)
	if sess != nil {
		csrfToken, _ = h.csrf.EnsureToken(r.Context(), sess)
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Locale:      shared.LocaleFromContext(r.Context()),
		Data:        data,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.Render(w, template, viewData); err != nil {
		h.logger.Error("render template", slog.Any("error", err))
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.Error(msg, slog.String("path", r.URL.Path), slog.Any("error", err))
	http.Error(w, shared.UserSafeMessage(err), http.StatusInternalServerError)
}

func (h *Handler) addFlash(r *http.Request, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	h.addFlash(r, kind, message)
	http.Redirect(w, r, location, http.StatusSeeOther)
}

func (h *Handler) localizer(ctx context.Context) Localizer {
	if h.localize == nil {
		return plainLocalizer{}
	}
	return h.localize(ctx)
}

type plainLocalizer struct{}

func (plainLocalizer) Message(key string, _ ...any) string { return key }
