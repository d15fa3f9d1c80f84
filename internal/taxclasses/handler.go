package taxclasses

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/backoffice/internal/platform/httpx"
	"github.com/odyssey-erp/backoffice/internal/shared"
)

// Lister is the read API the handler needs.
type Lister interface {
	List(ctx context.Context, page shared.CursorPage) (Page, error)
	Get(ctx context.Context, id string) (TaxClass, error)
}

// Handler serves tax classes as JSON for fetch-more requests.
type Handler struct {
	logger  *slog.Logger
	service Lister
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, service Lister) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers tax class routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.show)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page := shared.CursorPage{After: r.URL.Query().Get("after")}
	if raw := r.URL.Query().Get("first"); raw != "" {
		first, err := strconv.Atoi(raw)
		if err != nil || first < 1 {
			httpx.RespondError(w, fmt.Errorf("first must be a positive integer: %w", httpx.ErrBadRequest))
			return
		}
		page.First = first
	}
	result, err := h.service.List(r.Context(), page)
	if err != nil {
		h.logger.Error("list tax classes", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	tc, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Warn("get tax class", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tc)
}
