package cashbox

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vertice-pos/vertice-pos/internal/platform/httpx"
	"github.com/vertice-pos/vertice-pos/internal/shared"
)

// Handler serves the cashbox endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers the cashbox routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/cashboxes", h.list)
	r.Post("/cashboxes", h.create)
	r.Get("/cashboxes/{id}", h.get)
	r.Patch("/cashboxes/{id}", h.patch)
	r.Get("/cashboxes/{id}/closures", h.listClosures)
	r.Post("/cashboxes/{id}/closures/open", h.openSession)
	r.Patch("/cashboxes/{id}/closures/{closureID}/close", h.closeSession)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	boxes, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list cashboxes", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, boxes)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var input CreateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	if err := h.validate.Struct(input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	box, err := h.service.Create(r.Context(), input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, box)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := boxID(w, r)
	if !ok {
		return
	}
	box, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, box)
}

func (h *Handler) patch(w http.ResponseWriter, r *http.Request) {
	id, ok := boxID(w, r)
	if !ok {
		return
	}
	var patch Patch
	if err := httpx.DecodeJSON(r, &patch); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	box, err := h.service.Patch(r.Context(), id, patch)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, box)
}

func (h *Handler) listClosures(w http.ResponseWriter, r *http.Request) {
	id, ok := boxID(w, r)
	if !ok {
		return
	}
	closures, err := h.service.ListClosures(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, closures)
}

func (h *Handler) openSession(w http.ResponseWriter, r *http.Request) {
	id, ok := boxID(w, r)
	if !ok {
		return
	}
	var input OpenInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	closure, err := h.service.OpenSession(r.Context(), id, input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, closure)
}

func (h *Handler) closeSession(w http.ResponseWriter, r *http.Request) {
	id, ok := boxID(w, r)
	if !ok {
		return
	}
	closureID, err := strconv.ParseInt(chi.URLParam(r, "closureID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid closure id")
		return
	}
	var input CloseInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	closure, err := h.service.CloseSession(r.Context(), id, closureID, input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, closure)
}

func boxID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid cashbox id")
		return 0, false
	}
	return id, true
}
