package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/catalog"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/helpers"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/user"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/queue", h.Enqueue)
	router.Get("/queue/{id}", h.GetEntry)
	router.Get("/queue/{id}/position", h.GetPosition)
	router.Get("/services/{serviceId}/queue", h.ListByService)
	router.Get("/history", h.ListHistory)
}

// RegisterStaffRoutes mounts the queue-advancing endpoints; the caller wraps
// them in STAFF/ADMIN role middleware.
func (h *Handler) RegisterStaffRoutes(router chi.Router) {
	router.Post("/services/{serviceId}/call-next", h.CallNext)
	router.Post("/queue/{id}/serve", h.StartServing)
	router.Post("/queue/{id}/complete", h.Complete)
	router.Post("/queue/{id}/cancel", h.Cancel)
	router.Post("/queue/{id}/no-show", h.MarkNoShow)
}

func (h *Handler) Enqueue(w http.ResponseWriter, r *http.Request) {
	var req EnqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.RespondJSON(w, http.StatusBadRequest, helpers.ErrorResponse("Invalid request", nil))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		helpers.RespondJSON(w, http.StatusBadRequest, helpers.ErrorResponse("Invalid request", err.Error()))
		return
	}

	h.logger.InfoContext(r.Context(), "enqueue request", "user_id", req.UserID, "service_id", req.ServiceID)
	entry, err := h.service.Enqueue(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	helpers.RespondJSON(w, http.StatusCreated, helpers.SuccessResponse("Entry queued", entry))
}

func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		helpers.RespondJSON(w, http.StatusBadRequest, helpers.ErrorResponse("Invalid entry ID", nil))
		return
	}

	entry, err := h.service.GetEntry(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	helpers.RespondJSON(w, http.StatusOK, helpers.SuccessResponse("Entry fetched", entry))
}

type positionResponse struct {
	EntryID  int    `json:"entryId"`
	Position int    `json:"position"`
	Label    string `json:"label"`
}

func (h *Handler) GetPosition(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		helpers.RespondJSON(w, http.StatusBadRequest, helpers.ErrorResponse("Invalid entry ID", nil))
		return
	}

	pos, err := h.service.Position(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	helpers.RespondJSON(w, http.StatusOK, helpers.SuccessResponse("Position fetched", positionResponse{
		EntryID:  id,
		Position: pos,
		Label:    helpers.GetPositionSuffix(pos),
	}))
}

func (h *Handler) ListByService(w http.ResponseWriter, r *http.Request) {
	serviceID, err := strconv.Atoi(chi.URLParam(r, "serviceId"))
	if err != nil {
		helpers.RespondJSON(w, http.StatusBadRequest, helpers.ErrorResponse("Invalid service ID", nil))
		return
	}

	activeOnly := r.URL.Query().Get("all") == ""
	entries, err := h.service.ListByService(r.Context(), serviceID, activeOnly)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	helpers.RespondJSON(w, http.StatusOK, helpers.SuccessResponse("Queue fetched", helpers.Paginate(entries, page, limit)))
}

func (h *Handler) CallNext(w http.ResponseWriter, r *http.Request) {
	serviceID, err := strconv.Atoi(chi.URLParam(r, "serviceId"))
	if err != nil {
		helpers.RespondJSON(w, http.StatusBadRequest, helpers.ErrorResponse("Invalid service ID", nil))
		return
	}

	h.logger.InfoContext(r.Context(), "calling next entry", "service_id", serviceID)
	entry, err := h.service.CallNext(r.Context(), serviceID)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			helpers.RespondJSON(w, http.StatusNotFound, helpers.ErrorResponse("Queue is empty", nil))
			return
		}
		h.handleServiceError(w, err)
		return
	}
	helpers.RespondJSON(w, http.StatusOK, helpers.SuccessResponse("Entry called", entry))
}

func (h *Handler) StartServing(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.StartServing, "Entry being served")
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Complete, "Entry completed")
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Cancel, "Entry cancelled")
}

func (h *Handler) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.MarkNoShow, "Entry marked no-show")
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, entryID int) (*Entry, error), message string) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		helpers.RespondJSON(w, http.StatusBadRequest, helpers.ErrorResponse("Invalid entry ID", nil))
		return
	}

	entry, err := op(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	helpers.RespondJSON(w, http.StatusOK, helpers.SuccessResponse(message, entry))
}

func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	serviceID, _ := strconv.Atoi(r.URL.Query().Get("serviceId"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	hist, err := h.service.ListHistory(r.Context(), serviceID, limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	helpers.RespondJSON(w, http.StatusOK, helpers.SuccessResponse("History fetched", hist))
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEntryNotFound),
		errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, catalog.ErrServiceNotFound):
		helpers.RespondJSON(w, http.StatusNotFound, helpers.ErrorResponse(err.Error(), nil))
	case errors.Is(err, ErrDuplicateActiveEntry),
		errors.Is(err, ErrInvalidStatusTransition):
		helpers.RespondJSON(w, http.StatusConflict, helpers.ErrorResponse(err.Error(), nil))
	case errors.Is(err, ErrServiceInactive),
		errors.Is(err, ErrUserInactive):
		helpers.RespondJSON(w, http.StatusUnprocessableEntity, helpers.ErrorResponse(err.Error(), nil))
	case errors.Is(err, ErrValidationFailed):
		helpers.RespondJSON(w, http.StatusBadRequest, helpers.ErrorResponse(err.Error(), nil))
	default:
		h.logger.Error("internal error", "error", err)
		helpers.RespondJSON(w, http.StatusInternalServerError, helpers.ErrorResponse("Internal server error", nil))
	}
}
