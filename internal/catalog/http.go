package catalog

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/helpers"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	repo     Repository
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(repo Repository, logger *slog.Logger) *Handler {
	return &Handler{
		repo:     repo,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/services", h.GetAllServices)
	router.Get("/services/{id}", h.GetService)
}

// RegisterAdminRoutes mounts the mutating endpoints; the caller wraps them
// in role middleware.
func (h *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Post("/services", h.CreateService)
	router.Put("/services/{id}", h.UpdateService)
	router.Put("/services/{id}/active", h.SetServiceActive)
}

func (h *Handler) GetAllServices(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") == ""
	services, err := h.repo.GetAll(r.Context(), activeOnly)
	if err != nil {
		h.handleError(w, err)
		return
	}
	helpers.RespondJSON(w, http.StatusOK, helpers.SuccessResponse("Services fetched", services))
}

func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		helpers.RespondJSON(w, http.StatusBadRequest, helpers.ErrorResponse("Invalid service ID", nil))
		return
	}

	s, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}
	helpers.RespondJSON(w, http.StatusOK, helpers.SuccessResponse("Service fetched", s))
}

func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var s Service
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil || h.validate.Struct(&s) != nil {
		helpers.RespondJSON(w, http.StatusBadRequest, helpers.ErrorResponse("Invalid request", nil))
		return
	}
	s.IsActive = true

	h.logger.InfoContext(r.Context(), "creating service", "name", s.Name)
	created, err := h.repo.Create(r.Context(), &s)
	if err != nil {
		h.handleError(w, err)
		return
	}
	helpers.RespondJSON(w, http.StatusCreated, helpers.SuccessResponse("Service created", created))
}

func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		helpers.RespondJSON(w, http.StatusBadRequest, helpers.ErrorResponse("Invalid service ID", nil))
		return
	}

	var s Service
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil || h.validate.Struct(&s) != nil {
		helpers.RespondJSON(w, http.StatusBadRequest, helpers.ErrorResponse("Invalid request", nil))
		return
	}
	s.ID = id

	h.logger.InfoContext(r.Context(), "updating service", "id", id)
	if err := h.repo.Update(r.Context(), &s); err != nil {
		h.handleError(w, err)
		return
	}
	helpers.RespondJSON(w, http.StatusOK, helpers.SuccessResponse("Service updated", s))
}

type setActiveRequest struct {
	IsActive bool `json:"isActive"`
}

func (h *Handler) SetServiceActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		helpers.RespondJSON(w, http.StatusBadRequest, helpers.ErrorResponse("Invalid service ID", nil))
		return
	}

	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.RespondJSON(w, http.StatusBadRequest, helpers.ErrorResponse("Invalid request", nil))
		return
	}

	h.logger.InfoContext(r.Context(), "toggling service", "id", id, "active", req.IsActive)
	if err := h.repo.SetActive(r.Context(), id, req.IsActive); err != nil {
		h.handleError(w, err)
		return
	}
	helpers.RespondJSON(w, http.StatusOK, helpers.SuccessResponse("Service updated", nil))
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrServiceNotFound) {
		helpers.RespondJSON(w, http.StatusNotFound, helpers.ErrorResponse("Service not found", nil))
		return
	}
	h.logger.Error("internal error", "error", err)
	helpers.RespondJSON(w, http.StatusInternalServerError, helpers.ErrorResponse("Internal server error", nil))
}
