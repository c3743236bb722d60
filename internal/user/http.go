package user

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/helpers"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewHandler(service Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
		metrics:  m,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/users", h.GetAllUsers)
	router.Get("/users/{id}", h.GetUser)
}

// RegisterAdminRoutes mounts the account-mutating endpoints; the caller
// wraps them in ADMIN role middleware.
func (h *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Post("/users", h.CreateUser)
	router.Put("/users/{id}", h.UpdateUser)
	router.Put("/users/{id}/active", h.SetUserActive)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var u User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil || h.validate.Struct(&u) != nil {
		helpers.RespondJSON(w, http.StatusBadRequest, helpers.ErrorResponse("Invalid request", nil))
		return
	}

	h.logger.InfoContext(r.Context(), "creating user", "student_code", u.StudentCode)
	created, err := h.service.CreateUser(r.Context(), &u)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.RecordStudentRegistration(r.Context())

	helpers.RespondJSON(w, http.StatusCreated, helpers.SuccessResponse("User created", created))
}

func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAllUsers(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	helpers.RespondJSON(w, http.StatusOK, helpers.SuccessResponse("Users fetched", helpers.Paginate(users, page, limit)))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		helpers.RespondJSON(w, http.StatusBadRequest, helpers.ErrorResponse("Invalid user ID", nil))
		return
	}

	u, err := h.service.GetUserByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	helpers.RespondJSON(w, http.StatusOK, helpers.SuccessResponse("User fetched", u))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		helpers.RespondJSON(w, http.StatusBadRequest, helpers.ErrorResponse("Invalid user ID", nil))
		return
	}

	var u User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil || h.validate.Struct(&u) != nil {
		helpers.RespondJSON(w, http.StatusBadRequest, helpers.ErrorResponse("Invalid request", nil))
		return
	}
	u.ID = id

	h.logger.InfoContext(r.Context(), "updating user", "id", id)
	if err := h.service.UpdateUser(r.Context(), &u); err != nil {
		h.handleServiceError(w, err)
		return
	}

	helpers.RespondJSON(w, http.StatusOK, helpers.SuccessResponse("User updated", u))
}

type setActiveRequest struct {
	IsActive bool `json:"isActive"`
}

func (h *Handler) SetUserActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		helpers.RespondJSON(w, http.StatusBadRequest, helpers.ErrorResponse("Invalid user ID", nil))
		return
	}

	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.RespondJSON(w, http.StatusBadRequest, helpers.ErrorResponse("Invalid request", nil))
		return
	}

	h.logger.InfoContext(r.Context(), "toggling user", "id", id, "active", req.IsActive)
	if err := h.service.SetUserActive(r.Context(), id, req.IsActive); err != nil {
		h.handleServiceError(w, err)
		return
	}

	helpers.RespondJSON(w, http.StatusOK, helpers.SuccessResponse("User updated", nil))
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		helpers.RespondJSON(w, http.StatusNotFound, helpers.ErrorResponse("User not found", nil))
	case errors.Is(err, ErrDuplicateUser):
		helpers.RespondJSON(w, http.StatusConflict, helpers.ErrorResponse(err.Error(), nil))
	case errors.Is(err, ErrInvalidInput):
		helpers.RespondJSON(w, http.StatusBadRequest, helpers.ErrorResponse(err.Error(), nil))
	default:
		h.logger.Error("internal error", "error", err)
		helpers.RespondJSON(w, http.StatusInternalServerError, helpers.ErrorResponse("Internal server error", nil))
	}
}
