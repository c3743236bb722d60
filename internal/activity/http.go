package activity

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/helpers"
)

type Handler struct {
	repo   Repository
	logger *slog.Logger
}

func NewHandler(repo Repository, logger *slog.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/activities", h.List)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	activities, err := h.repo.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list activities", slog.Any("error", err))
		helpers.RespondJSON(w, http.StatusInternalServerError, helpers.ErrorResponse("failed to list activities", nil))
		return
	}

	helpers.RespondJSON(w, http.StatusOK, helpers.SuccessResponse("activities retrieved", activities))
}
