package httpapi

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"image_gateway/internal/middleware"
	"image_gateway/internal/models"
	"image_gateway/internal/utils"
)

type generationsResponse struct {
	Generations []*models.Generation `json:"generations"`
}

// handleGenerations lists the caller's generation history, newest first
func (d *Dependencies) handleGenerations(w http.ResponseWriter, r *http.Request) {
	userIDStr, ok := middleware.GetUserID(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing session")
		return
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "malformed user id")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	generations, err := d.Generations.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		d.Logger.Error("failed to list generations", "user", userID, "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list generations")
		return
	}

	if generations == nil {
		generations = []*models.Generation{}
	}

	utils.RespondWithJSON(w, http.StatusOK, generationsResponse{Generations: generations})
}
