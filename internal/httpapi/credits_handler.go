package httpapi

import (
	"net/http"

	"github.com/google/uuid"

	"image_gateway/internal/middleware"
	"image_gateway/internal/utils"
)

type creditsResponse struct {
	Credits int `json:"credits"`
}

// handleCredits returns the caller's remaining balance. A user without a
// ledger row gets one lazily with the default signup grant, matching the
// product's first-visit behavior.
func (d *Dependencies) handleCredits(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetSessionClaims(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing session")
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "malformed user id")
		return
	}

	if credits, found, err := d.Credits.Get(r.Context(), claims.UserID); err == nil && found {
		utils.RespondWithJSON(w, http.StatusOK, creditsResponse{Credits: credits})
		return
	}

	user, err := d.Users.Provision(r.Context(), userID, claims.Email, d.Config.Credits.SignupGrant)
	if err != nil {
		d.Logger.Error("failed to load credits", "user", userID, "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to load credits")
		return
	}

	if err := d.Credits.Set(r.Context(), claims.UserID, user.Credits); err != nil {
		d.Logger.Warn("failed to cache credits", "user", userID, "error", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, creditsResponse{Credits: user.Credits})
}
