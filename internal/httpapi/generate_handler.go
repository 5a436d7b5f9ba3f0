package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"image_gateway/internal/generation"
	"image_gateway/internal/storage"
	"image_gateway/internal/utils"
)

type generateRequest struct {
	Prompt   string `json:"prompt"`
	ImageURL string `json:"imageUrl"`
	Theme    string `json:"theme"`
	UserID   string `json:"userId"`
}

type generateResponse struct {
	Success          bool       `json:"success"`
	PredictionID     string     `json:"predictionId"`
	GenerationID     *uuid.UUID `json:"generationId"`
	RequestID        *uuid.UUID `json:"requestId,omitempty"`
	ImageURL         string     `json:"imageUrl"`
	ProviderURL      string     `json:"providerUrl"`
	Status           string     `json:"status"`
	CreditsRemaining int        `json:"creditsRemaining"`
	AuditError       *string    `json:"auditError"`
	CreditError      *string    `json:"creditError"`
}

// handleGenerate is the entry point for image generation.
//
// Flow:
//  1. Decode JSON body
//  2. Rate limit per user
//  3. Run the orchestration (validate, ledger check, predict, persist,
//     record, spend)
//  4. Map typed failures to status codes; 201 with the unified result on
//     success, including any non-fatal bookkeeping sub-errors
func (d *Dependencies) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var body generateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if body.UserID != "" && !d.RateLimit.Allow(r.Context(), body.UserID) {
		utils.RespondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	result, err := d.Generator.Generate(r.Context(), generation.Params{
		UserID:   body.UserID,
		Prompt:   body.Prompt,
		ImageURL: body.ImageURL,
		Theme:    body.Theme,
	})
	if err != nil {
		d.writeGenerateError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, generateResponse{
		Success:          true,
		PredictionID:     result.PredictionID,
		GenerationID:     result.GenerationID,
		RequestID:        result.RequestID,
		ImageURL:         result.ImageURL,
		ProviderURL:      result.ProviderURL,
		Status:           result.Status,
		CreditsRemaining: result.CreditsRemaining,
		AuditError:       result.AuditError,
		CreditError:      result.CreditError,
	})
}

func (d *Dependencies) writeGenerateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, generation.ErrInvalidRequest):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrUserNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, storage.ErrNoCredits):
		utils.RespondWithError(w, http.StatusForbidden, "No credits available")
	default:
		d.Logger.Error("generation failed", "error", err)
		utils.RespondWithErrorDetails(w, http.StatusInternalServerError, "Image generation failed", err.Error())
	}
}
