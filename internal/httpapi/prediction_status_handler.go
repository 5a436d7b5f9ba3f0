package httpapi

import (
	"net/http"

	"image_gateway/internal/prediction"
	"image_gateway/internal/utils"
)

type predictionStatusResponse struct {
	ID     string  `json:"id"`
	Status string  `json:"status"`
	Output *string `json:"output"`
	Error  *string `json:"error"`
}

// handlePredictionStatus is the client-facing poll route: it passes the
// provider's view of a job through, with the output already canonicalized
// to a single URL.
func (d *Dependencies) handlePredictionStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "prediction id is required")
		return
	}

	pred, err := d.Predictions.Get(r.Context(), id)
	if err != nil {
		d.Logger.Error("prediction status lookup failed", "id", id, "error", err)
		utils.RespondWithError(w, http.StatusBadGateway, "failed to fetch prediction status")
		return
	}

	resp := predictionStatusResponse{
		ID:     pred.ID,
		Status: pred.Status,
		Error:  pred.Error,
	}
	if pred.Status == prediction.StatusSucceeded {
		url, err := pred.OutputURL()
		if err != nil {
			// A succeeded job with no usable output must not look like a
			// success to the poller.
			d.Logger.Error("prediction output violates contract", "id", id, "error", err)
			utils.RespondWithError(w, http.StatusBadGateway, "prediction output violates the provider contract")
			return
		}
		resp.Output = &url
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}
