package httpapi

import (
	"io"
	"net/http"

	"image_gateway/internal/middleware"
	"image_gateway/internal/utils"
)

// maxUploadBytes caps source-image uploads at 10 MB
const maxUploadBytes = 10 << 20

type uploadResponse struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// handleUpload accepts a multipart source image and stores it in the user
// uploads bucket. The returned public URL feeds the imageUrl field of a
// subsequent generate call.
func (d *Dependencies) handleUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing session")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "missing 'file' field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "unsupported content type")
		return
	}

	body, err := io.ReadAll(file)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	stored, err := d.Uploads.Store(r.Context(), userID, header.Filename, body, contentType)
	if err != nil {
		d.Logger.Error("upload failed", "user", userID, "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, uploadResponse{
		URL:  stored.PublicURL,
		Path: stored.Key,
	})
}
