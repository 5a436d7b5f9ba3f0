package models

import (
	"time"

	"github.com/google/uuid"
)

// Generation is the history row for one successful generation: the composed
// prompt, the ephemeral provider URL and the durable stored copy.
type Generation struct {
	ID                uuid.UUID `db:"id" json:"id"`
	UserID            uuid.UUID `db:"user_id" json:"userId"`
	InputPrompt       string    `db:"input_prompt" json:"inputPrompt"`
	Theme             *string   `db:"theme" json:"theme,omitempty"`
	InputImageURL     *string   `db:"input_image_url" json:"inputImageUrl,omitempty"`
	GeneratedImageURL string    `db:"generated_image_url" json:"generatedImageUrl"`
	StorageURL        string    `db:"storage_url" json:"storageUrl"`
	StoragePath       string    `db:"storage_path" json:"storagePath"`
	PredictionID      string    `db:"prediction_id" json:"predictionId"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
}
