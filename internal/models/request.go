package models

import (
	"time"

	"github.com/google/uuid"
)

// Request statuses. A request reaches exactly one terminal status.
const (
	RequestStatusPending   = "pending"
	RequestStatusCompleted = "completed"
	RequestStatusFailed    = "failed"
)

// GenerationRequest is the audit row written when a user submits a
// generation. Writing it is best-effort: generation proceeds even if the
// insert fails.
type GenerationRequest struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	UserID        uuid.UUID  `db:"user_id" json:"userId"`
	Prompt        string     `db:"prompt" json:"prompt"`
	Theme         *string    `db:"theme" json:"theme,omitempty"`
	InputImageURL *string    `db:"input_image_url" json:"inputImageUrl,omitempty"`
	Status        string     `db:"status" json:"status"`
	GenerationID  *uuid.UUID `db:"generation_id" json:"generationId,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	CompletedAt   *time.Time `db:"completed_at" json:"completedAt,omitempty"`
}
