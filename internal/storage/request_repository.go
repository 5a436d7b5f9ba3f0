package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"image_gateway/internal/models"
)

// RequestRepository handles the requests audit table.
type RequestRepository struct {
	db *DB
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create inserts a pending generation request
func (r *RequestRepository) Create(ctx context.Context, req *models.GenerationRequest) error {
	query := `
		INSERT INTO requests (id, user_id, prompt, theme, input_image_url, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.Status == "" {
		req.Status = models.RequestStatusPending
	}

	err := r.db.conn.QueryRowxContext(
		ctx, query,
		req.ID, req.UserID, req.Prompt, req.Theme, req.InputImageURL, req.Status,
	).Scan(&req.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return nil
}

// MarkCompleted transitions a request to its completed terminal status and
// links the generation that fulfilled it. generationID may be nil when the
// history insert failed; the request still completed from the user's view.
func (r *RequestRepository) MarkCompleted(ctx context.Context, id uuid.UUID, generationID *uuid.UUID) error {
	query := `
		UPDATE requests
		SET status = $2, generation_id = $3, completed_at = NOW()
		WHERE id = $1 AND status = $4
	`

	result, err := r.db.conn.ExecContext(ctx, query, id, models.RequestStatusCompleted, generationID, models.RequestStatusPending)
	if err != nil {
		return fmt.Errorf("failed to mark request completed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrRequestNotFound
	}

	return nil
}

// MarkFailed transitions a request to its failed terminal status
func (r *RequestRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE requests
		SET status = $2, completed_at = NOW()
		WHERE id = $1 AND status = $3
	`

	result, err := r.db.conn.ExecContext(ctx, query, id, models.RequestStatusFailed, models.RequestStatusPending)
	if err != nil {
		return fmt.Errorf("failed to mark request failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrRequestNotFound
	}

	return nil
}

// GetByID retrieves a request by ID
func (r *RequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.GenerationRequest, error) {
	var req models.GenerationRequest
	query := `
		SELECT id, user_id, prompt, theme, input_image_url, status,
		       generation_id, created_at, completed_at
		FROM requests
		WHERE id = $1
	`

	err := r.db.conn.GetContext(ctx, &req, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	return &req, nil
}
