package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"image_gateway/internal/models"
)

// GenerationRepository handles the generations history table.
type GenerationRepository struct {
	db *DB
}

// NewGenerationRepository creates a new generation repository
func NewGenerationRepository(db *DB) *GenerationRepository {
	return &GenerationRepository{db: db}
}

// Create inserts a generation history row
func (r *GenerationRepository) Create(ctx context.Context, gen *models.Generation) error {
	query := `
		INSERT INTO generations (id, user_id, input_prompt, theme, input_image_url,
		                         generated_image_url, storage_url, storage_path, prediction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	if gen.ID == uuid.Nil {
		gen.ID = uuid.New()
	}

	err := r.db.conn.QueryRowxContext(
		ctx, query,
		gen.ID, gen.UserID, gen.InputPrompt, gen.Theme, gen.InputImageURL,
		gen.GeneratedImageURL, gen.StorageURL, gen.StoragePath, gen.PredictionID,
	).Scan(&gen.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create generation: %w", err)
	}

	return nil
}

// GetByID retrieves a generation by ID
func (r *GenerationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Generation, error) {
	var gen models.Generation
	query := `
		SELECT id, user_id, input_prompt, theme, input_image_url,
		       generated_image_url, storage_url, storage_path, prediction_id, created_at
		FROM generations
		WHERE id = $1
	`

	err := r.db.conn.GetContext(ctx, &gen, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGenerationNotFound
		}
		return nil, fmt.Errorf("failed to get generation: %w", err)
	}

	return &gen, nil
}

// ListByUser returns a user's generation history, newest first
func (r *GenerationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Generation, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, user_id, input_prompt, theme, input_image_url,
		       generated_image_url, storage_url, storage_path, prediction_id, created_at
		FROM generations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var generations []*models.Generation
	err := r.db.conn.SelectContext(ctx, &generations, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}

	return generations, nil
}
