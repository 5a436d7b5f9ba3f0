package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"image_gateway/internal/models"
)

// UserRepository handles the users table, which doubles as the credit ledger.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, email, password_hash, role, credits, created_at
		FROM users
		WHERE id = $1
	`

	err := r.db.conn.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, email, password_hash, role, credits, created_at
		FROM users
		WHERE email = $1
	`

	err := r.db.conn.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// Create inserts a new user with a starting credit grant
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, role, credits)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = "regular"
	}

	err := r.db.conn.QueryRowxContext(
		ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Role, user.Credits,
	).Scan(&user.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// Provision lazily creates a ledger row with the default credit grant.
// Returns the existing row when one already exists.
func (r *UserRepository) Provision(ctx context.Context, id uuid.UUID, email string, grant int) (*models.User, error) {
	var user models.User
	query := `
		INSERT INTO users (id, email, role, credits)
		VALUES ($1, $2, 'regular', $3)
		ON CONFLICT (id) DO UPDATE SET email = users.email
		RETURNING id, email, password_hash, role, credits, created_at
	`

	err := r.db.conn.GetContext(ctx, &user, query, id, email, grant)
	if err != nil {
		return nil, fmt.Errorf("failed to provision user: %w", err)
	}

	return &user, nil
}

// SpendCredit atomically decrements the balance by one and returns the
// remaining credits. The conditional update is what keeps the balance from
// ever going negative under concurrent generations.
func (r *UserRepository) SpendCredit(ctx context.Context, id uuid.UUID) (int, error) {
	var remaining int
	query := `
		UPDATE users
		SET credits = credits - 1
		WHERE id = $1 AND credits > 0
		RETURNING credits
	`

	err := r.db.conn.GetContext(ctx, &remaining, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Either the user vanished or the balance hit zero; distinguish
			// for callers that care.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return 0, getErr
			}
			return 0, ErrNoCredits
		}
		return 0, fmt.Errorf("failed to spend credit: %w", err)
	}

	return remaining, nil
}
