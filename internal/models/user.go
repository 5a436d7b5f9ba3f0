package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a ledger row: identity plus the remaining generation credits.
// Credits never go negative; the conditional decrement in storage enforces it.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	Credits      int       `db:"credits" json:"credits"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
