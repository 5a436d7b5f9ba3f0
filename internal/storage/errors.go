package storage

import "errors"

var (
	// ErrUserNotFound is returned when no ledger row exists for a user
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when a signup collides with an existing email
	ErrEmailTaken = errors.New("email already registered")

	// ErrNoCredits is returned when a conditional decrement matches no row,
	// i.e. the balance is already zero
	ErrNoCredits = errors.New("no credits available")

	// ErrRequestNotFound is returned when a generation request row is not found
	ErrRequestNotFound = errors.New("generation request not found")

	// ErrGenerationNotFound is returned when a generation row is not found
	ErrGenerationNotFound = errors.New("generation not found")
)
