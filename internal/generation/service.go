package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"image_gateway/internal/assets"
	"image_gateway/internal/models"
	"image_gateway/internal/prediction"
	"image_gateway/internal/storage"
	"image_gateway/internal/utils"
)

// ErrInvalidRequest is returned for requests missing required fields
var ErrInvalidRequest = errors.New("invalid generation request")

// PredictionClient submits jobs to the model provider and waits for them.
type PredictionClient interface {
	Create(ctx context.Context, input prediction.Input) (*prediction.Prediction, error)
	Wait(ctx context.Context, id string) (*prediction.Prediction, error)
}

// AssetStore persists a provider-hosted asset into durable storage.
type AssetStore interface {
	Persist(ctx context.Context, srcURL, userID, predictionID string) (*assets.StoredObject, error)
}

// Ledger reads and spends per-user generation credits.
type Ledger interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SpendCredit(ctx context.Context, id uuid.UUID) (int, error)
}

// RequestStore records generation requests and their terminal transitions.
type RequestStore interface {
	Create(ctx context.Context, req *models.GenerationRequest) error
	MarkCompleted(ctx context.Context, id uuid.UUID, generationID *uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
}

// GenerationStore records generation history rows.
type GenerationStore interface {
	Create(ctx context.Context, gen *models.Generation) error
}

// BalanceCache is notified when a cached balance goes stale.
type BalanceCache interface {
	Invalidate(ctx context.Context, userID string) error
}

// Params is one user-initiated generation request.
type Params struct {
	UserID   string
	Prompt   string
	ImageURL string
	Theme    string
}

// Result is the unified outcome of a successful generation. Bookkeeping
// failures after the artifact exists do not fail the operation; they surface
// here as sub-errors so the client can reconcile.
type Result struct {
	PredictionID     string
	GenerationID     *uuid.UUID
	RequestID        *uuid.UUID
	ImageURL         string
	ProviderURL      string
	Status           string
	CreditsRemaining int
	AuditError       *string
	CreditError      *string
}

// Service orchestrates one generation end to end: validate, check the
// ledger, compose the prompt, drive the prediction to completion, persist
// the artifact, record history and spend a credit.
type Service struct {
	predictions PredictionClient
	assets      AssetStore
	users       Ledger
	requests    RequestStore
	generations GenerationStore
	cache       BalanceCache
	logger      *utils.Logger
}

// NewService wires the orchestrator's dependencies. cache may be nil.
func NewService(
	predictions PredictionClient,
	assetStore AssetStore,
	users Ledger,
	requests RequestStore,
	generations GenerationStore,
	cache BalanceCache,
) *Service {
	return &Service{
		predictions: predictions,
		assets:      assetStore,
		users:       users,
		requests:    requests,
		generations: generations,
		cache:       cache,
		logger:      utils.NewLogger("generation"),
	}
}

// Generate runs the full orchestration. Failures before the artifact is
// stored abort the whole request; failures after it are downgraded to
// sub-errors on the returned Result.
func (s *Service) Generate(ctx context.Context, params Params) (*Result, error) {
	// Validation happens before any ledger read or provider spend.
	if params.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidRequest)
	}
	if params.Prompt == "" && params.ImageURL == "" {
		return nil, fmt.Errorf("%w: either prompt or imageUrl is required", ErrInvalidRequest)
	}

	userID, err := uuid.Parse(params.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed userId", ErrInvalidRequest)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Credits <= 0 {
		return nil, storage.ErrNoCredits
	}

	fullPrompt := ComposePrompt(params.Prompt, params.Theme)

	var auditErrs []string

	// Best-effort audit: the pending request row is diagnostics, not a
	// precondition. Generation proceeds even if the insert fails.
	req := &models.GenerationRequest{
		UserID:        userID,
		Prompt:        fullPrompt,
		Theme:         optional(params.Theme),
		InputImageURL: optional(params.ImageURL),
		Status:        models.RequestStatusPending,
	}
	var requestID *uuid.UUID
	if err := s.requests.Create(ctx, req); err != nil {
		s.logger.Error("failed to record pending request", "user", userID, "error", err)
		auditErrs = append(auditErrs, fmt.Sprintf("request record: %v", err))
	} else {
		requestID = &req.ID
	}

	pred, err := s.predictions.Create(ctx, prediction.Input{
		Prompt:   fullPrompt,
		ImageURL: params.ImageURL,
	})
	if err != nil {
		s.failRequest(ctx, requestID)
		return nil, err
	}

	completed, err := s.predictions.Wait(ctx, pred.ID)
	if err != nil {
		// No artifact, no credit spent, nothing stored.
		s.failRequest(ctx, requestID)
		return nil, err
	}

	providerURL, err := completed.OutputURL()
	if err != nil {
		s.failRequest(ctx, requestID)
		return nil, err
	}

	stored, err := s.assets.Persist(ctx, providerURL, userID.String(), pred.ID)
	if err != nil {
		// The user got no durable result; this is a hard failure.
		s.failRequest(ctx, requestID)
		return nil, err
	}

	result := &Result{
		PredictionID:     pred.ID,
		RequestID:        requestID,
		ImageURL:         stored.PublicURL,
		ProviderURL:      providerURL,
		Status:           completed.Status,
		CreditsRemaining: user.Credits,
	}

	// From here on the user has their image. Everything below is
	// best-effort bookkeeping surfaced as sub-errors.

	gen := &models.Generation{
		UserID:            userID,
		InputPrompt:       fullPrompt,
		Theme:             optional(params.Theme),
		InputImageURL:     optional(params.ImageURL),
		GeneratedImageURL: providerURL,
		StorageURL:        stored.PublicURL,
		StoragePath:       stored.Key,
		PredictionID:      pred.ID,
	}
	if err := s.generations.Create(ctx, gen); err != nil {
		s.logger.Error("failed to record generation", "user", userID, "prediction", pred.ID, "error", err)
		auditErrs = append(auditErrs, fmt.Sprintf("generation record: %v", err))
	} else {
		result.GenerationID = &gen.ID
	}

	// The request completed even if the history insert failed; the
	// generation link is simply absent then.
	if requestID != nil {
		if err := s.requests.MarkCompleted(ctx, *requestID, result.GenerationID); err != nil {
			s.logger.Error("failed to complete request", "request", *requestID, "error", err)
			auditErrs = append(auditErrs, fmt.Sprintf("request completion: %v", err))
		}
	}

	remaining, err := s.users.SpendCredit(ctx, userID)
	if err != nil {
		s.logger.Error("credit decrement failed", "user", userID, "error", err)
		msg := err.Error()
		result.CreditError = &msg
		// Balance estimate stays at the pre-generation snapshot.
	} else {
		result.CreditsRemaining = remaining
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID.String()); err != nil {
			s.logger.Warn("failed to invalidate balance cache", "user", userID, "error", err)
		}
	}

	if len(auditErrs) > 0 {
		joined := strings.Join(auditErrs, "; ")
		result.AuditError = &joined
	}

	return result, nil
}

// failRequest transitions the pending audit row to failed, best-effort.
func (s *Service) failRequest(ctx context.Context, requestID *uuid.UUID) {
	if requestID == nil {
		return
	}
	if err := s.requests.MarkFailed(ctx, *requestID); err != nil {
		s.logger.Warn("failed to mark request failed", "request", *requestID, "error", err)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
