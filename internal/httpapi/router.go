package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"image_gateway/internal/assets"
	"image_gateway/internal/config"
	"image_gateway/internal/generation"
	"image_gateway/internal/middleware"
	"image_gateway/internal/models"
	"image_gateway/internal/prediction"
	"image_gateway/internal/ratelimit"
	"image_gateway/internal/storage"
	"image_gateway/internal/utils"
)

// Generator runs one generation end to end.
type Generator interface {
	Generate(ctx context.Context, params generation.Params) (*generation.Result, error)
}

// PredictionStore reads prediction state for the status passthrough route.
type PredictionStore interface {
	Get(ctx context.Context, id string) (*prediction.Prediction, error)
}

// UserStore is the slice of the user repository the HTTP layer needs.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Provision(ctx context.Context, id uuid.UUID, email string, grant int) (*models.User, error)
}

// GenerationStore lists generation history.
type GenerationStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Generation, error)
}

// AssetUploader stores user-supplied source images.
type AssetUploader interface {
	Store(ctx context.Context, userID, name string, body []byte, contentType string) (*assets.StoredObject, error)
}

// BalanceCache fronts the credit balance reads.
type BalanceCache interface {
	Get(ctx context.Context, userID string) (int, bool, error)
	Set(ctx context.Context, userID string, credits int) error
	Invalidate(ctx context.Context, userID string) error
}

// Dependencies aggregates all services the HTTP layer needs.
type Dependencies struct {
	Generator   Generator
	Predictions PredictionStore
	Users       UserStore
	Generations GenerationStore
	Uploads     AssetUploader
	RateLimit   ratelimit.Limiter
	Credits     BalanceCache
	Config      *config.Config
	Logger      *utils.Logger

	// Closers for graceful shutdown
	DB    *storage.DB
	Redis *storage.RedisClient
}

// NewRouter creates an HTTP router with all dependencies wired up
func NewRouter(ctx context.Context, cfg *config.Config) (*http.ServeMux, *Dependencies, error) {
	db, err := storage.NewDB(storage.DBConfig{
		DSN:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient, err := storage.NewRedisClient(storage.RedisConfig{
		Address:      cfg.Redis.Address,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	userRepo := storage.NewUserRepository(db)
	requestRepo := storage.NewRequestRepository(db)
	generationRepo := storage.NewGenerationRepository(db)
	creditsCache := storage.NewCreditsCache(redisClient.Client(), cfg.Credits.CacheTTL)

	predictionClient, err := prediction.NewClient(prediction.ClientConfig{
		BaseURL:      cfg.Prediction.BaseURL,
		APIToken:     cfg.Prediction.APIToken,
		ModelVersion: cfg.Prediction.ModelVersion,
		PollInterval: cfg.Prediction.PollInterval,
		PollAttempts: cfg.Prediction.PollAttempts,
		HTTPTimeout:  cfg.Prediction.HTTPTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize prediction client: %w", err)
	}

	relay, err := assets.NewRelay(ctx, assets.RelayConfig{
		Region:          cfg.Storage.Region,
		GeneratedBucket: cfg.Storage.GeneratedBucket,
		UploadsBucket:   cfg.Storage.UploadsBucket,
		PublicBaseURL:   cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize asset relay: %w", err)
	}

	generator := generation.NewService(
		predictionClient,
		relay,
		userRepo,
		requestRepo,
		generationRepo,
		creditsCache,
	)

	var limiter ratelimit.Limiter = ratelimit.NewNoopLimiter()
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.NewRateLimiter(redisClient.Client(), cfg.RateLimit.RequestsPerMinute)
	}

	deps := &Dependencies{
		Generator:   generator,
		Predictions: predictionClient,
		Users:       userRepo,
		Generations: generationRepo,
		Uploads:     relay,
		RateLimit:   limiter,
		Credits:     creditsCache,
		Config:      cfg,
		Logger:      utils.NewLogger("httpapi"),
		DB:          db,
		Redis:       redisClient,
	}

	mux := http.NewServeMux()
	registerRoutes(mux, deps, cfg)

	return mux, deps, nil
}

func registerRoutes(mux *http.ServeMux, deps *Dependencies, cfg *config.Config) {
	// Generation endpoints. POST carries the requester identity in the body
	// per the inbound contract; GET is the client-facing status poll.
	mux.HandleFunc("POST /api/generate", deps.handleGenerate)
	mux.HandleFunc("GET /api/generate/{id}", deps.handlePredictionStatus)

	// Session endpoints
	mux.HandleFunc("POST /api/auth/signup", deps.handleSignup)
	mux.HandleFunc("POST /api/auth/login", deps.handleLogin)

	// Authenticated endpoints
	session := middleware.SessionMiddleware(cfg.JWTSecret)
	mux.Handle("GET /api/credits", session(http.HandlerFunc(deps.handleCredits)))
	mux.Handle("GET /api/generations", session(http.HandlerFunc(deps.handleGenerations)))
	mux.Handle("POST /api/uploads", session(http.HandlerFunc(deps.handleUpload)))

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}
