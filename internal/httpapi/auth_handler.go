package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"image_gateway/internal/auth"
	"image_gateway/internal/models"
	"image_gateway/internal/storage"
	"image_gateway/internal/utils"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string      `json:"token"`
	ExpiresAt int64       `json:"expiresAt"`
	User      sessionUser `json:"user"`
}

type sessionUser struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Credits int    `json:"credits"`
}

// handleSignup registers a new account with the default credit grant and
// returns a session token
func (d *Dependencies) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	body.Email = strings.TrimSpace(strings.ToLower(body.Email))
	if body.Email == "" || !strings.Contains(body.Email, "@") {
		utils.RespondWithError(w, http.StatusBadRequest, "valid email is required")
		return
	}
	if len(body.Password) < 8 {
		utils.RespondWithError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(body.Password)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	user := &models.User{
		Email:        body.Email,
		PasswordHash: hash,
		Credits:      d.Config.Credits.SignupGrant,
	}
	if err := d.Users.Create(r.Context(), user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			utils.RespondWithError(w, http.StatusConflict, "email already registered")
			return
		}
		d.Logger.Error("signup failed", "email", body.Email, "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	d.writeSession(w, http.StatusCreated, user)
}

// handleLogin verifies credentials and returns a session token
func (d *Dependencies) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	body.Email = strings.TrimSpace(strings.ToLower(body.Email))

	user, err := d.Users.GetByEmail(r.Context(), body.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		d.Logger.Error("login failed", "email", body.Email, "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "login failed")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, body.Password) {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	d.writeSession(w, http.StatusOK, user)
}

func (d *Dependencies) writeSession(w http.ResponseWriter, status int, user *models.User) {
	token, expiresAt, err := auth.GenerateSessionToken(user.ID.String(), user.Email, d.Config.JWTSecret, d.Config.JWTTTL)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to issue session")
		return
	}

	utils.RespondWithJSON(w, status, sessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User: sessionUser{
			ID:      user.ID.String(),
			Email:   user.Email,
			Credits: user.Credits,
		},
	})
}
