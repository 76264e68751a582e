package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/avasquez/recordshelf-be/internal/auth"
	"github.com/avasquez/recordshelf-be/internal/services"
)

// UserHandler handles HTTP requests for accounts and sessions.
type UserHandler struct {
	service  services.UserServiceProvider
	sessions *auth.Manager
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, sessions *auth.Manager) *UserHandler {
	return &UserHandler{service: service, sessions: sessions}
}

// RegisterPayload defines the structure for sign-up requests.
type RegisterPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// validateRegister mirrors the sign-up form rules; returns a human-readable
// message for the first violated rule.
func validateRegister(p RegisterPayload) string {
	switch {
	case p.Username == "":
		return "Username is required"
	case len(p.Username) > 100:
		return "Username must have at most 100 characters"
	case p.Email == "":
		return "Email is required"
	case p.Password == "":
		return "Password is required"
	case len(p.Password) < 8:
		return "Password must have at least 8 characters"
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return "Invalid email"
	}
	return ""
}

// Register handles new user sign-up. Uniqueness conflicts return 409 with the
// offending field name so the client can attach the error to the right input.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"user": nil, "message": "Invalid request body",
		})
		return
	}

	if msg := validateRegister(payload); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"user": nil, "message": msg,
		})
		return
	}

	user, err := h.service.CreateUser(payload.Username, payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			writeJSON(w, http.StatusConflict, map[string]interface{}{
				"user": nil, "field": "email", "message": "This email already exists",
			})
		case errors.Is(err, services.ErrUsernameTaken):
			writeJSON(w, http.StatusConflict, map[string]interface{}{
				"user": nil, "field": "username", "message": "This username already exists",
			})
		default:
			log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"user": nil, "message": "Something went wrong",
			})
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user": user, "message": "User created successfully",
	})
}

// List handles retrieving all users, ordered by username ascending.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"message": "Something went wrong",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// Me retrieves the currently authenticated user, including the saved-album
// collection. A 404 here means the session references a deleted account; the
// client must react by forcing a sign-out.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	user, err := h.service.GetUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]interface{}{
				"user": nil, "message": "User Not Found",
			})
			return
		}
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to load current user")
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"user": nil, "message": "Something went wrong",
		})
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Login handles user authentication and JWT generation.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"message": "Invalid request body",
		})
		return
	}

	user, err := h.service.AuthenticateUser(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"message": "Invalid email or password",
			})
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Authentication error")
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"message": "Something went wrong",
		})
		return
	}

	token, err := h.sessions.GenerateJWT(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate JWT")
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"message": "Failed to generate token",
		})
		return
	}

	// Set Secure flag based on environment.
	isProd := os.Getenv("APP_ENV") == "production"

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   isProd,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Logout clears the session cookie.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Path:     "/",
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Signed out"})
}
