package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexmeckes/draftagent/go/internal/models"
	"github.com/alexmeckes/draftagent/go/internal/users"
)

// UsersApp defines what the auth routes need from the users application
type UsersApp interface {
	ConnectSleeper(ctx context.Context, username string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type userResponse struct {
	User *models.User `json:"user"`
}

// AuthHandler links sleeper accounts to local users. Sessions are the
// X-User-Id header; there is no token to issue or revoke.
type AuthHandler struct {
	users UsersApp
}

func NewAuthHandler(app UsersApp) *AuthHandler {
	return &AuthHandler{users: app}
}

// HandleSleeperConnect handles POST /api/auth/sleeper-connect
func (h *AuthHandler) HandleSleeperConnect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err, "Failed to authenticate with Sleeper")
		return
	}

	user, err := h.users.ConnectSleeper(r.Context(), req.Username)
	if err != nil {
		writeError(w, r, err, "Failed to authenticate with Sleeper")
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: user})
}

// HandleSession handles GET /api/auth/session
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		writeError(w, r, err, "Failed to get session")
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if errors.Is(err, users.ErrUserNotFound) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid session"})
		return
	}
	if err != nil {
		writeError(w, r, err, "Failed to get session")
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: user})
}

// HandleLogout handles POST /api/auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/sleeper-connect", h.HandleSleeperConnect)
	mux.HandleFunc("GET /api/auth/session", h.HandleSession)
	mux.HandleFunc("POST /api/auth/logout", h.HandleLogout)
}
