package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dhaba-pos/api/internal/service"
)

// AuthServicer defines the service methods needed by auth handlers.
// Satisfied by *service.AuthService; narrow interface for testability.
type AuthServicer interface {
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
	ManagerLogin(ctx context.Context, username, password string) (*service.LoginResult, error)
}

// AuthHandler handles login endpoints.
type AuthHandler struct {
	svc AuthServicer
}

func NewAuthHandler(svc AuthServicer) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// RegisterRoutes registers auth endpoints on the given Chi router.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Post("/manager-login", h.ManagerLogin)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.svc.Login)
}

// ManagerLogin handles POST /auth/manager-login. Issues a short-lived token
// used to authorize a single discount, cancellation or day lock.
func (h *AuthHandler) ManagerLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.svc.ManagerLogin)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, fn func(context.Context, string, string) (*service.LoginResult, error)) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username and password are required"})
		return
	}

	result, err := fn(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid username or password"})
			return
		}
		log.Printf("ERROR: login: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:    result.Token,
		Username: result.Username,
		Role:     result.Role,
	})
}
