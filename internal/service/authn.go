package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dhaba-pos/api/internal/auth"
	"github.com/dhaba-pos/api/internal/database"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthStore defines the user lookups used by login.
type AuthStore interface {
	GetActiveUserByUsername(ctx context.Context, username string) (database.User, error)
	GetActiveManagerByUsername(ctx context.Context, username string) (database.User, error)
}

// AuthService issues JWTs for terminal logins and for the short-lived manager
// elevation used by discounts and cancellations.
type AuthService struct {
	store     AuthStore
	jwtSecret string
}

func NewAuthService(store AuthStore, jwtSecret string) *AuthService {
	return &AuthService{store: store, jwtSecret: jwtSecret}
}

type LoginResult struct {
	Token    string
	Username string
	Role     string
}

// Login authenticates a terminal user and returns a shift-length token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.store.GetActiveUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return s.issue(user, password, auth.TokenTTL)
}

// ManagerLogin authenticates a manager for a single privileged action. The
// token it returns expires quickly so an unattended terminal does not stay
// elevated.
func (s *AuthService) ManagerLogin(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.store.GetActiveManagerByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get manager: %w", err)
	}
	return s.issue(user, password, auth.ManagerTokenTTL)
}

func (s *AuthService) issue(user database.User, password string, ttl time.Duration) (*LoginResult, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, err := auth.GenerateToken(s.jwtSecret, user.ID, user.RestaurantID, user.Role, ttl)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &LoginResult{Token: token, Username: user.Username, Role: user.Role}, nil
}
