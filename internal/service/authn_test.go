package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dhaba-pos/api/internal/auth"
	"github.com/dhaba-pos/api/internal/database"
)

type mockAuthStore struct {
	getUserFn    func(ctx context.Context, username string) (database.User, error)
	getManagerFn func(ctx context.Context, username string) (database.User, error)
}

func (m *mockAuthStore) GetActiveUserByUsername(ctx context.Context, username string) (database.User, error) {
	return m.getUserFn(ctx, username)
}
func (m *mockAuthStore) GetActiveManagerByUsername(ctx context.Context, username string) (database.User, error) {
	return m.getManagerFn(ctx, username)
}

func seedUser(t *testing.T, role, password string) database.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return database.User{
		ID:           uuid.New(),
		RestaurantID: uuid.New(),
		Username:     "tester",
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
}

func TestLogin_Success(t *testing.T) {
	user := seedUser(t, "CASHIER", "secret")
	svc := NewAuthService(&mockAuthStore{
		getUserFn: func(ctx context.Context, username string) (database.User, error) {
			return user, nil
		},
	}, "test-secret")

	result, err := svc.Login(context.Background(), "tester", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Role != "CASHIER" {
		t.Fatalf("expected CASHIER role, got %s", result.Role)
	}

	claims, err := auth.ValidateToken("test-secret", result.Token)
	if err != nil {
		t.Fatalf("token does not validate: %v", err)
	}
	if claims.UserID != user.ID || claims.RestaurantID != user.RestaurantID {
		t.Fatal("claims do not match the user")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	user := seedUser(t, "CASHIER", "secret")
	svc := NewAuthService(&mockAuthStore{
		getUserFn: func(ctx context.Context, username string) (database.User, error) {
			return user, nil
		},
	}, "test-secret")

	_, err := svc.Login(context.Background(), "tester", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got: %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := NewAuthService(&mockAuthStore{
		getUserFn: func(ctx context.Context, username string) (database.User, error) {
			return database.User{}, pgx.ErrNoRows
		},
	}, "test-secret")

	_, err := svc.Login(context.Background(), "ghost", "secret")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got: %v", err)
	}
}

func TestManagerLogin_OnlyFindsManagers(t *testing.T) {
	manager := seedUser(t, "MANAGER", "secret")
	svc := NewAuthService(&mockAuthStore{
		getManagerFn: func(ctx context.Context, username string) (database.User, error) {
			if username == "manager" {
				return manager, nil
			}
			return database.User{}, pgx.ErrNoRows
		},
	}, "test-secret")

	if _, err := svc.ManagerLogin(context.Background(), "manager", "secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.ManagerLogin(context.Background(), "cashier", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for non-manager, got: %v", err)
	}
}
