package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateAndValidateToken(t *testing.T) {
	userID := uuid.New()
	restaurantID := uuid.New()

	token, err := GenerateToken("secret", userID, restaurantID, "CASHIER", TokenTTL)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateToken("secret", token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user: got %s, want %s", claims.UserID, userID)
	}
	if claims.RestaurantID != restaurantID {
		t.Errorf("restaurant: got %s, want %s", claims.RestaurantID, restaurantID)
	}
	if claims.Role != "CASHIER" {
		t.Errorf("role: got %s, want CASHIER", claims.Role)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", uuid.New(), uuid.New(), "CASHIER", TokenTTL)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ValidateToken("other-secret", token); err == nil {
		t.Fatal("expected validation to fail with the wrong secret")
	}
}

func TestValidateToken_Expired(t *testing.T) {
	token, err := GenerateToken("secret", uuid.New(), uuid.New(), "MANAGER", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ValidateToken("secret", token); err == nil {
		t.Fatal("expected validation to fail for an expired token")
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	if _, err := ValidateToken("secret", "not.a.token"); err == nil {
		t.Fatal("expected validation to fail for garbage input")
	}
}
