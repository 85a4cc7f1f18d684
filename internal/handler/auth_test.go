package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/dhaba-pos/api/internal/handler"
	"github.com/dhaba-pos/api/internal/service"
)

type mockAuthServicer struct {
	loginFn        func(ctx context.Context, username, password string) (*service.LoginResult, error)
	managerLoginFn func(ctx context.Context, username, password string) (*service.LoginResult, error)
}

func (m *mockAuthServicer) Login(ctx context.Context, username, password string) (*service.LoginResult, error) {
	return m.loginFn(ctx, username, password)
}
func (m *mockAuthServicer) ManagerLogin(ctx context.Context, username, password string) (*service.LoginResult, error) {
	return m.managerLoginFn(ctx, username, password)
}

func doLoginRequest(t *testing.T, svc *mockAuthServicer, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	h := handler.NewAuthHandler(svc)
	r := chi.NewRouter()
	r.Route("/api/auth", h.RegisterRoutes)

	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestLogin_ReturnsToken(t *testing.T) {
	svc := &mockAuthServicer{
		loginFn: func(ctx context.Context, username, password string) (*service.LoginResult, error) {
			if username != "cashier1" || password != "secret" {
				t.Errorf("credentials not forwarded: %s / %s", username, password)
			}
			return &service.LoginResult{Token: "jwt-token", Username: "cashier1", Role: "CASHIER"}, nil
		},
	}

	rr := doLoginRequest(t, svc, "/api/auth/login", map[string]string{
		"username": "cashier1",
		"password": "secret",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["token"] != "jwt-token" {
		t.Errorf("token: got %v", resp["token"])
	}
	if resp["role"] != "CASHIER" {
		t.Errorf("role: got %v", resp["role"])
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := &mockAuthServicer{
		loginFn: func(ctx context.Context, username, password string) (*service.LoginResult, error) {
			return nil, service.ErrInvalidCredentials
		},
	}

	rr := doLoginRequest(t, svc, "/api/auth/login", map[string]string{
		"username": "cashier1",
		"password": "wrong",
	})

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	rr := doLoginRequest(t, &mockAuthServicer{}, "/api/auth/login", map[string]string{
		"username": "cashier1",
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestManagerLogin_UsesManagerLookup(t *testing.T) {
	called := false
	svc := &mockAuthServicer{
		managerLoginFn: func(ctx context.Context, username, password string) (*service.LoginResult, error) {
			called = true
			return &service.LoginResult{Token: "mgr-token", Username: "boss", Role: "MANAGER"}, nil
		},
	}

	rr := doLoginRequest(t, svc, "/api/auth/manager-login", map[string]string{
		"username": "boss",
		"password": "secret",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	if !called {
		t.Fatal("expected the manager lookup to be used")
	}
}
