//go:build integration

package handler_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	"github.com/dhaba-pos/api/internal/config"
	"github.com/dhaba-pos/api/internal/database"
	"github.com/dhaba-pos/api/internal/router"
)

// TestIntegrationFlow exercises the whole order lifecycle against a real
// PostgreSQL database: open order, add items, punch to kitchen, mark items
// done until the order turns READY, dispatch, apply a manager discount,
// settle with a split payment and finally lock the business day.
func TestIntegrationFlow(t *testing.T) {
	ctx := context.Background()

	pgContainer, connStr, cleanup := setupPostgresContainer(t, ctx)
	defer cleanup()

	runMigrations(t, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
	defer pool.Close()

	cfg := &config.Config{
		Port:        "8081",
		DatabaseURL: connStr,
		JWTSecret:   "integration-test-secret",
	}
	queries := database.New(pool)
	r := router.New(cfg, queries, pool)

	server := httptest.NewServer(r)
	defer server.Close()

	// --- 1. Seed master data (no admin API; inserted directly) ---
	seed := seedRestaurant(t, ctx, pool)

	// --- 2. Cashier opens an order ---
	cashierToken := login(t, server, "/api/auth/login", "cashier1", "password123")

	orderResp := httpPostJSON(t, server, "/api/orders/live",
		map[string]interface{}{"order_type": "DINE_IN"}, cashierToken)
	liveOrderID := orderResp["live_order_id"].(string)
	if orderResp["order_no"].(float64) != 1 {
		t.Fatalf("first order_no: got %v, want 1", orderResp["order_no"])
	}

	// --- 3. Re-opening with an empty draft reuses the same order ---
	reuseResp := httpPostJSON(t, server, "/api/orders/live",
		map[string]interface{}{"order_type": "DINE_IN"}, cashierToken)
	if reuseResp["live_order_id"].(string) != liveOrderID {
		t.Fatalf("empty draft not reused: got %v, want %v", reuseResp["live_order_id"], liveOrderID)
	}

	// --- 4. Add items: Dal Full x1 (200) + Roti x4 (15 each) = 260 ---
	httpPostJSON(t, server, "/api/orders/live/"+liveOrderID+"/item",
		map[string]interface{}{"item_id": seed.dalID.String(), "size_id": seed.dalFullID.String(), "qty": 1},
		cashierToken)
	httpPostJSON(t, server, "/api/orders/live/"+liveOrderID+"/item",
		map[string]interface{}{"item_id": seed.rotiID.String(), "size_id": seed.rotiSizeID.String(), "qty": 4},
		cashierToken)

	bill := httpGetJSON(t, server, "/api/orders/live/"+liveOrderID, cashierToken)
	if bill["subtotal"].(string) != "260.00" {
		t.Fatalf("subtotal: got %v, want 260.00", bill["subtotal"])
	}

	// --- 5. Send to kitchen ---
	httpPostJSON(t, server, "/api/orders/"+liveOrderID+"/send-to-kitchen", nil, cashierToken)

	// --- 6. Kitchen works the queue; the last done item promotes the order ---
	kitchenToken := login(t, server, "/api/auth/login", "kitchen1", "password123")
	queue := httpGetJSONList(t, server, "/api/kds/items", kitchenToken)
	if len(queue) != 2 {
		t.Fatalf("kitchen queue: got %d items, want 2", len(queue))
	}
	for _, item := range queue {
		rowID := item["item_row_id"].(string)
		httpPostJSON(t, server, "/api/kds/item/"+rowID+"/done", nil, kitchenToken)
	}

	// --- 7. Dispatch sees the READY order and hands it over ---
	dispatchToken := login(t, server, "/api/auth/login", "dispatch1", "password123")
	ready := httpGetJSONList(t, server, "/api/dispatch/orders", dispatchToken)
	if len(ready) != 1 {
		t.Fatalf("ready orders: got %d, want 1", len(ready))
	}
	httpPostJSON(t, server, "/api/dispatch/order/"+liveOrderID, nil, dispatchToken)

	// --- 8. Order shows up in the cashier's pending list ---
	pending := httpGetJSONList(t, server, "/api/orders/pending", cashierToken)
	if len(pending) != 1 {
		t.Fatalf("pending orders: got %d, want 1", len(pending))
	}

	// --- 9. Manager applies a 50 rupee discount ---
	managerToken := login(t, server, "/api/auth/manager-login", "manager1", "password123")
	discountResp := httpPostJSON(t, server, "/api/orders/"+liveOrderID+"/discount",
		map[string]interface{}{"type": "VALUE", "value": "50"}, managerToken)
	if discountResp["final_amount"].(string) != "210.00" {
		t.Fatalf("final after discount: got %v, want 210.00", discountResp["final_amount"])
	}

	// --- 10. Split payment must equal the net exactly ---
	badClose := httpPostJSONStatus(t, server, "/api/orders/"+liveOrderID+"/close",
		map[string]interface{}{
			"payments": []map[string]string{
				{"tender_id": seed.cashTenderID.String(), "amount": "200.00"},
			},
		}, cashierToken)
	if badClose != http.StatusBadRequest {
		t.Fatalf("short payment: got status %d, want %d", badClose, http.StatusBadRequest)
	}

	closeResp := httpPostJSON(t, server, "/api/orders/"+liveOrderID+"/close",
		map[string]interface{}{
			"payments": []map[string]string{
				{"tender_id": seed.cashTenderID.String(), "amount": "150.00"},
				{"tender_id": seed.upiTenderID.String(), "amount": "60.00"},
			},
		}, cashierToken)
	if closeResp["net_amount"].(string) != "210.00" {
		t.Fatalf("net_amount: got %v, want 210.00", closeResp["net_amount"])
	}
	orderID := uuid.MustParse(closeResp["order_id"].(string))

	// --- 11. Live rows are gone, history rows exist ---
	var liveCount int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM live_orders`).Scan(&liveCount); err != nil {
		t.Fatalf("count live orders: %v", err)
	}
	if liveCount != 0 {
		t.Fatalf("live orders after close: got %d, want 0", liveCount)
	}
	var paymentCount int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM order_payments WHERE order_id = $1`, orderID).Scan(&paymentCount); err != nil {
		t.Fatalf("count payments: %v", err)
	}
	if paymentCount != 2 {
		t.Fatalf("payment rows: got %d, want 2", paymentCount)
	}

	// --- 12. Manager locks the day; new orders are rejected ---
	httpPostJSON(t, server, "/api/day-end/lock", nil, managerToken)
	lockedStatus := httpPostJSONStatus(t, server, "/api/orders/live",
		map[string]interface{}{"order_type": "DINE_IN"}, cashierToken)
	if lockedStatus != http.StatusForbidden {
		t.Fatalf("order after day lock: got status %d, want %d", lockedStatus, http.StatusForbidden)
	}

	// --- 13. Daily report reflects the closed order ---
	report := httpGetJSON(t, server,
		fmt.Sprintf("/api/reports/daily?date=%s", time.Now().Format("2006-01-02")), managerToken)
	if report["total_orders"].(float64) != 1 {
		t.Fatalf("report total_orders: got %v, want 1", report["total_orders"])
	}
	if report["net_sales"].(string) != "210.00" {
		t.Fatalf("report net_sales: got %v, want 210.00", report["net_sales"])
	}

	t.Logf("integration flow passed: container=%s, order=%s", pgContainer.GetContainerID(), orderID)
}

// --- Setup helpers ---

func setupPostgresContainer(t *testing.T, ctx context.Context) (testcontainers.Container, string, func()) {
	t.Helper()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("pos_test"),
		tcpostgres.WithUsername("pos"),
		tcpostgres.WithPassword("pos"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("get connection string: %v", err)
	}

	cleanup := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	}

	return pgContainer, connStr, cleanup
}

func runMigrations(t *testing.T, connStr string) {
	t.Helper()

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("open db for migrations: %v", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		t.Fatalf("create migrate driver: %v", err)
	}

	// Path relative to this package directory; go test sets cwd there.
	m, err := migrate.NewWithDatabaseInstance("file://../../migrations", "postgres", driver)
	if err != nil {
		t.Fatalf("create migrate instance: %v", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("run migrations: %v", err)
	}
}

type seedData struct {
	restaurantID uuid.UUID
	dalID        uuid.UUID
	dalFullID    uuid.UUID
	rotiID       uuid.UUID
	rotiSizeID   uuid.UUID
	cashTenderID uuid.UUID
	upiTenderID  uuid.UUID
}

func seedRestaurant(t *testing.T, ctx context.Context, pool *pgxpool.Pool) seedData {
	t.Helper()
	var s seedData

	err := pool.QueryRow(ctx,
		`INSERT INTO restaurants (name) VALUES ($1) RETURNING id`,
		"Test Dhaba",
	).Scan(&s.restaurantID)
	if err != nil {
		t.Fatalf("create restaurant: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	for _, u := range []struct{ username, role string }{
		{"manager1", "MANAGER"},
		{"cashier1", "CASHIER"},
		{"kitchen1", "KITCHEN"},
		{"dispatch1", "DISPATCH"},
	} {
		_, err := pool.Exec(ctx,
			`INSERT INTO users (restaurant_id, username, password_hash, role) VALUES ($1, $2, $3, $4)`,
			s.restaurantID, u.username, string(hash), u.role)
		if err != nil {
			t.Fatalf("create user %s: %v", u.username, err)
		}
	}

	if _, err := pool.Exec(ctx,
		`INSERT INTO order_sequence (restaurant_id, last_order_no) VALUES ($1, 0)`,
		s.restaurantID); err != nil {
		t.Fatalf("create order sequence: %v", err)
	}

	var categoryID uuid.UUID
	err = pool.QueryRow(ctx,
		`INSERT INTO item_categories (restaurant_id, category_name) VALUES ($1, $2) RETURNING id`,
		s.restaurantID, "Mains",
	).Scan(&categoryID)
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	err = pool.QueryRow(ctx,
		`INSERT INTO items (restaurant_id, category_id, item_name) VALUES ($1, $2, $3) RETURNING id`,
		s.restaurantID, categoryID, "Dal Makhani",
	).Scan(&s.dalID)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	err = pool.QueryRow(ctx,
		`INSERT INTO item_sizes (item_id, size_name, price) VALUES ($1, $2, $3) RETURNING id`,
		s.dalID, "Full", "200.00",
	).Scan(&s.dalFullID)
	if err != nil {
		t.Fatalf("create size: %v", err)
	}

	err = pool.QueryRow(ctx,
		`INSERT INTO items (restaurant_id, category_id, item_name) VALUES ($1, $2, $3) RETURNING id`,
		s.restaurantID, categoryID, "Tandoori Roti",
	).Scan(&s.rotiID)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	err = pool.QueryRow(ctx,
		`INSERT INTO item_sizes (item_id, size_name, price) VALUES ($1, $2, $3) RETURNING id`,
		s.rotiID, "Regular", "15.00",
	).Scan(&s.rotiSizeID)
	if err != nil {
		t.Fatalf("create size: %v", err)
	}

	err = pool.QueryRow(ctx,
		`INSERT INTO payment_tenders (restaurant_id, tender_name) VALUES ($1, $2) RETURNING id`,
		s.restaurantID, "Cash",
	).Scan(&s.cashTenderID)
	if err != nil {
		t.Fatalf("create tender: %v", err)
	}
	err = pool.QueryRow(ctx,
		`INSERT INTO payment_tenders (restaurant_id, tender_name) VALUES ($1, $2) RETURNING id`,
		s.restaurantID, "UPI",
	).Scan(&s.upiTenderID)
	if err != nil {
		t.Fatalf("create tender: %v", err)
	}

	return s
}

// --- HTTP helpers ---

func login(t *testing.T, server *httptest.Server, path, username, password string) string {
	t.Helper()
	resp := httpPostJSON(t, server, path, map[string]interface{}{
		"username": username,
		"password": password,
	}, "")
	token, ok := resp["token"].(string)
	if !ok || token == "" {
		t.Fatalf("login failed: no token in response: %+v", resp)
	}
	return token
}

func httpPostJSON(t *testing.T, server *httptest.Server, path string, body map[string]interface{}, token string) map[string]interface{} {
	t.Helper()
	resp := doRequest(t, server, "POST", path, body, token)
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		t.Fatalf("POST %s: status %d, body: %v", path, resp.StatusCode, errResp)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return result
}

// httpPostJSONStatus returns only the status code, for calls expected to fail.
func httpPostJSONStatus(t *testing.T, server *httptest.Server, path string, body map[string]interface{}, token string) int {
	t.Helper()
	resp := doRequest(t, server, "POST", path, body, token)
	defer resp.Body.Close()
	return resp.StatusCode
}

func httpGetJSON(t *testing.T, server *httptest.Server, path, token string) map[string]interface{} {
	t.Helper()
	resp := doRequest(t, server, "GET", path, nil, token)
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		t.Fatalf("GET %s: status %d, body: %v", path, resp.StatusCode, errResp)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return result
}

func httpGetJSONList(t *testing.T, server *httptest.Server, path, token string) []map[string]interface{} {
	t.Helper()
	resp := doRequest(t, server, "GET", path, nil, token)
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		t.Fatalf("GET %s: status %d, body: %v", path, resp.StatusCode, errResp)
	}

	var result []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return result
}

func doRequest(t *testing.T, server *httptest.Server, method, path string, body map[string]interface{}, token string) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}
