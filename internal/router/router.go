package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dhaba-pos/api/internal/config"
	"github.com/dhaba-pos/api/internal/database"
	"github.com/dhaba-pos/api/internal/enum"
	"github.com/dhaba-pos/api/internal/handler"
	mw "github.com/dhaba-pos/api/internal/middleware"
	"github.com/dhaba-pos/api/internal/service"
)

// New creates a Chi router with all application routes wired up.
// Discount, cancel and day lock require a manager token; everything else
// only needs authentication.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	orderService := service.NewOrderService(queries, pool, func(db database.DBTX) service.OrderStore {
		return database.New(db)
	})
	kitchenService := service.NewKitchenService(queries, pool, func(db database.DBTX) service.KitchenStore {
		return database.New(db)
	})
	cashierService := service.NewCashierService(queries, pool, func(db database.DBTX) service.CashierStore {
		return database.New(db)
	})
	discountService := service.NewDiscountService(queries)
	dayEndService := service.NewDayEndService(queries)
	authService := service.NewAuthService(queries, cfg.JWTSecret)
	configService := service.NewConfigService(queries)
	reportService := service.NewReportService(queries)

	authHandler := handler.NewAuthHandler(authService)
	orderHandler := handler.NewOrderHandler(orderService)
	kitchenHandler := handler.NewKitchenHandler(kitchenService)
	dispatchHandler := handler.NewDispatchHandler(orderService)
	cashierHandler := handler.NewCashierHandler(cashierService)
	discountHandler := handler.NewDiscountHandler(discountService)
	dayEndHandler := handler.NewDayEndHandler(dayEndService)
	configHandler := handler.NewConfigHandler(configService)
	reportHandler := handler.NewReportHandler(reportService)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", authHandler.RegisterRoutes)

		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate(cfg.JWTSecret))

			r.Route("/orders", func(r chi.Router) {
				orderHandler.RegisterRoutes(r)
				r.Get("/pending", cashierHandler.Pending)
				r.Post("/{orderId}/close", cashierHandler.Close)

				// Manager-only order actions.
				r.Group(func(r chi.Router) {
					r.Use(mw.RequireRole(enum.RoleManager))
					r.Post("/{orderId}/discount", discountHandler.Apply)
					r.Post("/{orderId}/cancel", cashierHandler.Cancel)
				})
			})

			r.Route("/kds", kitchenHandler.RegisterRoutes)
			r.Route("/dispatch", dispatchHandler.RegisterRoutes)

			r.Route("/day-end", func(r chi.Router) {
				r.Get("/status", dayEndHandler.Status)
				r.Group(func(r chi.Router) {
					r.Use(mw.RequireRole(enum.RoleManager))
					r.Post("/lock", dayEndHandler.Lock)
				})
			})

			r.Get("/config/init", configHandler.Init)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.RoleManager))
				r.Get("/reports/daily", reportHandler.Daily)
			})
		})
	})

	return r
}
