package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/config"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/handler"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/metrics"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Health       handler.HealthHandler
	Auth         handler.AuthHandler
	Docs         handler.DocsHandler
	Dashboard    handler.DashboardHandler
	Stores       handler.StoreHandler
	Employees    handler.EmployeeHandler
	Products     handler.ProductHandler
	ProductAdmin handler.ProductAdminHandler
	Stock        handler.StockHandler
	Theme        handler.ThemeHandler
}

// NewRouter wires HTTP routes and middleware.
func NewRouter(cfg config.Config,
	logger *slog.Logger,
	m *metrics.Metrics,
	sessions service.SessionService,
	h Handlers,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(m.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(200, 1*time.Minute))

	h.Health.RegisterRoutes(r)
	h.Docs.RegisterRoutes(r)
	r.Method("GET", "/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))

	// login attempts get a tighter budget
	r.Group(func(ar chi.Router) {
		ar.Use(httprate.LimitByIP(20, 1*time.Minute))
		h.Auth.RegisterRoutes(ar)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(SessionMiddleware(sessions))
		h.Auth.RegisterProtectedRoutes(pr)
		h.Dashboard.RegisterRoutes(pr)

		pr.Group(func(or chi.Router) {
			or.Use(RequireRole(domain.RoleOwner))
			h.Stores.RegisterRoutes(or)
		})

		pr.Route("/stores/{storeID}", func(sr chi.Router) {
			sr.Use(RequireStoreAccess(h.Stores.Service, h.Auth.Auth))
			// every role: read-only view of its store
			h.Stores.RegisterStoreRoutes(sr)
			h.Products.RegisterRoutes(sr)
			h.Theme.RegisterRoutes(sr)

			sr.Group(func(or chi.Router) {
				or.Use(RequireRole(domain.RoleOwner))
				h.Employees.RegisterRoutes(or)
				h.ProductAdmin.RegisterRoutes(or)
				h.Stock.RegisterRoutes(or)
				h.Theme.RegisterOwnerRoutes(or)
			})
		})
	})

	return r
}
