package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/config"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/db"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/handler"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/metrics"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/ports"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/repository"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/repository/memory"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/server"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/service"
)

// stores is the set of repositories behind the services.
type stores struct {
	health    ports.HealthChecker
	users     ports.UserStore
	shops     ports.StoreStore
	employees ports.EmployeeStore
	products  ports.ProductStore
	inventory ports.InventoryStore
	movements ports.MovementStore
	settings  ports.SettingsStore
	close     func() error
}

func main() {
	cfg, err := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		logger.Error("failed to open data backend", "backend", cfg.DataBackend, "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := st.close(); err != nil {
			logger.Warn("close data backend", "err", err)
		}
	}()
	if cfg.DataBackend == config.BackendMemory {
		logger.Warn("using in-memory backend; data is lost on exit")
	}

	m := metrics.New()

	// services
	authSvc := service.AuthService{Users: st.users, Logger: logger}
	sessionSvc := service.SessionService{Secret: []byte(cfg.SessionSecret), TTL: cfg.SessionTTL}
	storeSvc := service.StoreService{Stores: st.shops, Users: st.users, Auth: authSvc, Logger: logger}
	employeeSvc := service.EmployeeService{Users: st.users, Employees: st.employees, Auth: authSvc, Logger: logger}
	inventorySvc := service.InventoryService{
		Products:  st.products,
		Inventory: st.inventory,
		Movements: st.movements,
		Metrics:   m,
		Logger:    logger,
	}
	themeSvc := service.ThemeService{Settings: st.settings, AssetsDir: cfg.AssetsDir, Logger: logger}
	dashboardSvc := service.DashboardService{Stores: storeSvc, Employees: employeeSvc}

	// handlers
	handlers := server.Handlers{
		Health:       handler.HealthHandler{DB: st.health},
		Auth:         handler.AuthHandler{Auth: authSvc, Stores: storeSvc, Sessions: sessionSvc, SecureCookie: cfg.SecureCookies},
		Docs:         handler.DocsHandler{OpenAPIPath: cfg.OpenAPIPath},
		Dashboard:    handler.DashboardHandler{Service: dashboardSvc},
		Stores:       handler.StoreHandler{Service: storeSvc},
		Employees:    handler.EmployeeHandler{Service: employeeSvc},
		Products:     handler.ProductHandler{Service: inventorySvc},
		ProductAdmin: handler.ProductAdminHandler{Service: inventorySvc},
		Stock:        handler.StockHandler{Service: inventorySvc},
		Theme:        handler.ThemeHandler{Service: themeSvc},
	}

	router := server.NewRouter(cfg, logger, m, sessionSvc, handlers)

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	if cfg.DataBackend == config.BackendMemory {
		mem := memory.New()
		return stores{
			health:    mem,
			users:     mem.Users(),
			shops:     mem.Stores(),
			employees: mem.Employees(),
			products:  mem.Products(),
			inventory: mem.Inventory(),
			movements: mem.Movements(),
			settings:  mem.Settings(),
			close:     mem.Close,
		}, nil
	}

	fs, err := db.New(ctx, cfg)
	if err != nil {
		return stores{}, err
	}
	return stores{
		health:    fs,
		users:     repository.UserRepository{DB: fs},
		shops:     repository.StoreRepository{DB: fs},
		employees: repository.EmployeeRepository{DB: fs},
		products:  repository.ProductRepository{DB: fs},
		inventory: repository.InventoryRepository{DB: fs},
		movements: repository.MovementRepository{DB: fs},
		settings:  repository.SettingsRepository{DB: fs},
		close:     fs.Close,
	}, nil
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
