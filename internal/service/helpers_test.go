package service

import (
	"io"
	"log/slog"
	"testing"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/metrics"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/repository/memory"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	db        *memory.DB
	metrics   *metrics.Metrics
	auth      AuthService
	stores    StoreService
	employees EmployeeService
	inventory InventoryService
	themes    ThemeService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := memory.New()
	m := metrics.New()
	auth := AuthService{Users: db.Users(), Logger: logger, HashCost: bcrypt.MinCost}
	return &fixture{
		db:        db,
		metrics:   m,
		auth:      auth,
		stores:    StoreService{Stores: db.Stores(), Users: db.Users(), Auth: auth, Logger: logger},
		employees: EmployeeService{Users: db.Users(), Employees: db.Employees(), Auth: auth, Logger: logger},
		inventory: InventoryService{
			Products:  db.Products(),
			Inventory: db.Inventory(),
			Movements: db.Movements(),
			Metrics:   m,
			Logger:    logger,
		},
		themes: ThemeService{Settings: db.Settings(), AssetsDir: t.TempDir(), Logger: logger},
	}
}
