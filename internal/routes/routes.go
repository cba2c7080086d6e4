package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/business"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/config"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/ledger"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/middleware"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/notification"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/policy"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/seed"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/store"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/upgrade"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Running against the in-memory store or without Redis is a development
	// convenience only.
	if !d.Cfg.IsDevelopment() {
		if d.DB == nil {
			return fmt.Errorf("POSTGRES_URL is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("REDIS_URL is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	var st store.Store
	if d.DB != nil {
		st = store.NewPostgresStore(d.DB)
	} else {
		st = store.NewMemoryStore()
	}

	notifier := notification.NewLoggerNotifier(d.Logger)
	pol := policy.Policy{
		MinTransaction: d.Cfg.MinTransaction,
		MaxTransaction: d.Cfg.MaxTransaction,
	}
	limits := ledger.Limits{
		Daily:   d.Cfg.DefaultDailyLimit,
		Monthly: d.Cfg.DefaultMonthlyLimit,
	}
	engine := ledger.NewEngine(st, pol, limits, nil, notifier)
	businessSvc := business.NewService(st.Businesses())
	upgradeSvc := upgrade.NewService(st.Wallets(), st.Upgrades(), store.UpgradeAtomic(st), notifier)

	if d.Cfg.SeedDemoData {
		if err := seed.Demo(context.Background(), engine, businessSvc, d.Logger); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	ledgerHandler := ledger.NewHandler(engine)
	businessHandler := business.NewHandler(businessSvc)
	upgradeHandler := upgrade.NewHandler(upgradeSvc)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	loginLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterBusinessRoutes(api, businessHandler, ledgerHandler, loginLimiter)
	RegisterWalletRoutes(api, ledgerHandler, upgradeHandler)
	RegisterPaymentRoutes(api, ledgerHandler)
	RegisterUpgradeRoutes(api, upgradeHandler)

	return nil
}
