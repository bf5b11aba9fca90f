package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ubique-pay/ubique_pay/internal/config"
	"github.com/ubique-pay/ubique_pay/internal/ledger"
	"github.com/ubique-pay/ubique_pay/internal/middleware"
	"github.com/ubique-pay/ubique_pay/internal/schedule"
	"github.com/ubique-pay/ubique_pay/internal/session"
	"github.com/ubique-pay/ubique_pay/internal/transfer"
	"github.com/ubique-pay/ubique_pay/internal/verification"
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
	// Enforce backend presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	// Plain text access log: [HH:MM:SS] 200 -  145ms METHOD /path
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Services and handlers
	var ledgerBackend ledger.Ledger
	if d.DB != nil {
		ledgerBackend = ledger.NewPostgres(d.DB)
	} else {
		ledgerBackend = ledger.NewInMemory()
	}

	manager := session.NewManager(
		schedule.System(),
		session.Config{
			OtpTTLSeconds:  d.Cfg.OtpTTLSeconds,
			PromptDelay:    d.Cfg.PromptDelay,
			AuthorizeDelay: d.Cfg.AuthorizeDelay,
			SettleDelay:    d.Cfg.SettleDelay,
		},
		ledgerBackend,
		verification.NewLoggerService(d.Logger),
		transfer.StaticProcessor{},
	)
	sessionHandler := session.NewHandler(manager)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	rateLimiter := middleware.SessionRateLimit(d.Cache, 30)
	RegisterSessionRoutes(api, sessionHandler, rateLimiter)

	return nil
}
