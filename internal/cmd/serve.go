package cmd

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/A-Mayank/Order-FollowUp-System/internal/admin"
	"github.com/A-Mayank/Order-FollowUp-System/internal/alert"
	"github.com/A-Mayank/Order-FollowUp-System/internal/catalog"
	"github.com/A-Mayank/Order-FollowUp-System/internal/config"
	"github.com/A-Mayank/Order-FollowUp-System/internal/customer"
	"github.com/A-Mayank/Order-FollowUp-System/internal/message"
	"github.com/A-Mayank/Order-FollowUp-System/internal/notify"
	"github.com/A-Mayank/Order-FollowUp-System/internal/order"
	"github.com/A-Mayank/Order-FollowUp-System/internal/scheduler"
	"github.com/A-Mayank/Order-FollowUp-System/internal/whatsapp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront and admin API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return runServer(cfg)
	},
}

func runServer(cfg *config.Config) error {
	db, err := openDB(cfg.DB.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	products, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	customerRepo := customer.NewPostgresRepository(db)
	orderRepo := order.NewPostgresRepository(db)
	messageRepo := message.NewPostgresRepository(db)
	alertRepo := alert.NewPostgresRepository(db)

	wa := whatsapp.NewFromConfig(cfg.Twilio)
	policy := notify.NewPolicy(wa, messageRepo)
	orderService := order.NewService(orderRepo, customerRepo, policy)
	syncService := message.NewSyncService(messageRepo, customerRepo, orderRepo, alertRepo, wa)

	catalogHandler := catalog.NewHandler(products)
	orderHandler := order.NewHandler(orderService)
	adminHandler := admin.NewHandler(orderService, messageRepo, syncService, alertRepo, cfg.Admin)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(requestLog)

	catalogHandler.RegisterPublicRoutes(app)
	orderHandler.RegisterPublicRoutes(app)
	adminHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.Admin.JWTSecret),
	}))

	orderHandler.RegisterProtectedRoutes(app)
	adminHandler.RegisterProtectedRoutes(app)

	if cfg.Reminders.Enabled {
		sched := scheduler.New(orderRepo, customerRepo, messageRepo, alertRepo, policy, cfg.Reminders)
		if err := sched.Start(); err != nil {
			return fmt.Errorf("start reminder scheduler: %w", err)
		}
		defer sched.Stop()
	}

	fmt.Printf("starting server on %s\n", cfg.Server.Addr)
	return app.Listen(cfg.Server.Addr)
}

func openDB(url string) (*sql.DB, error) {
	if url == "" {
		return nil, fmt.Errorf("database URL is not set")
	}
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// migrate keeps the schema current. Statements are idempotent so restarts
// are safe.
func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			whatsapp_number TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			customer_id INT NOT NULL REFERENCES customers(id),
			status TEXT NOT NULL,
			payment_status TEXT NOT NULL,
			sentiment TEXT NOT NULL DEFAULT 'unknown',
			automation_enabled BOOLEAN NOT NULL DEFAULT TRUE,
			product_name TEXT NOT NULL,
			amount NUMERIC NOT NULL DEFAULT 0,
			tracking_id TEXT,
			carrier TEXT,
			feedback_rating INT,
			feedback_text TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			payment_reminder_1_sent_at TIMESTAMPTZ,
			payment_reminder_2_sent_at TIMESTAMPTZ,
			last_customer_reply_at TIMESTAMPTZ,
			shipped_at TIMESTAMPTZ,
			delivered_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS message_logs (
			id SERIAL PRIMARY KEY,
			order_id INT REFERENCES orders(id),
			message_type TEXT NOT NULL,
			message_content TEXT NOT NULL,
			sent_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			is_incoming BOOLEAN NOT NULL DEFAULT FALSE,
			sentiment TEXT,
			whatsapp_message_id TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS alerts (
			id SERIAL PRIMARY KEY,
			order_id INT NOT NULL REFERENCES orders(id),
			reason TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			resolved BOOLEAN NOT NULL DEFAULT FALSE,
			resolved_at TIMESTAMPTZ
		)`,
		// columns added after the first release
		`ALTER TABLE orders ADD COLUMN IF NOT EXISTS payment_reminder_1_sent_at TIMESTAMPTZ`,
		`ALTER TABLE orders ADD COLUMN IF NOT EXISTS payment_reminder_2_sent_at TIMESTAMPTZ`,
		`ALTER TABLE orders ADD COLUMN IF NOT EXISTS last_customer_reply_at TIMESTAMPTZ`,
		`ALTER TABLE orders ADD COLUMN IF NOT EXISTS shipped_at TIMESTAMPTZ`,
		`ALTER TABLE orders ADD COLUMN IF NOT EXISTS delivered_at TIMESTAMPTZ`,
		`ALTER TABLE message_logs ADD COLUMN IF NOT EXISTS whatsapp_message_id TEXT`,
		`CREATE UNIQUE INDEX IF NOT EXISTS message_logs_whatsapp_message_id_idx
			ON message_logs (whatsapp_message_id) WHERE whatsapp_message_id IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS orders_customer_id_idx ON orders (customer_id)`,
		`CREATE INDEX IF NOT EXISTS message_logs_order_id_idx ON message_logs (order_id)`,
		`CREATE INDEX IF NOT EXISTS alerts_order_id_idx ON alerts (order_id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func requestLog(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	fmt.Printf("URL = %s, Method = %s, Duration = %v\n", c.OriginalURL(), c.Method(), time.Since(start))
	return err
}
