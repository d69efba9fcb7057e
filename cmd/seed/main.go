// Package main provides a CLI tool for bootstrapping the database schema and
// seeding initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	appctx "catalisa/internal/core/context"
	"catalisa/internal/core/id"
	"catalisa/internal/infrastructure/storage/postgres"
	"catalisa/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := ensureSchema(ctx, pool); err != nil {
		log.Fatalw("failed to create schema", "error", err)
	}
	log.Info("schema is up to date")

	if err := seedAdminUser(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if err := seedPartnerLevels(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed partner levels", "error", err)
	}

	if err := seedSettings(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed settings", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoProducts(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo products", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// schemaStatements creates all tables. Statements are idempotent so the
// seeder can run against an existing database.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS settings (
		key            text PRIMARY KEY,
		metal_rates    jsonb NOT NULL DEFAULT '[]',
		currency_rates jsonb NOT NULL DEFAULT '{}',
		updated_at     timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS partner_levels (
		id          uuid PRIMARY KEY,
		name        text NOT NULL UNIQUE,
		percentage  numeric(12,2) NOT NULL DEFAULT 0,
		description text NOT NULL DEFAULT '',
		is_default  boolean NOT NULL DEFAULT false,
		created_at  timestamptz NOT NULL DEFAULT now(),
		updated_at  timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id                 uuid PRIMARY KEY,
		name               text NOT NULL,
		email              text NOT NULL UNIQUE,
		password_hash      text NOT NULL,
		phone              text NOT NULL DEFAULT '',
		company            text NOT NULL DEFAULT '',
		role               text NOT NULL DEFAULT 'partner',
		partner_percentage numeric(12,2),
		partner_level_id   uuid REFERENCES partner_levels(id) ON DELETE SET NULL,
		is_active          boolean NOT NULL DEFAULT true,
		created_at         timestamptz NOT NULL DEFAULT now(),
		updated_at         timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id                   uuid PRIMARY KEY,
		name                 text NOT NULL,
		description          text NOT NULL DEFAULT '',
		brand                text NOT NULL DEFAULT '',
		category             text NOT NULL DEFAULT '',
		sku                  text NOT NULL UNIQUE,
		price                numeric(14,2) NOT NULL DEFAULT 0,
		images               jsonb NOT NULL DEFAULT '[]',
		specifications       jsonb NOT NULL DEFAULT '{}',
		metal_composition    jsonb NOT NULL DEFAULT '[]',
		metal_summary        jsonb,
		internal_metals      jsonb,
		purchase_panel_style text NOT NULL DEFAULT '',
		is_active            boolean NOT NULL DEFAULT true,
		created_at           timestamptz NOT NULL DEFAULT now(),
		updated_at           timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products (category)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id           uuid PRIMARY KEY,
		user_id      uuid NOT NULL REFERENCES users(id),
		items        jsonb NOT NULL DEFAULT '[]',
		total_amount numeric(14,2) NOT NULL DEFAULT 0,
		status       text NOT NULL DEFAULT 'pending',
		notes        text NOT NULL DEFAULT '',
		admin_notes  text NOT NULL DEFAULT '',
		is_deleted   boolean NOT NULL DEFAULT false,
		deleted_at   timestamptz,
		created_at   timestamptz NOT NULL DEFAULT now(),
		updated_at   timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id           uuid PRIMARY KEY,
		sender_id    uuid NOT NULL REFERENCES users(id),
		recipient_id uuid NOT NULL REFERENCES users(id),
		order_id     uuid REFERENCES orders(id) ON DELETE SET NULL,
		subject      text NOT NULL DEFAULT '',
		content      text NOT NULL,
		is_read      boolean NOT NULL DEFAULT false,
		deleted_at   timestamptz,
		created_at   timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_recipient ON messages (recipient_id)`,
	`CREATE TABLE IF NOT EXISTS promo_banners (
		id                uuid PRIMARY KEY,
		title             text NOT NULL,
		description       text NOT NULL DEFAULT '',
		image_url         text NOT NULL DEFAULT '',
		image_desktop_url text NOT NULL DEFAULT '',
		image_mobile_url  text NOT NULL DEFAULT '',
		link_url          text NOT NULL DEFAULT '',
		sort_order        integer NOT NULL DEFAULT 0,
		active            boolean NOT NULL DEFAULT true,
		created_at        timestamptz NOT NULL DEFAULT now(),
		updated_at        timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id                 uuid PRIMARY KEY,
		entity_type        text NOT NULL,
		entity_id          text NOT NULL,
		action             text NOT NULL,
		user_id            text NOT NULL DEFAULT '',
		user_email         text NOT NULL DEFAULT '',
		changes            jsonb,
		changes_compressed bytea,
		compression_algo   text NOT NULL DEFAULT 'none',
		created_at         timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_log_entity ON audit_log (entity_type, entity_id)`,
}

func ensureSchema(ctx context.Context, pool *postgres.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	return nil
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@catalisa.com.br"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existingID)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()
	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, is_active)
		VALUES ($1, 'Administrador', $2, $3, $4, true)
	`, userID, adminEmail, string(passwordHash), appctx.RoleAdmin)
	if err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created", "email", adminEmail, "user_id", userID)
	return nil
}

func seedPartnerLevels(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	var count int
	if err := pool.Pool.QueryRow(ctx, `SELECT count(*) FROM partner_levels`).Scan(&count); err != nil {
		return fmt.Errorf("count partner levels: %w", err)
	}
	if count > 0 {
		log.Infow("partner levels already seeded", "count", count)
		return nil
	}

	levels := []struct {
		name       string
		percentage string
		isDefault  bool
	}{
		{"Nível 1", "20", true},
		{"Nível 2", "30", false},
		{"Nível 3", "40", false},
	}

	for _, l := range levels {
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO partner_levels (id, name, percentage, is_default)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO NOTHING
		`, id.New(), l.name, l.percentage, l.isDefault)
		if err != nil {
			return fmt.Errorf("insert partner level %s: %w", l.name, err)
		}
	}

	log.Info("default partner levels created")
	return nil
}

func seedSettings(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	metalRates := `[
		{"metal": "Platina", "value": 350, "currency": "BRL"},
		{"metal": "Paládio", "value": 200, "currency": "BRL"},
		{"metal": "Ródio", "value": 900, "currency": "BRL"}
	]`
	currencyRates := `{"usdToBrl": 5.2}`

	tag, err := pool.Pool.Exec(ctx, `
		INSERT INTO settings (key, metal_rates, currency_rates, updated_at)
		VALUES ('global', $1, $2, $3)
		ON CONFLICT (key) DO NOTHING
	`, metalRates, currencyRates, time.Now())
	if err != nil {
		return fmt.Errorf("insert settings: %w", err)
	}

	if tag.RowsAffected() > 0 {
		log.Info("default metal pricing settings created")
	} else {
		log.Info("settings already present")
	}
	return nil
}

func seedDemoProducts(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	log.Info("seeding demo products...")

	products := []struct {
		name        string
		sku         string
		category    string
		composition string
	}{
		{
			"Catalisador Gol 1.0", "CAT-GOL-10", "Hatch",
			`[{"metalName": "Platina", "quantityKg": 0.0008, "useGlobalPrice": true},
			  {"metalName": "Paládio", "quantityKg": 0.0012, "useGlobalPrice": true}]`,
		},
		{
			"Catalisador Corolla 2.0", "CAT-COR-20", "Sedan",
			`[{"metalName": "Platina", "quantityKg": 0.0011, "useGlobalPrice": true},
			  {"metalName": "Ródio", "quantityKg": 0.0002, "useGlobalPrice": true}]`,
		},
	}

	for _, p := range products {
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO products (id, name, sku, category, metal_composition, is_active)
			VALUES ($1, $2, $3, $4, $5, true)
			ON CONFLICT (sku) DO NOTHING
		`, id.New(), p.name, p.sku, p.category, p.composition)
		if err != nil {
			return fmt.Errorf("insert demo product %s: %w", p.sku, err)
		}
	}

	log.Info("demo products created; run the recalculate endpoint to price them")
	return nil
}
