// Package main provides a CLI tool for creating the schema and seeding demo data.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jaswdr/faker"

	"tavolo/internal/core/id"
	"tavolo/internal/domain/settings"
	"tavolo/internal/infrastructure/storage/postgres"
	"tavolo/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("TAVOLO_DATABASE_DSN")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("TAVOLO_DATABASE_DSN environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := createSchema(ctx, pool, log); err != nil {
		log.Fatalw("failed to create schema", "error", err)
	}

	if err := seedDefaultSettings(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed default settings", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS cat_categories (
		id            uuid PRIMARY KEY,
		deletion_mark boolean NOT NULL DEFAULT false,
		version       integer NOT NULL DEFAULT 1,
		attributes    jsonb NOT NULL DEFAULT '{}',
		code          text NOT NULL DEFAULT '',
		name          text NOT NULL,
		display_order integer NOT NULL DEFAULT 0,
		icon          text,
		thumbnail     text,
		is_enabled    boolean NOT NULL DEFAULT true
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_cat_categories_code
		ON cat_categories (code) WHERE deletion_mark = FALSE AND code <> ''`,

	`CREATE TABLE IF NOT EXISTS cat_menu_items (
		id            uuid PRIMARY KEY,
		deletion_mark boolean NOT NULL DEFAULT false,
		version       integer NOT NULL DEFAULT 1,
		attributes    jsonb NOT NULL DEFAULT '{}',
		code          text NOT NULL DEFAULT '',
		name          text NOT NULL,
		category_id   uuid NOT NULL REFERENCES cat_categories (id),
		price         numeric(12,2) NOT NULL DEFAULT 0,
		description   text,
		thumbnail     text,
		icon          text,
		is_enabled    boolean NOT NULL DEFAULT true,
		variants      jsonb NOT NULL DEFAULT '[]'
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_cat_menu_items_code
		ON cat_menu_items (code) WHERE deletion_mark = FALSE AND code <> ''`,
	`CREATE INDEX IF NOT EXISTS ix_cat_menu_items_category
		ON cat_menu_items (category_id) WHERE deletion_mark = FALSE`,

	`CREATE TABLE IF NOT EXISTS doc_orders (
		id             uuid PRIMARY KEY,
		deletion_mark  boolean NOT NULL DEFAULT false,
		version        integer NOT NULL DEFAULT 1,
		attributes     jsonb NOT NULL DEFAULT '{}',
		created_at     timestamptz NOT NULL DEFAULT now(),
		updated_at     timestamptz NOT NULL DEFAULT now(),
		short_id       text NOT NULL,
		order_number   integer NOT NULL,
		created_at_ms  bigint NOT NULL,
		lines          jsonb NOT NULL DEFAULT '[]',
		total_amount   numeric(12,2) NOT NULL DEFAULT 0,
		status         text NOT NULL,
		payment_method text NOT NULL DEFAULT '',
		order_type     text,
		table_label    text,
		notes          text
	)`,
	`CREATE INDEX IF NOT EXISTS ix_doc_orders_created_at_ms
		ON doc_orders (created_at_ms)`,

	`CREATE TABLE IF NOT EXISTS day_reports (
		date    text PRIMARY KEY,
		payload jsonb NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS settings (
		key   text PRIMARY KEY,
		value jsonb NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS audit_log (
		id                 uuid PRIMARY KEY,
		entity_type        text NOT NULL,
		entity_id          uuid NOT NULL,
		action             text NOT NULL,
		changes            jsonb,
		changes_compressed bytea,
		compression_algo   text NOT NULL DEFAULT 'none',
		created_at         timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS ix_audit_log_entity
		ON audit_log (entity_type, entity_id, created_at DESC)`,
}

func createSchema(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("execute schema statement: %w", err)
		}
	}
	log.Info("schema is up to date")
	return nil
}

func seedDefaultSettings(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	defaults := settings.DefaultAppSettings()
	value, err := json.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("marshal default settings: %w", err)
	}

	commandTag, err := pool.Pool.Exec(ctx, `
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO NOTHING
	`, settings.AppSettingsKey, value)
	if err != nil {
		return fmt.Errorf("insert default settings: %w", err)
	}

	if commandTag.RowsAffected() > 0 {
		log.Infow("default app settings created", "key", settings.AppSettingsKey)
	} else {
		log.Infow("app settings already present", "key", settings.AppSettingsKey)
	}
	return nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	log.Info("seeding demo data...")

	fake := faker.New()

	categories := []struct {
		code         string
		name         string
		displayOrder int
		icon         string
	}{
		{"DRINKS", "Drinks", 1, "cup"},
		{"BURGERS", "Burgers", 2, "burger"},
		{"DESSERTS", "Desserts", 3, "cake"},
	}

	// Map code -> UUID for menu item references
	categoryIDs := make(map[string]id.ID)

	for _, c := range categories {
		cid := id.New()
		commandTag, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_categories (id, code, name, display_order, icon, is_enabled, version, deletion_mark, attributes)
			VALUES ($1, $2, $3, $4, $5, true, 1, false, '{}')
			ON CONFLICT (code) WHERE deletion_mark = FALSE AND code <> '' DO NOTHING
		`, cid, c.code, c.name, c.displayOrder, c.icon)
		if err != nil {
			log.Warnw("failed to seed category", "name", c.name, "error", err)
			continue
		}

		// If inserted, use new ID. If conflict, fetch the existing one.
		if commandTag.RowsAffected() == 0 {
			err = pool.Pool.QueryRow(ctx, `
				SELECT id FROM cat_categories
				WHERE code = $1 AND deletion_mark = FALSE
			`, c.code).Scan(&cid)
			if err != nil {
				log.Warnw("failed to fetch existing category id", "code", c.code, "error", err)
				continue
			}
		}

		categoryIDs[c.code] = cid
	}

	items := []struct {
		code     string
		name     string
		category string
		price    string
		variants string
	}{
		{"COLA", "Cola", "DRINKS", "2.50", `[{"label":"0.33l","priceDelta":"0"},{"label":"0.5l","priceDelta":"0.50"}]`},
		{"WATER", "Water", "DRINKS", "1.50", `[]`},
		{"ICED-TEA", "Iced Tea", "DRINKS", "2.80", `[{"label":"Lemon","priceDelta":"0"},{"label":"Peach","priceDelta":"0"}]`},
		{"CHEESEBURGER", "Cheeseburger", "BURGERS", "8.00", `[{"label":"Single","priceDelta":"0"},{"label":"Double","priceDelta":"2.50"}]`},
		{"CHICKEN-BURGER", "Chicken Burger", "BURGERS", "7.50", `[]`},
		{"VEGGIE-BURGER", "Veggie Burger", "BURGERS", "7.00", `[]`},
		{"CHEESECAKE", "Cheesecake", "DESSERTS", "4.50", `[]`},
		{"BROWNIE", "Brownie", "DESSERTS", "3.80", `[{"label":"Plain","priceDelta":"0"},{"label":"With Ice Cream","priceDelta":"1.20"}]`},
	}

	for _, it := range items {
		categoryID, ok := categoryIDs[it.category]
		if !ok {
			log.Warnw("category missing, skipping menu item", "item", it.name, "category", it.category)
			continue
		}

		itemID := id.New()
		description := fake.Lorem().Sentence(8)
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_menu_items (
				id, code, name, category_id, price, description,
				is_enabled, variants, version, deletion_mark, attributes
			)
			VALUES ($1, $2, $3, $4, $5, $6, true, $7, 1, false, '{}')
			ON CONFLICT (code) WHERE deletion_mark = FALSE AND code <> '' DO NOTHING
		`, itemID, it.code, it.name, categoryID, it.price, description, it.variants)
		if err != nil {
			log.Warnw("failed to seed menu item", "name", it.name, "error", err)
		}
	}

	log.Info("demo data seeded successfully")
	return nil
}
