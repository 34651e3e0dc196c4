// Command seed-db loads a small demo catalog, discount codes, and test users
// with API keys into the database. Safe to re-run; every insert is an upsert.
package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/glowmart/internal/storage/postgres"
)

func main() {
	var (
		databaseURL  string
		apiKey       string
		staffKey     string
		apiKeyPepper string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&apiKey, "api-key", "", "customer API key to seed (or GLOW_SEED_API_KEY env)")
	flag.StringVar(&staffKey, "staff-key", "", "staff API key to seed (or GLOW_SEED_STAFF_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or GLOW_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("GLOW_SEED_API_KEY")
	}
	if apiKey == "" {
		slog.Error("API key is required: set --api-key or GLOW_SEED_API_KEY")
		os.Exit(1)
	}
	if staffKey == "" {
		staffKey = os.Getenv("GLOW_SEED_STAFF_KEY")
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("GLOW_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, apiKey, staffKey, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, apiKey, staffKey, pepper string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedCatalog(ctx, pool); err != nil {
		return errors.Wrap(err, "seed catalog")
	}
	if err := seedDiscounts(ctx, pool); err != nil {
		return errors.Wrap(err, "seed discount codes")
	}
	if err := seedFeeConfig(ctx, pool); err != nil {
		return errors.Wrap(err, "seed fee config")
	}
	if err := seedUsers(ctx, pool, apiKey, staffKey, pepper); err != nil {
		return errors.Wrap(err, "seed users")
	}

	return nil
}

const (
	upsertBrandSQL = `INSERT INTO brands (name, description) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description
		RETURNING id`

	upsertCategorySQL = `INSERT INTO categories (name, description) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description
		RETURNING id`

	upsertProductSQL = `INSERT INTO products (name, description, price, stock, barcode, brand_id, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (barcode) DO UPDATE SET
			name = EXCLUDED.name, description = EXCLUDED.description,
			price = EXCLUDED.price, brand_id = EXCLUDED.brand_id,
			category_id = EXCLUDED.category_id`

	upsertDiscountSQL = `INSERT INTO discount_codes (code, percentage, valid_from, valid_to, max_uses, active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		ON CONFLICT ((UPPER(code))) DO UPDATE SET
			percentage = EXCLUDED.percentage, valid_from = EXCLUDED.valid_from,
			valid_to = EXCLUDED.valid_to, max_uses = EXCLUDED.max_uses, active = TRUE`

	seedFeeConfigSQL = `INSERT INTO fee_config (service_fee_percent)
		SELECT $1 WHERE NOT EXISTS (SELECT 1 FROM fee_config)`

	upsertUserSQL = `INSERT INTO users (username, email, phone, address, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username) DO UPDATE SET
			email = EXCLUDED.email, phone = EXCLUDED.phone,
			address = EXCLUDED.address, role = EXCLUDED.role
		RETURNING id`

	upsertAPIKeySQL = `INSERT INTO api_keys (id, user_id, key_hash, name, active)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id, key_hash = EXCLUDED.key_hash, active = TRUE`
)

func seedCatalog(ctx context.Context, pool *pgxpool.Pool) error {
	brands := map[string]string{
		"Innisfree":  "Korean naturals",
		"Maybelline": "New York cosmetics",
		"La Roche-Posay": "Dermatological skincare",
	}
	brandIDs := make(map[string]int64, len(brands))
	for name, desc := range brands {
		var id int64
		if err := pool.QueryRow(ctx, upsertBrandSQL, name, desc).Scan(&id); err != nil {
			return errors.Wrapf(err, "upsert brand %s", name)
		}
		brandIDs[name] = id
	}

	categories := map[string]string{
		"Chăm sóc da": "Skincare",
		"Trang điểm":  "Makeup",
	}
	categoryIDs := make(map[string]int64, len(categories))
	for name, desc := range categories {
		var id int64
		if err := pool.QueryRow(ctx, upsertCategorySQL, name, desc).Scan(&id); err != nil {
			return errors.Wrapf(err, "upsert category %s", name)
		}
		categoryIDs[name] = id
	}

	products := []struct {
		name     string
		desc     string
		price    decimal.Decimal
		stock    int
		barcode  string
		brand    string
		category string
	}{
		{"Sữa rửa mặt Innisfree Green Tea", "Sữa rửa mặt trà xanh 150ml", decimal.NewFromInt(120_000), 50, "8809652580017", "Innisfree", "Chăm sóc da"},
		{"Son môi Maybelline SuperStay", "Son lì lâu trôi", decimal.NewFromInt(150_000), 40, "0041554543902", "Maybelline", "Trang điểm"},
		{"Kem chống nắng La Roche-Posay Anthelios", "SPF50+ 50ml", decimal.NewFromInt(450_000), 30, "3337875588515", "La Roche-Posay", "Chăm sóc da"},
		{"Mascara Maybelline Lash Sensational", "Mascara dày mi", decimal.NewFromInt(180_000), 25, "0041554420668", "Maybelline", "Trang điểm"},
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	for _, p := range products {
		_, err := pool.Exec(ctx, upsertProductSQL,
			p.name, p.desc, p.price, p.stock, p.barcode,
			brandIDs[p.brand], categoryIDs[p.category],
		)
		if err != nil {
			return errors.Wrapf(err, "upsert product %s", p.name)
		}
		slog.Info("upserted product", slog.String("name", p.name))
	}

	return nil
}

func seedDiscounts(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding discount codes")

	now := time.Now()
	year := now.AddDate(1, 0, 0)

	codes := []struct {
		code    string
		percent decimal.Decimal
		maxUses *int32
	}{
		{"SALE10", decimal.NewFromInt(10), nil},
		{"FREESHIP", decimal.NewFromInt(5), ptr(int32(1000))},
	}

	for _, c := range codes {
		_, err := pool.Exec(ctx, upsertDiscountSQL, c.code, c.percent, now, year, c.maxUses)
		if err != nil {
			return errors.Wrapf(err, "upsert discount %s", c.code)
		}
		slog.Info("upserted discount", slog.String("code", c.code))
	}

	return nil
}

func seedFeeConfig(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, seedFeeConfigSQL, decimal.RequireFromString("2.0"))
	if err != nil {
		return errors.Wrap(err, "insert fee config")
	}
	return nil
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool, apiKey, staffKey, pepper string) error {
	slog.Info("seeding users and API keys")

	var customerID int64
	err := pool.QueryRow(ctx, upsertUserSQL,
		"alice", "alice@gmail.com", "0901234567", "12 Nguyễn Trãi, Hà Nội", "customer",
	).Scan(&customerID)
	if err != nil {
		return errors.Wrap(err, "upsert customer")
	}
	if err := upsertKey(ctx, pool, "customer-default", customerID, apiKey, pepper, "Default customer key"); err != nil {
		return err
	}

	if staffKey == "" {
		return nil
	}

	var staffID int64
	err = pool.QueryRow(ctx, upsertUserSQL,
		"warehouse", "staff@glowmart.vn", "0907654321", "", "warehouse",
	).Scan(&staffID)
	if err != nil {
		return errors.Wrap(err, "upsert staff user")
	}
	return upsertKey(ctx, pool, "staff-default", staffID, staffKey, pepper, "Default staff key")
}

func upsertKey(ctx context.Context, pool *pgxpool.Pool, id string, userID int64, key, pepper, name string) error {
	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(key))
	hash := hex.EncodeToString(mac.Sum(nil))

	if _, err := pool.Exec(ctx, upsertAPIKeySQL, id, userID, hash, name); err != nil {
		return errors.Wrapf(err, "upsert api key %s", id)
	}
	slog.Info("upserted API key", slog.String("id", id))
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
