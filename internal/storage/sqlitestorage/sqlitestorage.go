package sqlitestorage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // pure Go драйвер "sqlite"

	"github.com/kedr891/steam-inventory/internal/domain"
)

const (
	tableInventory = "user_inventory"
	tablePrices    = "market_prices"
	tableRates     = "currency_rates"

	// фиксированная ширина, чтобы MAX() по строкам совпадал с MAX() по времени
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

const schema = `
CREATE TABLE IF NOT EXISTS user_inventory (
	steamid          TEXT    NOT NULL,
	appid            INTEGER NOT NULL,
	assetid          TEXT    NOT NULL,
	classid          TEXT    NOT NULL,
	instanceid       TEXT    NOT NULL,
	market_hash_name TEXT    NOT NULL,
	tradable         INTEGER NOT NULL DEFAULT 0,
	marketable       INTEGER NOT NULL DEFAULT 0,
	type             TEXT    NOT NULL DEFAULT '',
	categories       TEXT    NOT NULL DEFAULT '',
	tags             TEXT    NOT NULL DEFAULT '',
	icon_url         TEXT    NOT NULL DEFAULT '',
	updated_at       TEXT    NOT NULL,
	PRIMARY KEY (steamid, appid, assetid)
);
CREATE INDEX IF NOT EXISTS idx_user_inventory_steamid ON user_inventory(steamid);

CREATE TABLE IF NOT EXISTS market_prices (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	appid            INTEGER NOT NULL,
	market_hash_name TEXT    NOT NULL,
	latest           REAL,
	avg              REAL,
	median           REAL,
	price_24h        REAL,
	price_7d         REAL,
	price_30d        REAL,
	price_90d        REAL
);
CREATE INDEX IF NOT EXISTS idx_market_prices_key ON market_prices(appid, market_hash_name);

CREATE TABLE IF NOT EXISTS currency_rates (
	code         TEXT PRIMARY KEY,
	rub_per_unit REAL NOT NULL
);
`

// Storage - хранилище на SQLite для локального запуска и тестов.
type Storage struct {
	db      *sql.DB
	builder squirrel.StatementBuilderType
}

var _ domain.Storage = (*Storage)(nil)

func New(ctx context.Context, path string) (*Storage, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// один писатель
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Storage{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

func (s *Storage) Close() {
	if s == nil || s.db == nil {
		return
	}
	_ = s.db.Close()
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("health check ping failed: %w", err)
	}
	return nil
}

func (s *Storage) query(ctx context.Context, query squirrel.Sqlizer) (*sql.Rows, error) {
	queryText, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("generate query error: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, queryText, args...)
	if err != nil {
		return nil, fmt.Errorf("rows query error: %w", err)
	}

	return rows, nil
}
