package pgstorage

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // pgx5:// driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"

	"github.com/kedr891/steam-inventory/internal/domain"
	"github.com/kedr891/steam-inventory/pkg/postgres"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const (
	tableInventory = "user_inventory"
	tablePrices    = "market_prices"
	tableRates     = "currency_rates"
)

type Storage struct {
	pg      *postgres.Postgres
	builder squirrel.StatementBuilderType
}

var _ domain.Storage = (*Storage)(nil)

func New(pg *postgres.Postgres) *Storage {
	return &Storage{
		pg:      pg,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (s *Storage) Close() {
	if s == nil || s.pg == nil {
		return
	}
	s.pg.Close()
}

func (s *Storage) query(ctx context.Context, query squirrel.Sqlizer) (pgx.Rows, error) {
	queryText, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("generate query error: %w", err)
	}

	rows, err := s.pg.Pool.Query(ctx, queryText, args...)
	if err != nil {
		return nil, fmt.Errorf("rows query error: %w", err)
	}

	return rows, nil
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if s.pg == nil || s.pg.Pool == nil {
		return fmt.Errorf("database connection is nil")
	}

	if err := s.pg.Ping(ctx); err != nil {
		return fmt.Errorf("health check ping failed: %w", err)
	}

	return nil
}

// Migrate применяет встроенные миграции. Повторный запуск ничего не делает.
func Migrate(databaseURL string) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("чтение миграций: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, pgx5URL(databaseURL))
	if err != nil {
		return fmt.Errorf("инициализация миграций: %w", err)
	}
	defer func() {
		_, _ = m.Close()
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("применение миграций: %w", err)
	}

	return nil
}

// pgx5URL переводит postgres:// в схему драйвера golang-migrate для pgx/v5.
func pgx5URL(url string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(url, prefix) {
			return "pgx5://" + strings.TrimPrefix(url, prefix)
		}
	}
	return url
}
