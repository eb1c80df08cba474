package pgstorage

import (
	"context"
	"fmt"

	"github.com/kedr891/steam-inventory/internal/entity"
)

// CatalogEntries - весь каталог в порядке вставки, чтобы "первая запись" была стабильной.
func (s *Storage) CatalogEntries(ctx context.Context) ([]entity.PriceCatalogEntry, error) {
	qb := s.builder.
		Select(
			"appid", "market_hash_name",
			"COALESCE(latest, 0)::float8", "COALESCE(avg, 0)::float8", "COALESCE(median, 0)::float8",
			"COALESCE(price_24h, 0)::float8", "COALESCE(price_7d, 0)::float8",
			"COALESCE(price_30d, 0)::float8", "COALESCE(price_90d, 0)::float8",
		).
		From(tablePrices).
		OrderBy("id")

	rows, err := s.query(ctx, qb)
	if err != nil {
		return nil, fmt.Errorf("price catalog: %w", err)
	}
	defer rows.Close()

	var entries []entity.PriceCatalogEntry
	for rows.Next() {
		var e entity.PriceCatalogEntry
		if err := rows.Scan(
			&e.AppID, &e.MarketHashName,
			&e.Latest, &e.Avg, &e.Median,
			&e.Price24h, &e.Price7d, &e.Price30d, &e.Price90d,
		); err != nil {
			return nil, fmt.Errorf("scan price entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price entries: %w", err)
	}

	return entries, nil
}

func (s *Storage) CurrencyRates(ctx context.Context) ([]entity.CurrencyRate, error) {
	qb := s.builder.
		Select("code", "rub_per_unit::float8").
		From(tableRates).
		OrderBy("code")

	rows, err := s.query(ctx, qb)
	if err != nil {
		return nil, fmt.Errorf("currency rates: %w", err)
	}
	defer rows.Close()

	var rates []entity.CurrencyRate
	for rows.Next() {
		var r entity.CurrencyRate
		if err := rows.Scan(&r.Code, &r.RubPerUnit); err != nil {
			return nil, fmt.Errorf("scan currency rate: %w", err)
		}
		rates = append(rates, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate currency rates: %w", err)
	}

	return rates, nil
}
