package pgstorage

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/kedr891/steam-inventory/internal/entity"
)

var inventoryColumns = []string{
	"steamid", "appid", "assetid", "classid", "instanceid",
	"market_hash_name", "tradable", "marketable", "type",
	"categories", "tags", "icon_url", "updated_at",
}

// ReplaceSnapshot удаляет строки ключа и вставляет новые в одной транзакции.
func (s *Storage) ReplaceSnapshot(ctx context.Context, key entity.SnapshotKey, rows []entity.SnapshotRow) error {
	deleteQuery, deleteArgs, err := s.builder.
		Delete(tableInventory).
		Where(squirrel.Eq{"steamid": key.SteamID, "appid": key.AppID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	return s.pg.Transaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, deleteQuery, deleteArgs...); err != nil {
			return fmt.Errorf("delete snapshot: %w", err)
		}

		copied, err := tx.CopyFrom(ctx,
			pgx.Identifier{tableInventory},
			inventoryColumns,
			pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
				r := rows[i]
				return []any{
					r.SteamID, r.AppID, r.AssetID, r.ClassID, r.InstanceID,
					r.MarketHashName, r.Tradable, r.Marketable, r.Type,
					r.Categories, r.Tags, r.IconURL, r.CapturedAt,
				}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("copy snapshot rows: %w", err)
		}

		if int(copied) != len(rows) {
			return fmt.Errorf("copy snapshot rows: copied %d of %d", copied, len(rows))
		}

		return nil
	})
}

// GroupedInventory группирует снимок пользователя по всем приложениям.
func (s *Storage) GroupedInventory(ctx context.Context, steamID string) ([]entity.InventoryGroup, error) {
	qb := s.builder.
		Select(
			"appid", "market_hash_name", "tradable", "marketable", "icon_url",
			"MAX(updated_at) AS updated_at", "COUNT(*) AS count",
		).
		From(tableInventory).
		Where(squirrel.Eq{"steamid": steamID}).
		GroupBy("appid", "market_hash_name", "tradable", "marketable", "icon_url")

	rows, err := s.query(ctx, qb)
	if err != nil {
		return nil, fmt.Errorf("grouped inventory: %w", err)
	}
	defer rows.Close()

	var groups []entity.InventoryGroup
	for rows.Next() {
		var g entity.InventoryGroup
		if err := rows.Scan(
			&g.AppID, &g.MarketHashName, &g.Tradable, &g.Marketable, &g.IconURL,
			&g.UpdatedAt, &g.Count,
		); err != nil {
			return nil, fmt.Errorf("scan inventory group: %w", err)
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory groups: %w", err)
	}

	return groups, nil
}
