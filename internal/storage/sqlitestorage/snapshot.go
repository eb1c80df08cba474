package sqlitestorage

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/kedr891/steam-inventory/internal/entity"
)

// 13 колонок * 500 строк укладывается в лимит переменных SQLite
const insertBatchSize = 500

var inventoryColumns = []string{
	"steamid", "appid", "assetid", "classid", "instanceid",
	"market_hash_name", "tradable", "marketable", "type",
	"categories", "tags", "icon_url", "updated_at",
}

func (s *Storage) ReplaceSnapshot(ctx context.Context, key entity.SnapshotKey, rows []entity.SnapshotRow) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	deleteQuery, deleteArgs, err := s.builder.
		Delete(tableInventory).
		Where(squirrel.Eq{"steamid": key.SteamID, "appid": key.AppID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	if _, err = tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}

	for start := 0; start < len(rows); start += insertBatchSize {
		end := min(start+insertBatchSize, len(rows))

		qb := s.builder.Insert(tableInventory).Columns(inventoryColumns...)
		for _, r := range rows[start:end] {
			qb = qb.Values(
				r.SteamID, r.AppID, r.AssetID, r.ClassID, r.InstanceID,
				r.MarketHashName, r.Tradable, r.Marketable, r.Type,
				r.Categories, r.Tags, r.IconURL, r.CapturedAt.UTC().Format(timeLayout),
			)
		}

		insertQuery, insertArgs, buildErr := qb.ToSql()
		if buildErr != nil {
			err = fmt.Errorf("build insert query: %w", buildErr)
			return err
		}

		if _, err = tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("insert snapshot rows: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

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
		var (
			g         entity.InventoryGroup
			updatedAt string
		)
		if err := rows.Scan(
			&g.AppID, &g.MarketHashName, &g.Tradable, &g.Marketable, &g.IconURL,
			&updatedAt, &g.Count,
		); err != nil {
			return nil, fmt.Errorf("scan inventory group: %w", err)
		}

		g.UpdatedAt, err = time.Parse(timeLayout, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse updated_at %q: %w", updatedAt, err)
		}

		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory groups: %w", err)
	}

	return groups, nil
}
