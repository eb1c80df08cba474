package inventory

import (
	"strings"
	"time"

	"github.com/kedr891/steam-inventory/internal/entity"
)

const tagSeparator = ";"

// buildSnapshotRows соединяет ассеты с описаниями. Ассеты без описания и повторы
// assetid (остаётся первый) пропускаются.
func buildSnapshotRows(
	steamID string,
	appID int,
	assets []entity.InventoryAsset,
	descriptions map[entity.DescriptionKey]entity.ItemDescription,
	capturedAt time.Time,
) ([]entity.SnapshotRow, int) {
	rows := make([]entity.SnapshotRow, 0, len(assets))
	skipped := 0
	emitted := make(map[string]struct{}, len(assets))

	for _, a := range assets {
		if _, dup := emitted[a.AssetID]; dup {
			skipped++
			continue
		}

		d, ok := descriptions[a.DescriptionKey()]
		if !ok {
			skipped++
			continue
		}
		emitted[a.AssetID] = struct{}{}

		categories, tags := joinTags(d.Tags)
		rows = append(rows, entity.SnapshotRow{
			SteamID:        steamID,
			AppID:          appID,
			AssetID:        a.AssetID,
			ClassID:        a.ClassID,
			InstanceID:     a.InstanceID,
			MarketHashName: d.MarketHashName,
			Tradable:       d.Tradable,
			Marketable:     d.Marketable,
			Type:           d.Type,
			Categories:     categories,
			Tags:           tags,
			IconURL:        d.IconURL,
			CapturedAt:     capturedAt,
		})
	}

	return rows, skipped
}

func joinTags(tags []entity.Tag) (string, string) {
	if len(tags) == 0 {
		return "", ""
	}

	categories := make([]string, 0, len(tags))
	values := make([]string, 0, len(tags))
	for _, t := range tags {
		categories = append(categories, t.Category)
		values = append(values, t.Value)
	}

	return strings.Join(categories, tagSeparator), strings.Join(values, tagSeparator)
}
