package sqlitestorage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/kedr891/steam-inventory/internal/entity"
)

const steamID = "76561198000000000"

type StorageSuite struct {
	suite.Suite
	ctx     context.Context
	storage *Storage
	at      time.Time
}

func (suite *StorageSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.at = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	storage, err := New(suite.ctx, filepath.Join(suite.T().TempDir(), "inventory.db"))
	suite.Require().NoError(err)
	suite.storage = storage
}

func (suite *StorageSuite) TearDownTest() {
	suite.storage.Close()
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (suite *StorageSuite) rows(appID, n int, name string) []entity.SnapshotRow {
	rows := make([]entity.SnapshotRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, entity.SnapshotRow{
			SteamID:        steamID,
			AppID:          appID,
			AssetID:        fmt.Sprintf("%d-%d", appID, i),
			ClassID:        "c1",
			InstanceID:     "0",
			MarketHashName: name,
			Tradable:       true,
			Marketable:     true,
			IconURL:        "icon",
			CapturedAt:     suite.at,
		})
	}
	return rows
}

func (suite *StorageSuite) count(appID int) int {
	var n int
	err := suite.storage.db.QueryRowContext(suite.ctx,
		"SELECT COUNT(*) FROM user_inventory WHERE steamid = ? AND appid = ?", steamID, appID).Scan(&n)
	suite.Require().NoError(err)
	return n
}

func (suite *StorageSuite) TestReplaceSnapshot_Idempotent() {
	key := entity.SnapshotKey{SteamID: steamID, AppID: 730}
	rows := suite.rows(730, 1200, "AK-47 | Redline (Field-Tested)")

	suite.Require().NoError(suite.storage.ReplaceSnapshot(suite.ctx, key, rows))
	first, err := suite.storage.GroupedInventory(suite.ctx, steamID)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.storage.ReplaceSnapshot(suite.ctx, key, rows))
	second, err := suite.storage.GroupedInventory(suite.ctx, steamID)
	suite.Require().NoError(err)

	suite.Equal(1200, suite.count(730))
	suite.Equal(first, second)
}

func (suite *StorageSuite) TestReplaceSnapshot_ReplacesOnlyItsKey() {
	suite.Require().NoError(suite.storage.ReplaceSnapshot(suite.ctx,
		entity.SnapshotKey{SteamID: steamID, AppID: 730}, suite.rows(730, 5, "A")))
	suite.Require().NoError(suite.storage.ReplaceSnapshot(suite.ctx,
		entity.SnapshotKey{SteamID: steamID, AppID: 570}, suite.rows(570, 3, "B")))

	suite.Require().NoError(suite.storage.ReplaceSnapshot(suite.ctx,
		entity.SnapshotKey{SteamID: steamID, AppID: 730}, suite.rows(730, 2, "A")))

	suite.Equal(2, suite.count(730))
	suite.Equal(3, suite.count(570))
}

func (suite *StorageSuite) TestReplaceSnapshot_FailedInsertKeepsPreviousRows() {
	key := entity.SnapshotKey{SteamID: steamID, AppID: 730}
	suite.Require().NoError(suite.storage.ReplaceSnapshot(suite.ctx, key, suite.rows(730, 4, "A")))

	// повтор assetid нарушает первичный ключ посреди вставки
	broken := suite.rows(730, 3, "B")
	broken = append(broken, broken[0])

	err := suite.storage.ReplaceSnapshot(suite.ctx, key, broken)
	suite.Error(err)

	groups, err := suite.storage.GroupedInventory(suite.ctx, steamID)
	suite.Require().NoError(err)
	suite.Require().Len(groups, 1)
	suite.Equal("A", groups[0].MarketHashName)
	suite.Equal(4, groups[0].Count)
}

func (suite *StorageSuite) TestGroupedInventory_CountsDuplicates() {
	rows := suite.rows(730, 2, "AK-47 | Redline (Field-Tested)")
	later := suite.at.Add(time.Hour)
	rows[1].CapturedAt = later

	other := suite.rows(730, 1, "AWP | Asiimov (Field-Tested)")
	other[0].AssetID = "other"
	rows = append(rows, other...)

	suite.Require().NoError(suite.storage.ReplaceSnapshot(suite.ctx,
		entity.SnapshotKey{SteamID: steamID, AppID: 730}, rows))

	groups, err := suite.storage.GroupedInventory(suite.ctx, steamID)
	suite.Require().NoError(err)
	suite.Require().Len(groups, 2)

	byName := make(map[string]entity.InventoryGroup)
	for _, g := range groups {
		byName[g.MarketHashName] = g
	}

	redline := byName["AK-47 | Redline (Field-Tested)"]
	suite.Equal(2, redline.Count)
	suite.True(redline.Tradable)
	suite.True(redline.UpdatedAt.Equal(later))
	suite.Equal(1, byName["AWP | Asiimov (Field-Tested)"].Count)
}

func (suite *StorageSuite) TestGroupedInventory_UnknownUser() {
	groups, err := suite.storage.GroupedInventory(suite.ctx, "76561190000000000")
	suite.NoError(err)
	suite.Empty(groups)
}

func (suite *StorageSuite) TestCatalogEntries_KeepsInsertOrderAndNulls() {
	_, err := suite.storage.db.ExecContext(suite.ctx, `
		INSERT INTO market_prices (appid, market_hash_name, avg, price_24h, price_7d) VALUES
			(730, 'A', 3.0, NULL, 5.5),
			(730, 'A', 1.0, 2.0, NULL)`)
	suite.Require().NoError(err)

	entries, err := suite.storage.CatalogEntries(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)

	suite.Equal(0.0, entries[0].Price24h)
	suite.Equal(5.5, entries[0].Price7d)
	suite.Equal(5.5, entries[0].BestPrice())
	suite.Equal(2.0, entries[1].BestPrice())
}

func (suite *StorageSuite) TestCurrencyRates() {
	_, err := suite.storage.db.ExecContext(suite.ctx,
		`INSERT INTO currency_rates (code, rub_per_unit) VALUES ('USD', 90), ('EUR', 100)`)
	suite.Require().NoError(err)

	rates, err := suite.storage.CurrencyRates(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal([]entity.CurrencyRate{{Code: "EUR", RubPerUnit: 100}, {Code: "USD", RubPerUnit: 90}}, rates)
}

func (suite *StorageSuite) TestHealthCheck() {
	suite.NoError(suite.storage.HealthCheck(suite.ctx))
}
