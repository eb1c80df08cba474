//go:build integration

package pgstorage

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/kedr891/steam-inventory/internal/entity"
	"github.com/kedr891/steam-inventory/pkg/postgres"
)

// PG_URL указывает на отдельную базу: тесты очищают таблицы.
const pgURLEnv = "PG_URL"

const steamID = "76561198000000000"

type PostgresSuite struct {
	suite.Suite
	ctx     context.Context
	pg      *postgres.Postgres
	storage *Storage
	at      time.Time
}

func TestPostgresSuite(t *testing.T) {
	url := os.Getenv(pgURLEnv)
	if url == "" {
		t.Skipf("%s is not set", pgURLEnv)
	}

	suite.Run(t, &PostgresSuite{at: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)})
}

func (suite *PostgresSuite) SetupSuite() {
	suite.ctx = context.Background()
	url := os.Getenv(pgURLEnv)

	suite.Require().NoError(Migrate(url))
	// повторный запуск без изменений
	suite.Require().NoError(Migrate(url))

	pg, err := postgres.New(url, postgres.MaxPoolSize(2))
	suite.Require().NoError(err)
	suite.pg = pg
	suite.storage = New(pg)
}

func (suite *PostgresSuite) TearDownSuite() {
	if suite.storage != nil {
		suite.storage.Close()
	}
}

func (suite *PostgresSuite) SetupTest() {
	_, err := suite.pg.Pool.Exec(suite.ctx,
		"TRUNCATE user_inventory, market_prices, currency_rates RESTART IDENTITY")
	suite.Require().NoError(err)
}

func (suite *PostgresSuite) rows(appID, n int, name string) []entity.SnapshotRow {
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
			Tags:           "Type:Rifle",
			IconURL:        "icon",
			CapturedAt:     suite.at,
		})
	}
	return rows
}

func (suite *PostgresSuite) count(appID int) int {
	var n int
	err := suite.pg.Pool.QueryRow(suite.ctx,
		"SELECT COUNT(*) FROM user_inventory WHERE steamid = $1 AND appid = $2", steamID, appID).Scan(&n)
	suite.Require().NoError(err)
	return n
}

func (suite *PostgresSuite) TestReplaceSnapshot_Idempotent() {
	key := entity.SnapshotKey{SteamID: steamID, AppID: 730}
	rows := suite.rows(730, 1200, "AK-47 | Redline (Field-Tested)")

	suite.Require().NoError(suite.storage.ReplaceSnapshot(suite.ctx, key, rows))
	first, err := suite.storage.GroupedInventory(suite.ctx, steamID)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.storage.ReplaceSnapshot(suite.ctx, key, rows))
	second, err := suite.storage.GroupedInventory(suite.ctx, steamID)
	suite.Require().NoError(err)

	suite.Equal(1200, suite.count(730))
	suite.Require().Len(second, 1)
	suite.Equal(first[0].Count, second[0].Count)
	suite.True(first[0].UpdatedAt.Equal(second[0].UpdatedAt))
}

func (suite *PostgresSuite) TestReplaceSnapshot_ReplacesOnlyItsKey() {
	suite.Require().NoError(suite.storage.ReplaceSnapshot(suite.ctx,
		entity.SnapshotKey{SteamID: steamID, AppID: 730}, suite.rows(730, 5, "A")))
	suite.Require().NoError(suite.storage.ReplaceSnapshot(suite.ctx,
		entity.SnapshotKey{SteamID: steamID, AppID: 570}, suite.rows(570, 3, "B")))

	suite.Require().NoError(suite.storage.ReplaceSnapshot(suite.ctx,
		entity.SnapshotKey{SteamID: steamID, AppID: 730}, suite.rows(730, 2, "A")))

	suite.Equal(2, suite.count(730))
	suite.Equal(3, suite.count(570))
}

func (suite *PostgresSuite) TestReplaceSnapshot_EmptyClearsKey() {
	key := entity.SnapshotKey{SteamID: steamID, AppID: 730}
	suite.Require().NoError(suite.storage.ReplaceSnapshot(suite.ctx, key, suite.rows(730, 3, "A")))
	suite.Require().NoError(suite.storage.ReplaceSnapshot(suite.ctx, key, nil))

	suite.Equal(0, suite.count(730))
}

func (suite *PostgresSuite) TestReplaceSnapshot_FailedCopyKeepsPreviousRows() {
	key := entity.SnapshotKey{SteamID: steamID, AppID: 730}
	suite.Require().NoError(suite.storage.ReplaceSnapshot(suite.ctx, key, suite.rows(730, 4, "A")))

	// повтор assetid нарушает первичный ключ внутри COPY
	broken := suite.rows(730, 3, "B")
	broken = append(broken, broken[0])

	suite.Error(suite.storage.ReplaceSnapshot(suite.ctx, key, broken))

	groups, err := suite.storage.GroupedInventory(suite.ctx, steamID)
	suite.Require().NoError(err)
	suite.Require().Len(groups, 1)
	suite.Equal("A", groups[0].MarketHashName)
	suite.Equal(4, groups[0].Count)
}

func (suite *PostgresSuite) TestGroupedInventory_CountsDuplicates() {
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
	suite.True(redline.Marketable)
	suite.True(redline.UpdatedAt.Equal(later))
	suite.Equal(1, byName["AWP | Asiimov (Field-Tested)"].Count)
}

func (suite *PostgresSuite) TestCatalogEntries_KeepsInsertOrderAndNulls() {
	_, err := suite.pg.Pool.Exec(suite.ctx, `
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

func (suite *PostgresSuite) TestCurrencyRates() {
	_, err := suite.pg.Pool.Exec(suite.ctx,
		`INSERT INTO currency_rates (code, rub_per_unit) VALUES ('USD', 90.5), ('EUR', 100)`)
	suite.Require().NoError(err)

	rates, err := suite.storage.CurrencyRates(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal([]entity.CurrencyRate{{Code: "EUR", RubPerUnit: 100}, {Code: "USD", RubPerUnit: 90.5}}, rates)
}

func (suite *PostgresSuite) TestHealthCheck() {
	suite.NoError(suite.storage.HealthCheck(suite.ctx))
}
