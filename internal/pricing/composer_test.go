package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/kedr891/steam-inventory/internal/domain"
	"github.com/kedr891/steam-inventory/internal/entity"
	"github.com/kedr891/steam-inventory/internal/pricing/mocks"
	"github.com/kedr891/steam-inventory/pkg/logger"
)

const steamID = "76561198000000000"

type ComposerSuite struct {
	suite.Suite
	ctx       context.Context
	ctrl      *gomock.Controller
	inventory *mocks.MockInventoryReader
	catalog   *mocks.MockPriceCatalog
	rates     *mocks.MockRateTable
	updatedAt time.Time
}

func (suite *ComposerSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.ctrl = gomock.NewController(suite.T())
	suite.inventory = mocks.NewMockInventoryReader(suite.ctrl)
	suite.catalog = mocks.NewMockPriceCatalog(suite.ctrl)
	suite.rates = mocks.NewMockRateTable(suite.ctrl)
	suite.updatedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestComposerSuite(t *testing.T) {
	suite.Run(t, new(ComposerSuite))
}

func (suite *ComposerSuite) composer(opts ...Option) *Composer {
	return NewComposer(suite.inventory, suite.catalog, suite.rates, logger.NewNop(), opts...)
}

func (suite *ComposerSuite) group(name string, count int) entity.InventoryGroup {
	return entity.InventoryGroup{
		AppID:          730,
		MarketHashName: name,
		Tradable:       true,
		Marketable:     true,
		IconURL:        "icon",
		Count:          count,
		UpdatedAt:      suite.updatedAt,
	}
}

func (suite *ComposerSuite) expect(
	groups []entity.InventoryGroup,
	entries []entity.PriceCatalogEntry,
	rates []entity.CurrencyRate,
) {
	suite.inventory.EXPECT().GroupedInventory(gomock.Any(), steamID).Return(groups, nil)
	suite.catalog.EXPECT().CatalogEntries(gomock.Any()).Return(entries, nil)
	suite.rates.EXPECT().CurrencyRates(gomock.Any()).Return(rates, nil)
}

func usdEur() []entity.CurrencyRate {
	return []entity.CurrencyRate{{Code: "USD", RubPerUnit: 90}, {Code: "EUR", RubPerUnit: 100}}
}

func (suite *ComposerSuite) TestCompose_AnchorsOnUSD() {
	suite.expect(
		[]entity.InventoryGroup{suite.group("AK-47 | Redline (Field-Tested)", 1)},
		[]entity.PriceCatalogEntry{{AppID: 730, MarketHashName: "AK-47 | Redline (Field-Tested)", Price24h: 10}},
		usdEur(),
	)

	result, err := suite.composer().ComposePricedInventory(suite.ctx, steamID)

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(map[string]float64{"USD": 10, "EUR": 9}, result[0].Prices)
}

func (suite *ComposerSuite) TestCompose_PriceFallbackChain() {
	suite.expect(
		[]entity.InventoryGroup{suite.group("A", 1), suite.group("B", 1), suite.group("C", 1)},
		[]entity.PriceCatalogEntry{
			{AppID: 730, MarketHashName: "A", Price24h: 0, Price7d: 5.5, Avg: 3.0},
			{AppID: 730, MarketHashName: "B", Price24h: 0, Price7d: 0, Avg: 3.0},
			{AppID: 730, MarketHashName: "C", Price24h: 7, Price7d: 5.5, Avg: 3.0},
		},
		[]entity.CurrencyRate{{Code: "USD", RubPerUnit: 90}},
	)

	result, err := suite.composer().ComposePricedInventory(suite.ctx, steamID)

	suite.Require().NoError(err)
	suite.Require().Len(result, 3)
	suite.Equal(5.5, result[0].Prices["USD"])
	suite.Equal(3.0, result[1].Prices["USD"])
	suite.Equal(7.0, result[2].Prices["USD"])
}

func (suite *ComposerSuite) TestCompose_MissingUSDRate() {
	suite.expect(
		[]entity.InventoryGroup{suite.group("A", 1)},
		nil,
		[]entity.CurrencyRate{{Code: "EUR", RubPerUnit: 100}},
	)

	result, err := suite.composer().ComposePricedInventory(suite.ctx, steamID)

	suite.ErrorIs(err, domain.ErrMissingUSDRate)
	suite.Nil(result)
}

func (suite *ComposerSuite) TestCompose_ZeroUSDRateIsMissing() {
	suite.expect(nil, nil, []entity.CurrencyRate{{Code: "USD", RubPerUnit: 0}})

	_, err := suite.composer().ComposePricedInventory(suite.ctx, steamID)

	suite.ErrorIs(err, domain.ErrMissingUSDRate)
}

func (suite *ComposerSuite) TestCompose_MissingPriceIsZero() {
	suite.expect([]entity.InventoryGroup{suite.group("Unknown sticker", 3)}, nil, usdEur())

	result, err := suite.composer().ComposePricedInventory(suite.ctx, steamID)

	suite.Require().NoError(err)
	suite.Equal(map[string]float64{"USD": 0, "EUR": 0}, result[0].Prices)
	suite.Equal(map[string]float64{"USD": 0, "EUR": 0}, result[0].Totals)
}

func (suite *ComposerSuite) TestCompose_FirstCatalogEntryWins() {
	suite.expect(
		[]entity.InventoryGroup{suite.group("A", 1)},
		[]entity.PriceCatalogEntry{
			{AppID: 730, MarketHashName: "A", Price24h: 1},
			{AppID: 730, MarketHashName: "A", Price24h: 2},
			{AppID: 570, MarketHashName: "A", Price24h: 3},
		},
		[]entity.CurrencyRate{{Code: "USD", RubPerUnit: 90}},
	)

	result, err := suite.composer().ComposePricedInventory(suite.ctx, steamID)

	suite.Require().NoError(err)
	suite.Equal(1.0, result[0].Prices["USD"])
}

func (suite *ComposerSuite) TestCompose_RoundsAndTotals() {
	suite.expect(
		[]entity.InventoryGroup{suite.group("A", 2)},
		[]entity.PriceCatalogEntry{{AppID: 730, MarketHashName: "A", Price24h: 1.23456}},
		[]entity.CurrencyRate{{Code: "USD", RubPerUnit: 90}, {Code: "RUB", RubPerUnit: 1}},
	)

	result, err := suite.composer().ComposePricedInventory(suite.ctx, steamID)

	suite.Require().NoError(err)
	suite.Equal(1.235, result[0].Prices["USD"])
	suite.Equal(111.11, result[0].Prices["RUB"])
	suite.Equal(2.47, result[0].Totals["USD"])
	suite.Equal(222.22, result[0].Totals["RUB"])
}

func (suite *ComposerSuite) TestCompose_TotalsForAnchoredPrices() {
	suite.expect(
		[]entity.InventoryGroup{suite.group("A", 2)},
		[]entity.PriceCatalogEntry{{AppID: 730, MarketHashName: "A", Price24h: 10}},
		usdEur(),
	)

	result, err := suite.composer().ComposePricedInventory(suite.ctx, steamID)

	suite.Require().NoError(err)
	suite.Equal(map[string]float64{"USD": 20, "EUR": 18}, result[0].Totals)
	suite.Equal(2, result[0].Count)
}

func (suite *ComposerSuite) TestCompose_TotalsDisabled() {
	suite.expect(
		[]entity.InventoryGroup{suite.group("A", 2)},
		[]entity.PriceCatalogEntry{{AppID: 730, MarketHashName: "A", Price24h: 10}},
		usdEur(),
	)

	result, err := suite.composer(WithTotals(false)).ComposePricedInventory(suite.ctx, steamID)

	suite.Require().NoError(err)
	suite.Nil(result[0].Totals)

	data, err := json.Marshal(result[0])
	suite.Require().NoError(err)
	suite.NotContains(string(data), "totals")
}

func (suite *ComposerSuite) TestCompose_FormatsUpdatedAtInDisplayZone() {
	suite.expect([]entity.InventoryGroup{suite.group("A", 1)}, nil, usdEur())

	msk := time.FixedZone("UTC+3", 3*3600)
	result, err := suite.composer(WithLocation(msk)).ComposePricedInventory(suite.ctx, steamID)

	suite.Require().NoError(err)
	suite.Equal("2025-06-01 15:00:00", result[0].UpdatedAt)
}

func (suite *ComposerSuite) TestCompose_SkipsNonPositiveRates() {
	suite.expect(
		[]entity.InventoryGroup{suite.group("A", 1)},
		nil,
		[]entity.CurrencyRate{{Code: "USD", RubPerUnit: 90}, {Code: "XXX", RubPerUnit: 0}, {Code: "EUR", RubPerUnit: 100}},
	)

	result, err := suite.composer().ComposePricedInventory(suite.ctx, steamID)

	suite.Require().NoError(err)
	suite.NotContains(result[0].Prices, "XXX")
	suite.Contains(result[0].Prices, "EUR")
}

func (suite *ComposerSuite) TestCompose_SortsOutput() {
	b := suite.group("B", 1)
	aDota := suite.group("A", 1)
	aDota.AppID = 570
	aUntradable := suite.group("A", 1)
	aUntradable.Tradable = false
	a := suite.group("A", 1)

	suite.expect([]entity.InventoryGroup{b, a, aUntradable, aDota}, nil, usdEur())

	result, err := suite.composer().ComposePricedInventory(suite.ctx, steamID)

	suite.Require().NoError(err)
	suite.Require().Len(result, 4)
	suite.Equal(570, result[0].AppID)
	suite.False(result[1].Tradable)
	suite.True(result[2].Tradable)
	suite.Equal("B", result[3].MarketHashName)
}

func (suite *ComposerSuite) TestCompose_ReadFailure() {
	suite.inventory.EXPECT().GroupedInventory(gomock.Any(), steamID).Return(nil, errors.New("db down"))
	suite.catalog.EXPECT().CatalogEntries(gomock.Any()).Return(nil, nil).AnyTimes()
	suite.rates.EXPECT().CurrencyRates(gomock.Any()).Return(nil, nil).AnyTimes()

	_, err := suite.composer().ComposePricedInventory(suite.ctx, steamID)

	suite.ErrorContains(err, "grouped inventory")
}

func (suite *ComposerSuite) TestCompose_EmptyInventory() {
	suite.expect(nil, nil, usdEur())

	result, err := suite.composer().ComposePricedInventory(suite.ctx, steamID)

	suite.NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}
