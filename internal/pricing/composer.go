package pricing

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kedr891/steam-inventory/internal/domain"
	"github.com/kedr891/steam-inventory/internal/entity"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks github.com/kedr891/steam-inventory/internal/domain InventoryReader,PriceCatalog,RateTable

const (
	_defaultPrecision = 3
	updatedAtLayout   = "2006-01-02 15:04:05"
)

// Composer собирает сгруппированный инвентарь с ценами во всех валютах.
type Composer struct {
	inventory domain.InventoryReader
	catalog   domain.PriceCatalog
	rates     domain.RateTable
	log       domain.Logger

	precision     int
	includeTotals bool
	location      *time.Location
}

type Option func(*Composer)

func WithPrecision(p int) Option {
	return func(c *Composer) {
		if p >= 0 {
			c.precision = p
		}
	}
}

func WithTotals(enabled bool) Option {
	return func(c *Composer) {
		c.includeTotals = enabled
	}
}

// WithLocation - зона, в которой форматируется updated_at.
func WithLocation(loc *time.Location) Option {
	return func(c *Composer) {
		if loc != nil {
			c.location = loc
		}
	}
}

func NewComposer(
	inventory domain.InventoryReader,
	catalog domain.PriceCatalog,
	rates domain.RateTable,
	log domain.Logger,
	opts ...Option,
) *Composer {
	c := &Composer{
		inventory:     inventory,
		catalog:       catalog,
		rates:         rates,
		log:           log,
		precision:     _defaultPrecision,
		includeTotals: true,
		location:      time.UTC,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Composer) ComposePricedInventory(ctx context.Context, steamID string) ([]entity.PricedInventoryGroup, error) {
	var (
		groups  []entity.InventoryGroup
		entries []entity.PriceCatalogEntry
		rates   []entity.CurrencyRate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		groups, err = c.inventory.GroupedInventory(gctx, steamID)
		if err != nil {
			return fmt.Errorf("grouped inventory: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		entries, err = c.catalog.CatalogEntries(gctx)
		if err != nil {
			return fmt.Errorf("price catalog: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rates, err = c.rates.CurrencyRates(gctx)
		if err != nil {
			return fmt.Errorf("currency rates: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	factors, err := c.conversionFactors(rates)
	if err != nil {
		return nil, err
	}

	prices := priceIndex(entries)

	result := make([]entity.PricedInventoryGroup, 0, len(groups))
	for _, grp := range groups {
		usd := prices[entity.PriceKey{AppID: grp.AppID, MarketHashName: grp.MarketHashName}]

		item := entity.PricedInventoryGroup{
			AppID:          grp.AppID,
			MarketHashName: grp.MarketHashName,
			Tradable:       grp.Tradable,
			Marketable:     grp.Marketable,
			Count:          grp.Count,
			IconURL:        grp.IconURL,
			UpdatedAt:      grp.UpdatedAt.In(c.location).Format(updatedAtLayout),
			Prices:         make(map[string]float64, len(factors)),
		}
		if c.includeTotals {
			item.Totals = make(map[string]float64, len(factors))
		}

		for code, factor := range factors {
			unit := round(usd*factor, c.precision)
			item.Prices[code] = unit
			if c.includeTotals {
				item.Totals[code] = round(unit*float64(grp.Count), c.precision)
			}
		}

		result = append(result, item)
	}

	sortGroups(result)

	return result, nil
}

// conversionFactors: USD = 1, остальные = рублей за USD / рублей за единицу валюты.
func (c *Composer) conversionFactors(rates []entity.CurrencyRate) (map[string]float64, error) {
	rubPerUSD := 0.0
	for _, r := range rates {
		if r.Code == entity.CurrencyUSD {
			rubPerUSD = r.RubPerUnit
			break
		}
	}
	if rubPerUSD <= 0 {
		return nil, domain.ErrMissingUSDRate
	}

	factors := make(map[string]float64, len(rates))
	factors[entity.CurrencyUSD] = 1.0
	for _, r := range rates {
		if r.Code == entity.CurrencyUSD {
			continue
		}
		if r.RubPerUnit <= 0 {
			c.log.Warn("Skipping currency with non-positive rate", "currency", r.Code, "rate", r.RubPerUnit)
			continue
		}
		if _, ok := factors[r.Code]; ok {
			continue
		}
		factors[r.Code] = rubPerUSD / r.RubPerUnit
	}

	return factors, nil
}

// priceIndex - первая запись на ключ побеждает.
func priceIndex(entries []entity.PriceCatalogEntry) map[entity.PriceKey]float64 {
	index := make(map[entity.PriceKey]float64, len(entries))
	for _, e := range entries {
		key := e.Key()
		if _, ok := index[key]; ok {
			continue
		}
		index[key] = e.BestPrice()
	}
	return index
}

func round(v float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	return math.Round(v*p) / p
}

func sortGroups(groups []entity.PricedInventoryGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.MarketHashName != b.MarketHashName {
			return a.MarketHashName < b.MarketHashName
		}
		if a.AppID != b.AppID {
			return a.AppID < b.AppID
		}
		if a.Tradable != b.Tradable {
			return !a.Tradable
		}
		if a.Marketable != b.Marketable {
			return !a.Marketable
		}
		return a.IconURL < b.IconURL
	})
}
