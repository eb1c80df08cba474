package entity

// PriceKey - ключ каталога цен.
type PriceKey struct {
	AppID          int
	MarketHashName string
}

// PriceCatalogEntry - строка таблицы market_prices. Цены в USD.
type PriceCatalogEntry struct {
	AppID          int
	MarketHashName string
	Latest         float64
	Avg            float64
	Median         float64
	Price24h       float64
	Price7d        float64
	Price30d       float64
	Price90d       float64
}

func (e PriceCatalogEntry) Key() PriceKey {
	return PriceKey{AppID: e.AppID, MarketHashName: e.MarketHashName}
}

// BestPrice - 24h, затем 7d, затем среднее. Ноль, если ничего нет.
func (e PriceCatalogEntry) BestPrice() float64 {
	switch {
	case e.Price24h != 0:
		return e.Price24h
	case e.Price7d != 0:
		return e.Price7d
	default:
		return e.Avg
	}
}

// CurrencyRate - сколько рублей стоит одна единица валюты.
type CurrencyRate struct {
	Code       string
	RubPerUnit float64
}

const CurrencyUSD = "USD"

// PricedInventoryGroup - элемент экспорта для фронтенда.
type PricedInventoryGroup struct {
	AppID          int                `json:"appid"`
	MarketHashName string             `json:"market_hash_name"`
	Tradable       bool               `json:"tradable"`
	Marketable     bool               `json:"marketable"`
	Count          int                `json:"count"`
	IconURL        string             `json:"icon_url"`
	UpdatedAt      string             `json:"updated_at"`
	Prices         map[string]float64 `json:"prices"`
	Totals         map[string]float64 `json:"totals,omitempty"`
}
