package steamapis

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/kedr891/steam-inventory/internal/domain"
	"github.com/kedr891/steam-inventory/internal/entity"
)

type inventoryResponse struct {
	Assets              []assetJSON       `json:"assets"`
	Descriptions        []descriptionJSON `json:"descriptions"`
	MoreItems           steamBool         `json:"more_items"`
	LastAssetID         string            `json:"last_assetid"`
	TotalInventoryCount int               `json:"total_inventory_count"`
}

type assetJSON struct {
	AppID      flexInt `json:"appid"`
	ClassID    string  `json:"classid"`
	InstanceID string  `json:"instanceid"`
	AssetID    string  `json:"assetid"`
}

type descriptionJSON struct {
	ClassID        string    `json:"classid"`
	InstanceID     string    `json:"instanceid"`
	MarketHashName string    `json:"market_hash_name"`
	Tradable       steamBool `json:"tradable"`
	Marketable     steamBool `json:"marketable"`
	Type           string    `json:"type"`
	Tags           []tagJSON `json:"tags"`
	IconURL        string    `json:"icon_url"`
}

type tagJSON struct {
	Category              string `json:"category"`
	LocalizedCategoryName *string `json:"localized_category_name"`
	LocalizedTagName      *string `json:"localized_tag_name"`
}

func (r *inventoryResponse) toPage(appID int) *domain.InventoryPage {
	page := &domain.InventoryPage{
		Assets:       make([]entity.InventoryAsset, 0, len(r.Assets)),
		Descriptions: make([]entity.ItemDescription, 0, len(r.Descriptions)),
		HasMore:      bool(r.MoreItems),
		NextCursor:   r.LastAssetID,
	}

	for _, a := range r.Assets {
		id := int(a.AppID)
		if id == 0 {
			id = appID
		}
		page.Assets = append(page.Assets, entity.InventoryAsset{
			AppID:      id,
			ClassID:    a.ClassID,
			InstanceID: a.InstanceID,
			AssetID:    a.AssetID,
		})
	}

	for _, d := range r.Descriptions {
		desc := entity.ItemDescription{
			ClassID:        d.ClassID,
			InstanceID:     d.InstanceID,
			MarketHashName: d.MarketHashName,
			Tradable:       bool(d.Tradable),
			Marketable:     bool(d.Marketable),
			Type:           d.Type,
			IconURL:        d.IconURL,
		}
		// тег без одного из полей не сохраняется, пустые строки допустимы
		for _, t := range d.Tags {
			if t.LocalizedCategoryName == nil || t.LocalizedTagName == nil {
				continue
			}
			desc.Tags = append(desc.Tags, entity.Tag{
				Category: *t.LocalizedCategoryName,
				Value:    *t.LocalizedTagName,
			})
		}
		page.Descriptions = append(page.Descriptions, desc)
	}

	return page
}

// steamBool принимает 0/1, "0"/"1" и true/false.
type steamBool bool

func (b *steamBool) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	switch string(data) {
	case "1", "true":
		*b = true
	case "0", "false", "", "null":
		*b = false
	default:
		return fmt.Errorf("steamapis: invalid boolean %q", data)
	}
	return nil
}

// flexInt принимает число и число в строке.
type flexInt int

func (i *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*i = 0
		return nil
	}
	v, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("steamapis: invalid integer %q", data)
	}
	*i = flexInt(v)
	return nil
}
