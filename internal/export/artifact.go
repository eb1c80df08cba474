package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-json"
	"github.com/xuri/excelize/v2"

	"github.com/kedr891/steam-inventory/internal/entity"
)

const sheetName = "Inventory"

// writeAtomic пишет во временный файл рядом с path и переименовывает.
func writeAtomic(path string, write func(tmp *os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename artifact: %w", err)
	}

	return nil
}

func writeJSON(path string, groups []entity.PricedInventoryGroup) error {
	data, err := json.MarshalIndent(groups, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}

	return writeAtomic(path, func(tmp *os.File) error {
		if _, err := tmp.Write(data); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		return nil
	})
}

// writeXLSX - одна строка на группу, по колонке цены и суммы на валюту.
func writeXLSX(path string, groups []entity.PricedInventoryGroup) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	currencies := currencyCodes(groups)

	header := []interface{}{"appid", "market_hash_name", "tradable", "marketable", "count", "updated_at"}
	for _, code := range currencies {
		header = append(header, "price_"+code)
	}
	for _, code := range currencies {
		header = append(header, "total_"+code)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, g := range groups {
		row := []interface{}{g.AppID, g.MarketHashName, g.Tradable, g.Marketable, g.Count, g.UpdatedAt}
		for _, code := range currencies {
			row = append(row, g.Prices[code])
		}
		for _, code := range currencies {
			if g.Totals == nil {
				row = append(row, nil)
				continue
			}
			row = append(row, g.Totals[code])
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return writeAtomic(path, func(tmp *os.File) error {
		if _, err := f.WriteTo(tmp); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
		return nil
	})
}

func currencyCodes(groups []entity.PricedInventoryGroup) []string {
	seen := make(map[string]struct{})
	for _, g := range groups {
		for code := range g.Prices {
			seen[code] = struct{}{}
		}
	}

	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	return codes
}
