package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kedr891/steam-inventory/internal/domain"
	"github.com/kedr891/steam-inventory/internal/entity"
	"github.com/kedr891/steam-inventory/pkg/logger"
)

const steamID = "76561198000000000"

type fakeComposer struct {
	groups []entity.PricedInventoryGroup
	err    error
	calls  int
}

func (f *fakeComposer) ComposePricedInventory(context.Context, string) ([]entity.PricedInventoryGroup, error) {
	f.calls++
	return f.groups, f.err
}

type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func sampleGroups() []entity.PricedInventoryGroup {
	return []entity.PricedInventoryGroup{{
		AppID:          730,
		MarketHashName: "AK-47 | Redline (Field-Tested)",
		Tradable:       true,
		Marketable:     true,
		Count:          2,
		IconURL:        "icon",
		UpdatedAt:      "2025-06-01 15:00:00",
		Prices:         map[string]float64{"USD": 10, "EUR": 9},
		Totals:         map[string]float64{"USD": 20, "EUR": 18},
	}}
}

func newExporter(t *testing.T, composer inventoryComposer, opts ...Option) (*Exporter, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "inventoryJson")
	e, err := New(composer, dir, logger.NewNop(), opts...)
	require.NoError(t, err)
	return e, dir
}

func TestExport_WritesJSONArtifact(t *testing.T) {
	composer := &fakeComposer{groups: sampleGroups()}
	e, dir := newExporter(t, composer)

	groups, err := e.Export(context.Background(), steamID)
	require.NoError(t, err)
	assert.Equal(t, sampleGroups(), groups)

	data, err := os.ReadFile(filepath.Join(dir, steamID+".json"))
	require.NoError(t, err)

	var stored []entity.PricedInventoryGroup
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, sampleGroups(), stored)
	assert.Contains(t, string(data), `"market_hash_name": "AK-47 | Redline (Field-Tested)"`)

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestExport_EmptyInventoryIsEmptyArray(t *testing.T) {
	e, dir := newExporter(t, &fakeComposer{})

	groups, err := e.Export(context.Background(), steamID)
	require.NoError(t, err)
	assert.NotNil(t, groups)

	data, err := os.ReadFile(filepath.Join(dir, steamID+".json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestExport_UsesCache(t *testing.T) {
	composer := &fakeComposer{groups: sampleGroups()}
	cache := newMemoryCache()
	e, _ := newExporter(t, composer, WithCache(cache, time.Minute))

	_, err := e.Export(context.Background(), steamID)
	require.NoError(t, err)
	assert.Contains(t, cache.data, "inventory:export:"+steamID)

	groups, err := e.Export(context.Background(), steamID)
	require.NoError(t, err)
	assert.Equal(t, sampleGroups(), groups)
	assert.Equal(t, 1, composer.calls)

	require.NoError(t, e.Invalidate(context.Background(), steamID))
	_, err = e.Export(context.Background(), steamID)
	require.NoError(t, err)
	assert.Equal(t, 2, composer.calls)
}

func TestExport_ComposeFailureWritesNothing(t *testing.T) {
	e, dir := newExporter(t, &fakeComposer{err: domain.ErrMissingUSDRate})

	_, err := e.Export(context.Background(), steamID)
	assert.ErrorIs(t, err, domain.ErrMissingUSDRate)

	_, statErr := os.Stat(filepath.Join(dir, steamID+".json"))
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestExport_WritesXLSX(t *testing.T) {
	e, dir := newExporter(t, &fakeComposer{groups: sampleGroups()}, WithXLSX(true))

	_, err := e.Export(context.Background(), steamID)
	require.NoError(t, err)

	f, err := excelize.OpenFile(filepath.Join(dir, steamID+".xlsx"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"appid", "market_hash_name", "tradable", "marketable", "count", "updated_at",
		"price_EUR", "price_USD", "total_EUR", "total_USD",
	}, rows[0])
	assert.Equal(t, "AK-47 | Redline (Field-Tested)", rows[1][1])
	assert.Equal(t, "9", rows[1][6])
	assert.Equal(t, "20", rows[1][9])
}

func TestArtifactPath(t *testing.T) {
	e, dir := newExporter(t, &fakeComposer{groups: sampleGroups()})

	_, err := e.ArtifactPath(steamID, FormatJSON)
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)

	_, err = e.Export(context.Background(), steamID)
	require.NoError(t, err)

	path, err := e.ArtifactPath(steamID, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, steamID+".json"), path)

	_, err = e.ArtifactPath(steamID, FormatXLSX)
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)

	_, err = e.ArtifactPath(steamID, "csv")
	assert.Error(t, err)

	_, err = e.ArtifactPath("../etc/passwd", FormatJSON)
	assert.Error(t, err)
}

func TestRefreshConsumer_Handle(t *testing.T) {
	composer := &fakeComposer{groups: sampleGroups()}
	cache := newMemoryCache()
	e, dir := newExporter(t, composer, WithCache(cache, time.Minute))
	cache.data["inventory:export:"+steamID] = []byte(`[]`)

	c := NewRefreshConsumer(nil, e, logger.NewNop())

	value, err := json.Marshal(entity.InventoryRefreshedEvent{SteamID: steamID, AppID: 730, Rows: 2})
	require.NoError(t, err)

	require.NoError(t, c.Handle(context.Background(), kafka.Message{Value: value}))
	assert.Equal(t, 1, composer.calls)
	assert.FileExists(t, filepath.Join(dir, steamID+".json"))

	assert.Error(t, c.Handle(context.Background(), kafka.Message{Value: []byte("{")}))
	assert.Error(t, c.Handle(context.Background(), kafka.Message{Value: []byte(`{"app_id": 730}`)}))
}
