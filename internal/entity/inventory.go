package entity

import (
	"time"

	"github.com/google/uuid"
)

// InventoryAsset - одна единица инвентаря, как её отдаёт API.
type InventoryAsset struct {
	AppID      int
	ClassID    string
	InstanceID string
	AssetID    string
}

func (a InventoryAsset) DescriptionKey() DescriptionKey {
	return DescriptionKey{ClassID: a.ClassID, InstanceID: a.InstanceID}
}

// DescriptionKey - ключ описания предмета (classid, instanceid).
type DescriptionKey struct {
	ClassID    string
	InstanceID string
}

type Tag struct {
	Category string
	Value    string
}

// ItemDescription - описание предмета, общее для всех ассетов с одним ключом.
type ItemDescription struct {
	ClassID        string
	InstanceID     string
	MarketHashName string
	Tradable       bool
	Marketable     bool
	Type           string
	Tags           []Tag
	IconURL        string
}

func (d ItemDescription) Key() DescriptionKey {
	return DescriptionKey{ClassID: d.ClassID, InstanceID: d.InstanceID}
}

// SnapshotKey - снимок инвентаря заменяется целиком по этому ключу.
type SnapshotKey struct {
	SteamID string
	AppID   int
}

// SnapshotRow - строка таблицы user_inventory.
type SnapshotRow struct {
	SteamID        string
	AppID          int
	AssetID        string
	ClassID        string
	InstanceID     string
	MarketHashName string
	Tradable       bool
	Marketable     bool
	Type           string
	Categories     string
	Tags           string
	IconURL        string
	CapturedAt     time.Time
}

// InventoryGroup - сгруппированные строки снимка одного пользователя.
type InventoryGroup struct {
	AppID          int
	MarketHashName string
	Tradable       bool
	Marketable     bool
	IconURL        string
	Count          int
	UpdatedAt      time.Time
}

// InventoryRefreshedEvent - событие для Kafka/NATS после успешной замены снимка.
type InventoryRefreshedEvent struct {
	SteamID    string    `json:"steam_id"`
	AppID      int       `json:"app_id"`
	Rows       int       `json:"rows"`
	CapturedAt time.Time `json:"captured_at"`
	JobID      uuid.UUID `json:"job_id"`
}
