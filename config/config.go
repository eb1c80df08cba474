package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	HTTP      HTTPConfig      `yaml:"http"`
	Log       LogConfig       `yaml:"log"`
	PG        PGConfig        `yaml:"pg"`
	Storage   StorageConfig   `yaml:"storage"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	NATS      NATSConfig      `yaml:"nats"`
	Steam     SteamConfig     `yaml:"steam"`
	Inventory InventoryConfig `yaml:"inventory"`
	Export    ExportConfig    `yaml:"export"`
	Auth      AuthConfig      `yaml:"auth"`
}

type AppConfig struct {
	Name    string `yaml:"name" env:"APP_NAME"`
	Version string `yaml:"version" env:"APP_VERSION"`
}

type HTTPConfig struct {
	Port           string   `yaml:"port" env:"HTTP_PORT"`
	AllowedOrigins []string `yaml:"allowedOrigins" env:"HTTP_ALLOWED_ORIGINS"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

type PGConfig struct {
	PoolMax int    `yaml:"poolMax" env:"PG_POOL_MAX"`
	URL     string `yaml:"url" env:"PG_URL"`
}

// StorageConfig selects the snapshot backend: "postgres" or "sqlite".
type StorageConfig struct {
	Driver     string `yaml:"driver" env:"STORAGE_DRIVER"`
	SQLitePath string `yaml:"sqlitePath" env:"STORAGE_SQLITE_PATH"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

type KafkaConfig struct {
	Enabled                 bool     `yaml:"enabled" env:"KAFKA_ENABLED"`
	Brokers                 []string `yaml:"brokers" env:"KAFKA_BROKERS"`
	TopicInventoryRefreshed string   `yaml:"topicInventoryRefreshed" env:"KAFKA_TOPIC_INVENTORY_REFRESHED"`
	GroupExporter           string   `yaml:"groupExporter" env:"KAFKA_GROUP_EXPORTER"`

	WriteTimeout time.Duration `yaml:"writeTimeout" env:"KAFKA_WRITE_TIMEOUT"`
	BatchTimeout time.Duration `yaml:"batchTimeout" env:"KAFKA_BATCH_TIMEOUT"`
	// snappy (по умолчанию), gzip, lz4, zstd или none
	Compression string `yaml:"compression" env:"KAFKA_COMPRESSION"`
}

type NATSConfig struct {
	URL           string `yaml:"url" env:"NATS_URL"`
	SubjectPrefix string `yaml:"subjectPrefix" env:"NATS_SUBJECT_PREFIX"`
}

type SteamConfig struct {
	BaseURL       string        `yaml:"baseURL" env:"STEAM_BASE_URL"`
	APIKey        string        `yaml:"apiKey" env:"STEAM_API_KEY"`
	Timeout       time.Duration `yaml:"timeout" env:"STEAM_TIMEOUT"`
	MaxPages      int           `yaml:"maxPages" env:"STEAM_MAX_PAGES"`
	SupportedApps []int         `yaml:"supportedApps" env:"STEAM_SUPPORTED_APPS"`
}

type InventoryConfig struct {
	Workers      int           `yaml:"workers" env:"INVENTORY_WORKERS"`
	FetchTimeout time.Duration `yaml:"fetchTimeout" env:"INVENTORY_FETCH_TIMEOUT"`
	LockTTL      time.Duration `yaml:"lockTTL" env:"INVENTORY_LOCK_TTL"`
}

type ExportConfig struct {
	Dir                string        `yaml:"dir" env:"EXPORT_DIR"`
	Precision          int           `yaml:"precision" env:"EXPORT_PRECISION"`
	IncludeTotals      *bool         `yaml:"includeTotals" env:"EXPORT_INCLUDE_TOTALS"`
	XLSX               bool          `yaml:"xlsx" env:"EXPORT_XLSX"`
	CacheTTL           time.Duration `yaml:"cacheTTL" env:"EXPORT_CACHE_TTL"`
	DisplayOffsetHours *int          `yaml:"displayOffsetHours" env:"EXPORT_DISPLAY_OFFSET_HOURS"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwtSecret" env:"JWT_SECRET"`
	CookieName    string `yaml:"cookieName" env:"AUTH_COOKIE_NAME"`
	TriggerPolicy string `yaml:"triggerPolicy" env:"AUTH_TRIGGER_POLICY"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	TriggerPolicyAny   = "any"
	TriggerPolicyOwner = "owner"
)

func NewConfig() (*Config, error) {
	return LoadConfig(os.Getenv("CONFIG_PATH"))
}

func LoadConfig(filename string) (*Config, error) {
	cfg := &Config{}

	if strings.TrimSpace(filename) != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "steam-inventory"
	}
	if c.HTTP.Port == "" {
		c.HTTP.Port = "8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.PG.PoolMax <= 0 {
		c.PG.PoolMax = 10
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverPostgres
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "./data/inventory.db"
	}
	if len(c.Kafka.Brokers) == 0 {
		c.Kafka.Brokers = []string{"localhost:9092"}
	}
	if c.Kafka.TopicInventoryRefreshed == "" {
		c.Kafka.TopicInventoryRefreshed = "inventory.refreshed"
	}
	if c.Kafka.GroupExporter == "" {
		c.Kafka.GroupExporter = "inventory-exporter"
	}
	if c.Kafka.WriteTimeout <= 0 {
		c.Kafka.WriteTimeout = 10 * time.Second
	}
	if c.Kafka.BatchTimeout <= 0 {
		c.Kafka.BatchTimeout = 10 * time.Millisecond
	}
	if c.NATS.SubjectPrefix == "" {
		c.NATS.SubjectPrefix = "inventory.refreshed"
	}
	if c.Steam.BaseURL == "" {
		c.Steam.BaseURL = "https://api.steamapis.com"
	}
	if c.Steam.Timeout <= 0 {
		c.Steam.Timeout = 30 * time.Second
	}
	if c.Steam.MaxPages <= 0 {
		c.Steam.MaxPages = 50
	}
	if len(c.Steam.SupportedApps) == 0 {
		c.Steam.SupportedApps = []int{730, 570, 440, 252490}
	}
	if c.Inventory.Workers <= 0 {
		c.Inventory.Workers = 4
	}
	if c.Inventory.FetchTimeout <= 0 {
		c.Inventory.FetchTimeout = 5 * time.Minute
	}
	if c.Inventory.LockTTL <= 0 {
		c.Inventory.LockTTL = c.Inventory.FetchTimeout + time.Minute
	}
	if c.Export.Dir == "" {
		c.Export.Dir = "./data/inventoryJson"
	}
	if c.Export.Precision <= 0 {
		c.Export.Precision = 3
	}
	if c.Export.IncludeTotals == nil {
		includeTotals := true
		c.Export.IncludeTotals = &includeTotals
	}
	if c.Export.CacheTTL <= 0 {
		c.Export.CacheTTL = 5 * time.Minute
	}
	if c.Export.DisplayOffsetHours == nil {
		msk := 3
		c.Export.DisplayOffsetHours = &msk
	}
	if c.Auth.CookieName == "" {
		c.Auth.CookieName = "session"
	}
	if c.Auth.TriggerPolicy == "" {
		c.Auth.TriggerPolicy = TriggerPolicyAny
	}
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverPostgres:
		if c.PG.URL == "" {
			return fmt.Errorf("PG_URL is required when storage driver is %s", DriverPostgres)
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Steam.APIKey == "" {
		return fmt.Errorf("STEAM_API_KEY is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.Auth.TriggerPolicy != TriggerPolicyAny && c.Auth.TriggerPolicy != TriggerPolicyOwner {
		return fmt.Errorf("unknown trigger policy %q", c.Auth.TriggerPolicy)
	}

	return nil
}

func (c *Config) IsRedisEnabled() bool {
	return c.Redis.Addr != ""
}

func (c *Config) IsNATSEnabled() bool {
	return c.NATS.URL != ""
}

func (c *Config) IncludeTotals() bool {
	return c.Export.IncludeTotals != nil && *c.Export.IncludeTotals
}

// DisplayLocation is the zone export timestamps are rendered in.
func (c *Config) DisplayLocation() *time.Location {
	offset := 0
	if c.Export.DisplayOffsetHours != nil {
		offset = *c.Export.DisplayOffsetHours
	}
	return time.FixedZone(fmt.Sprintf("UTC%+d", offset), offset*int(time.Hour/time.Second))
}

func (c *Config) IsSupportedApp(appID int) bool {
	for _, id := range c.Steam.SupportedApps {
		if id == appID {
			return true
		}
	}
	return false
}
