package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App          AppConfig
	Store        StoreConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Billing      BillingConfig
	Inventory    InventoryConfig
	Mirror       MirrorConfig
	Notification NotificationConfig
}

type AppConfig struct {
	Port       string
	Env        string
	CORSOrigin string
}

// StoreConfig selects the record store driver
type StoreConfig struct {
	Driver        string // rest | postgres | memory
	BaseURL       string
	Timeout       time.Duration
	DatastorePort string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration // zero means tokens never expire
}

type BillingConfig struct {
	ExamFee         decimal.Decimal
	MedicineLineFee decimal.Decimal
	ProfitMargin    decimal.Decimal
}

type InventoryConfig struct {
	LowStockThreshold int
	DeductOn          string // prescribe | dispense
}

type MirrorConfig struct {
	Mode            string // full | incremental
	RefreshInterval time.Duration
}

type NotificationConfig struct {
	Duration time.Duration
}

const (
	DeductOnPrescribe = "prescribe"
	DeductOnDispense  = "dispense"

	MirrorModeFull        = "full"
	MirrorModeIncremental = "incremental"
)

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_CORS_ORIGIN", "*")

	viper.SetDefault("STORE_DRIVER", "rest")
	viper.SetDefault("STORE_BASE_URL", "http://localhost:3000")
	viper.SetDefault("STORE_TIMEOUT", "10s")
	viper.SetDefault("DATASTORE_PORT", "3000")

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "klinik_sentosa")

	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("BILLING_EXAM_FEE", "50000")
	viper.SetDefault("BILLING_MEDICINE_LINE_FEE", "15000")
	viper.SetDefault("BILLING_PROFIT_MARGIN", "0.4")

	viper.SetDefault("INVENTORY_LOW_STOCK_THRESHOLD", 10)
	viper.SetDefault("INVENTORY_DEDUCT_ON", DeductOnPrescribe)

	viper.SetDefault("MIRROR_MODE", MirrorModeIncremental)
	viper.SetDefault("MIRROR_REFRESH_INTERVAL", "1m")
	viper.SetDefault("NOTIFICATION_DURATION", "3s")
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// a missing .env is fine, everything can come from the environment
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	storeTimeout, err := time.ParseDuration(viper.GetString("STORE_TIMEOUT"))
	if err != nil {
		storeTimeout = 10 * time.Second
	}

	var accessExpiry time.Duration
	if raw := viper.GetString("JWT_ACCESS_EXPIRY"); raw != "" {
		accessExpiry, err = time.ParseDuration(raw)
		if err != nil {
			return nil, err
		}
	}

	refreshInterval, err := time.ParseDuration(viper.GetString("MIRROR_REFRESH_INTERVAL"))
	if err != nil {
		refreshInterval = 0
	}

	notificationDuration, err := time.ParseDuration(viper.GetString("NOTIFICATION_DURATION"))
	if err != nil {
		notificationDuration = 3 * time.Second
	}

	examFee, err := decimal.NewFromString(viper.GetString("BILLING_EXAM_FEE"))
	if err != nil {
		return nil, err
	}
	lineFee, err := decimal.NewFromString(viper.GetString("BILLING_MEDICINE_LINE_FEE"))
	if err != nil {
		return nil, err
	}
	margin, err := decimal.NewFromString(viper.GetString("BILLING_PROFIT_MARGIN"))
	if err != nil {
		return nil, err
	}

	config := &Config{
		App: AppConfig{
			Port:       viper.GetString("APP_PORT"),
			Env:        viper.GetString("APP_ENV"),
			CORSOrigin: viper.GetString("APP_CORS_ORIGIN"),
		},
		Store: StoreConfig{
			Driver:        viper.GetString("STORE_DRIVER"),
			BaseURL:       viper.GetString("STORE_BASE_URL"),
			Timeout:       storeTimeout,
			DatastorePort: viper.GetString("DATASTORE_PORT"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       viper.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		Billing: BillingConfig{
			ExamFee:         examFee,
			MedicineLineFee: lineFee,
			ProfitMargin:    margin,
		},
		Inventory: InventoryConfig{
			LowStockThreshold: viper.GetInt("INVENTORY_LOW_STOCK_THRESHOLD"),
			DeductOn:          viper.GetString("INVENTORY_DEDUCT_ON"),
		},
		Mirror: MirrorConfig{
			Mode:            viper.GetString("MIRROR_MODE"),
			RefreshInterval: refreshInterval,
		},
		Notification: NotificationConfig{
			Duration: notificationDuration,
		},
	}

	return config, nil
}
