package config

import (
	"strings"

	"github.com/tiemhang/tiemhang-api/internal/logger"

	"github.com/spf13/viper"
)

// Config is the application configuration tree.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	UserJWT   JWTConfig       `mapstructure:"user_jwt"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Queue     QueueConfig     `mapstructure:"queue"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Security  SecurityConfig  `mapstructure:"security"`
	Order     OrderConfig     `mapstructure:"order"`
	Inventory InventoryConfig `mapstructure:"inventory"`
	Shipping  ShippingConfig  `mapstructure:"shipping"`
	Payment   PaymentConfig   `mapstructure:"payment"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig holds log output settings.
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions converts to logger options.
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig holds connection pool tuning.
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig holds database settings.
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // sqlite / postgres
	DSN    string             `mapstructure:"dsn"`
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	SecretKey   string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// RedisConfig holds cache settings.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig holds async queue settings.
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig holds abuse-protection settings.
type SecurityConfig struct {
	OrderRateLimit RateLimitConfig `mapstructure:"order_rate_limit"`
}

// RateLimitConfig holds a sliding-window rate limit rule.
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// OrderConfig holds order lifecycle settings.
type OrderConfig struct {
	PaymentExpireMinutes int `mapstructure:"payment_expire_minutes"`
}

// InventoryConfig holds stock alerting settings.
type InventoryConfig struct {
	LowStockThreshold int `mapstructure:"low_stock_threshold"`
}

// ShippingConfig holds shipping gateway settings.
type ShippingConfig struct {
	GHN GHNConfig `mapstructure:"ghn"`
}

// GHNConfig configures the GHN fee-quote gateway.
type GHNConfig struct {
	BaseURL             string `mapstructure:"base_url"`
	Token               string `mapstructure:"token"`
	ShopID              string `mapstructure:"shop_id"`
	TimeoutSeconds      int    `mapstructure:"timeout_seconds"`
	DefaultFee          int64  `mapstructure:"default_fee"`
	DefaultLeadtimeDays int    `mapstructure:"default_leadtime_days"`
}

// PaymentConfig holds payment gateway settings.
type PaymentConfig struct {
	VNPay VNPayConfig `mapstructure:"vnpay"`
}

// VNPayConfig configures the VNPay redirect gateway.
type VNPayConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TmnCode        string `mapstructure:"tmn_code"`
	HashSecret     string `mapstructure:"hash_secret"`
	ReturnURL      string `mapstructure:"return_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Load reads configuration from config.yaml plus TH_* environment overrides.
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./")
	viper.AddConfigPath("../")
	viper.AddConfigPath("./etc")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("log.dir", "")
	viper.SetDefault("log.filename", "app.log")
	viper.SetDefault("log.max_size_mb", 100)
	viper.SetDefault("log.max_backups", 7)
	viper.SetDefault("log.max_age_days", 30)
	viper.SetDefault("log.compress", true)
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "./db/tiemhang.db")
	viper.SetDefault("database.pool.max_open_conns", 1)
	viper.SetDefault("database.pool.max_idle_conns", 1)
	viper.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	viper.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	viper.SetDefault("jwt.secret", "change-me-in-production")
	viper.SetDefault("jwt.expire_hours", 24)
	viper.SetDefault("user_jwt.secret", "user-change-me-in-production")
	viper.SetDefault("user_jwt.expire_hours", 24)
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.host", "127.0.0.1")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.prefix", "th")
	viper.SetDefault("queue.enabled", true)
	viper.SetDefault("queue.host", "127.0.0.1")
	viper.SetDefault("queue.port", 6379)
	viper.SetDefault("queue.password", "")
	viper.SetDefault("queue.db", 1)
	viper.SetDefault("queue.concurrency", 10)
	viper.SetDefault("queue.queues", map[string]int{"default": 1})
	viper.SetDefault("cors.allowed_origins", []string{"*"})
	viper.SetDefault("cors.allow_credentials", false)
	viper.SetDefault("cors.max_age", 3600)
	viper.SetDefault("security.order_rate_limit.window_seconds", 60)
	viper.SetDefault("security.order_rate_limit.max_requests", 10)
	viper.SetDefault("order.payment_expire_minutes", 15)
	viper.SetDefault("inventory.low_stock_threshold", 5)
	viper.SetDefault("shipping.ghn.base_url", "https://online-gateway.ghn.vn")
	viper.SetDefault("shipping.ghn.token", "")
	viper.SetDefault("shipping.ghn.shop_id", "")
	viper.SetDefault("shipping.ghn.timeout_seconds", 3)
	viper.SetDefault("shipping.ghn.default_fee", 30000)
	viper.SetDefault("shipping.ghn.default_leadtime_days", 4)
	viper.SetDefault("payment.vnpay.base_url", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html")
	viper.SetDefault("payment.vnpay.tmn_code", "")
	viper.SetDefault("payment.vnpay.hash_secret", "")
	viper.SetDefault("payment.vnpay.return_url", "")
	viper.SetDefault("payment.vnpay.timeout_seconds", 3)

	viper.SetEnvPrefix("TH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_not_loaded", "error", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
	}
	return &cfg
}
