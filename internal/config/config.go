package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/dujiao-next/order-desk/internal/constants"
	"github.com/dujiao-next/order-desk/internal/logger"
	"github.com/dujiao-next/order-desk/internal/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Security SecurityConfig `mapstructure:"security"`
	Composer ComposerConfig `mapstructure:"composer"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// Addr 监听地址
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	Level      string `mapstructure:"level"`
	Stdout     bool   `mapstructure:"stdout"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		Level:      c.Level,
		Stdout:     c.Stdout,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // 数据库驱动（sqlite/postgres）
	DSN    string             `mapstructure:"dsn"`    // 数据库连接串
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// ToDBOptions 转换为连接参数；debug 模式打印全部 SQL
func (c DatabaseConfig) ToDBOptions(debug bool) models.DBOptions {
	return models.DBOptions{
		Driver: c.Driver,
		DSN:    c.DSN,
		Pool: models.DBPoolConfig{
			MaxOpenConns:           c.Pool.MaxOpenConns,
			MaxIdleConns:           c.Pool.MaxIdleConns,
			ConnMaxLifetimeSeconds: c.Pool.ConnMaxLifetimeSeconds,
			ConnMaxIdleTimeSeconds: c.Pool.ConnMaxIdleTimeSeconds,
		},
		Debug: debug,
	}
}

// JWTConfig JWT 配置
type JWTConfig struct {
	SecretKey   string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
	MaxRetry    int            `mapstructure:"max_retry"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	LoginRateLimit  RateLimitConfig `mapstructure:"login_rate_limit"`
	SubmitRateLimit RateLimitConfig `mapstructure:"submit_rate_limit"` // 按管理员限制提交频率，防止重复点击
	LoginCaptcha    CaptchaConfig   `mapstructure:"login_captcha"`
}

// CaptchaConfig 登录图片验证码
type CaptchaConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	Length        int  `mapstructure:"length"`
	Width         int  `mapstructure:"width"`
	Height        int  `mapstructure:"height"`
	NoiseCount    int  `mapstructure:"noise_count"`
	ExpireSeconds int  `mapstructure:"expire_seconds"`
	MaxStore      int  `mapstructure:"max_store"` // 仅内存存储生效
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxAttempts   int `mapstructure:"max_attempts"`
	BlockSeconds  int `mapstructure:"block_seconds"`
}

// ComposerConfig 录单草稿配置
type ComposerConfig struct {
	Storage                string `mapstructure:"storage"`     // 草稿存储（database/redis/memory）
	SlotPrefix             string `mapstructure:"slot_prefix"` // 草稿槽位前缀
	SaveTimeoutMS          int    `mapstructure:"save_timeout_ms"`
	DefaultShippingFee     string `mapstructure:"default_shipping_fee"`
	CatalogCacheTTLSeconds int    `mapstructure:"catalog_cache_ttl_seconds"`
	Currency               string `mapstructure:"currency"`
	FlushIntervalSeconds   int    `mapstructure:"flush_interval_seconds"` // 周期落盘间隔，0 表示仅在退出时落盘
}

// StorageDriver 规范化后的存储驱动，未知值回落到 database
func (c ComposerConfig) StorageDriver() string {
	switch strings.ToLower(strings.TrimSpace(c.Storage)) {
	case constants.DraftStorageRedis:
		return constants.DraftStorageRedis
	case constants.DraftStorageMemory:
		return constants.DraftStorageMemory
	default:
		return constants.DraftStorageDatabase
	}
}

// SlotKey 管理员工作区槽位键
func (c ComposerConfig) SlotKey(adminID uint) string {
	prefix := strings.TrimSpace(c.SlotPrefix)
	if prefix == "" {
		prefix = constants.DraftSlotPrefixDefault
	}
	return fmt.Sprintf("%s:admin:%d", prefix, adminID)
}

// SaveTimeout 单次持久化超时
func (c ComposerConfig) SaveTimeout() time.Duration {
	if c.SaveTimeoutMS <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.SaveTimeoutMS) * time.Millisecond
}

// CatalogCacheTTL 商品目录缓存时长，0 表示不缓存
func (c ComposerConfig) CatalogCacheTTL() time.Duration {
	if c.CatalogCacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.CatalogCacheTTLSeconds) * time.Second
}

// ShippingFee 新草稿默认运费，非法或为负时返回 0
func (c ComposerConfig) ShippingFee() decimal.Decimal {
	raw := strings.TrimSpace(c.DefaultShippingFee)
	if raw == "" {
		return decimal.Zero
	}
	fee, err := decimal.NewFromString(raw)
	if err != nil || fee.IsNegative() {
		return decimal.Zero
	}
	return fee.Round(2)
}

// FlushInterval 周期落盘间隔
func (c ComposerConfig) FlushInterval() time.Duration {
	if c.FlushIntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(c.FlushIntervalSeconds) * time.Second
}

// CurrencyCode 币种
func (c ComposerConfig) CurrencyCode() string {
	currency := strings.ToUpper(strings.TrimSpace(c.Currency))
	if currency == "" {
		return constants.CurrencyDefault
	}
	return currency
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "order-desk.log")
	v.SetDefault("log.level", "")
	v.SetDefault("log.stdout", false)
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/order-desk.db")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", constants.RedisPrefixDefault)
	v.SetDefault("queue.enabled", true)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 10)
	v.SetDefault("queue.max_retry", 5)
	v.SetDefault("queue.queues", map[string]int{
		"default":  10,
		"critical": 5,
	})
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Authorization",
		"Accept-Language",
		"X-Locale",
		"X-Request-ID",
	})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("security.login_rate_limit.window_seconds", 300)
	v.SetDefault("security.login_rate_limit.max_attempts", 5)
	v.SetDefault("security.login_rate_limit.block_seconds", 900)
	v.SetDefault("security.submit_rate_limit.window_seconds", 10)
	v.SetDefault("security.submit_rate_limit.max_attempts", 5)
	v.SetDefault("security.submit_rate_limit.block_seconds", 0)
	v.SetDefault("security.login_captcha.enabled", false)
	v.SetDefault("security.login_captcha.length", 5)
	v.SetDefault("security.login_captcha.width", 240)
	v.SetDefault("security.login_captcha.height", 80)
	v.SetDefault("security.login_captcha.noise_count", 2)
	v.SetDefault("security.login_captcha.expire_seconds", 300)
	v.SetDefault("security.login_captcha.max_store", 10240)
	v.SetDefault("composer.storage", constants.DraftStorageDatabase)
	v.SetDefault("composer.slot_prefix", constants.DraftSlotPrefixDefault)
	v.SetDefault("composer.save_timeout_ms", 3000)
	v.SetDefault("composer.default_shipping_fee", "0")
	v.SetDefault("composer.catalog_cache_ttl_seconds", 300)
	v.SetDefault("composer.currency", constants.CurrencyDefault)
	v.SetDefault("composer.flush_interval_seconds", 30)
}

// Load 从 config.yml 加载配置
func Load() *Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")     // 从当前目录查找
	v.AddConfigPath("./")    // 备用路径
	v.AddConfigPath("../")   // 如果从 cmd/server 运行
	v.AddConfigPath("./etc") // etc 文件夹

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
	}

	cfg, err := Decode(v)
	if err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}
	return cfg
}

// Decode 填充默认值与环境变量后解析配置
func Decode(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	// 环境变量支持（例如 composer.storage -> COMPOSER_STORAGE）
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
