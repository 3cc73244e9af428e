package config

import "time"

// Config 配置主体
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Store  StoreConfig  `mapstructure:"store"`
	Blob   BlobConfig   `mapstructure:"blob"`
	CDN    CDNConfig    `mapstructure:"cdn"`
	Ads    AdsConfig    `mapstructure:"ads"`
	Upload UploadConfig `mapstructure:"upload"`
	Sweep  SweepConfig  `mapstructure:"sweep"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Mode         string        `mapstructure:"mode"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// StoreConfig 广告记录存储
type StoreConfig struct {
	KeyPrefix         string        `mapstructure:"key_prefix"`
	NativeExpiryGrace time.Duration `mapstructure:"native_expiry_grace"`
}

// BlobConfig 对象存储配置，driver 为 minio 或 s3
type BlobConfig struct {
	Driver        string `mapstructure:"driver"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	Region        string `mapstructure:"region"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	LifecycleDays int    `mapstructure:"lifecycle_days"`
}

// CDNConfig 分发域名
type CDNConfig struct {
	Domain         string   `mapstructure:"domain"`
	LegacyPrefixes []string `mapstructure:"legacy_prefixes"`
}

type AdsConfig struct {
	RetentionDays       int    `mapstructure:"retention_days"`
	ScoreSchema         string `mapstructure:"score_schema"`
	DefaultPageSize     int    `mapstructure:"default_page_size"`
	MaxPageSize         int    `mapstructure:"max_page_size"`
	CountAnonymousViews bool   `mapstructure:"count_anonymous_views"`
}

type UploadConfig struct {
	KeyPrefix string        `mapstructure:"key_prefix"`
	URLTTL    time.Duration `mapstructure:"url_ttl"`
	MaxBytes  int64         `mapstructure:"max_bytes"`
}

// SweepConfig 过期清理，LockTTL 为跨进程锁的持有时长
type SweepConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Schedule    string        `mapstructure:"schedule"`
	ScanPage    int           `mapstructure:"scan_page"`
	Concurrency int           `mapstructure:"concurrency"`
	Timeout     time.Duration `mapstructure:"timeout"`
	LockTTL     time.Duration `mapstructure:"lock_ttl"`
}

type LogConfig struct {
	Level     string `mapstructure:"level"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// Retention 保留时长
func (c AdsConfig) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}
