package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "ADBOARD"

// LoadConfig 从 configs/config.yaml、.env 与 ADBOARD_* 环境变量加载配置
// path 为空时在 ./configs 下查找
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 启动前校验
func (c *Config) Validate() error {
	if c.CDN.Domain == "" {
		return errors.New("cdn.domain is required")
	}
	if c.Blob.Bucket == "" {
		return errors.New("blob.bucket is required")
	}
	switch c.Blob.Driver {
	case "minio", "s3":
	default:
		return fmt.Errorf("unsupported blob.driver %q", c.Blob.Driver)
	}
	if c.Ads.RetentionDays <= 0 {
		return errors.New("ads.retention_days must be positive")
	}
	if c.Ads.MaxPageSize <= 0 || c.Ads.DefaultPageSize <= 0 || c.Ads.DefaultPageSize > c.Ads.MaxPageSize {
		return errors.New("ads page sizes must satisfy 0 < default_page_size <= max_page_size")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.mode", "release")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("store.key_prefix", "adboard")
	v.SetDefault("store.native_expiry_grace", "168h")

	v.SetDefault("blob.driver", "minio")
	v.SetDefault("blob.bucket", "business-ad-images-1")
	v.SetDefault("blob.endpoint", "localhost:9000")
	v.SetDefault("blob.region", "us-east-1")
	v.SetDefault("blob.use_ssl", false)
	v.SetDefault("blob.lifecycle_days", 0)

	v.SetDefault("cdn.domain", "d11c102y3uxwr7.cloudfront.net")
	v.SetDefault("cdn.legacy_prefixes", []string{
		"business-ad-images-1.s3.amazonaws.com",
		"s3.amazonaws.com/business-ad-images-1",
	})

	v.SetDefault("ads.retention_days", 30)
	v.SetDefault("ads.score_schema", "full")
	v.SetDefault("ads.default_page_size", 50)
	v.SetDefault("ads.max_page_size", 100)
	v.SetDefault("ads.count_anonymous_views", true)

	v.SetDefault("upload.key_prefix", "ads")
	v.SetDefault("upload.url_ttl", "1h")
	v.SetDefault("upload.max_bytes", 10*1024*1024)

	v.SetDefault("sweep.enabled", true)
	v.SetDefault("sweep.schedule", "0 0 2 * * *")
	v.SetDefault("sweep.scan_page", 100)
	v.SetDefault("sweep.concurrency", 4)
	v.SetDefault("sweep.timeout", "30m")
	v.SetDefault("sweep.lock_ttl", "35m")

	v.SetDefault("log.level", "info")
}
