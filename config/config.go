package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Audit    AuditConfig    `mapstructure:"audit"`
	Security SecurityConfig `mapstructure:"security"`
	AI       AIConfig       `mapstructure:"ai"`
	Video    VideoConfig    `mapstructure:"video"`
	Seed     SeedConfig     `mapstructure:"seed"`
	Upload   UploadConfig   `mapstructure:"upload"`
}

type ServerConfig struct {
	Port  int  `mapstructure:"port"`
	Debug bool `mapstructure:"debug"`
}

type StoreConfig struct {
	Mode string `mapstructure:"mode"` // jsonfile | memory
	Path string `mapstructure:"path"`
}

type CacheConfig struct {
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	LocalGCInterval time.Duration `mapstructure:"local_gc_interval"`
	LocalPubSubBuf  int           `mapstructure:"local_pubsub_buf"`
}

type AuditConfig struct {
	Mode       string        `mapstructure:"mode"` // sqlite | mysql | off
	SQLitePath string        `mapstructure:"sqlite_path"`
	MySQLDSN   string        `mapstructure:"mysql_dsn"`
	MaxOpen    int           `mapstructure:"max_open"`
	MaxIdle    int           `mapstructure:"max_idle"`
	MaxLife    time.Duration `mapstructure:"max_life"`
}

type SecurityConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	JWTTTL         time.Duration `mapstructure:"jwt_ttl"`
	SMSCodeTTL     time.Duration `mapstructure:"sms_code_ttl"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

type AIConfig struct {
	APIKey    string        `mapstructure:"api_key"` // empty disables the external generator
	BaseURL   string        `mapstructure:"base_url"`
	Model     string        `mapstructure:"model"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Retention time.Duration `mapstructure:"retention"` // 0 keeps terminal tasks forever
}

type VideoConfig struct {
	StepDelay time.Duration `mapstructure:"step_delay"`
}

type SeedConfig struct {
	Demo          bool   `mapstructure:"demo"`
	AdminPhone    string `mapstructure:"admin_phone"`
	AdminPassword string `mapstructure:"admin_password"`
	SuperPhone    string `mapstructure:"super_phone"`
	SuperPassword string `mapstructure:"super_password"`
	SuperSMSCode  string `mapstructure:"super_sms_code"`
}

type UploadConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load reads config from the given YAML file path.
// A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.debug", false)
	v.SetDefault("store.mode", "jsonfile")
	v.SetDefault("store.path", "./data/db.json")
	v.SetDefault("cache.local_gc_interval", "30s")
	v.SetDefault("cache.local_pubsub_buf", 256)
	v.SetDefault("audit.mode", "sqlite")
	v.SetDefault("audit.sqlite_path", "./data/audit.db")
	v.SetDefault("audit.max_open", 50)
	v.SetDefault("audit.max_idle", 10)
	v.SetDefault("audit.max_life", "1h")
	v.SetDefault("security.jwt_secret", "dev_secret_change_me")
	v.SetDefault("security.jwt_ttl", "168h")
	v.SetDefault("security.sms_code_ttl", "10m")
	v.SetDefault("security.rate_limit_rps", 100)
	v.SetDefault("security.rate_limit_burst", 200)
	v.SetDefault("ai.base_url", "https://api.deepseek.com")
	v.SetDefault("ai.model", "deepseek-chat")
	v.SetDefault("ai.timeout", "30s")
	v.SetDefault("ai.retention", "24h")
	v.SetDefault("video.step_delay", "350ms")
	v.SetDefault("seed.demo", true)
	v.SetDefault("seed.admin_phone", "19900000000")
	v.SetDefault("seed.admin_password", "Admin@123")
	v.SetDefault("seed.super_phone", "18800000000")
	v.SetDefault("seed.super_password", "Admin@123")
	v.SetDefault("seed.super_sms_code", "000000")
	v.SetDefault("upload.dir", "./data/uploads")

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		var pathErr *fs.PathError
		if !errors.As(err, &nf) && !errors.As(err, &pathErr) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
