package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	str2duration "github.com/xhit/go-str2duration/v2"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Journal   JournalConfig   `yaml:"journal"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	News      NewsConfig      `yaml:"news"`
	Sessions  SessionsConfig  `yaml:"sessions"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"`
}

// DatabaseConfig selects one of the supported gorm drivers
type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // postgres, mysql or sqlite
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
	Path     string `yaml:"path"` // sqlite only
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret              string `yaml:"secret"`
	RefreshSecret       string `yaml:"refresh_secret"`
	AccessExpireMinutes int    `yaml:"access_expire_minutes"`
	RefreshExpireHours  int    `yaml:"refresh_expire_hours"`
	Issuer              string `yaml:"issuer"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Dir        string `yaml:"dir"`
	Console    bool   `yaml:"console"`
	MaxSize    int    `yaml:"max_size"` // megabytes
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"` // days
}

// JournalConfig holds the calendar conventions trades are grouped by
type JournalConfig struct {
	Timezone string `yaml:"timezone"`
}

type AnalyticsConfig struct {
	CacheTTL string `yaml:"cache_ttl"`
}

type NewsConfig struct {
	FinnhubAPIKey   string `yaml:"finnhub_api_key"`
	RefreshInterval string `yaml:"refresh_interval"`
}

type SessionsConfig struct {
	PushInterval string `yaml:"push_interval"`
}

// Load loads configuration from an optional .env file, the YAML file and
// environment variables, in that order of increasing precedence
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.loadFromEnv()
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) loadFromEnv() {
	// Server
	if v := os.Getenv("SERVER_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("SERVER_MODE"); v != "" {
		c.Server.Mode = v
	}

	// Database
	if v := os.Getenv("DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Database.Port = port
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database.DBName = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.Database.Path = v
	}

	// Redis
	if v := os.Getenv("REDIS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Redis.Enabled = enabled
		}
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Redis.Port = port
		}
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}

	// JWT
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWT.Secret = v
	}
	if v := os.Getenv("JWT_REFRESH_SECRET"); v != "" {
		c.JWT.RefreshSecret = v
	}
	if v := os.Getenv("JWT_ACCESS_EXPIRE_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil {
			c.JWT.AccessExpireMinutes = minutes
		}
	}
	if v := os.Getenv("JWT_REFRESH_EXPIRE_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil {
			c.JWT.RefreshExpireHours = hours
		}
	}

	// Logging
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_DIR"); v != "" {
		c.Log.Dir = v
	}

	// Journal, news
	if v := os.Getenv("JOURNAL_TIMEZONE"); v != "" {
		c.Journal.Timezone = v
	}
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		c.News.FinnhubAPIKey = v
	}
	if v := os.Getenv("NEWS_REFRESH_INTERVAL"); v != "" {
		c.News.RefreshInterval = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "debug"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.JWT.RefreshSecret == "" {
		c.JWT.RefreshSecret = c.JWT.Secret
	}
	if c.JWT.AccessExpireMinutes == 0 {
		c.JWT.AccessExpireMinutes = 15
	}
	if c.JWT.RefreshExpireHours == 0 {
		c.JWT.RefreshExpireHours = 7 * 24
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "trade-journal"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Journal.Timezone == "" {
		c.Journal.Timezone = "Asia/Ho_Chi_Minh"
	}
	if c.Analytics.CacheTTL == "" {
		c.Analytics.CacheTTL = "5m"
	}
	if c.News.RefreshInterval == "" {
		c.News.RefreshInterval = "1h"
	}
	if c.Sessions.PushInterval == "" {
		c.Sessions.PushInterval = "30s"
	}
}

// DSN returns the connection string for the configured driver
func (c *DatabaseConfig) DSN() string {
	switch c.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.User, c.Password, c.Host, c.Port, c.DBName)
	case "sqlite":
		if c.Path == "" {
			return "trade-journal.db"
		}
		return c.Path
	}
	return "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode +
		" TimeZone=UTC"
}

// Location resolves the journal timezone, falling back to a fixed UTC+7 zone
// when the tz database is unavailable
func (c *JournalConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.FixedZone("UTC+7", 7*3600)
	}
	return loc
}

// Duration parses a duration string such as "90s", "5m", "1h" or "1d".
// Unparseable or non-positive values yield def.
func Duration(s string, def time.Duration) time.Duration {
	d, err := str2duration.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// AccessTTL returns the access token lifetime
func (c *JWTConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessExpireMinutes) * time.Minute
}

// RefreshTTL returns the refresh token lifetime
func (c *JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshExpireHours) * time.Hour
}
