package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// Config holds all configuration
type Config struct {
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	HTTPAddr  string
	Seed      bool
	WSEnabled bool
}

// DBConfig holds database configuration. Driver is "mysql" or "sqlite";
// for sqlite the DSN is a file path (or ":memory:").
type DBConfig struct {
	Driver string
	DSN    string
}

// RedisConfig holds Redis configuration. An empty Addr disables the login
// rate limiter and the logout token denylist.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	ExpireMinutes int
	Issuer        string
}

// RateLimitConfig holds login rate limiter configuration
type RateLimitConfig struct {
	MaxAttempts   int
	WindowMinutes int
}

// Window returns the rate limit window as a duration
func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowMinutes) * time.Minute
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DB: DBConfig{
			Driver: getEnv("DB_DRIVER", "mysql"),
			DSN:    getEnv("DB_DSN", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASS", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:        os.Getenv("JWT_SECRET"),
			ExpireMinutes: getEnvInt("JWT_EXPIRE_MINUTES", 1440),
			Issuer:        getEnv("JWT_ISSUER", "go_attendance"),
		},
		RateLimit: RateLimitConfig{
			MaxAttempts:   getEnvInt("LOGIN_MAX_ATTEMPTS", 5),
			WindowMinutes: getEnvInt("LOGIN_WINDOW_MINUTES", 15),
		},
		HTTPAddr:  getEnv("HTTP_ADDR", ":8080"),
		Seed:      getEnv("SEED", "1") == "1",
		WSEnabled: getEnv("WS_ENABLED", "1") == "1",
	}

	return cfg, cfg.validate()
}

// LoadFromINI loads configuration from an INI file with environment variable override
func LoadFromINI(iniPath string) (*Config, error) {
	cfgFile, err := ini.Load(iniPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load INI file: %w", err)
	}

	// Priority: ENV > INI > default
	getValue := func(envKey, iniSection, iniKey, defaultValue string) string {
		if value := os.Getenv(envKey); value != "" {
			return value
		}
		if value := cfgFile.Section(iniSection).Key(iniKey).String(); value != "" {
			return value
		}
		return defaultValue
	}

	getValueInt := func(envKey, iniSection, iniKey string, defaultValue int) int {
		if value := os.Getenv(envKey); value != "" {
			if intValue, err := strconv.Atoi(value); err == nil {
				return intValue
			}
		}
		if cfgFile.Section(iniSection).HasKey(iniKey) {
			if value, err := cfgFile.Section(iniSection).Key(iniKey).Int(); err == nil {
				return value
			}
		}
		return defaultValue
	}

	getValueBool := func(envKey, iniSection, iniKey string, defaultValue bool) bool {
		if value := os.Getenv(envKey); value != "" {
			return value == "1" || value == "true"
		}
		if value, err := cfgFile.Section(iniSection).Key(iniKey).Bool(); err == nil {
			return value
		}
		return defaultValue
	}

	cfg := &Config{
		DB: DBConfig{
			Driver: getValue("DB_DRIVER", "db", "driver", "mysql"),
			DSN:    getValue("DB_DSN", "db", "dsn", ""),
		},
		Redis: RedisConfig{
			Addr:     getValue("REDIS_ADDR", "redis", "addr", ""),
			Password: getValue("REDIS_PASS", "redis", "pass", ""),
			DB:       getValueInt("REDIS_DB", "redis", "db", 0),
		},
		JWT: JWTConfig{
			Secret:        getValue("JWT_SECRET", "jwt", "secret", ""),
			ExpireMinutes: getValueInt("JWT_EXPIRE_MINUTES", "jwt", "expire_minutes", 1440),
			Issuer:        getValue("JWT_ISSUER", "jwt", "issuer", "go_attendance"),
		},
		RateLimit: RateLimitConfig{
			MaxAttempts:   getValueInt("LOGIN_MAX_ATTEMPTS", "ratelimit", "max_attempts", 5),
			WindowMinutes: getValueInt("LOGIN_WINDOW_MINUTES", "ratelimit", "window_minutes", 15),
		},
		HTTPAddr:  getValue("HTTP_ADDR", "http", "addr", ":8080"),
		Seed:      getValueBool("SEED", "app", "seed", true),
		WSEnabled: getValueBool("WS_ENABLED", "ws", "enabled", true),
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.DB.Driver != "mysql" && c.DB.Driver != "sqlite" {
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
