// Package config loads service settings from defaults, an optional config
// file, a .env file and the environment, in increasing precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Store    StoreConfig    `mapstructure:"store"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Rate     RateConfig     `mapstructure:"rate"`
	Ban      BanConfig      `mapstructure:"ban"`
	Resolver ResolverConfig `mapstructure:"resolver"`
	Layout   LayoutConfig   `mapstructure:"layout"`
	Client   ClientConfig   `mapstructure:"client"`
	Log      LogConfig      `mapstructure:"log"`
}

type HTTPConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// TrustProxyHeaders takes the client IP from X-Forwarded-For/X-Real-IP.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxyHeaders bool `mapstructure:"trust_proxy_headers"`
}

func (h HTTPConfig) Addr() string {
	return fmt.Sprintf(":%d", h.Port)
}

type StoreConfig struct {
	// Driver is one of mongo, postgres or memory.
	Driver     string `mapstructure:"driver"`
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
	// SeedFile is a JSON array of records loaded by the memory driver.
	SeedFile string `mapstructure:"seed_file"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

type RateConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type BanConfig struct {
	MaxStrikes int           `mapstructure:"max_strikes"`
	Window     time.Duration `mapstructure:"window"`
	Duration   time.Duration `mapstructure:"duration"`
}

type ResolverConfig struct {
	Placeholder string `mapstructure:"placeholder"`
}

type LayoutConfig struct {
	Path string `mapstructure:"path"`
}

type ClientConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// EnvPrefix prefixes every environment override, e.g. SHELF_STORE_DRIVER.
const EnvPrefix = "SHELF"

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", 3301)
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.trust_proxy_headers", false)

	v.SetDefault("store.driver", DriverMongo)
	v.SetDefault("store.uri", "mongodb://localhost:27017")
	v.SetDefault("store.database", "shelf")
	v.SetDefault("store.collection", "productlists")
	v.SetDefault("store.seed_file", "")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.jwt_secret", "")

	v.SetDefault("rate.rps", 5.0)
	v.SetDefault("rate.burst", 10)

	v.SetDefault("ban.max_strikes", 20)
	v.SetDefault("ban.window", time.Minute)
	v.SetDefault("ban.duration", 15*time.Minute)

	v.SetDefault("resolver.placeholder", "unspecified")
	v.SetDefault("layout.path", "")

	v.SetDefault("client.base_url", "http://localhost:3301")
	v.SetDefault("client.timeout", 5*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// legacyEnv maps keys to the bare variable names older deployments use.
var legacyEnv = map[string]string{
	"http.port":       "PORT",
	"store.uri":       "DATABASE_URL",
	"store.database":  "DB_NAME",
	"auth.jwt_secret": "JWT_SECRET",
	"redis.addr":      "REDIS_ADDR",
}

// Load reads configuration. path may be empty, in which case only defaults
// and the environment are used. A missing .env file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Driver != DriverMemory && c.Store.URI == "" {
		return fmt.Errorf("store.uri is required for the %s driver", c.Store.Driver)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http.port %d", c.HTTP.Port)
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required when auth is enabled")
	}
	if c.Rate.RPS <= 0 || c.Rate.Burst <= 0 {
		return fmt.Errorf("rate.rps and rate.burst must be positive")
	}
	return nil
}
