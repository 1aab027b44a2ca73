package config

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DBPostgres = "POSTGRES"
	DBSQLite   = "SQLITE"

	RealtimeLocal = "local"
	RealtimeStomp = "stomp"
	RealtimeRedis = "redis"
)

type Config struct {
	ListenPath string

	DBType      string
	PostgresDSN string
	SQLitePath  string

	JWTTestMode bool
	JWTSecret   string
	JWKSURL     string

	StorageDir     string
	StorageBaseURL string

	RealtimeDriver string
	BrokerNetwork  string
	BrokerHost     string
	BrokerUser     string
	BrokerPassword string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisChannel   string
	GeminiAPIKey   string
	GeminiModels   []string
	CommodityCron  string
	IgnoreSSLCerts bool
	Fulfillment    Fulfillment
}

type Fulfillment struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	SyncMinutes  int
}

func (f Fulfillment) Enabled() bool {
	return f.BaseURL != ""
}

func defaults(v *viper.Viper) {
	v.SetDefault("LISTEN_PATH", ":8080")
	v.SetDefault("DB_TYPE", DBSQLite)
	v.SetDefault("SQLITE_PATH", "musika.db")
	v.SetDefault("JWT_TEST_MODE", false)
	v.SetDefault("STORAGE_DIR", "uploads")
	v.SetDefault("STORAGE_BASE_URL", "http://localhost:8080/storage")
	v.SetDefault("REALTIME_DRIVER", RealtimeLocal)
	v.SetDefault("MESSAGE_BROKER_NETWORK", "tcp")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_CHANNEL", "musika:changes")
	v.SetDefault("GEMINI_MODELS", "gemini-2.0-flash-exp,gemini-1.5-flash,gemini-pro")
	v.SetDefault("COMMODITY_REFRESH_CRON", "0 0 6 * * *")
	v.SetDefault("FULFILLMENT_SYNC_MINUTES", 5)
	v.SetDefault("IGNORE_SSL_CERTS", false)
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warnf("No .env file loaded: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	defaults(v)
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		ListenPath:     v.GetString("LISTEN_PATH"),
		DBType:         strings.ToUpper(v.GetString("DB_TYPE")),
		PostgresDSN:    v.GetString("POSTGRES_DSN"),
		SQLitePath:     v.GetString("SQLITE_PATH"),
		JWTTestMode:    v.GetBool("JWT_TEST_MODE"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWKSURL:        v.GetString("JWKS_URL"),
		StorageDir:     v.GetString("STORAGE_DIR"),
		StorageBaseURL: strings.TrimRight(v.GetString("STORAGE_BASE_URL"), "/"),
		RealtimeDriver: strings.ToLower(v.GetString("REALTIME_DRIVER")),
		BrokerNetwork:  v.GetString("MESSAGE_BROKER_NETWORK"),
		BrokerHost:     v.GetString("MESSAGE_BROKER_HOST"),
		BrokerUser:     v.GetString("MESSAGE_BROKER_USER"),
		BrokerPassword: v.GetString("MESSAGE_BROKER_PASSWORD"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		RedisDB:        v.GetInt("REDIS_DB"),
		RedisChannel:   v.GetString("REDIS_CHANNEL"),
		GeminiAPIKey:   v.GetString("GEMINI_API_KEY"),
		GeminiModels:   splitList(v.GetString("GEMINI_MODELS")),
		CommodityCron:  v.GetString("COMMODITY_REFRESH_CRON"),
		IgnoreSSLCerts: v.GetBool("IGNORE_SSL_CERTS"),
		Fulfillment: Fulfillment{
			BaseURL:      strings.TrimRight(v.GetString("FULFILLMENT_BASE_URL"), "/"),
			TokenURL:     v.GetString("FULFILLMENT_TOKEN_URL"),
			ClientID:     v.GetString("FULFILLMENT_CLIENT_ID"),
			ClientSecret: v.GetString("FULFILLMENT_CLIENT_SECRET"),
			SyncMinutes:  v.GetInt("FULFILLMENT_SYNC_MINUTES"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBType {
	case DBPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN must be set when DB_TYPE is %s", DBPostgres)
		}
	case DBSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH must be set when DB_TYPE is %s", DBSQLite)
		}
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", c.DBType)
	}

	if c.JWTTestMode && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set in JWT test mode")
	}
	if !c.JWTTestMode && c.JWKSURL == "" {
		return fmt.Errorf("JWKS_URL must be set unless JWT_TEST_MODE is enabled")
	}

	switch c.RealtimeDriver {
	case RealtimeLocal, RealtimeRedis:
	case RealtimeStomp:
		if c.BrokerHost == "" {
			return fmt.Errorf("MESSAGE_BROKER_HOST must be set for the stomp realtime driver")
		}
	default:
		return fmt.Errorf("unsupported REALTIME_DRIVER %q", c.RealtimeDriver)
	}

	if c.Fulfillment.Enabled() {
		if c.Fulfillment.TokenURL == "" || c.Fulfillment.ClientID == "" {
			return fmt.Errorf("FULFILLMENT_TOKEN_URL and FULFILLMENT_CLIENT_ID are required with FULFILLMENT_BASE_URL")
		}
		if c.Fulfillment.SyncMinutes <= 0 {
			return fmt.Errorf("FULFILLMENT_SYNC_MINUTES must be positive")
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
