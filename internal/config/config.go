package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL string

	JWTSecret     []byte
	TokenLifetime time.Duration

	AllowedOrigins []string

	GatewayBaseURL string
	GatewayKeyID   string
	GatewaySecret  string
	Currency       string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	KafkaBrokers []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env not found, using system environment: %v", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "shopedge"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:     []byte(os.Getenv("JWT_SECRET")),
		TokenLifetime: EnvDurationDefault("TOKEN_LIFETIME", time.Hour),

		AllowedOrigins: CSV(EnvDefault("ALLOWED_ORIGINS", "http://localhost:3000")),

		GatewayBaseURL: os.Getenv("PAYMENT_GATEWAY_URL"),
		GatewayKeyID:   os.Getenv("PAYMENT_KEY_ID"),
		GatewaySecret:  os.Getenv("PAYMENT_KEY_SECRET"),
		Currency:       EnvDefault("PAYMENT_CURRENCY", "INR"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       EnvIntDefault("REDIS_DB", 0),
	}
}

// MustLoad loads the config and fails fast on anything the server cannot run
// without. Optional backends (kafka, redis, elasticsearch) stay optional.
func MustLoad() Config {
	cfg := Load()

	MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	MustNonEmpty(cfg.GatewayBaseURL, "PAYMENT_GATEWAY_URL")
	MustNonEmpty(cfg.GatewayKeyID, "PAYMENT_KEY_ID")
	MustNonEmpty(cfg.GatewaySecret, "PAYMENT_KEY_SECRET")

	return cfg
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
