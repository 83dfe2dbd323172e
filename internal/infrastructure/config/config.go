package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	CustomerTTLSecs int
}

type BureauConfig struct {
	BaseURL string
	APIKey  string
}

type CRMConfig struct {
	BaseURL string
	APIKey  string
}

type Config struct {
	GRPCPort    int
	HTTPPort    int
	DB          DatabaseConfig
	Kafka       KafkaConfig
	Redis       RedisConfig
	Bureau      BureauConfig
	CRM         CRMConfig
	ReviewDir   string
	LenderName  string
	DemoMode    bool
	ServiceName string
}

func (c Config) Validate() {
	if !c.DemoMode && c.DB.Password == "" {
		panic("DB_PASSWORD environment variable is required")
	}
}

func Load() Config {
	return Config{
		GRPCPort: getEnvInt("GRPC_PORT", 9094),
		HTTPPort: getEnvInt("HTTP_PORT", 8094),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "quickcash"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "quickcash_origination"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:   getEnv("KAFKA_TOPIC", "origination.events"),
		},
		Redis: RedisConfig{
			Addr:            getEnv("REDIS_ADDR", "localhost:6379"),
			Password:        getEnv("REDIS_PASSWORD", ""),
			DB:              getEnvInt("REDIS_DB", 0),
			CustomerTTLSecs: getEnvInt("REDIS_CUSTOMER_TTL_SECS", 300),
		},
		Bureau: BureauConfig{
			BaseURL: getEnv("BUREAU_BASE_URL", ""),
			APIKey:  getEnv("BUREAU_API_KEY", ""),
		},
		CRM: CRMConfig{
			BaseURL: getEnv("CRM_BASE_URL", ""),
			APIKey:  getEnv("CRM_API_KEY", ""),
		},
		ReviewDir:  getEnv("REVIEW_DIR", "review-queue"),
		LenderName: getEnv("LENDER_NAME", ""),
		// Demo mode runs on in-memory stores with seeded customers and
		// needs no Postgres, Kafka, or Redis.
		DemoMode:    getEnvBool("DEMO_MODE", false),
		ServiceName: "loan-origination",
	}
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
