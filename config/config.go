package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Payment  PaymentConfig
	Order    OrderConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// PaymentConfig 外部付款閘道設定
type PaymentConfig struct {
	BaseURL   string
	ServerKey string
	Timeout   time.Duration
}

// OrderConfig 訂單逾期政策
type OrderConfig struct {
	PendingTTL    time.Duration // pending 超過此時間由掃描器取消
	SweepInterval time.Duration
}

var AppConfig *Config

func LoadConfig() *Config {
	AppConfig = &Config{
		Server:   GetServerConfig(),
		Database: GetDatabaseConfig(),
		Redis:    GetRedisConfig(),
		Payment:  GetPaymentConfig(),
		Order:    GetOrderConfig(),
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5433", // 測試 DB 用 5433 port
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	testRedisConfig := RedisConfig{
		Host:     "localhost",
		Port:     "6380", // 測試 Redis 用 6380 port
		Password: "",
		DB:       1,
	}

	return &Config{
		Server:   ServerConfig{Port: "8080"},
		Database: *testConfig,
		Redis:    testRedisConfig,
		Payment: PaymentConfig{
			BaseURL:   "http://localhost:9090",
			ServerKey: "test-server-key",
			Timeout:   5 * time.Second,
		},
		Order: OrderConfig{
			PendingTTL:    15 * time.Minute,
			SweepInterval: time.Minute,
		},
	}
}

func GetServerConfig() ServerConfig {
	return ServerConfig{
		Port: getEnv("SERVER_PORT", "8080"),
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() RedisConfig {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		panic(err)
	}

	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func GetPaymentConfig() PaymentConfig {
	return PaymentConfig{
		BaseURL:   getEnv("PAYMENT_BASE_URL", "http://localhost:9090"),
		ServerKey: getEnv("PAYMENT_SERVER_KEY", ""),
		Timeout:   getEnvDuration("PAYMENT_TIMEOUT_SECONDS", 10*time.Second),
	}
}

func GetOrderConfig() OrderConfig {
	return OrderConfig{
		PendingTTL:    getEnvDuration("ORDER_PENDING_TTL_SECONDS", 15*time.Minute),
		SweepInterval: getEnvDuration("ORDER_SWEEP_INTERVAL_SECONDS", time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		panic(err)
	}
	return time.Duration(seconds) * time.Second
}
