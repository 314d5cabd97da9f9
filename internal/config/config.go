package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/josiaO/SmartDalaliTZ/internal/logger"
)

const AppName = "smartdalali-listing-service"

type DBConfig struct {
	URL string
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Addr     string
	Password string
	TTL      time.Duration
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
}

type AuthConfig struct {
	JWTSecret            string
	TokenTTL             time.Duration
	LoginRatePerMinute   int
	PaymentRatePerMinute int
}

// Config holds all settings read from the environment at startup.
type Config struct {
	Port               string
	Database           DBConfig
	Mongo              MongoConfig
	Redis              RedisConfig
	RabbitMQ           RabbitMQConfig
	Auth               AuthConfig
	UserServiceURL     string
	CORSOrigins        []string
	PaymentSettleDelay time.Duration
	SeedFixtures       bool
}

// Load reads .env (if present) and the process environment.
func Load(envPath ...string) (*Config, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		logger.Log.Infof("No .env file loaded (%v), using process environment", err)
	}

	cfg := &Config{
		Port: getEnvAsString("PORT", "8083"),
		Database: DBConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Mongo: MongoConfig{
			URI:      os.Getenv("MONGO_URI"),
			Database: getEnvAsString("MONGO_DB", "smartdalali"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			TTL:      time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 60)) * time.Second,
		},
		RabbitMQ: RabbitMQConfig{
			URL:      os.Getenv("RABBITMQ_URL"),
			Exchange: getEnvAsString("RABBITMQ_EXCHANGE", "smartdalali"),
		},
		Auth: AuthConfig{
			JWTSecret:            os.Getenv("JWT_SECRET"),
			TokenTTL:             time.Duration(getEnvAsInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
			LoginRatePerMinute:   getEnvAsInt("LOGIN_RATE_PER_MINUTE", 10),
			PaymentRatePerMinute: getEnvAsInt("PAYMENT_RATE_PER_MINUTE", 5),
		},
		UserServiceURL:     strings.TrimRight(os.Getenv("USER_SERVICE_URL"), "/"),
		CORSOrigins:        splitList(getEnvAsString("CORS_ORIGINS", "http://localhost:5173")),
		PaymentSettleDelay: time.Duration(getEnvAsInt("PAYMENT_SETTLE_DELAY_MS", 3000)) * time.Millisecond,
		SeedFixtures:       getEnvAsBool("SEED_FIXTURES", false),
	}

	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt logs and falls back to defaultValue when the variable is not an integer.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		logger.Log.Warnf("Environment variable %s (value: %s) is not an int: %v. Using default %d", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists || valStr == "" {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		logger.Log.Warnf("Environment variable %s (value: %s) is not a bool: %v. Using default %t", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
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
