package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const DefaultDataFile = "All India National Family Health Survey5.xlsx"

type Config struct {
	DataFile      string
	DataSheet     string
	SurveyOrder   []string
	HTTPAddr      string
	CORSOrigins   []string
	ChartCacheTTL time.Duration
	TgToken       string
	DbDsn         string
	DbTable       string
	DbDebug       bool
}

var (
	config *Config
	once   sync.Once
)

// GetConfig возвращает singleton экземпляр конфигурации
func GetConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Printf("no .env file loaded, using process environment: %v", err)
		}
		config = FromEnv()
	})
	return config
}

// FromEnv builds a Config from the current environment without touching the singleton.
func FromEnv() *Config {
	return &Config{
		DataFile:      getEnvWithDefault("DATA_FILE", DefaultDataFile),
		DataSheet:     os.Getenv("DATA_SHEET"),
		SurveyOrder:   splitList(os.Getenv("SURVEY_ORDER")),
		HTTPAddr:      getEnvWithDefault("HTTP_ADDR", ":8005"),
		CORSOrigins:   splitList(getEnvWithDefault("CORS_ORIGINS", "*")),
		ChartCacheTTL: getEnvAsDuration("CHART_CACHE_TTL", 10*time.Minute),
		TgToken:       os.Getenv("TG_TOKEN"),
		DbDsn:         os.Getenv("DB_DSN"),
		DbTable:       getEnvWithDefault("DB_TABLE", "nfhs"),
		DbDebug:       getEnvAsBool("DB_DEBUG", false),
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("invalid duration in %s=%q, using %s", key, value, defaultValue)
	}
	return defaultValue
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
