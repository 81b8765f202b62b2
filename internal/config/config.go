package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const DefaultAPIURL = "https://open-api.affiliate.shopee.com.br/graphql"

type Config struct {
	AppID     string
	APISecret string
	APIURL    string `validate:"required,url"`

	LedgerPath        string `validate:"required"`
	FeedPath          string `validate:"required"`
	FeedVariable      string `validate:"required"`
	CategoryMapPath   string
	CategoriesOutPath string `validate:"required"`

	MinRating     float64 `validate:"gte=0,lte=5"`
	MinSales      float64 `validate:"gte=0"`
	MinCommission float64 `validate:"gte=0"`

	RequestInterval time.Duration `validate:"gte=0"`
	RetryWait       time.Duration `validate:"gte=0"`

	DatabaseURL string
	RedisURL    string
	CacheTTL    time.Duration `validate:"gte=0"`
	MetricsPort string        `validate:"omitempty,numeric"`
}

func Load() *Config {
	// Carrega .env da raiz do projeto
	_ = godotenv.Load("../../.env")
	// Se não encontrar, tenta no diretório atual
	_ = godotenv.Load()
	return &Config{
		AppID:             os.Getenv("SHOPEE_APP_ID"),
		APISecret:         os.Getenv("SHOPEE_API_SECRET"),
		APIURL:            getEnv("SHOPEE_API_URL", DefaultAPIURL),
		LedgerPath:        getEnv("LEDGER_PATH", "banco_ofertas_completo.csv"),
		FeedPath:          getEnv("FEED_PATH", "ofertas.js"),
		FeedVariable:      getEnv("FEED_VARIABLE", "window.ACHADINHOS_OFERTAS"),
		CategoryMapPath:   os.Getenv("CATEGORY_MAP_PATH"),
		CategoriesOutPath: getEnv("CATEGORIES_OUT_PATH", "categorias_shopee.json"),
		MinRating:         getEnvFloat("MIN_RATING", 4.7),
		MinSales:          getEnvFloat("MIN_SALES", 50),
		MinCommission:     getEnvFloat("MIN_COMMISSION", 1.50),
		RequestInterval:   getEnvDuration("REQUEST_INTERVAL", 2*time.Second),
		RetryWait:         getEnvDuration("RETRY_WAIT", 5*time.Second),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		CacheTTL:          getEnvDuration("CACHE_TTL", 30*time.Minute),
		MetricsPort:       os.Getenv("METRICS_PORT"),
	}
}

// Validate checks paths and thresholds. Credentials are checked separately
// since regenerating the site does not call the API.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// RequireCredentials fails when the API credentials are missing.
func (c *Config) RequireCredentials() error {
	if c.AppID == "" || c.APISecret == "" {
		return fmt.Errorf("SHOPEE_APP_ID e SHOPEE_API_SECRET são obrigatórios")
	}
	return nil
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvFloat(k string, d float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return d
}

func getEnvDuration(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			return dur
		}
	}
	return d
}
