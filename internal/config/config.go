package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	MaxUploadMB  int
	LogFile      string

	DBPath      string
	CatalogSeed string // optional spreadsheet imported when the catalog is empty

	VATRate  decimal.Decimal
	Currency string

	AnafURL       string
	AnafTimeout   time.Duration
	AnafCacheTTL  time.Duration
	AnafCacheSize int
}

// Load reads .env (if present) and then the process environment.
func Load() Config {
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getenv("PORT", "8082"))
	mb, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "20"))
	cacheSize, _ := strconv.Atoi(getenv("ANAF_CACHE_SIZE", "1024"))
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	vat, err := decimal.NewFromString(getenv("VAT_RATE", "0.21"))
	if err != nil {
		vat = decimal.RequireFromString("0.21")
	}
	return Config{
		Host:          getenv("HOST", "127.0.0.1"),
		Port:          port,
		AllowOrigins:  origins,
		LogLevel:      getenv("LOG_LEVEL", "info"),
		MaxUploadMB:   mb,
		LogFile:       getenv("LOG_FILE", "logs/metalshop.log"),
		DBPath:        getenv("DB_PATH", "data/metalshop.db"),
		CatalogSeed:   getenv("CATALOG_SEED", ""),
		VATRate:       vat,
		Currency:      getenv("CURRENCY", "RON"),
		AnafURL:       getenv("ANAF_URL", "https://webservicesp.anaf.ro/api/PlatitorTvaRest/v9/tva"),
		AnafTimeout:   getdur("ANAF_TIMEOUT", 10*time.Second),
		AnafCacheTTL:  getdur("ANAF_CACHE_TTL", 24*time.Hour),
		AnafCacheSize: cacheSize,
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func (c Config) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) * 1024 * 1024 }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
