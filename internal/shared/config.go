package shared

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	ScorerBase     string
	ScorerKey      string
	ScorerModel    string
	ScorerFallback string
	ScorerRPS      int

	Products        []string
	FallbackProduct string

	Workers  int
	CacheTTL time.Duration

	AuditLogPath string
	BackupPath   string
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/starcuak?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),

		ScorerBase:     env("SCORER_BASE_URL", "http://localhost:8090"),
		ScorerKey:      env("SCORER_API_KEY", ""),
		ScorerModel:    env("SCORER_MODEL", "finiteautomata/beto-sentiment-analysis"),
		ScorerFallback: env("SCORER_FALLBACK_MODEL", "distilbert-base-uncased-finetuned-sst-2-english"),
		ScorerRPS:      atoi("SCORER_RPS", 5),

		Products:        splitCSV(env("PRODUCT_CATALOG", "Espresso,Americano,Latte,Capuccino")),
		FallbackProduct: env("FALLBACK_PRODUCT", "Café"),

		Workers:  atoi("INGEST_WORKERS", 1),
		CacheTTL: time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,

		AuditLogPath: env("AUDIT_LOG_PATH", "data/outputs/log.txt"),
		BackupPath:   env("BACKUP_PATH", "data/outputs/backup_starcuak.dat"),
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
