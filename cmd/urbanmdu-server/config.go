package main

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urbanclimate-tools/urbanmdu/internal/geocore"
	"github.com/urbanclimate-tools/urbanmdu/internal/ign"
)

type Config struct {
	Addr       string
	LogLevel   string
	LogConsole bool

	GeodataURL string
	EPSG       int

	CacheSize int
	CacheTTL  time.Duration
	RedisAddr string

	KafkaBrokers []string
	KafkaTopic   string

	MetricsEnabled bool
	MetricsAddr    string
	MetricsPath    string

	H3Resolution int
	StoreyHeight float64
}

// Configurations for urbanmdu-server
func LoadConfig() Config {
	var cfg Config
	cfg.Addr = getEnv("URBANMDU_ADDR", ":8080")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogConsole = strings.ToLower(os.Getenv("LOG_CONSOLE")) == "true"
	cfg.GeodataURL = getEnv("GEODATA_URL", ign.DefaultBaseURL)
	cfg.EPSG = getEnvInt("WORKING_EPSG", geocore.Lambert93)
	cfg.CacheSize = getEnvInt("TILE_CACHE_SIZE", 1024)
	cfg.CacheTTL = getEnvDuration("TILE_CACHE_TTL", 15*time.Minute)
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", "urbanmdu.events")
	cfg.MetricsEnabled = os.Getenv("METRICS_ENABLED") == "true"
	cfg.MetricsAddr = getEnv("METRICS_ADDR", ":9090")
	cfg.MetricsPath = getEnv("METRICS_PATH", "/metrics")
	cfg.H3Resolution = getEnvInt("H3_DISTRICT_RESOLUTION", 8)
	cfg.StoreyHeight = getEnvFloat("STOREY_HEIGHT_M", 3.0)

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug|info|warn|error")
	flag.StringVar(&cfg.GeodataURL, "geodata", cfg.GeodataURL, "geodata WFS base URL")
	flag.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address (empty disables the shared tier)")
	flag.Parse()
	return cfg
}

func getEnv(k, def string) string {
	value := os.Getenv(k)
	if value != "" {
		return value
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
