package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultFruits is the fruit store's stock when STORE_FRUITS is unset.
const DefaultFruits = "Mangoes,Apples,Cherries,Strawberries,Pears"

// Config holds process settings, populated from environment variables.
// Report content (datasets, charts) comes from the manifest named by ReportManifest.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	ReportManifest string
	PageCacheSize  int

	StoreTitle        string
	StoreFruits       []string
	CheckoutRateLimit float64 // requests per second
	CheckoutBurst     int

	// Extremes report publishing.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaExtremesTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	rateLimit, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("CHECKOUT_RATE_LIMIT", "5"), 64)
	if err != nil || rateLimit <= 0 {
		return nil, errors.New("invalid CHECKOUT_RATE_LIMIT")
	}
	burst, err := strconv.Atoi(sharedcfg.EnvOrDefault("CHECKOUT_BURST", "10"))
	if err != nil || burst <= 0 {
		return nil, errors.New("invalid CHECKOUT_BURST")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ReportManifest: os.Getenv("REPORT_MANIFEST"),
		PageCacheSize:  parsePageCacheSize(),

		StoreTitle:        sharedcfg.EnvOrDefault("STORE_TITLE", "ACME Fruit Store"),
		StoreFruits:       parseList(sharedcfg.EnvOrDefault("STORE_FRUITS", DefaultFruits)),
		CheckoutRateLimit: rateLimit,
		CheckoutBurst:     burst,

		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaExtremesTopic: sharedcfg.EnvOrDefault("KAFKA_EXTREMES_TOPIC", "climate-extremes"),
	}

	if len(cfg.StoreFruits) == 0 {
		return nil, errors.New("STORE_FRUITS must list at least one fruit")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaExtremesTopic == "" {
			return nil, errors.New("KAFKA_EXTREMES_TOPIC is required when KAFKA_ENABLED is true")
		}
	}
	if cfg.ReportManifest != "" {
		if _, err := os.Stat(cfg.ReportManifest); err != nil {
			return nil, fmt.Errorf("REPORT_MANIFEST: %w", err)
		}
	}

	return cfg, nil
}

func parsePageCacheSize() int {
	if s := os.Getenv("PAGE_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 64
}

func parseList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
