package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mj8star/cn-stock-monitor/internal/models"
)

type Config struct {
	DatabasePath    string
	ProviderBaseURL string // empty means the provider's built-in default
	Port            string
	Environment     string
	LookbackDays    int
	PaceInterval    time.Duration
	Instruments     []models.Instrument
}

func Load() *Config {
	return &Config{
		DatabasePath:    getEnv("DATABASE_PATH", "stock_data.db"),
		ProviderBaseURL: getEnv("PROVIDER_BASE_URL", ""),
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		LookbackDays:    getEnvInt("SYNC_LOOKBACK_DAYS", 30),
		PaceInterval:    time.Duration(getEnvInt("SYNC_PACE_MS", 500)) * time.Millisecond,
		Instruments:     loadInstruments(),
	}
}

// loadInstruments reads MONITOR_TARGETS as comma-separated code=name
// pairs, falling back to the built-in watch list.
func loadInstruments() []models.Instrument {
	raw := os.Getenv("MONITOR_TARGETS")
	if raw == "" {
		return defaultInstruments()
	}
	var instruments []models.Instrument
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		code := strings.TrimSpace(parts[0])
		name := strings.TrimSpace(parts[1])
		if code == "" || name == "" {
			continue
		}
		instruments = append(instruments, models.NewInstrument(code, name))
	}
	if len(instruments) == 0 {
		return defaultInstruments()
	}
	return instruments
}

func defaultInstruments() []models.Instrument {
	targets := []struct{ code, name string }{
		{"sh000001", "上证指数"},
		{"sz399001", "深证成指"},
		{"159919", "沪深300ETF"},
		{"513770", "港股互联网"},
		{"513100", "纳指ETF"},
		{"513500", "标普500ETF"},
		{"518880", "黄金ETF"},
		{"513880", "日经225"},
	}
	instruments := make([]models.Instrument, 0, len(targets))
	for _, t := range targets {
		instruments = append(instruments, models.NewInstrument(t.code, t.name))
	}
	return instruments
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
