package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ProviderCredentials holds one credential set per event provider. An
// empty credential silently disables that provider; it is never an error.
type ProviderCredentials struct {
	TicketmasterAPIKey string
	SeatGeekClientID   string
	SeatGeekSecret     string
	PredictHQToken     string
	SerpAPIKey         string

	// GeocodingAPIKey is optional; without it the PredictHQ adapter
	// queries by place name instead of coordinates.
	GeocodingAPIKey string
}

type AppConfig struct {
	Providers ProviderCredentials

	// CacheTTL is how long an aggregated query result stays fresh.
	CacheTTL time.Duration

	// ProviderTimeout bounds each individual adapter call.
	ProviderTimeout time.Duration

	// HTTPTimeout is the outbound HTTP client's own ceiling.
	HTTPTimeout time.Duration

	// PrewarmCities are periodically re-aggregated to keep their cache
	// entries warm. Empty disables the scheduler.
	PrewarmCities   []string
	PrewarmInterval time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.Providers = ProviderCredentials{
		TicketmasterAPIKey: os.Getenv("TICKETMASTER_API_KEY"),
		SeatGeekClientID:   os.Getenv("SEATGEEK_CLIENT_ID"),
		SeatGeekSecret:     os.Getenv("SEATGEEK_CLIENT_SECRET"),
		PredictHQToken:     os.Getenv("PREDICTHQ_TOKEN"),
		SerpAPIKey:         os.Getenv("SERPAPI_API_KEY"),
		GeocodingAPIKey:    os.Getenv("GEOCODING_API_KEY"),
	}

	ttl, err := getenvDuration("EVENTS_CACHE_TTL", "30m")
	if err != nil {
		return nil, fmt.Errorf("invalid EVENTS_CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = ttl

	providerTimeout, err := getenvDuration("PROVIDER_TIMEOUT", "5s")
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_TIMEOUT: %w", err)
	}
	cfg.ProviderTimeout = providerTimeout

	httpTimeout, err := getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = httpTimeout

	cfg.PrewarmCities = splitList(os.Getenv("PREWARM_CITIES"))

	prewarmInterval, err := getenvDuration("PREWARM_INTERVAL", "25m")
	if err != nil {
		return nil, fmt.Errorf("invalid PREWARM_INTERVAL: %w", err)
	}
	cfg.PrewarmInterval = prewarmInterval

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	return time.ParseDuration(getenvDefault(key, def))
}
