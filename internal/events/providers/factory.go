package providers

import (
	"log"
	"net/http"

	"github.com/u9200347/event-discovery/internal/config"
	"github.com/u9200347/event-discovery/internal/events"
)

// FromCredentials constructs an adapter for every provider whose
// credentials are present and skips the rest. The enablement decision
// happens here, once; the service never sees a disabled adapter.
func FromCredentials(client *http.Client, creds config.ProviderCredentials) []events.Provider {
	var provs []events.Provider

	if creds.TicketmasterAPIKey != "" {
		provs = append(provs, NewTicketmasterProvider(client, creds.TicketmasterAPIKey))
	}
	if creds.SeatGeekClientID != "" {
		provs = append(provs, NewSeatGeekProvider(client, creds.SeatGeekClientID, creds.SeatGeekSecret))
	}
	if creds.PredictHQToken != "" {
		provs = append(provs, NewPredictHQProvider(client, creds.PredictHQToken, creds.GeocodingAPIKey))
	}
	if creds.SerpAPIKey != "" {
		provs = append(provs, NewSerpAPIProvider(client, creds.SerpAPIKey))
	}

	if len(provs) == 0 {
		log.Println("no event provider credentials configured; serving generated events only")
		return provs
	}

	names := make([]string, 0, len(provs))
	for _, p := range provs {
		names = append(names, p.Name())
	}
	log.Printf("enabled event providers: %v", names)

	return provs
}
