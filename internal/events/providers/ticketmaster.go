package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"
	"github.com/u9200347/event-discovery/internal/events"
)

// TicketmasterProvider implements the events.Provider interface for the
// Ticketmaster Discovery API.
type TicketmasterProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewTicketmasterProvider(client *http.Client, apiKey string) *TicketmasterProvider {
	return &TicketmasterProvider{
		name:    "ticketmaster",
		apiKey:  apiKey,
		baseURL: "https://app.ticketmaster.com/discovery/v2/events.json",
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuitBreaker("ticketmaster"),
	}
}

func (p *TicketmasterProvider) Name() string {
	return p.name
}

func (p *TicketmasterProvider) Fetch(ctx context.Context, q events.Query) ([]events.Event, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("ticketmaster api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("apikey", p.apiKey)
		values.Set("city", q.City)
		values.Set("size", "50")
		values.Set("sort", "date,asc")
		if q.StartDate != "" {
			values.Set("startDateTime", q.StartDate+"T00:00:00Z")
		}
		if q.EndDate != "" {
			values.Set("endDateTime", q.EndDate+"T23:59:59Z")
		}

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Embedded struct {
			Events []struct {
				ID     string `json:"id"`
				Name   string `json:"name"`
				URL    string `json:"url"`
				Info   string `json:"info"`
				Images []struct {
					URL string `json:"url"`
				} `json:"images"`
				Dates struct {
					Start struct {
						LocalDate string `json:"localDate"`
						LocalTime string `json:"localTime"`
					} `json:"start"`
				} `json:"dates"`
				Classifications []struct {
					Segment struct {
						Name string `json:"name"`
					} `json:"segment"`
				} `json:"classifications"`
				PriceRanges []struct {
					Min float64 `json:"min"`
					Max float64 `json:"max"`
				} `json:"priceRanges"`
				Embedded struct {
					Venues []struct {
						Name    string `json:"name"`
						Address struct {
							Line1 string `json:"line1"`
						} `json:"address"`
						City struct {
							Name string `json:"name"`
						} `json:"city"`
						Location struct {
							Latitude  string `json:"latitude"`
							Longitude string `json:"longitude"`
						} `json:"location"`
					} `json:"venues"`
				} `json:"_embedded"`
			} `json:"events"`
		} `json:"_embedded"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	out := make([]events.Event, 0, len(payload.Embedded.Events))
	for _, raw := range payload.Embedded.Events {
		ev := events.Event{
			ID:          "ticketmaster_" + raw.ID,
			Name:        raw.Name,
			Category:    "Entertainment",
			Date:        raw.Dates.Start.LocalDate,
			Time:        trimToHHMM(raw.Dates.Start.LocalTime),
			Price:       p.formatPrice(raw.PriceRanges),
			Description: raw.Info,
			URL:         raw.URL,
			Source:      p.name,
		}

		if len(raw.Classifications) > 0 && raw.Classifications[0].Segment.Name != "" {
			ev.Category = raw.Classifications[0].Segment.Name
		}
		if len(raw.Images) > 0 {
			ev.Image = raw.Images[0].URL
		}
		if len(raw.Embedded.Venues) > 0 {
			venue := raw.Embedded.Venues[0]
			ev.Venue = venue.Name
			ev.Address = joinAddress(venue.Address.Line1, venue.City.Name)

			lat, latErr := strconv.ParseFloat(venue.Location.Latitude, 64)
			lng, lngErr := strconv.ParseFloat(venue.Location.Longitude, 64)
			if latErr == nil && lngErr == nil {
				ev.Coordinates = &events.Coordinates{Lat: lat, Lng: lng}
			}
		}

		out = append(out, ev)
	}

	return out, nil
}

// formatPrice renders Ticketmaster price ranges as "$min-$max", or
// "From $min" when only a minimum is known.
func (p *TicketmasterProvider) formatPrice(ranges []struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}) string {
	if len(ranges) == 0 {
		return events.PriceUnknown
	}
	r := ranges[0]
	switch {
	case r.Min > 0 && r.Max > r.Min:
		return fmt.Sprintf("$%.0f-%.0f", r.Min, r.Max)
	case r.Min > 0:
		return fmt.Sprintf("From $%.0f", r.Min)
	default:
		return events.PriceUnknown
	}
}

// trimToHHMM reduces a "HH:MM:SS" local time to "HH:MM".
func trimToHHMM(s string) string {
	if len(s) >= 5 {
		return s[:5]
	}
	return s
}

func joinAddress(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += p
	}
	return out
}
