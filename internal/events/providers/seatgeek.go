package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"
	"github.com/u9200347/event-discovery/internal/common"
	"github.com/u9200347/event-discovery/internal/events"
)

// SeatGeekProvider implements the events.Provider interface for the
// SeatGeek marketplace API.
type SeatGeekProvider struct {
	name         string
	clientID     string
	clientSecret string
	baseURL      string
	httpCfg      HTTPClientConfig
	circuit      *gobreaker.CircuitBreaker
}

// NewSeatGeekProvider creates the adapter. clientSecret is optional;
// SeatGeek accepts client_id-only requests at lower rate limits.
func NewSeatGeekProvider(client *http.Client, clientID, clientSecret string) *SeatGeekProvider {
	return &SeatGeekProvider{
		name:         "seatgeek",
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      "https://api.seatgeek.com/2/events",
		httpCfg:      defaultHTTPConfig(client),
		circuit:      newCircuitBreaker("seatgeek"),
	}
}

func (p *SeatGeekProvider) Name() string {
	return p.name
}

func (p *SeatGeekProvider) Fetch(ctx context.Context, q events.Query) ([]events.Event, error) {
	if p.clientID == "" {
		return nil, fmt.Errorf("seatgeek client id is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("client_id", p.clientID)
		if p.clientSecret != "" {
			values.Set("client_secret", p.clientSecret)
		}
		values.Set("venue.city", q.City)
		values.Set("per_page", "50")
		if q.StartDate != "" {
			values.Set("datetime_local.gte", q.StartDate)
		}
		if q.EndDate != "" {
			values.Set("datetime_local.lte", q.EndDate+"T23:59:59")
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
		Events []struct {
			ID            int64   `json:"id"`
			Title         string  `json:"title"`
			URL           string  `json:"url"`
			DatetimeLocal string  `json:"datetime_local"`
			Score         float64 `json:"score"`
			Description   string  `json:"description"`
			Venue         struct {
				Name            string `json:"name"`
				Address         string `json:"address"`
				ExtendedAddress string `json:"extended_address"`
				Location        struct {
					Lat float64 `json:"lat"`
					Lon float64 `json:"lon"`
				} `json:"location"`
			} `json:"venue"`
			Performers []struct {
				Image string `json:"image"`
			} `json:"performers"`
			Stats struct {
				LowestPrice  float64 `json:"lowest_price"`
				HighestPrice float64 `json:"highest_price"`
			} `json:"stats"`
			Taxonomies []struct {
				Name string `json:"name"`
			} `json:"taxonomies"`
		} `json:"events"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	out := make([]events.Event, 0, len(payload.Events))
	for _, raw := range payload.Events {
		date, tm := splitLocalDatetime(raw.DatetimeLocal)

		ev := events.Event{
			ID:          fmt.Sprintf("seatgeek_%d", raw.ID),
			Name:        raw.Title,
			Category:    mapSeatGeekCategory(raw.Taxonomies),
			Venue:       raw.Venue.Name,
			Address:     joinAddress(raw.Venue.Address, raw.Venue.ExtendedAddress),
			Date:        date,
			Time:        tm,
			Price:       p.formatPrice(raw.Stats.LowestPrice, raw.Stats.HighestPrice),
			Description: raw.Description,
			URL:         raw.URL,
			Source:      p.name,
			Popularity:  raw.Score,
		}

		if len(raw.Performers) > 0 {
			ev.Image = raw.Performers[0].Image
		}
		if raw.Venue.Location.Lat != 0 || raw.Venue.Location.Lon != 0 {
			ev.Coordinates = &events.Coordinates{
				Lat: raw.Venue.Location.Lat,
				Lng: raw.Venue.Location.Lon,
			}
		}

		out = append(out, ev)
	}

	return out, nil
}

// formatPrice renders SeatGeek listing stats as "$low-$high", or
// "From $low" when only the floor is known.
func (p *SeatGeekProvider) formatPrice(lowest, highest float64) string {
	switch {
	case lowest > 0 && highest > lowest:
		return fmt.Sprintf("$%.0f-%.0f", lowest, highest)
	case lowest > 0:
		return fmt.Sprintf("From $%.0f", lowest)
	default:
		return events.PriceUnknown
	}
}

// splitLocalDatetime breaks "2006-01-02T15:04:05" into date and HH:MM.
func splitLocalDatetime(s string) (string, string) {
	parts := strings.SplitN(s, "T", 2)
	if len(parts) != 2 {
		return s, ""
	}
	return parts[0], trimToHHMM(parts[1])
}

func mapSeatGeekCategory(taxonomies []struct {
	Name string `json:"name"`
}) string {
	if len(taxonomies) == 0 {
		return "Entertainment"
	}
	name := strings.ToLower(taxonomies[0].Name)
	switch {
	case common.HasAny(name, "sports", "nba", "nfl", "mlb", "nhl", "soccer"):
		return "Sports"
	case common.HasAny(name, "concert", "music", "band"):
		return "Music"
	case common.HasAny(name, "theater", "broadway", "musical"):
		return "Theater"
	case common.HasAny(name, "comedy"):
		return "Comedy"
	case common.HasAny(name, "family"):
		return "Family"
	default:
		return capitalize(taxonomies[0].Name)
	}
}

func capitalize(s string) string {
	if s == "" {
		return "Entertainment"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
