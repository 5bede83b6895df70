package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"
	"github.com/u9200347/event-discovery/internal/events"
)

// PredictHQProvider implements the events.Provider interface for the
// PredictHQ events API.
//
// When a geocoding key is configured the adapter resolves the city to
// coordinates once (memoized) and queries by radius; otherwise it falls
// back to a free-text place query.
type PredictHQProvider struct {
	name         string
	token        string
	geocodingKey string
	baseURL      string
	httpCfg      HTTPClientConfig
	circuit      *gobreaker.CircuitBreaker

	geoMu    sync.Mutex
	geoCache map[string]*events.Coordinates
}

func NewPredictHQProvider(client *http.Client, token, geocodingKey string) *PredictHQProvider {
	if geocodingKey != "" {
		geocoder.ApiKey = geocodingKey
	}
	return &PredictHQProvider{
		name:         "predicthq",
		token:        token,
		geocodingKey: geocodingKey,
		baseURL:      "https://api.predicthq.com/v1/events/",
		httpCfg:      defaultHTTPConfig(client),
		circuit:      newCircuitBreaker("predicthq"),
		geoCache:     make(map[string]*events.Coordinates),
	}
}

func (p *PredictHQProvider) Name() string {
	return p.name
}

func (p *PredictHQProvider) Fetch(ctx context.Context, q events.Query) ([]events.Event, error) {
	if p.token == "" {
		return nil, fmt.Errorf("predicthq token is not configured")
	}

	coords := p.resolveCoordinates(q.City)

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		if coords != nil {
			values.Set("within", fmt.Sprintf("20km@%f,%f", coords.Lat, coords.Lng))
		} else {
			values.Set("q", q.City)
		}
		if q.StartDate != "" {
			values.Set("active.gte", q.StartDate)
		}
		if q.EndDate != "" {
			values.Set("active.lte", q.EndDate)
		}
		values.Set("limit", "50")
		values.Set("sort", "start")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+p.token)
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Results []struct {
			ID          string    `json:"id"`
			Title       string    `json:"title"`
			Category    string    `json:"category"`
			Description string    `json:"description"`
			Start       string    `json:"start"`
			Rank        float64   `json:"rank"`
			Location    []float64 `json:"location"` // [lng, lat]
			Entities    []struct {
				Name             string `json:"name"`
				Type             string `json:"type"`
				FormattedAddress string `json:"formatted_address"`
			} `json:"entities"`
		} `json:"results"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	out := make([]events.Event, 0, len(payload.Results))
	for _, raw := range payload.Results {
		date, tm := parsePredictHQStart(raw.Start)

		ev := events.Event{
			ID:          "predicthq_" + raw.ID,
			Name:        raw.Title,
			Category:    mapPredictHQCategory(raw.Category),
			Date:        date,
			Time:        tm,
			Price:       events.PriceUnknown,
			Description: raw.Description,
			Source:      p.name,
			Popularity:  raw.Rank,
		}

		for _, entity := range raw.Entities {
			if entity.Type == "venue" {
				ev.Venue = entity.Name
				ev.Address = entity.FormattedAddress
				break
			}
		}
		if len(raw.Location) == 2 {
			ev.Coordinates = &events.Coordinates{Lat: raw.Location[1], Lng: raw.Location[0]}
		}

		out = append(out, ev)
	}

	return out, nil
}

// resolveCoordinates geocodes the city once per process, memoized. Any
// geocoding failure (including no key configured) degrades to a nil result
// and the adapter queries by place name instead.
func (p *PredictHQProvider) resolveCoordinates(city string) *events.Coordinates {
	if p.geocodingKey == "" || city == "" {
		return nil
	}

	key := strings.ToLower(city)

	p.geoMu.Lock()
	defer p.geoMu.Unlock()

	if coords, ok := p.geoCache[key]; ok {
		return coords
	}

	location, err := geocoder.Geocoding(geocoder.Address{City: city})
	if err != nil {
		p.geoCache[key] = nil
		return nil
	}

	coords := &events.Coordinates{Lat: location.Latitude, Lng: location.Longitude}
	p.geoCache[key] = coords
	return coords
}

// parsePredictHQStart splits an RFC3339 start into local date and HH:MM.
func parsePredictHQStart(s string) (string, string) {
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		// Some payloads carry a bare date.
		if len(s) >= 10 {
			return s[:10], ""
		}
		return "", ""
	}
	return ts.Format("2006-01-02"), ts.Format("15:04")
}

func mapPredictHQCategory(category string) string {
	switch category {
	case "sports":
		return "Sports"
	case "concerts", "festivals":
		return "Music"
	case "performing-arts":
		return "Theater"
	case "community":
		return "Community"
	case "expos", "conferences":
		return "Expo"
	case "":
		return "Entertainment"
	default:
		return capitalize(category)
	}
}
