package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"github.com/u9200347/event-discovery/internal/common"
	"github.com/u9200347/event-discovery/internal/events"
)

// SerpAPIProvider implements the events.Provider interface using SerpAPI's
// google_events engine. Google surfaces dates as free text ("Jun 1",
// "Sun, Jun 1, 8 – 11 PM"), so this adapter carries its own loose parsers.
type SerpAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewSerpAPIProvider(client *http.Client, apiKey string) *SerpAPIProvider {
	return &SerpAPIProvider{
		name:    "google",
		apiKey:  apiKey,
		baseURL: "https://serpapi.com/search.json",
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuitBreaker("serpapi"),
	}
}

func (p *SerpAPIProvider) Name() string {
	return p.name
}

func (p *SerpAPIProvider) Fetch(ctx context.Context, q events.Query) ([]events.Event, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("serpapi api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("engine", "google_events")
		values.Set("q", fmt.Sprintf("events in %s", q.City))
		values.Set("api_key", p.apiKey)
		values.Set("hl", "en")

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
		EventsResults []struct {
			Title string `json:"title"`
			Date  struct {
				StartDate string `json:"start_date"` // e.g. "Jun 1"
				When      string `json:"when"`       // e.g. "Sun, Jun 1, 8 – 11 PM"
			} `json:"date"`
			Address     []string `json:"address"`
			Link        string   `json:"link"`
			Description string   `json:"description"`
			Thumbnail   string   `json:"thumbnail"`
			Venue       struct {
				Name string `json:"name"`
			} `json:"venue"`
			TicketInfo []struct {
				Source string `json:"source"`
				Link   string `json:"link"`
			} `json:"ticket_info"`
		} `json:"events_results"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	refYear := referenceYear(q.StartDate)

	out := make([]events.Event, 0, len(payload.EventsResults))
	for i, raw := range payload.EventsResults {
		ev := events.Event{
			ID:          fmt.Sprintf("google_%s_%d", slug(raw.Title), i),
			Name:        raw.Title,
			Category:    "Entertainment",
			Venue:       raw.Venue.Name,
			Date:        parseLooseDate(raw.Date.StartDate, refYear),
			Time:        parseLooseTime(raw.Date.When),
			Price:       p.formatPrice(raw.Title, raw.Description),
			Description: raw.Description,
			Image:       raw.Thumbnail,
			URL:         raw.Link,
			Source:      p.name,
		}

		if len(raw.Address) > 0 {
			ev.Address = strings.Join(raw.Address, ", ")
		}
		if ev.URL == "" && len(raw.TicketInfo) > 0 {
			ev.URL = raw.TicketInfo[0].Link
		}

		out = append(out, ev)
	}

	return out, nil
}

// formatPrice has no numeric price to work with; Google listings only hint
// at free admission in their copy.
func (p *SerpAPIProvider) formatPrice(title, description string) string {
	text := strings.ToLower(title + " " + description)
	if common.HasAny(text, "free admission", "free entry", "free event") {
		return "Free"
	}
	return events.PriceUnknown
}

var looseMonths = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// parseLooseDate turns Google's "Jun 1" (optionally "Jun 1, 2025") into
// YYYY-MM-DD, borrowing the year from the query range when absent. An
// unrecognized string yields an empty date rather than a guess.
func parseLooseDate(s string, refYear int) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ','
	})
	if len(fields) < 2 {
		return ""
	}

	month, ok := looseMonths[strings.ToLower(shorten(fields[0], 3))]
	if !ok {
		return ""
	}
	day, err := strconv.Atoi(fields[1])
	if err != nil || day < 1 || day > 31 {
		return ""
	}

	year := refYear
	if len(fields) >= 3 {
		if y, err := strconv.Atoi(fields[2]); err == nil && y > 1900 {
			year = y
		}
	}

	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// parseLooseTime pulls the first clock value out of a free-text "when"
// string and renders it as 24h HH:MM, e.g. "Sun, Jun 1, 8 – 11 PM" → 20:00.
// Only the segment after the last comma is scanned, so the day-of-month in
// "Sun, Jun 1, 8 – 11 PM" is not mistaken for an hour. The clock borrows
// the nearest meridiem that follows it, which is how Google elides the
// AM/PM on the range start ("8 – 11 PM" means 8 PM).
func parseLooseTime(when string) string {
	lower := strings.ToLower(when)
	if idx := strings.LastIndexByte(lower, ','); idx >= 0 {
		lower = lower[idx+1:]
	}
	if !common.HasAny(lower, "am", "pm") {
		return ""
	}

	fields := strings.Fields(lower)
	for i, field := range fields {
		hourPart := field
		minute := 0
		if idx := strings.IndexByte(field, ':'); idx > 0 {
			hourPart = field[:idx]
			if m, err := strconv.Atoi(strings.TrimRight(field[idx+1:], "apm")); err == nil {
				minute = m
			}
		}
		hour, err := strconv.Atoi(strings.TrimRight(hourPart, "apm"))
		if err != nil || hour < 1 || hour > 12 || minute < 0 || minute > 59 {
			continue
		}

		pm := strings.HasSuffix(field, "pm")
		am := strings.HasSuffix(field, "am")
		for j := i + 1; j < len(fields) && !pm && !am; j++ {
			pm = strings.HasSuffix(fields[j], "pm")
			am = strings.HasSuffix(fields[j], "am")
		}

		if pm && hour != 12 {
			hour += 12
		}
		if am && hour == 12 {
			hour = 0
		}
		return fmt.Sprintf("%02d:%02d", hour, minute)
	}

	return ""
}

// referenceYear picks the year loose dates should assume, preferring the
// query's start date.
func referenceYear(startDate string) int {
	if len(startDate) >= 4 {
		if y, err := strconv.Atoi(startDate[:4]); err == nil && y > 1900 {
			return y
		}
	}
	return time.Now().Year()
}

func shorten(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func slug(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteByte('-')
		}
	}
	return b.String()
}
