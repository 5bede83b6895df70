package events

import (
	"fmt"
	"strings"
)

// PriceUnknown is the display sentinel used when a provider reports no
// usable price information.
const PriceUnknown = "Check website for pricing"

// Coordinates is an optional geographic position for an event venue.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Event is the normalized, source-independent event record. Instances are
// built fresh on every aggregation run and are only mutated during the
// merge step, when a duplicate enriches the canonical record.
type Event struct {
	// ID is namespaced by provider (e.g. "ticketmaster_G5vYZ...") so IDs
	// from different sources cannot collide.
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Venue       string       `json:"venue,omitempty"`
	Address     string       `json:"address,omitempty"`
	Date        string       `json:"date,omitempty"` // YYYY-MM-DD, local
	Time        string       `json:"time,omitempty"` // HH:MM, 24h local
	Price       string       `json:"price,omitempty"`
	Description string       `json:"description,omitempty"`
	Image       string       `json:"image,omitempty"`
	URL         string       `json:"url,omitempty"`
	Source      string       `json:"source"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`

	// Popularity carries a provider-specific ranking signal (SeatGeek
	// score, PredictHQ rank). It does not influence ordering; results
	// are sorted strictly by date and time.
	Popularity float64 `json:"popularity,omitempty"`
}

// Query identifies one event search. City is required; callers are
// responsible for defaulting StartDate/EndDate (ISO YYYY-MM-DD).
type Query struct {
	City      string `json:"city"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// CacheKey returns the canonical cache key for this query.
func (q Query) CacheKey() string {
	return strings.ToLower(fmt.Sprintf("%s_%s_%s", q.City, q.StartDate, q.EndDate))
}

// Result is what the orchestrator hands back to its caller.
//
// Sources lists the providers that were configured/enabled for this
// service, not the providers that actually contributed events to this
// particular call; a provider that silently failed still appears. This is
// a deliberate simplification, kept as documented behavior.
type Result struct {
	Events  []Event  `json:"events"`
	Sources []string `json:"sources"`
	Cached  bool     `json:"cached"`
}
