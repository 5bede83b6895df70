package events

import (
	"context"
)

// Provider abstracts one third-party event source (e.g. Ticketmaster,
// SeatGeek, PredictHQ, SerpAPI). Implementations must honor ctx
// cancellation on every network call; a call abandoned at its deadline is
// reported as an error, never as a hang.
//
// Providers are constructed only when their credentials are present, so a
// Provider held by the service is always enabled.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]Event, error)
}

// Cache is the contract the in-memory query cache (and any future store)
// must satisfy. A Get on a missing or expired key reports a miss.
type Cache interface {
	Get(key string) ([]Event, bool)
	Set(key string, events []Event)
}
