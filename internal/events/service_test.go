package events_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/u9200347/event-discovery/internal/cache"
	"github.com/u9200347/event-discovery/internal/events"
)

// fakeProvider is a scriptable in-memory provider that counts its calls.
type fakeProvider struct {
	name   string
	events []events.Event
	err    error

	mu    sync.Mutex
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Fetch(_ context.Context, _ events.Query) ([]events.Event, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testQuery() events.Query {
	return events.Query{City: "Austin", StartDate: "2025-06-01", EndDate: "2025-06-03"}
}

func TestCacheHitShortCircuitsProviders(t *testing.T) {
	p := &fakeProvider{
		name: "ticketmaster",
		events: []events.Event{
			{ID: "ticketmaster_1", Name: "Concert", Venue: "Hall", Date: "2025-06-01"},
		},
	}
	svc := events.NewService(cache.NewMemoryCache(30*time.Minute), []events.Provider{p}, time.Second)

	first := svc.FetchAllEvents(context.Background(), testQuery())
	require.False(t, first.Cached)
	require.Equal(t, 1, p.callCount())

	second := svc.FetchAllEvents(context.Background(), testQuery())
	assert.True(t, second.Cached)
	assert.Equal(t, first.Events, second.Events)
	assert.Equal(t, 1, p.callCount(), "second call must not re-invoke the provider")
}

func TestCacheExpiryReinvokesProviders(t *testing.T) {
	mem := cache.NewMemoryCache(30 * time.Minute)

	now := time.Now()
	mem.SetClock(func() time.Time { return now })

	p := &fakeProvider{
		name:   "seatgeek",
		events: []events.Event{{ID: "seatgeek_1", Name: "Game", Venue: "Arena", Date: "2025-06-02"}},
	}
	svc := events.NewService(mem, []events.Provider{p}, time.Second)

	svc.FetchAllEvents(context.Background(), testQuery())
	require.Equal(t, 1, p.callCount())

	// Advance simulated time past the TTL; the entry must now read as absent.
	now = now.Add(31 * time.Minute)

	res := svc.FetchAllEvents(context.Background(), testQuery())
	assert.False(t, res.Cached)
	assert.Equal(t, 2, p.callCount(), "expired entry must trigger a fresh aggregation")
}

func TestPartialFailureIsolation(t *testing.T) {
	broken := &fakeProvider{name: "ticketmaster", err: errors.New("connection refused")}
	healthy := &fakeProvider{
		name: "seatgeek",
		events: []events.Event{
			{ID: "seatgeek_1", Name: "A", Venue: "V1", Date: "2025-06-01"},
			{ID: "seatgeek_2", Name: "B", Venue: "V2", Date: "2025-06-02"},
			{ID: "seatgeek_3", Name: "C", Venue: "V3", Date: "2025-06-03"},
		},
	}
	svc := events.NewService(cache.NewMemoryCache(time.Hour), []events.Provider{broken, healthy}, time.Second)

	res := svc.FetchAllEvents(context.Background(), testQuery())

	assert.Len(t, res.Events, 3)
	assert.False(t, res.Cached)
	// Sources reflects configuration, not per-call contribution: the failed
	// provider still appears.
	assert.ElementsMatch(t, []string{"ticketmaster", "seatgeek"}, res.Sources)
}

func TestSortOrderByDateThenTime(t *testing.T) {
	p := &fakeProvider{
		name: "seatgeek",
		events: []events.Event{
			{ID: "1", Name: "Second", Venue: "V", Date: "2025-06-02", Time: "10:00"},
			{ID: "2", Name: "First", Venue: "V", Date: "2025-06-01", Time: "09:00"},
			{ID: "3", Name: "Third", Venue: "V", Date: "2025-06-03", Time: "08:00"},
		},
	}
	svc := events.NewService(cache.NewMemoryCache(time.Hour), []events.Provider{p}, time.Second)

	res := svc.FetchAllEvents(context.Background(), testQuery())

	require.Len(t, res.Events, 3)
	assert.Equal(t, "2025-06-01", res.Events[0].Date)
	assert.Equal(t, "2025-06-02", res.Events[1].Date)
	assert.Equal(t, "2025-06-03", res.Events[2].Date)
}

func TestNoDuplicatesAcrossProviders(t *testing.T) {
	a := &fakeProvider{
		name: "ticketmaster",
		events: []events.Event{
			{ID: "ticketmaster_1", Name: "Jazz Night", Venue: "Blue Note", Date: "2025-06-01"},
		},
	}
	b := &fakeProvider{
		name: "seatgeek",
		events: []events.Event{
			{ID: "seatgeek_9", Name: "JAZZ NIGHT", Venue: "blue note", Date: "2025-06-01"},
			{ID: "seatgeek_10", Name: "Other Show", Venue: "Blue Note", Date: "2025-06-01"},
		},
	}
	svc := events.NewService(cache.NewMemoryCache(time.Hour), []events.Provider{a, b}, time.Second)

	res := svc.FetchAllEvents(context.Background(), testQuery())

	seen := make(map[string]bool)
	for _, e := range res.Events {
		key := strings.ToLower(e.Name) + "_" + e.Date + "_" + strings.ToLower(e.Venue)
		assert.False(t, seen[key], "duplicate dedup key in result: %s", key)
		seen[key] = true
	}
	assert.Len(t, res.Events, 2)
}

func TestDedupIsExactMatchNotFuzzy(t *testing.T) {
	// A trailing space in the venue is a different venue: the baseline
	// behavior is exact substring matching, no trimming.
	p := &fakeProvider{
		name: "ticketmaster",
		events: []events.Event{
			{ID: "1", Name: "Jazz Night", Venue: "Blue Note", Date: "2025-06-01"},
			{ID: "2", Name: "Jazz Night", Venue: "Blue Note ", Date: "2025-06-01"},
		},
	}
	svc := events.NewService(cache.NewMemoryCache(time.Hour), []events.Provider{p}, time.Second)

	res := svc.FetchAllEvents(context.Background(), testQuery())
	assert.Len(t, res.Events, 2)
}

func TestNoProvidersYieldsEmptyWellFormedResult(t *testing.T) {
	svc := events.NewService(cache.NewMemoryCache(time.Hour), nil, time.Second)

	res := svc.FetchAllEvents(context.Background(), testQuery())

	assert.Empty(t, res.Events)
	assert.Empty(t, res.Sources)
	assert.False(t, res.Cached)
}
