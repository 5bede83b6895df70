package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduplicateKeepsFirstOccurrence(t *testing.T) {
	in := []Event{
		{ID: "a", Name: "Show", Venue: "Hall", Date: "2025-06-01", Source: "ticketmaster"},
		{ID: "b", Name: "show", Venue: "HALL", Date: "2025-06-01", Source: "seatgeek"},
	}

	out := Deduplicate(in)

	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "ticketmaster", out[0].Source)
}

func TestDeduplicateEnrichesCanonical(t *testing.T) {
	in := []Event{
		{
			ID: "a", Name: "Show", Venue: "Hall", Date: "2025-06-01",
			Price: PriceUnknown, Description: "original",
		},
		{
			ID: "b", Name: "Show", Venue: "Hall", Date: "2025-06-01",
			Image:       "https://img.example/1.jpg",
			Price:       "$25-45",
			URL:         "https://tickets.example/1",
			Coordinates: &Coordinates{Lat: 30.27, Lng: -97.74},
			Description: "duplicate copy",
		},
	}

	out := Deduplicate(in)

	require.Len(t, out, 1)
	got := out[0]
	assert.Equal(t, "https://img.example/1.jpg", got.Image)
	assert.Equal(t, "$25-45", got.Price, "sentinel price is replaced by a real one")
	assert.Equal(t, "https://tickets.example/1", got.URL)
	require.NotNil(t, got.Coordinates)
	assert.Equal(t, 30.27, got.Coordinates.Lat)
	// Fields outside the enrichment set are untouched.
	assert.Equal(t, "original", got.Description)
	assert.Equal(t, "a", got.ID)
}

func TestDeduplicateDoesNotOverwritePopulatedFields(t *testing.T) {
	in := []Event{
		{ID: "a", Name: "Show", Venue: "Hall", Date: "2025-06-01", Price: "$10", Image: "img-a"},
		{ID: "b", Name: "Show", Venue: "Hall", Date: "2025-06-01", Price: "$99", Image: "img-b"},
	}

	out := Deduplicate(in)

	require.Len(t, out, 1)
	assert.Equal(t, "$10", out[0].Price)
	assert.Equal(t, "img-a", out[0].Image)
}

func TestSortEventsMissingDateStaysPut(t *testing.T) {
	// Events without a date are not relocated by any special rule; the
	// empty date sorts first lexicographically and stability preserves
	// their relative input order.
	evs := []Event{
		{ID: "1", Date: "2025-06-02"},
		{ID: "2", Date: ""},
		{ID: "3", Date: ""},
		{ID: "4", Date: "2025-06-01"},
	}

	sortEvents(evs)

	assert.Equal(t, []string{"2", "3", "4", "1"}, []string{evs[0].ID, evs[1].ID, evs[2].ID, evs[3].ID})
}

func TestCacheKeyIsLowercased(t *testing.T) {
	q := Query{City: "New York", StartDate: "2025-06-01", EndDate: "2025-06-03"}
	assert.Equal(t, "new york_2025-06-01_2025-06-03", q.CacheKey())
}
