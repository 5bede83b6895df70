package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/u9200347/event-discovery/internal/events"
)

const ticketmasterPayload = `{
  "_embedded": {
    "events": [
      {
        "id": "G5vYZ",
        "name": "Summer Jam",
        "url": "https://tm.example/summer-jam",
        "info": "All ages welcome",
        "images": [{"url": "https://img.example/jam.jpg"}],
        "dates": {"start": {"localDate": "2025-06-02", "localTime": "19:30:00"}},
        "classifications": [{"segment": {"name": "Music"}}],
        "priceRanges": [{"min": 25, "max": 45}],
        "_embedded": {
          "venues": [
            {
              "name": "Moody Center",
              "address": {"line1": "2001 Robert Dedman Dr"},
              "city": {"name": "Austin"},
              "location": {"latitude": "30.2807", "longitude": "-97.7316"}
            }
          ]
        }
      },
      {
        "id": "H8xQ1",
        "name": "Mystery Event",
        "dates": {"start": {}}
      }
    ]
  }
}`

func TestTicketmasterFetchMapsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		assert.Equal(t, "Austin", r.URL.Query().Get("city"))
		w.Write([]byte(ticketmasterPayload))
	}))
	defer srv.Close()

	p := NewTicketmasterProvider(srv.Client(), "test-key")
	p.baseURL = srv.URL

	out, err := p.Fetch(context.Background(), events.Query{
		City: "Austin", StartDate: "2025-06-01", EndDate: "2025-06-03",
	})
	require.NoError(t, err)
	require.Len(t, out, 2)

	got := out[0]
	assert.Equal(t, "ticketmaster_G5vYZ", got.ID)
	assert.Equal(t, "Summer Jam", got.Name)
	assert.Equal(t, "Music", got.Category)
	assert.Equal(t, "Moody Center", got.Venue)
	assert.Equal(t, "2001 Robert Dedman Dr, Austin", got.Address)
	assert.Equal(t, "2025-06-02", got.Date)
	assert.Equal(t, "19:30", got.Time)
	assert.Equal(t, "$25-45", got.Price)
	assert.Equal(t, "https://img.example/jam.jpg", got.Image)
	assert.Equal(t, "ticketmaster", got.Source)
	require.NotNil(t, got.Coordinates)
	assert.InDelta(t, 30.2807, got.Coordinates.Lat, 1e-6)

	// Sparse payloads default every optional field instead of failing.
	sparse := out[1]
	assert.Equal(t, "ticketmaster_H8xQ1", sparse.ID)
	assert.Equal(t, "Entertainment", sparse.Category)
	assert.Equal(t, events.PriceUnknown, sparse.Price)
	assert.Empty(t, sparse.Venue)
	assert.Nil(t, sparse.Coordinates)
}

func TestTicketmasterFetchErrorsWithoutKey(t *testing.T) {
	p := NewTicketmasterProvider(http.DefaultClient, "")

	_, err := p.Fetch(context.Background(), events.Query{City: "Austin"})
	assert.Error(t, err)
}

func TestTicketmasterFetchHonorsDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	p := NewTicketmasterProvider(srv.Client(), "test-key")
	p.baseURL = srv.URL

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := p.Fetch(ctx, events.Query{City: "Austin"})
	assert.Error(t, err, "a call past its deadline is abandoned and reported failed")
	assert.Less(t, time.Since(start), 400*time.Millisecond)
}

func TestTicketmasterPriceHeuristic(t *testing.T) {
	p := NewTicketmasterProvider(http.DefaultClient, "k")

	type pr = struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	}

	assert.Equal(t, "$25-45", p.formatPrice([]pr{{Min: 25, Max: 45}}))
	assert.Equal(t, "From $25", p.formatPrice([]pr{{Min: 25}}))
	assert.Equal(t, events.PriceUnknown, p.formatPrice([]pr{{}}))
	assert.Equal(t, events.PriceUnknown, p.formatPrice(nil))
}
