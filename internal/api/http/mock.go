package httpapi

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/u9200347/event-discovery/internal/events"
)

// mockTemplate is one entry in the tier-2 generation catalog. It is
// intentionally broader than the engine's own archetype set: the point of
// this tier is volume, so the user is never shown an empty page.
type mockTemplate struct {
	name     string // may contain one %s for the city
	category string
	venue    string // may contain one %s for the city
	price    string
}

var mockTemplates = []mockTemplate{
	{"%s Symphony Orchestra", "Music", "%s Concert Hall", "$35-120"},
	{"Indie Rock Showcase", "Music", "The Velvet Stage", "$18-30"},
	{"%s FC Home Match", "Sports", "%s Stadium", "$25-85"},
	{"Minor League Baseball Night", "Sports", "Riverside Ballpark", "$12-28"},
	{"Contemporary Art Opening", "Arts", "%s Museum of Art", "Free"},
	{"Ceramics Workshop", "Arts", "Clayworks Studio", "From $40"},
	{"Night Market", "Food & Drink", "%s Warehouse District", "Free"},
	{"Chef's Table Pop-Up", "Food & Drink", "The Tasting Room", "From $75"},
	{"Startup Pitch Night", "Tech", "%s Innovation Hub", "Free"},
	{"Improv Comedy Hour", "Comedy", "Basement Theater", "$10-15"},
	{"Shakespeare in the Park", "Theater", "%s Amphitheater", "Free"},
	{"Latin Dance Social", "Nightlife", "Club Mezzanine", "$10-20"},
	{"Family Science Day", "Family", "%s Discovery Center", "$8-14"},
	{"Historic Walking Tour", "Tours", "Old Town Square", "From $15"},
}

var mockTimes = []string{"10:00", "12:30", "14:00", "17:00", "18:30", "19:00", "20:00", "21:30"}

// generateMockEvents synthesizes 3-8 events for every day in the query's
// range. rnd may be nil; tests inject a seeded source.
func generateMockEvents(q events.Query, rnd *rand.Rand) []events.Event {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	start, days := mockRangeDays(q.StartDate, q.EndDate)

	var out []events.Event
	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d).Format("2006-01-02")
		n := 3 + rnd.Intn(6)

		for i := 0; i < n; i++ {
			tpl := mockTemplates[rnd.Intn(len(mockTemplates))]

			out = append(out, events.Event{
				ID:       "mock_" + uuid.New().String(),
				Name:     substituteCity(tpl.name, q.City),
				Category: tpl.category,
				Venue:    substituteCity(tpl.venue, q.City),
				Date:     date,
				Time:     mockTimes[rnd.Intn(len(mockTimes))],
				Price:    tpl.price,
				Source:   "generated",
			})
		}
	}

	return out
}

func substituteCity(template, city string) string {
	if city == "" {
		city = "the city"
	}
	for i := 0; i+1 < len(template); i++ {
		if template[i] == '%' && template[i+1] == 's' {
			return fmt.Sprintf(template, city)
		}
	}
	return template
}

func mockRangeDays(startDate, endDate string) (time.Time, int) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return time.Now().UTC().Truncate(24 * time.Hour), 1
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil || end.Before(start) {
		return start, 1
	}
	return start, int(end.Sub(start).Hours()/24) + 1
}
