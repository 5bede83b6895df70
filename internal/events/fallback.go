package events

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// archetype is a template for one plausible local event. Name and venue
// may contain a single %s placeholder for the destination city.
type archetype struct {
	name        string
	category    string
	venue       string
	price       string
	description string
}

var freeArchetypes = []archetype{
	{
		name:        "%s Food & Wine Festival",
		category:    "Festival",
		venue:       "%s Convention Center",
		price:       "Free",
		description: "Sample dishes from local restaurants and regional wineries.",
	},
	{
		name:        "Jazz Night at the Park",
		category:    "Music",
		venue:       "%s Central Park Bandshell",
		price:       "Free",
		description: "An open-air evening of live jazz from local ensembles.",
	},
	{
		name:        "%s City Marathon Expo",
		category:    "Sports",
		venue:       "%s Expo Hall",
		price:       "Free",
		description: "Race-week expo with gear vendors and training clinics.",
	},
	{
		name:        "Stand-Up Comedy Showcase",
		category:    "Comedy",
		venue:       "The Laughing Room",
		price:       "$15-25",
		description: "A rotating lineup of touring and hometown comedians.",
	},
	{
		name:        "Downtown Farmers Market",
		category:    "Community",
		venue:       "%s Market Square",
		price:       "Free",
		description: "Weekly market with produce, crafts, and street food.",
	},
	{
		name:        "%s Art Walk",
		category:    "Arts",
		venue:       "Gallery District",
		price:       "Free",
		description: "Self-guided tour of open galleries and studio spaces.",
	},
	{
		name:        "Craft Beer Tasting",
		category:    "Food & Drink",
		venue:       "%s Brewing Co.",
		price:       "From $20",
		description: "Flights and tours from breweries around the region.",
	},
	{
		name:        "Outdoor Movie Night",
		category:    "Film",
		venue:       "%s Riverside Lawn",
		price:       "Free",
		description: "A family-friendly classic on the big inflatable screen.",
	},
}

// Generator produces synthetic placeholder events when no real provider is
// configured or all providers return nothing. It is the first fallback
// tier; the caller owns the broader second tier.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewGenerator creates a Generator. rnd may be nil, in which case a
// time-seeded source is used; tests inject a fixed seed.
func NewGenerator(rnd *rand.Rand) *Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rnd: rnd}
}

// FreeEvents generates template-based events for the query's city and date
// range. Each event gets a random date within [StartDate, EndDate] and a
// random evening-biased time. The total count is capped at
// min(days_in_range*3, 30) and by the size of the archetype catalog.
func (g *Generator) FreeEvents(q Query) []Event {
	start, days := rangeDays(q.StartDate, q.EndDate)

	limit := days * 3
	if limit > 30 {
		limit = 30
	}
	if limit > len(freeArchetypes) {
		limit = len(freeArchetypes)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	order := g.rnd.Perm(len(freeArchetypes))

	out := make([]Event, 0, limit)
	for _, idx := range order[:limit] {
		a := freeArchetypes[idx]

		date := start.AddDate(0, 0, g.rnd.Intn(days))
		hour := 10 + g.rnd.Intn(12) // 10:00 through 21:00
		minute := 30 * g.rnd.Intn(2)

		out = append(out, Event{
			ID:          "fallback_" + uuid.New().String(),
			Name:        substituteCity(a.name, q.City),
			Category:    a.category,
			Venue:       substituteCity(a.venue, q.City),
			Date:        date.Format("2006-01-02"),
			Time:        fmt.Sprintf("%02d:%02d", hour, minute),
			Price:       a.price,
			Description: a.description,
			Source:      "fallback",
		})
	}

	sortEvents(out)
	return out
}

func substituteCity(template, city string) string {
	if city == "" {
		city = "the city"
	}
	if !containsPlaceholder(template) {
		return template
	}
	return fmt.Sprintf(template, city)
}

func containsPlaceholder(s string) bool {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '%' && s[i+1] == 's' {
			return true
		}
	}
	return false
}

// rangeDays parses the inclusive date range and returns its start plus the
// number of days it spans. Unparseable or inverted ranges degrade to a
// single day starting today.
func rangeDays(startDate, endDate string) (time.Time, int) {
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
