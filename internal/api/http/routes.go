package httpapi

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/u9200347/event-discovery/internal/events"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
//
// The events handler is the aggregation engine's caller and therefore owns
// the fallback chain: an empty aggregation result is replaced by the
// template generator's events (tier 1), and should even that come back
// empty, by a broader mock set (tier 2). The endpoint never responds with
// zero events.
func RegisterRoutes(app *fiber.App, service *events.Service, gen *events.Generator) {
	v1 := app.Group("/api/v1")

	v1.Get("/events", func(c *fiber.Ctx) error {
		req, err := parseEventsQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		q := req.toQuery()

		res := service.FetchAllEvents(c.UserContext(), q)

		evs := res.Events
		if len(evs) == 0 {
			evs = gen.FreeEvents(q)
		}
		if len(evs) == 0 {
			evs = generateMockEvents(q, nil)
		}

		return c.JSON(fiber.Map{
			"events":     evs,
			"sources":    res.Sources,
			"cached":     res.Cached,
			"totalCount": len(evs),
		})
	})
}

// eventsQuery holds query parameters for the events endpoint.
type eventsQuery struct {
	City      string `validate:"required"`
	StartDate string `validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `validate:"omitempty,datetime=2006-01-02"`
}

// toQuery defaults the date range to today through +7 days; the engine
// itself never defaults dates.
func (e eventsQuery) toQuery() events.Query {
	start := e.StartDate
	if start == "" {
		start = time.Now().UTC().Format("2006-01-02")
	}

	end := e.EndDate
	if end == "" {
		base, err := time.Parse("2006-01-02", start)
		if err != nil {
			base = time.Now().UTC()
		}
		end = base.AddDate(0, 0, 7).Format("2006-01-02")
	}

	return events.Query{City: e.City, StartDate: start, EndDate: end}
}

func parseEventsQuery(c *fiber.Ctx) (eventsQuery, error) {
	q := eventsQuery{
		City:      c.Query("city"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}
