package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/u9200347/event-discovery/internal/events"
)

// Scheduler periodically re-aggregates events for a fixed list of popular
// cities so interactive requests for them land on a warm cache. The
// interval should sit just inside the cache TTL.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *events.Service
	cities    []string
	interval  time.Duration
}

// New creates a new Scheduler.
func New(cities []string, interval time.Duration, service *events.Service) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		cities:    cities,
		interval:  interval,
	}
}

// Start schedules the prewarm job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.cities) == 0 {
		log.Println("scheduler: no prewarm cities configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 25
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: running cache prewarm job")

		start := time.Now().UTC().Format("2006-01-02")
		end := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")

		var wg sync.WaitGroup
		for _, city := range s.cities {
			city := city
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				q := events.Query{City: city, StartDate: start, EndDate: end}
				res := s.service.FetchAllEvents(ctx, q)
				log.Printf("scheduler: prewarmed %s (%d events)", q.CacheKey(), len(res.Events))
			}()
		}
		wg.Wait()
		log.Println("scheduler: completed cache prewarm job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
