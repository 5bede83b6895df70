package events

import (
	"context"
	"log"
	"sync"
	"time"
)

// Service orchestrates fetching from all enabled providers, deduplicating
// the combined results, and caching them per query.
type Service struct {
	cache     Cache
	providers []Provider

	// timeout bounds each individual provider call. The call's context is
	// cancelled at the deadline and the provider counts as failed.
	timeout time.Duration
}

// NewService creates a new Service. providers must contain only enabled
// adapters; timeout <= 0 falls back to 5 seconds.
func NewService(cache Cache, providers []Provider, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		cache:     cache,
		providers: providers,
		timeout:   timeout,
	}
}

// Sources returns the names of the enabled providers.
func (s *Service) Sources() []string {
	names := make([]string, 0, len(s.providers))
	for _, p := range s.providers {
		names = append(names, p.Name())
	}
	return names
}

// FetchAllEvents is the public entry point of the aggregation engine.
//
// A fresh cache entry for the query short-circuits everything and is
// returned with Cached=true. On a miss, every enabled provider is invoked
// concurrently with settle-all semantics: all calls are awaited, each
// bounded by its own deadline, and any failure contributes an empty list
// without disturbing its siblings. The combined set is deduplicated,
// sorted by (date, time), written through the cache, and returned with
// Cached=false.
//
// FetchAllEvents never returns an error. An empty result is a valid
// outcome (the caller's fallback tier handles it), and an unexpected
// internal fault degrades to an empty, well-formed Result.
//
// Concurrent calls for the same key may race: both fetch from providers
// and both write the cache, last writer wins. Accepted in exchange for not
// coalescing in-flight requests.
func (s *Service) FetchAllEvents(ctx context.Context, q Query) (res Result) {
	sources := s.Sources()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: aggregation panic for %s: %v", q.CacheKey(), r)
			res = Result{Events: []Event{}, Sources: sources, Cached: false}
		}
	}()

	key := q.CacheKey()

	if evs, ok := s.cache.Get(key); ok {
		log.Printf("DEBUG: cache hit for %s (%d events)", key, len(evs))
		return Result{Events: evs, Sources: sources, Cached: true}
	}

	log.Printf("DEBUG: cache miss for %s; querying %d providers", key, len(s.providers))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		collected []Event
	)

	for _, p := range s.providers {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()

			// A panicking adapter counts as a failed adapter.
			defer func() {
				if r := recover(); r != nil {
					log.Printf("ERROR: provider %s panicked for %s: %v", p.Name(), key, r)
				}
			}()

			callCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			evs, err := p.Fetch(callCtx, q)
			if err != nil {
				// Log and continue; one provider's failure must not
				// disturb the others.
				log.Printf("provider %s fetch failed for %s: %v", p.Name(), key, err)
				return
			}

			mu.Lock()
			collected = append(collected, evs...)
			mu.Unlock()
		}()
	}

	wg.Wait()

	merged := Deduplicate(collected)
	sortEvents(merged)

	s.cache.Set(key, merged)

	return Result{Events: merged, Sources: sources, Cached: false}
}
