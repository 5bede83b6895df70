package events

import (
	"sort"
	"strings"
)

// dedupKey identifies an event for cross-provider deduplication. Name and
// venue are case-normalized only; there is no trimming or fuzzy matching,
// so "Blue Note" and "Blue Note " (trailing space) are distinct venues.
func dedupKey(e Event) string {
	return strings.ToLower(e.Name) + "_" + e.Date + "_" + strings.ToLower(e.Venue)
}

// Deduplicate collapses events sharing a dedup key into one record. The
// first occurrence is canonical and is kept; later occurrences are dropped
// from the output but may enrich the canonical record field by field.
func Deduplicate(in []Event) []Event {
	out := make([]Event, 0, len(in))
	index := make(map[string]int, len(in))

	for _, e := range in {
		k := dedupKey(e)
		if i, ok := index[k]; ok {
			enrich(&out[i], e)
			continue
		}
		index[k] = len(out)
		out = append(out, e)
	}

	return out
}

// enrich copies a small, fixed set of fields from a duplicate onto the
// canonical event when the canonical record is missing them. Price is also
// replaced when it still holds the unknown-price sentinel. No other fields
// are merged.
func enrich(canonical *Event, dup Event) {
	if canonical.Image == "" && dup.Image != "" {
		canonical.Image = dup.Image
	}
	if (canonical.Price == "" || canonical.Price == PriceUnknown) &&
		dup.Price != "" && dup.Price != PriceUnknown {
		canonical.Price = dup.Price
	}
	if canonical.URL == "" && dup.URL != "" {
		canonical.URL = dup.URL
	}
	if canonical.Coordinates == nil && dup.Coordinates != nil {
		canonical.Coordinates = dup.Coordinates
	}
}

// sortEvents orders events ascending by their combined "date time" string.
// Events missing a date are not relocated: the empty date sorts ahead of
// any real one and stability keeps their relative input order.
func sortEvents(evs []Event) {
	sort.SliceStable(evs, func(i, j int) bool {
		return evs[i].Date+" "+evs[i].Time < evs[j].Date+" "+evs[j].Time
	})
}
