package usage

import (
	"sort"

	"fleet-usage/internal/model"
)

// Merge tags both streams with their source, sorts them into one timeline
// and removes exact consecutive (timestamp, value) duplicates.
// Readings sharing a timestamp are ordered by value.
func Merge(diesel, checklist []model.UsageReading) (events []model.UsageReading, duplicates int) {
	all := make([]model.UsageReading, 0, len(diesel)+len(checklist))
	for _, r := range diesel {
		r.Source = model.SourceDiesel
		all = append(all, r)
	}
	for _, r := range checklist {
		r.Source = model.SourceChecklist
		all = append(all, r)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Timestamp.Equal(all[j].Timestamp) {
			return all[i].Value < all[j].Value
		}
		return all[i].Timestamp.Before(all[j].Timestamp)
	})

	events = make([]model.UsageReading, 0, len(all))
	for _, r := range all {
		if n := len(events); n > 0 {
			last := events[n-1]
			if last.Timestamp.Equal(r.Timestamp) && last.Value == r.Value {
				duplicates++
				continue
			}
		}
		events = append(events, r)
	}
	return events, duplicates
}
