package usage

import (
	"math"
	"sort"
	"time"

	"fleet-usage/internal/model"
)

// FilterConsistent keeps the readings that form a plausible counter sequence.
//
// Readings are sorted by time. The first one is always kept. Each later
// reading is compared with the last kept one and kept only when the counter
// did not go backwards and either the gap is at least LongGapDays or the
// implied rate is within MaxPerDay. Failing readings are dropped, not clipped:
// they are capture faults and must not become a comparison point.
//
// Two readings at the same instant are consistent only if they agree.
func FilterConsistent(readings []model.UsageReading, p Params) (kept, dropped []model.UsageReading) {
	sorted, _ := sanitize(readings)
	if len(sorted) == 0 {
		return nil, nil
	}
	kept = append(kept, sorted[0])
	for _, cur := range sorted[1:] {
		if plausibleStep(kept[len(kept)-1], cur, p) {
			kept = append(kept, cur)
		} else {
			dropped = append(dropped, cur)
		}
	}
	return kept, dropped
}

func plausibleStep(prev, cur model.UsageReading, p Params) bool {
	delta := cur.Value - prev.Value
	if delta < 0 {
		return false
	}
	days := daysBetween(prev.Timestamp, cur.Timestamp)
	if days >= p.LongGapDays {
		return true
	}
	if days <= 0 {
		return delta == 0
	}
	return delta/days <= p.MaxPerDay
}

// sanitize copies the readings, drops rows without a timestamp or with a
// non-finite value, and sorts ascending by time (stable).
func sanitize(readings []model.UsageReading) (out []model.UsageReading, invalid int) {
	out = make([]model.UsageReading, 0, len(readings))
	for _, r := range readings {
		if r.Timestamp.IsZero() || math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			invalid++
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, invalid
}

func daysBetween(a, b time.Time) float64 {
	return b.Sub(a).Hours() / 24
}
