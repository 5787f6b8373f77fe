package usage

import (
	"fmt"

	"fleet-usage/internal/model"
)

// Envelope is the band of counter values considered physically plausible
// given the diesel evidence.
type Envelope struct {
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	AllowedMin float64 `json:"allowed_min"`
	AllowedMax float64 `json:"allowed_max"`
	Samples    int     `json:"samples"`
}

// BuildEnvelope runs the consistency filter over the extended diesel sample
// and widens the surviving [min, max] by EnvelopeRangeFactor ranges on each
// side. It returns nil when no diesel reading survives.
func BuildEnvelope(extended []model.UsageReading, p Params) *Envelope {
	kept, _ := FilterConsistent(extended, p)
	if len(kept) == 0 {
		return nil
	}
	env := &Envelope{Min: kept[0].Value, Max: kept[0].Value, Samples: len(kept)}
	for _, r := range kept[1:] {
		if r.Value < env.Min {
			env.Min = r.Value
		}
		if r.Value > env.Max {
			env.Max = r.Value
		}
	}
	spread := p.EnvelopeRangeFactor * (env.Max - env.Min)
	env.AllowedMin = env.Min - spread
	env.AllowedMax = env.Max + spread
	return env
}

// Contains reports whether v lies inside the allowed band (inclusive).
// A nil envelope contains everything.
func (e *Envelope) Contains(v float64) bool {
	if e == nil {
		return true
	}
	return v >= e.AllowedMin && v <= e.AllowedMax
}

func (e *Envelope) String() string {
	if e == nil {
		return "none"
	}
	return fmt.Sprintf("[%.2f, %.2f] from %d diesel readings", e.AllowedMin, e.AllowedMax, e.Samples)
}

// FilterByEnvelope keeps checklist readings whose value lies inside env.
// Without diesel evidence (nil env) checklists are trusted as-is.
func FilterByEnvelope(checklist []model.UsageReading, env *Envelope) (kept, dropped []model.UsageReading) {
	for _, r := range checklist {
		if env.Contains(r.Value) {
			kept = append(kept, r)
		} else {
			dropped = append(dropped, r)
		}
	}
	return kept, dropped
}
