package usage

import (
	"fleet-usage/internal/model"
)

// Inputs are the raw readings for one asset plus the reporting window.
// Checklist and Diesel should start LookbackDays before the window so a
// baseline exists; DieselExtended feeds only the envelope and defaults to
// Diesel when nil.
type Inputs struct {
	Checklist      []model.UsageReading
	Diesel         []model.UsageReading
	DieselExtended []model.UsageReading
	Window         model.ReportingWindow
}

// Segment is one consecutive pair of merged events that was evaluated.
type Segment struct {
	From    model.UsageReading `json:"from"`
	To      model.UsageReading `json:"to"`
	Days    float64            `json:"days"`
	Delta   float64            `json:"delta"`
	Counted float64            `json:"counted"`
	// Capped: the rate exceeded MaxPerDay and Counted was clipped.
	Capped bool `json:"capped,omitempty"`
	// Reset: the counter went backwards and nothing was counted.
	Reset bool `json:"reset,omitempty"`
}

// Result is the reconciled usage plus what each stage did to get there.
type Result struct {
	Total float64 `json:"total"`

	Envelope *Envelope `json:"envelope,omitempty"`

	InvalidReadings  int `json:"invalid_readings"`
	DieselKept       int `json:"diesel_kept"`
	DieselDropped    int `json:"diesel_dropped"`
	ChecklistKept    int `json:"checklist_kept"`
	ChecklistDropped int `json:"checklist_dropped"`
	Duplicates       int `json:"duplicates"`
	Events           int `json:"events"`

	// Baseline is the event accumulation starts from; nil when none was usable.
	Baseline *model.UsageReading `json:"baseline,omitempty"`

	Segments       []Segment `json:"segments,omitempty"`
	CappedSegments int       `json:"capped_segments"`
	ResetSegments  int       `json:"reset_segments"`
}

type Reconciler struct {
	Params Params
}

// New returns a reconciler; zero fields in p take their defaults.
func New(p Params) *Reconciler {
	return &Reconciler{Params: p.WithDefaults()}
}

// AccumulatedUsage reconciles in with DefaultParams and returns the total.
func AccumulatedUsage(in Inputs) float64 {
	return New(DefaultParams()).Reconcile(in).Total
}

// Reconcile returns the plausible usage accumulated within in.Window.
// It never fails: missing or contradictory data yields a zero total.
func (r *Reconciler) Reconcile(in Inputs) Result {
	p := r.Params
	var res Result

	diesel, invalidDiesel := sanitize(in.Diesel)
	checklist, invalidChecklist := sanitize(in.Checklist)
	res.InvalidReadings = invalidDiesel + invalidChecklist

	// 1. Per-reading consistency on diesel.
	dieselKept, dieselDropped := FilterConsistent(diesel, p)
	res.DieselKept, res.DieselDropped = len(dieselKept), len(dieselDropped)

	// 2. Envelope from the wider diesel sample.
	extended := in.DieselExtended
	if extended == nil {
		extended = in.Diesel
	}
	res.Envelope = BuildEnvelope(extended, p)

	// 3. Checklists must agree with the diesel evidence.
	checklistKept, checklistDropped := FilterByEnvelope(checklist, res.Envelope)
	res.ChecklistKept, res.ChecklistDropped = len(checklistKept), len(checklistDropped)

	// 4. One timeline.
	events, dups := Merge(dieselKept, checklistKept)
	res.Events, res.Duplicates = len(events), dups
	if len(events) < 2 {
		return res
	}

	// 5. Baseline.
	base := baselineIndex(events, in.Window)
	if base < 0 {
		return res
	}
	baseline := events[base]
	res.Baseline = &baseline

	// 6. Accumulate.
	for i := base; i < len(events)-1; i++ {
		cur, next := events[i], events[i+1]
		if !cur.Timestamp.Before(in.Window.ToExclusive) {
			break
		}
		if next.Timestamp.Before(in.Window.From) {
			continue
		}
		seg := Segment{
			From:  cur,
			To:    next,
			Days:  daysBetween(cur.Timestamp, next.Timestamp),
			Delta: next.Value - cur.Value,
		}
		if seg.Delta < 0 {
			seg.Reset = true
			res.ResetSegments++
			res.Segments = append(res.Segments, seg)
			continue
		}
		seg.Counted = seg.Delta
		if limit := p.MaxPerDay * seg.Days; seg.Delta > limit {
			// Too fast for one elapsed period: real but uncertain usage, clip it.
			seg.Counted = max(limit, 0)
			seg.Capped = true
			res.CappedSegments++
		}
		res.Total += seg.Counted
		res.Segments = append(res.Segments, seg)
	}

	// 7.
	return res
}

// baselineIndex is the last event strictly before the window, or else the
// first event inside or after it. -1 when neither exists.
func baselineIndex(events []model.UsageReading, w model.ReportingWindow) int {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Timestamp.Before(w.From) {
			return i
		}
	}
	for i, ev := range events {
		if !ev.Timestamp.Before(w.From) {
			return i
		}
	}
	return -1
}
