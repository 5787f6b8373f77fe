package model

import (
	"errors"
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// ReportingWindow is the half-open interval [From, ToExclusive).
type ReportingWindow struct {
	From        time.Time `json:"from"`
	ToExclusive time.Time `json:"to_exclusive"`
}

// WindowFromDates builds a window from inclusive calendar dates.
// ToExclusive is to + 1 day so readings taken on the last day are kept.
func WindowFromDates(from, to time.Time) (ReportingWindow, error) {
	if from.IsZero() || to.IsZero() {
		return ReportingWindow{}, errors.New("from and to are required")
	}
	w := ReportingWindow{
		From:        startOfDay(from),
		ToExclusive: startOfDay(to).AddDate(0, 0, 1),
	}
	if !w.From.Before(w.ToExclusive) {
		return ReportingWindow{}, fmt.Errorf("from %s must not be after to %s", from.Format(DateLayout), to.Format(DateLayout))
	}
	return w, nil
}

// ParseWindow parses inclusive YYYY-MM-DD dates in UTC.
func ParseWindow(from, to string) (ReportingWindow, error) {
	f, err := time.Parse(DateLayout, from)
	if err != nil {
		return ReportingWindow{}, fmt.Errorf("invalid from date (expected YYYY-MM-DD): %w", err)
	}
	t, err := time.Parse(DateLayout, to)
	if err != nil {
		return ReportingWindow{}, fmt.Errorf("invalid to date (expected YYYY-MM-DD): %w", err)
	}
	return WindowFromDates(f, t)
}

func (w ReportingWindow) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.ToExclusive)
}

func (w ReportingWindow) Days() float64 {
	return w.ToExclusive.Sub(w.From).Hours() / 24
}

// AttributionInstant is the last instant inside the window (period end).
// Plant ownership for a whole period is evaluated here.
func (w ReportingWindow) AttributionInstant() time.Time {
	return w.ToExclusive.Add(-time.Millisecond)
}

// LastDay is the inclusive calendar end date of the window.
func (w ReportingWindow) LastDay() time.Time {
	return w.ToExclusive.AddDate(0, 0, -1)
}

func (w ReportingWindow) String() string {
	return fmt.Sprintf("[%s, %s)", w.From.Format(time.RFC3339), w.ToExclusive.Format(time.RFC3339))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
