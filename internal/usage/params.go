// Package usage reconciles checklist and diesel-dispense counter readings
// into one plausible usage figure for a reporting window.
//
// The pipeline runs in a fixed order and every stage is a hard filter:
// consistency filter on diesel, diesel envelope, envelope filter on
// checklists, merge, baseline, capped accumulation.
package usage

import "errors"

// Params tunes the reconciler. DefaultParams matches the fleet's reporting rules.
type Params struct {
	// MaxPerDay is the physical ceiling on counter growth (hours/day or km/day).
	MaxPerDay float64 `yaml:"max_per_day" json:"max_per_day"`
	// LongGapDays disables the rate test between two diesel readings this far apart.
	LongGapDays float64 `yaml:"long_gap_days" json:"long_gap_days"`
	// EnvelopeRangeFactor widens the diesel [min, max] by this many ranges on each side.
	EnvelopeRangeFactor float64 `yaml:"envelope_range_factor" json:"envelope_range_factor"`
	// LookbackDays is how far before the window checklist and diesel rows are fetched.
	LookbackDays int `yaml:"lookback_days" json:"lookback_days"`
	// ExtendedLookbackDays is how far before the window the envelope sample starts.
	ExtendedLookbackDays int `yaml:"extended_lookback_days" json:"extended_lookback_days"`
}

func DefaultParams() Params {
	return Params{
		MaxPerDay:            24,
		LongGapDays:          60,
		EnvelopeRangeFactor:  2,
		LookbackDays:         30,
		ExtendedLookbackDays: 30,
	}
}

// WithDefaults fills zero fields from DefaultParams.
func (p Params) WithDefaults() Params {
	d := DefaultParams()
	if p.MaxPerDay == 0 {
		p.MaxPerDay = d.MaxPerDay
	}
	if p.LongGapDays == 0 {
		p.LongGapDays = d.LongGapDays
	}
	if p.EnvelopeRangeFactor == 0 {
		p.EnvelopeRangeFactor = d.EnvelopeRangeFactor
	}
	if p.LookbackDays == 0 {
		p.LookbackDays = d.LookbackDays
	}
	if p.ExtendedLookbackDays == 0 {
		p.ExtendedLookbackDays = d.ExtendedLookbackDays
	}
	return p
}

func (p Params) Validate() error {
	if p.MaxPerDay <= 0 {
		return errors.New("max_per_day must be > 0")
	}
	if p.LongGapDays <= 0 {
		return errors.New("long_gap_days must be > 0")
	}
	if p.EnvelopeRangeFactor < 0 {
		return errors.New("envelope_range_factor must be >= 0")
	}
	if p.LookbackDays < 0 || p.ExtendedLookbackDays < 0 {
		return errors.New("lookback days must be >= 0")
	}
	return nil
}
