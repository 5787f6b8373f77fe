package analysis

import (
	"math"
	"sort"

	"fleet-usage/internal/report"
)

// UnassignedPlant labels assets whose plant could not be resolved.
const UnassignedPlant = "unassigned"

// PlantUsage is a plant-level summary of a usage report, used for ranking.
type PlantUsage struct {
	PlantID string `json:"plant_id"`

	Assets         int `json:"assets"`
	AssetsWithData int `json:"assets_with_data"`

	TotalUsage float64 `json:"total_usage"`
	MeanUsage  float64 `json:"mean_usage"`
	MinUsage   float64 `json:"min_usage"`
	MaxUsage   float64 `json:"max_usage"`
	P95Usage   float64 `json:"p95_usage"`

	CappedSegments int `json:"capped_segments"`
	ResetSegments  int `json:"reset_segments"`
}

// ComputePlantUsage summarizes the rows of one plant.
func ComputePlantUsage(plantID string, rows []report.Row) PlantUsage {
	p := PlantUsage{PlantID: plantID}
	if len(rows) == 0 {
		return p
	}
	p.Assets = len(rows)

	minv := math.Inf(1)
	maxv := math.Inf(-1)
	vals := make([]float64, 0, len(rows))
	for _, r := range rows {
		v := r.Usage
		vals = append(vals, v)
		p.TotalUsage += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
		if r.Events >= 2 {
			p.AssetsWithData++
		}
		p.CappedSegments += r.CappedSegments
		p.ResetSegments += r.ResetSegments
	}
	sort.Float64s(vals)
	p.MinUsage = minv
	p.MaxUsage = maxv
	p.MeanUsage = p.TotalUsage / float64(len(vals))
	p.P95Usage = percentileSorted(vals, 0.95)
	return p
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func plantKey(id string) string {
	if id == "" {
		return UnassignedPlant
	}
	return id
}
