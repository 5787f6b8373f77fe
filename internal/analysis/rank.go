package analysis

import (
	"sort"

	"fleet-usage/internal/report"
)

// RollupByPlant groups report rows by attributed plant and sorts plants
// descending by total usage, then by plant id.
func RollupByPlant(rows []report.Row) []PlantUsage {
	byPlant := make(map[string][]report.Row)
	for _, r := range rows {
		key := plantKey(r.PlantID)
		byPlant[key] = append(byPlant[key], r)
	}
	out := make([]PlantUsage, 0, len(byPlant))
	for plant, group := range byPlant {
		out = append(out, ComputePlantUsage(plant, group))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalUsage != out[j].TotalUsage {
			return out[i].TotalUsage > out[j].TotalUsage
		}
		return out[i].PlantID < out[j].PlantID
	})
	return out
}

// Top returns at most n leading entries; n <= 0 returns all.
func Top[T any](ranked []T, n int) []T {
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}
