package analysis

import (
	"sort"

	"fleet-usage/internal/attribution"
	"fleet-usage/internal/model"
)

// AttributedCost is a cost entry with the plant that owned the asset when it occurred.
type AttributedCost struct {
	model.CostEntry
	PlantID string `json:"plant_id"`
}

type PlantCosts struct {
	PlantID    string             `json:"plant_id"`
	Total      float64            `json:"total"`
	Entries    int                `json:"entries"`
	ByCategory map[string]float64 `json:"by_category"`
}

type CostReport struct {
	Total  float64          `json:"total"`
	Plants []PlantCosts     `json:"plants"`
	Costs  []AttributedCost `json:"costs"`
}

// AttributeCosts assigns every cost to the plant owning its asset at the
// cost instant. Unknown assets fall back to an empty current plant.
// Plants are sorted descending by total.
func AttributeCosts(costs []model.CostEntry, assets []model.Asset, history attribution.History) CostReport {
	current := make(map[string]string, len(assets))
	for _, a := range assets {
		current[a.ID] = a.CurrentPlantID
	}

	var rep CostReport
	byPlant := make(map[string]*PlantCosts)
	for _, c := range costs {
		// A cost without a usable date stays with the asset's current plant.
		plant := plantKey(attribution.ResolvePlantAt(c.AssetID, c.OccurredAt, current[c.AssetID], history))
		rep.Costs = append(rep.Costs, AttributedCost{CostEntry: c, PlantID: plant})
		rep.Total += c.Amount

		pc, ok := byPlant[plant]
		if !ok {
			pc = &PlantCosts{PlantID: plant, ByCategory: map[string]float64{}}
			byPlant[plant] = pc
		}
		pc.Total += c.Amount
		pc.Entries++
		category := c.Category
		if category == "" {
			category = "uncategorized"
		}
		pc.ByCategory[category] += c.Amount
	}

	rep.Plants = make([]PlantCosts, 0, len(byPlant))
	for _, pc := range byPlant {
		rep.Plants = append(rep.Plants, *pc)
	}
	sort.Slice(rep.Plants, func(i, j int) bool {
		if rep.Plants[i].Total != rep.Plants[j].Total {
			return rep.Plants[i].Total > rep.Plants[j].Total
		}
		return rep.Plants[i].PlantID < rep.Plants[j].PlantID
	})
	return rep
}
