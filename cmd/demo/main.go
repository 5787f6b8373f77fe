package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"fleet-usage/internal/analysis"
	"fleet-usage/internal/data"
	"fleet-usage/internal/model"
	"fleet-usage/internal/report"
	"fleet-usage/internal/usage"
)

// Demo:
// - Generate a synthetic fleet with relocations and noisy counter readings
// - Write it as a JSON dataset (usable with store.driver=json or import-dataset)
// - Reconcile the last month and show how the noise was filtered
func main() {
	outPath := flag.String("out", "data/demo_fleet.json", "Path to write the generated dataset")
	nAssets := flag.Int("assets", 12, "Number of assets")
	nPlants := flag.Int("plants", 3, "Number of plants")
	days := flag.Int("days", 120, "Days of history to generate, ending yesterday")
	seed := flag.Int64("seed", 7, "Random seed")
	flag.Parse()

	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -*days)
	rng := rand.New(rand.NewSource(*seed))

	ds := generate(rng, *nAssets, *nPlants, start, end)
	if err := data.SaveDataset(ds, *outPath); err != nil {
		panic(err)
	}
	fmt.Printf("Wrote %d assets, %d relocations, %d checklists, %d diesel rows, %d costs to %s\n",
		len(ds.Assets), len(ds.Assignments), len(ds.Checklists), len(ds.Diesel), len(ds.Costs), *outPath)

	w, err := model.WindowFromDates(end.AddDate(0, 0, -30), end.AddDate(0, 0, -1))
	if err != nil {
		panic(err)
	}
	res, err := report.New(usage.DefaultParams(), 4, nil).Run(context.Background(), data.NewMemorySource(ds), w)
	if err != nil {
		panic(err)
	}

	fmt.Printf("\nWindow %s\n", w)
	for _, r := range res.Rows {
		fmt.Printf(
			"%-6s plant=%-4s usage=%8.2f  diesel drop=%d  checklist drop=%d  capped=%d  resets=%d\n",
			r.AssetID,
			r.PlantID,
			r.Usage,
			r.DieselDropped,
			r.ChecklistDropped,
			r.CappedSegments,
			r.ResetSegments,
		)
	}
	fmt.Println()
	for i, p := range analysis.RollupByPlant(res.Rows) {
		fmt.Printf("#%d %-4s assets=%d total=%.2f p95=%.2f\n", i+1, p.PlantID, p.Assets, p.TotalUsage, p.P95Usage)
	}
	fmt.Printf("\nDone. Total usage=%.2f\n", res.TotalUsage)
}

func generate(rng *rand.Rand, nAssets, nPlants int, start, end time.Time) *model.Dataset {
	ds := &model.Dataset{}
	if nPlants < 1 {
		nPlants = 1
	}
	plants := make([]string, nPlants)
	for i := range plants {
		plants[i] = fmt.Sprintf("P%d", i+1)
	}

	for i := 0; i < nAssets; i++ {
		id := fmt.Sprintf("EQ-%02d", i+1)
		plant := plants[rng.Intn(len(plants))]

		// Zero to two relocations, in time order.
		moves := make([]time.Time, rng.Intn(3))
		for m := range moves {
			moves[m] = start.Add(time.Duration(rng.Int63n(int64(end.Sub(start)))))
		}
		sort.Slice(moves, func(a, b int) bool { return moves[a].Before(moves[b]) })
		for _, at := range moves {
			next := plants[rng.Intn(len(plants))]
			if next == plant {
				continue
			}
			ds.Assignments = append(ds.Assignments, model.AssignmentRow{
				AssetID:         id,
				PreviousPlantID: model.StringPtr(plant),
				NewPlantID:      model.StringPtr(next),
				OccurredAt:      at.Format(time.RFC3339),
			})
			plant = next
		}
		ds.Assets = append(ds.Assets, model.Asset{ID: id, Name: fmt.Sprintf("Equipment %d", i+1), CurrentPlantID: plant})

		counter := 500 + rng.Float64()*4000
		hoursPerDay := 3 + rng.Float64()*12
		for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
			counter += hoursPerDay * (0.5 + rng.Float64())
			at := d.Add(time.Duration(7+rng.Intn(10)) * time.Hour)

			if rng.Intn(3) == 0 {
				v := noisy(rng, counter)
				ds.Checklists = append(ds.Checklists, model.ChecklistRow{
					AssetID:    id,
					RecordedAt: at.Format("2006-01-02 15:04:05"),
					Hours:      &v,
				})
			}
			if rng.Intn(5) == 0 {
				v := counter
				if rng.Intn(25) == 0 {
					v *= 10 // extra digit typed at the pump
				}
				ds.Diesel = append(ds.Diesel, model.DieselRow{
					AssetID:     id,
					PlantID:     plant,
					DispensedAt: at.Add(30 * time.Minute).Format(time.RFC3339),
					Horometer:   &v,
					Liters:      50 + rng.Float64()*250,
				})
			}
			if rng.Intn(40) == 0 {
				ds.Costs = append(ds.Costs, model.CostRow{
					AssetID:    id,
					OccurredAt: d.Format(model.DateLayout),
					Amount:     float64(100 + rng.Intn(3000)),
					Category:   []string{"preventive", "corrective", "parts"}[rng.Intn(3)],
				})
			}
		}
	}
	return ds
}

// noisy returns v with the kinds of mistakes operators make on checklists.
func noisy(rng *rand.Rand, v float64) float64 {
	switch rng.Intn(30) {
	case 0:
		return 0
	case 1:
		return v / 10
	case 2:
		return v + 1000
	default:
		return v
	}
}
