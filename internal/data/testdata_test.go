package data

import "fleet-usage/internal/model"

func f(v float64) *float64 { return &v }

func sampleDataset() *model.Dataset {
	return &model.Dataset{
		Assets: []model.Asset{
			{ID: "EX-02", Name: "Excavator 2", CurrentPlantID: "P1"},
			{ID: "EX-01", Name: "Excavator 1", CurrentPlantID: "P2"},
		},
		Assignments: []model.AssignmentRow{
			{AssetID: "EX-01", NewPlantID: model.StringPtr("P1"), OccurredAt: "2025-01-10"},
			{AssetID: "EX-01", PreviousPlantID: model.StringPtr("P1"), NewPlantID: model.StringPtr("P2"), OccurredAt: "2025-03-01T00:00:00Z"},
			{AssetID: "EX-02", NewPlantID: model.StringPtr("P1"), OccurredAt: "not-a-date"},
		},
		Checklists: []model.ChecklistRow{
			{AssetID: "EX-01", RecordedAt: "2024-12-20T08:00:00Z", Hours: f(900)},
			{AssetID: "EX-01", RecordedAt: "2025-01-05T08:00:00Z", Hours: f(1000)},
			{AssetID: "EX-01", RecordedAt: "2025-01-20T08:00:00Z", Hours: f(1100)},
			{AssetID: "EX-01", RecordedAt: "2025-01-25T08:00:00Z"},
			{AssetID: "EX-01", RecordedAt: "garbage", Hours: f(5)},
		},
		Diesel: []model.DieselRow{
			{AssetID: "EX-01", PlantID: "P1", DispensedAt: "2025-01-02 10:00:00", Horometer: f(980), Liters: 200},
			{AssetID: "EX-01", PlantID: "P1", DispensedAt: "2025-01-15 10:00:00", Horometer: f(1060), Liters: 150},
			{AssetID: "EX-02", PlantID: "P1", DispensedAt: "2025-01-15 10:00:00", Horometer: f(50)},
		},
		Costs: []model.CostRow{
			{AssetID: "EX-01", OccurredAt: "2025-01-12", Amount: 300, Category: "preventive"},
			{AssetID: "EX-01", OccurredAt: "2025-03-05", Amount: 700, Category: "corrective"},
		},
	}
}
