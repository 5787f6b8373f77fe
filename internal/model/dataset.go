package model

// Dataset is the JSON interchange shape for a fleet export.
// Timestamps stay strings so that unparsable rows degrade at read time
// instead of failing the whole file.
//
// Example:
//
//	{
//	  "assets": [{"id": "EX-01", "name": "Excavator 1", "current_plant_id": "P2"}],
//	  "assignments": [{"asset_id": "EX-01", "previous_plant_id": "P1", "new_plant_id": "P2", "occurred_at": "2025-03-01"}],
//	  "checklists": [{"asset_id": "EX-01", "recorded_at": "2025-03-02T08:00:00Z", "hours": 1520}],
//	  "diesel": [{"asset_id": "EX-01", "plant_id": "P2", "dispensed_at": "2025-03-03T10:00:00Z", "horometer": 1531, "liters": 180}],
//	  "costs": [{"asset_id": "EX-01", "occurred_at": "2025-03-04", "amount": 1200, "category": "corrective"}]
//	}
type Dataset struct {
	Assets      []Asset         `json:"assets"`
	Assignments []AssignmentRow `json:"assignments"`
	Checklists  []ChecklistRow  `json:"checklists"`
	Diesel      []DieselRow     `json:"diesel"`
	Costs       []CostRow       `json:"costs,omitempty"`
}

// AssignmentRow is a raw plant history row. Nil plant IDs are SQL NULLs.
type AssignmentRow struct {
	AssetID         string  `json:"asset_id"`
	PreviousPlantID *string `json:"previous_plant_id"`
	NewPlantID      *string `json:"new_plant_id"`
	OccurredAt      string  `json:"occurred_at"`
}

func (r AssignmentRow) Event() AssignmentEvent {
	at, _ := ParseTimestamp(r.OccurredAt)
	return AssignmentEvent{
		AssetID:         r.AssetID,
		PreviousPlantID: deref(r.PreviousPlantID),
		NewPlantID:      deref(r.NewPlantID),
		OccurredAt:      at,
	}
}

// ChecklistRow is a completed maintenance checklist carrying an hours/km field.
type ChecklistRow struct {
	AssetID    string   `json:"asset_id"`
	RecordedAt string   `json:"recorded_at"`
	Hours      *float64 `json:"hours"`
}

// Reading reports false when the row carries no counter value.
func (r ChecklistRow) Reading() (UsageReading, bool) {
	if r.Hours == nil {
		return UsageReading{}, false
	}
	at, _ := ParseTimestamp(r.RecordedAt)
	return UsageReading{Timestamp: at, Value: *r.Hours, Source: SourceChecklist}, true
}

// DieselRow is a fuel dispense transaction carrying a horometer/odometer field.
type DieselRow struct {
	AssetID     string   `json:"asset_id"`
	PlantID     string   `json:"plant_id,omitempty"`
	DispensedAt string   `json:"dispensed_at"`
	Horometer   *float64 `json:"horometer"`
	Liters      float64  `json:"liters,omitempty"`
}

func (r DieselRow) Reading() (UsageReading, bool) {
	if r.Horometer == nil {
		return UsageReading{}, false
	}
	at, _ := ParseTimestamp(r.DispensedAt)
	return UsageReading{Timestamp: at, Value: *r.Horometer, Source: SourceDiesel}, true
}

type CostRow struct {
	AssetID    string  `json:"asset_id"`
	OccurredAt string  `json:"occurred_at"`
	Amount     float64 `json:"amount"`
	Category   string  `json:"category"`
}

func (r CostRow) Entry() CostEntry {
	at, _ := ParseTimestamp(r.OccurredAt)
	return CostEntry{AssetID: r.AssetID, OccurredAt: at, Amount: r.Amount, Category: r.Category}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns nil for the empty string, matching a nullable column.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
