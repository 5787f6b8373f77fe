package attribution

import (
	"sort"
	"time"

	"fleet-usage/internal/model"
)

// ResolvePlantAtTimestamp is ResolvePlantAt for a stored (string) timestamp.
// An empty or unparsable eventDate resolves to currentPlantID.
func ResolvePlantAtTimestamp(assetID, eventDate, currentPlantID string, history History) string {
	at, ok := model.ParseTimestamp(eventDate)
	if !ok {
		return currentPlantID
	}
	return ResolvePlantAt(assetID, at, currentPlantID, history)
}

// ResolvePlantAt returns the plant the asset was assigned to at instant at.
// The empty string means no plant is known.
//
// Rules:
//   - zero at, or no history for the asset: currentPlantID.
//   - otherwise the latest event with OccurredAt <= at wins. An event at
//     exactly at is already applied. Its NewPlantID is returned, or
//     currentPlantID when that is empty.
//   - at predates every event: the first event's PreviousPlantID, or
//     currentPlantID when that is empty.
func ResolvePlantAt(assetID string, at time.Time, currentPlantID string, history History) string {
	events := history.Events(assetID)
	if at.IsZero() || len(events) == 0 {
		return currentPlantID
	}

	idx := LatestAtOrBefore(events, at)
	if idx < 0 {
		return orFallback(events[0].PreviousPlantID, currentPlantID)
	}
	return orFallback(events[idx].NewPlantID, currentPlantID)
}

// LatestAtOrBefore returns the index of the last event with OccurredAt <= at,
// or -1 when every event is after at. events must be sorted ascending.
func LatestAtOrBefore(events []model.AssignmentEvent, at time.Time) int {
	// First index strictly after at; its predecessor is the answer.
	after := sort.Search(len(events), func(i int) bool {
		return events[i].OccurredAt.After(at)
	})
	return after - 1
}

func orFallback(plantID, fallback string) string {
	if plantID != "" {
		return plantID
	}
	return fallback
}
