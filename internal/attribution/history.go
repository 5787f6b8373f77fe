// Package attribution answers "which plant owned asset A at instant T"
// from the append-only plant relocation log.
package attribution

import (
	"sort"

	"fleet-usage/internal/model"
)

// History maps an asset ID to its relocation events, ascending by OccurredAt.
type History map[string][]model.AssignmentEvent

// BuildAssignmentHistoryMap groups a flat event list by asset and sorts each
// group ascending by OccurredAt. Events with a zero (unparsable) timestamp
// cannot be placed on the timeline and are left out.
// The sort is stable, so events sharing a timestamp keep their log order.
func BuildAssignmentHistoryMap(rows []model.AssignmentEvent) History {
	out := History{}
	for _, ev := range rows {
		if ev.AssetID == "" || ev.OccurredAt.IsZero() {
			continue
		}
		out[ev.AssetID] = append(out[ev.AssetID], ev)
	}
	for _, events := range out {
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].OccurredAt.Before(events[j].OccurredAt)
		})
	}
	return out
}

// Events returns the sorted history for one asset (nil when unknown).
func (h History) Events(assetID string) []model.AssignmentEvent {
	if h == nil {
		return nil
	}
	return h[assetID]
}

// Assets returns the asset IDs present in the history, sorted.
func (h History) Assets() []string {
	ids := make([]string, 0, len(h))
	for id := range h {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
