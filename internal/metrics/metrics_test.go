package metrics

import (
	"testing"

	"fleet-usage/internal/usage"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveReconciliation(t *testing.T) {
	before := testutil.ToFloat64(ReadingsDropped.WithLabelValues("diesel", "inconsistent"))
	runs := testutil.ToFloat64(Reconciliations)
	ObserveReconciliation(usage.Result{DieselDropped: 3, CappedSegments: 1})
	if got := testutil.ToFloat64(ReadingsDropped.WithLabelValues("diesel", "inconsistent")); got != before+3 {
		t.Fatalf("expected %v dropped diesel readings, got %v", before+3, got)
	}
	if got := testutil.ToFloat64(Reconciliations); got != runs+1 {
		t.Fatalf("expected reconciliation counter to advance, got %v", got)
	}
}
