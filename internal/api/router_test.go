package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fleet-usage/internal/api/handlers"
	"fleet-usage/internal/api/models"
	"fleet-usage/internal/data"
	"fleet-usage/internal/model"
	"fleet-usage/internal/usage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func f(v float64) *float64 { return &v }

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ds := &model.Dataset{
		Assets: []model.Asset{
			{ID: "EX-01", Name: "Excavator", CurrentPlantID: "P3"},
			{ID: "EX-02", Name: "Loader", CurrentPlantID: "P1"},
		},
		Assignments: []model.AssignmentRow{
			{AssetID: "EX-01", PreviousPlantID: model.StringPtr("P1"), NewPlantID: model.StringPtr("P2"), OccurredAt: "2025-01-15"},
			{AssetID: "EX-01", PreviousPlantID: model.StringPtr("P2"), NewPlantID: model.StringPtr("P3"), OccurredAt: "2025-02-10"},
		},
		Diesel: []model.DieselRow{
			{AssetID: "EX-01", DispensedAt: "2024-12-31T10:00:00Z", Horometer: f(1000)},
			{AssetID: "EX-01", DispensedAt: "2025-01-10T10:00:00Z", Horometer: f(1100)},
			{AssetID: "EX-01", DispensedAt: "2025-01-20T10:00:00Z", Horometer: f(1200)},
		},
		Checklists: []model.ChecklistRow{
			{AssetID: "EX-01", RecordedAt: "2025-01-15T10:00:00Z", Hours: f(1150)},
			{AssetID: "EX-01", RecordedAt: "2025-01-16T10:00:00Z", Hours: f(99999)},
		},
		Costs: []model.CostRow{
			{AssetID: "EX-01", OccurredAt: "2025-01-12", Amount: 300, Category: "preventive"},
			{AssetID: "EX-01", OccurredAt: "2025-01-20", Amount: 200, Category: "corrective"},
			{AssetID: "EX-01", OccurredAt: "2025-03-01", Amount: 999, Category: "corrective"},
		},
	}
	src := data.NewCachedSource(data.NewMemorySource(ds), 0)
	h := handlers.NewHandler(src, usage.DefaultParams(), 2, zap.NewNop())
	return NewRouter(h, nil, zap.NewNop())
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	if got := decode[models.ErrorResponse](t, rec); got.Error.Code != code {
		t.Fatalf("expected error code %s, got %+v", code, got.Error)
	}
}

func TestHealthMetricsAndRequestID(t *testing.T) {
	r := testRouter(t)
	rec := do(t, r, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health: %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a generated request id")
	}
	if rec := do(t, r, http.MethodGet, "/metrics", nil); rec.Code != http.StatusOK {
		t.Fatalf("metrics: %d", rec.Code)
	}
	expectError(t, do(t, r, http.MethodGet, "/api/v1/nope", nil), http.StatusNotFound, "NOT_FOUND")
}

func TestCORSPreflight(t *testing.T) {
	r := testRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/assets", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatal("expected CORS allow-origin header")
	}
}

func TestListAssets(t *testing.T) {
	rec := do(t, testRouter(t), http.MethodGet, "/api/v1/assets", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := decode[struct {
		Assets []model.Asset `json:"assets"`
		Count  int           `json:"count"`
	}](t, rec)
	if body.Count != 2 || body.Assets[0].ID != "EX-01" {
		t.Fatalf("unexpected assets: %+v", body)
	}
}

func TestGetAssetPlant(t *testing.T) {
	r := testRouter(t)
	cases := []struct {
		query string
		want  string
	}{
		{"", "P3"},
		{"?at=2024-12-01", "P1"},
		{"?at=2025-01-15", "P2"},
		{"?at=2025-01-20T12:00:00Z", "P2"},
		{"?at=2025-02-10", "P3"},
	}
	for _, tc := range cases {
		rec := do(t, r, http.MethodGet, "/api/v1/assets/EX-01/plant"+tc.query, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d", tc.query, rec.Code)
		}
		if got := decode[models.PlantResponse](t, rec); got.PlantID != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.query, tc.want, got.PlantID)
		}
	}
	expectError(t, do(t, r, http.MethodGet, "/api/v1/assets/EX-01/plant?at=yesterday", nil), http.StatusBadRequest, "INVALID_TIMESTAMP")
	expectError(t, do(t, r, http.MethodGet, "/api/v1/assets/ZZ/plant", nil), http.StatusNotFound, "ASSET_NOT_FOUND")
}

func TestGetAssetTimeline(t *testing.T) {
	rec := do(t, testRouter(t), http.MethodGet, "/api/v1/assets/EX-01/timeline?from=2025-01-01&to=2025-01-31", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[models.TimelineResponse](t, rec)
	if len(got.Spans) != 2 || got.Spans[0].PlantID != "P1" || got.Spans[1].PlantID != "P2" {
		t.Fatalf("unexpected spans: %+v", got.Spans)
	}
}

func TestGetAssetUsage(t *testing.T) {
	r := testRouter(t)
	rec := do(t, r, http.MethodGet, "/api/v1/assets/EX-01/usage?from=2025-01-01&to=2025-01-31", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[models.UsageResponse](t, rec)
	if got.Usage != 200 || got.PlantID != "P2" || got.Report.ChecklistDropped != 1 {
		t.Fatalf("unexpected usage: %+v", got)
	}
	if len(got.Report.Segments) != 0 || got.Window.To != "2025-01-31" {
		t.Fatalf("segments must be omitted by default: %+v", got)
	}

	rec = do(t, r, http.MethodGet, "/api/v1/assets/EX-01/usage?from=2025-01-01&to=2025-01-31&include_segments=true", nil)
	if got := decode[models.UsageResponse](t, rec); len(got.Report.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %+v", got.Report.Segments)
	}

	expectError(t, do(t, r, http.MethodGet, "/api/v1/assets/EX-01/usage?from=2025-01-01", nil), http.StatusBadRequest, "INVALID_REQUEST")
	expectError(t, do(t, r, http.MethodGet, "/api/v1/assets/EX-01/usage?from=2025-02-01&to=2025-01-01", nil), http.StatusBadRequest, "INVALID_WINDOW")
}

func TestReconcileEndpoint(t *testing.T) {
	r := testRouter(t)
	body := map[string]any{
		"from": "2025-01-01",
		"to":   "2025-01-31",
		"diesel": []map[string]any{
			{"timestamp": "2024-12-31T10:00:00Z", "value": 1000},
			{"timestamp": "2025-01-10T10:00:00Z", "value": 1100},
			{"timestamp": "2025-01-20T10:00:00Z", "value": 1200},
		},
		"checklist": []map[string]any{
			{"timestamp": "2025-01-15 10:00:00", "value": 1150},
			{"timestamp": "2025-01-16 10:00:00", "value": 99999},
			{"timestamp": "not a time", "value": 1160},
		},
	}
	rec := do(t, r, http.MethodPost, "/api/v1/usage/reconcile", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[models.ReconcileResponse](t, rec)
	if got.Usage != 200 || got.Result.ChecklistDropped != 1 || got.Result.InvalidReadings != 1 {
		t.Fatalf("unexpected result: %+v", got)
	}
	if got.Params.MaxPerDay != 24 {
		t.Fatalf("expected default params, got %+v", got.Params)
	}

	body["params"] = map[string]any{"max_per_day": 5}
	got = decode[models.ReconcileResponse](t, do(t, r, http.MethodPost, "/api/v1/usage/reconcile", body))
	if got.Usage != 0 || got.Params.MaxPerDay != 5 || got.Params.LongGapDays != 60 {
		t.Fatalf("override should reject every fast diesel step: %+v", got)
	}

	body["params"] = map[string]any{"max_per_day": -1}
	expectError(t, do(t, r, http.MethodPost, "/api/v1/usage/reconcile", body), http.StatusBadRequest, "INVALID_PARAMS")

	expectError(t, do(t, r, http.MethodPost, "/api/v1/usage/reconcile", map[string]any{"from": "2025-01-01"}), http.StatusBadRequest, "INVALID_REQUEST")
}

func TestResolveEndpoint(t *testing.T) {
	body := map[string]any{
		"asset_id":         "EX-09",
		"current_plant_id": "P3",
		"history": []map[string]any{
			{"previous_plant_id": "P1", "new_plant_id": "P2", "occurred_at": "2025-01-15"},
		},
		"at": []string{"2025-01-01", "2025-01-15", "garbage"},
	}
	rec := do(t, testRouter(t), http.MethodPost, "/api/v1/attribution/resolve", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[models.ResolveResponse](t, rec)
	want := []models.Resolution{
		{At: "2025-01-01", Valid: true, PlantID: "P1"},
		{At: "2025-01-15", Valid: true, PlantID: "P2"},
		{At: "garbage", Valid: false, PlantID: "P3"},
	}
	if len(got.Resolutions) != len(want) {
		t.Fatalf("unexpected resolutions: %+v", got.Resolutions)
	}
	for i := range want {
		if got.Resolutions[i] != want[i] {
			t.Fatalf("resolution %d: expected %+v, got %+v", i, want[i], got.Resolutions[i])
		}
	}
}

func TestReportEndpoints(t *testing.T) {
	r := testRouter(t)
	q := "?from=2025-01-01&to=2025-01-31"

	rec := do(t, r, http.MethodGet, "/api/v1/reports/usage"+q, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("usage report: %d %s", rec.Code, rec.Body.String())
	}
	usageReport := decode[models.UsageReportResponse](t, rec)
	if usageReport.RunID == "" || usageReport.TotalUsage != 200 || len(usageReport.Rows) != 2 {
		t.Fatalf("unexpected usage report: %+v", usageReport)
	}

	rec = do(t, r, http.MethodGet, "/api/v1/reports/plants"+q+"&limit=1", nil)
	plants := decode[models.PlantsResponse](t, rec)
	if len(plants.Rankings) != 1 || plants.Rankings[0].PlantID != "P2" || plants.Rankings[0].Rank != 1 {
		t.Fatalf("unexpected plant ranking: %+v", plants)
	}
	expectError(t, do(t, r, http.MethodGet, "/api/v1/reports/plants"+q+"&limit=-2", nil), http.StatusBadRequest, "INVALID_REQUEST")

	rec = do(t, r, http.MethodGet, "/api/v1/reports/costs"+q, nil)
	costs := decode[models.CostsResponse](t, rec)
	if costs.Total != 500 || len(costs.Plants) != 2 {
		t.Fatalf("unexpected cost report: %+v", costs)
	}
	if costs.Costs[0].PlantID != "P1" || costs.Costs[1].PlantID != "P2" {
		t.Fatalf("costs must follow relocation: %+v", costs.Costs)
	}
}
