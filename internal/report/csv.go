package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

func WriteUsageCSV(path string, rows []Row) error {
	return writeCSV(path, []string{
		"asset_id",
		"asset_name",
		"plant_id",
		"current_plant_id",
		"usage",
		"events",
		"diesel_kept",
		"diesel_dropped",
		"checklist_kept",
		"checklist_dropped",
		"invalid_readings",
		"capped_segments",
		"reset_segments",
		"envelope_min",
		"envelope_max",
	}, len(rows), func(i int) []string {
		r := rows[i]
		envMin, envMax := "", ""
		if r.Envelope != nil {
			envMin, envMax = fmtFloat(r.Envelope.AllowedMin), fmtFloat(r.Envelope.AllowedMax)
		}
		return []string{
			r.AssetID,
			r.AssetName,
			r.PlantID,
			r.CurrentPlantID,
			fmtFloat(r.Usage),
			strconv.Itoa(r.Events),
			strconv.Itoa(r.DieselKept),
			strconv.Itoa(r.DieselDropped),
			strconv.Itoa(r.ChecklistKept),
			strconv.Itoa(r.ChecklistDropped),
			strconv.Itoa(r.InvalidReadings),
			strconv.Itoa(r.CappedSegments),
			strconv.Itoa(r.ResetSegments),
			envMin,
			envMax,
		}
	})
}

func WriteSegmentsCSV(path string, segments []SegmentRow) error {
	return writeCSV(path, []string{
		"asset_id",
		"plant_id",
		"from_ts",
		"from_value",
		"from_source",
		"to_ts",
		"to_value",
		"to_source",
		"days",
		"delta",
		"counted",
		"capped",
		"reset",
	}, len(segments), func(i int) []string {
		s := segments[i]
		return []string{
			s.AssetID,
			s.PlantID,
			fmtTime(s.From.Timestamp),
			fmtFloat(s.From.Value),
			string(s.From.Source),
			fmtTime(s.To.Timestamp),
			fmtFloat(s.To.Value),
			string(s.To.Source),
			fmtFloat(s.Days),
			fmtFloat(s.Delta),
			fmtFloat(s.Counted),
			strconv.FormatBool(s.Capped),
			strconv.FormatBool(s.Reset),
		}
	})
}

func writeCSV(path string, header []string, n int, record func(int) []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := w.Write(record(i)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
