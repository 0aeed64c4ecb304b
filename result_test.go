package pdfstract_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/AKSarav/pdfstract"
)

func TestComparisonReport_WireShape(t *testing.T) {
	report := pdfstract.ComparisonReport{
		TaskID:   "task-42",
		Filename: "doc.pdf",
		Total:    1500 * time.Millisecond,
		Results: []pdfstract.ConversionResult{
			{
				Library:  "native",
				Status:   pdfstract.StatusSuccess,
				Duration: 250 * time.Millisecond,
				Content:  "hello",
				Size:     5,
			},
			{
				Library:  "fitz",
				Status:   pdfstract.StatusTimeout,
				Duration: 1200 * time.Millisecond,
				Err:      "exceeded 1.2s timeout",
			},
		},
	}

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var wire map[string]any
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("Unmarshal into map: %v", err)
	}
	if wire["task_id"] != "task-42" {
		t.Errorf("task_id = %v", wire["task_id"])
	}
	if wire["total_duration_seconds"] != 1.5 {
		t.Errorf("total_duration_seconds = %v, want 1.5", wire["total_duration_seconds"])
	}

	results := wire["results"].([]any)
	first := results[0].(map[string]any)
	if first["library_name"] != "native" {
		t.Errorf("library_name = %v", first["library_name"])
	}
	if first["duration_seconds"] != 0.25 {
		t.Errorf("duration_seconds = %v, want 0.25", first["duration_seconds"])
	}
	if first["output_size_bytes"] != float64(5) {
		t.Errorf("output_size_bytes = %v", first["output_size_bytes"])
	}
	if _, ok := first["error"]; ok {
		t.Error("successful result carries an error field")
	}

	second := results[1].(map[string]any)
	if second["status"] != "timeout" {
		t.Errorf("status = %v", second["status"])
	}
	if _, ok := second["content"]; ok {
		t.Error("timed-out result carries a content field")
	}
	if !strings.Contains(second["error"].(string), "timeout") {
		t.Errorf("error = %v", second["error"])
	}

	var back pdfstract.ComparisonReport
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Total != report.Total {
		t.Errorf("round-trip Total = %v, want %v", back.Total, report.Total)
	}
	if back.Results[0].Duration != report.Results[0].Duration {
		t.Errorf("round-trip Duration = %v, want %v", back.Results[0].Duration, report.Results[0].Duration)
	}
}

func TestBatchReport_WireShape(t *testing.T) {
	report := pdfstract.BatchReport{
		Success: 2,
		Failed:  1,
		Files: []pdfstract.FileOutcome{
			{Path: "a.pdf", Status: pdfstract.StatusSuccess, Chunks: 4},
			{Path: "b.pdf", Status: pdfstract.StatusSuccess},
			{Path: "c.pdf", Status: pdfstract.StatusFailed, Err: "broken xref"},
		},
	}

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var wire map[string]any
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if wire["success"] != float64(2) || wire["failed"] != float64(1) {
		t.Errorf("counts = %v/%v", wire["success"], wire["failed"])
	}
	files := wire["files"].([]any)
	ok := files[1].(map[string]any)
	if _, present := ok["error"]; present {
		t.Error("successful file carries an error field")
	}
	if _, present := ok["chunks"]; present {
		t.Error("unchunked file carries a chunks field")
	}
}
