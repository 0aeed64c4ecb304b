package pdfstract

import (
	"encoding/json"
	"time"
)

// Status classifies the outcome of one unit of work. Units move from
// pending through running into exactly one terminal status; no automatic
// retries are performed.
type Status string

const (
	// StatusSuccess means the library produced output.
	StatusSuccess Status = "success"

	// StatusFailed means the library returned or raised an error.
	StatusFailed Status = "failed"

	// StatusTimeout means the attempt exceeded the configured per-unit
	// wall-clock timeout. Distinguished from StatusFailed so callers can
	// tell "library errored" apart from "library too slow".
	StatusTimeout Status = "timeout"
)

// ConversionResult is the immutable outcome of one (library, document)
// attempt. Content is non-empty only when Status is StatusSuccess; Err is
// non-empty only when it is not.
type ConversionResult struct {
	Library  string
	Status   Status
	Duration time.Duration
	Content  string
	Size     int
	Err      string
}

// conversionResultJSON is the wire shape of a ConversionResult.
type conversionResultJSON struct {
	Library  string  `json:"library_name"`
	Status   Status  `json:"status"`
	Duration float64 `json:"duration_seconds"`
	Size     int     `json:"output_size_bytes"`
	Content  string  `json:"content,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// MarshalJSON encodes durations as seconds and emits content or error,
// never both.
func (r ConversionResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(conversionResultJSON{
		Library:  r.Library,
		Status:   r.Status,
		Duration: r.Duration.Seconds(),
		Size:     r.Size,
		Content:  r.Content,
		Error:    r.Err,
	})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (r *ConversionResult) UnmarshalJSON(data []byte) error {
	var w conversionResultJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = ConversionResult{
		Library:  w.Library,
		Status:   w.Status,
		Duration: time.Duration(w.Duration * float64(time.Second)),
		Size:     w.Size,
		Content:  w.Content,
		Err:      w.Error,
	}
	return nil
}

// ComparisonReport aggregates one comparison run: one ConversionResult per
// requested library, in request order regardless of completion order.
// Total is the wall-clock span from first dispatch to last completion, not
// the sum of the individual durations. Reports are read-only once built.
type ComparisonReport struct {
	TaskID   string
	Filename string
	Total    time.Duration
	Results  []ConversionResult
}

type comparisonReportJSON struct {
	TaskID   string             `json:"task_id"`
	Filename string             `json:"filename"`
	Total    float64            `json:"total_duration_seconds"`
	Results  []ConversionResult `json:"results"`
}

func (r ComparisonReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(comparisonReportJSON{
		TaskID:   r.TaskID,
		Filename: r.Filename,
		Total:    r.Total.Seconds(),
		Results:  r.Results,
	})
}

func (r *ComparisonReport) UnmarshalJSON(data []byte) error {
	var w comparisonReportJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = ComparisonReport{
		TaskID:   w.TaskID,
		Filename: w.Filename,
		Total:    time.Duration(w.Total * float64(time.Second)),
		Results:  w.Results,
	}
	return nil
}

// FileOutcome records one file's fate in a batch run.
type FileOutcome struct {
	Path   string `json:"path"`
	Status Status `json:"status"`
	Chunks int    `json:"chunks,omitempty"`
	Err    string `json:"error,omitempty"`
}

// BatchReport aggregates a batch run. Success+Failed always equals the
// number of files that completed; timeouts count as failed. File order
// follows completion and carries no meaning.
type BatchReport struct {
	Success int           `json:"success"`
	Failed  int           `json:"failed"`
	Files   []FileOutcome `json:"files"`
}
