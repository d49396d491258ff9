// Package report aggregates per-image results into the persisted batch
// report. The JSON field names are a wire contract, consumers parse them.
package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/adzetto/ADAS-LITE/internal/detect"
)

// Summary holds the batch-level statistics.
type Summary struct {
	TotalImages            int     `json:"total_images"`
	SuccessfulDetections   int     `json:"successful_detections"`
	FailedDetections       int     `json:"failed_detections"`
	SuccessRate            float64 `json:"success_rate"`
	AverageInferenceTimeMS float64 `json:"average_inference_time_ms"`
	DetectionTimestamp     string  `json:"detection_timestamp"`
}

// Report is the persisted unit: one summary plus the ordered results it
// was computed from.
type Report struct {
	DetectionSummary Summary         `json:"detection_summary"`
	Detections       []detect.Result `json:"detections"`
}

// Aggregate computes summary statistics over a batch. An empty batch yields
// zero counts and rates rather than an error.
func Aggregate(results []detect.Result) Report {
	successful := 0
	timeSum := 0.0
	timed := 0
	for _, r := range results {
		if r.Detected {
			successful++
		}
		// Results that failed before inference carry no timing.
		if r.Error == "" {
			timeSum += r.InferenceTimeMS
			timed++
		}
	}

	s := Summary{
		TotalImages:          len(results),
		SuccessfulDetections: successful,
		FailedDetections:     len(results) - successful,
		DetectionTimestamp:   time.Now().Format(time.RFC3339),
	}
	if len(results) > 0 {
		s.SuccessRate = round2(float64(successful) / float64(len(results)) * 100)
	}
	if timed > 0 {
		s.AverageInferenceTimeMS = round2(timeSum / float64(timed))
	}

	if results == nil {
		results = []detect.Result{}
	}
	return Report{DetectionSummary: s, Detections: results}
}

// Save writes the report as indented JSON, creating parent directories as
// needed.
func (r Report) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report to %s: %w", path, err)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
