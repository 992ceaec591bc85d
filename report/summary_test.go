package report

import (
	"math"
	"path/filepath"
	"strings"
	"testing"
)

func TestSummarize(t *testing.T) {
	models := []ModelScores{
		{ID: "knn.ori", Resamples: []float64{0.8, 0.9, 0.7}},
		{ID: "nb.smote", Resamples: []float64{0.85, 0.85}},
	}

	s, err := Summarize("roc_auc", models)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if len(s.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(s.Rows))
	}

	r := s.Rows[0]
	if r.ID != "knn.ori" {
		t.Errorf("row order should follow input, got %q first", r.ID)
	}
	if math.Abs(r.Mean-0.8) > 1e-12 {
		t.Errorf("mean = %v, want 0.8", r.Mean)
	}
	if r.Min != 0.7 || r.Max != 0.9 {
		t.Errorf("min/max = %v/%v, want 0.7/0.9", r.Min, r.Max)
	}
	if r.N != 3 {
		t.Errorf("n = %d, want 3", r.N)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if _, err := Summarize("roc_auc", nil); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := Summarize("roc_auc", []ModelScores{{ID: "x"}}); err == nil {
		t.Error("expected error for model without scores")
	}
}

func TestSummaryString(t *testing.T) {
	s, err := Summarize("roc_auc", []ModelScores{{ID: "glm.down", Resamples: []float64{0.75}}})
	if err != nil {
		t.Fatal(err)
	}
	out := s.String()
	if !strings.Contains(out, "glm.down") || !strings.Contains(out, "0.7500") {
		t.Errorf("unexpected table output:\n%s", out)
	}
}

func TestPlotComparison(t *testing.T) {
	s, err := Summarize("roc_auc", []ModelScores{
		{ID: "knn.ori", Resamples: []float64{0.8, 0.82}},
		{ID: "knn.smote", Resamples: []float64{0.87, 0.85}},
	})
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "comparison.png")
	if err := PlotComparison(s, path); err != nil {
		t.Fatalf("PlotComparison failed: %v", err)
	}
}

func TestPlotComparisonEmpty(t *testing.T) {
	if err := PlotComparison(Summary{}, "x.png"); err == nil {
		t.Error("expected error for empty summary")
	}
}
