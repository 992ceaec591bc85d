package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestROCAUC(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect classifier",
			yTrue: []float64{0, 0, 0, 1, 1, 1},
			yPred: []float64{0.1, 0.2, 0.3, 0.7, 0.8, 0.9},
			want:  1.0,
		},
		{
			name:  "Worst classifier",
			yTrue: []float64{0, 0, 0, 1, 1, 1},
			yPred: []float64{0.9, 0.8, 0.7, 0.3, 0.2, 0.1},
			want:  0.0,
		},
		{
			name:  "Random classifier",
			yTrue: []float64{0, 1, 0, 1},
			yPred: []float64{0.5, 0.5, 0.5, 0.5},
			want:  0.5,
		},
		{
			name:  "Typical case",
			yTrue: []float64{0, 0, 1, 1},
			yPred: []float64{0.1, 0.4, 0.35, 0.8},
			want:  0.75,
		},
		{
			name:  "All positive labels",
			yTrue: []float64{1, 1, 1, 1},
			yPred: []float64{0.1, 0.4, 0.35, 0.8},
			want:  0.5, // Undefined case, returns 0.5
		},
		{
			name:  "All negative labels",
			yTrue: []float64{0, 0, 0, 0},
			yPred: []float64{0.1, 0.4, 0.35, 0.8},
			want:  0.5, // Undefined case, returns 0.5
		},
		{
			name:    "Non-binary labels",
			yTrue:   []float64{0, 0.5, 1},
			yPred:   []float64{0.1, 0.5, 0.9},
			wantErr: true,
		},
		{
			name:    "Length mismatch",
			yTrue:   []float64{0, 1},
			yPred:   []float64{0.5},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yTrue := mat.NewVecDense(len(tt.yTrue), tt.yTrue)
			yPred := mat.NewVecDense(len(tt.yPred), tt.yPred)

			got, err := ROCAUC(yTrue, yPred)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ROCAUC failed: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ROCAUC = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccuracy(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{0, 1, 1, 0})
	yPred := mat.NewVecDense(4, []float64{0, 1, 0, 0})

	got, err := Accuracy(yTrue, yPred)
	if err != nil {
		t.Fatalf("Accuracy failed: %v", err)
	}
	if got != 0.75 {
		t.Errorf("Accuracy = %v, want 0.75", got)
	}
}

func TestSensitivitySpecificity(t *testing.T) {
	yTrue := mat.NewVecDense(6, []float64{1, 1, 1, 0, 0, 0})
	yPred := mat.NewVecDense(6, []float64{1, 1, 0, 0, 0, 1})

	sens, err := Sensitivity(yTrue, yPred)
	if err != nil {
		t.Fatalf("Sensitivity failed: %v", err)
	}
	if math.Abs(sens-2.0/3.0) > 1e-12 {
		t.Errorf("Sensitivity = %v, want 2/3", sens)
	}

	spec, err := Specificity(yTrue, yPred)
	if err != nil {
		t.Fatalf("Specificity failed: %v", err)
	}
	if math.Abs(spec-2.0/3.0) > 1e-12 {
		t.Errorf("Specificity = %v, want 2/3", spec)
	}
}

func TestThreshold(t *testing.T) {
	scores := mat.NewVecDense(3, []float64{0.2, 0.5, 0.8})
	labels := Threshold(scores, 0.5)

	want := []float64{0, 0, 1}
	for i, v := range want {
		if labels.AtVec(i) != v {
			t.Errorf("label[%d] = %v, want %v", i, labels.AtVec(i), v)
		}
	}
}
