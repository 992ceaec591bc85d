package submission

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbox/lifeboat/dataset"
)

func TestFromPredictions(t *testing.T) {
	records, err := FromPredictions([]string{"892", "893"}, []float64{0, 1})
	if err != nil {
		t.Fatalf("FromPredictions failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Survived != 0 || records[1].Survived != 1 {
		t.Errorf("labels = %d/%d, want 0/1", records[0].Survived, records[1].Survived)
	}

	if _, err := FromPredictions([]string{"892"}, []float64{0, 1}); err == nil {
		t.Error("expected error for length mismatch")
	}
	if _, err := FromPredictions([]string{"892"}, []float64{0.3}); err == nil {
		t.Error("expected error for non-binary label")
	}
}

func TestIDs(t *testing.T) {
	tbl, err := dataset.NewTable(
		&dataset.Column{Name: "PassengerId", Type: dataset.Numeric, Numeric: []float64{892, 893, 894}},
	)
	if err != nil {
		t.Fatal(err)
	}

	ids, err := IDs(tbl, "PassengerId")
	if err != nil {
		t.Fatalf("IDs failed: %v", err)
	}
	want := []string{"892", "893", "894"}
	for i, id := range ids {
		if id != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, id, want[i])
		}
	}

	if _, err := IDs(tbl, "Nope"); err == nil {
		t.Error("expected error for missing column")
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submission.csv")
	records := []Record{
		{PassengerID: "892", Survived: 0},
		{PassengerID: "893", Survived: 1},
	}
	if err := Write(path, records); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "PassengerId,Survived\n892,0\n893,1\n"
	if string(data) != want {
		t.Errorf("file content = %q, want %q", string(data), want)
	}
}
