package dataset

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCSVTypesAndSentinels(t *testing.T) {
	path := writeCSV(t, "Id,Age,Sex,Fare\n1,22,male,7.25\n2,NA,female,71.28\n3,26,?,\n")

	tbl, err := LoadCSV(path, LoadOptions{})
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}

	if tbl.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", tbl.Len())
	}

	age := tbl.Col("Age")
	if age == nil || age.Type != Numeric {
		t.Fatal("Age should be a numeric column")
	}
	if !math.IsNaN(age.Numeric[1]) {
		t.Errorf("NA should parse as NaN, got %v", age.Numeric[1])
	}

	sex := tbl.Col("Sex")
	if sex == nil || sex.Type != Categorical {
		t.Fatal("Sex should be a categorical column")
	}
	if sex.Labels[2] != "" {
		t.Errorf("'?' should parse as missing, got %q", sex.Labels[2])
	}

	fare := tbl.Col("Fare")
	if !fare.Missing(2) {
		t.Error("empty Fare cell should be missing")
	}
}

func TestLoadCSVForcedCategorical(t *testing.T) {
	path := writeCSV(t, "Pclass\n1\n2\n3\n")

	tbl, err := LoadCSV(path, LoadOptions{Categorical: []string{"Pclass"}})
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	if tbl.Col("Pclass").Type != Categorical {
		t.Error("forced column should be categorical")
	}
}

func TestImpute(t *testing.T) {
	path := writeCSV(t, "Age,Embarked\n10,S\n20,S\nNA,C\n40,\n")

	tbl, err := LoadCSV(path, LoadOptions{})
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	if err := tbl.Impute(); err != nil {
		t.Fatalf("Impute failed: %v", err)
	}

	// Median of {10, 20, 40} is 20.
	if got := tbl.Col("Age").Numeric[2]; got != 20 {
		t.Errorf("imputed Age = %v, want 20", got)
	}
	// Mode of {S, S, C} is S.
	if got := tbl.Col("Embarked").Labels[3]; got != "S" {
		t.Errorf("imputed Embarked = %q, want S", got)
	}
}

func TestImputeAllMissingFails(t *testing.T) {
	path := writeCSV(t, "Cabin\nNA\nNA\n")

	tbl, err := LoadCSV(path, LoadOptions{})
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	if err := tbl.Impute(); err == nil {
		t.Error("expected error for fully missing column")
	}
}
