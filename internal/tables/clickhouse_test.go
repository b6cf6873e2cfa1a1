package tables

import (
	"strings"
	"testing"
)

func TestBatchAppendAndReset(t *testing.T) {
	b := NewBatch()
	if b.Len() != 0 {
		t.Fatalf("new batch Len = %d, want 0", b.Len())
	}

	for _, o := range sampleObservations() {
		b.Append(o)
	}
	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}

	// Absent uncertainty maps to 0 with the flag unset.
	if b.Uncertainty.Row(0) != 0 || b.HasUncertainty.Row(0) != 0 {
		t.Errorf("row 0: uncertainty=%v flag=%d", b.Uncertainty.Row(0), b.HasUncertainty.Row(0))
	}
	if b.Uncertainty.Row(1) != 0.10 || b.HasUncertainty.Row(1) != 1 {
		t.Errorf("row 1: uncertainty=%v flag=%d", b.Uncertainty.Row(1), b.HasUncertainty.Row(1))
	}
	if b.Point.Row(0) != -1 || b.Value.Row(1) != 997.05 {
		t.Errorf("unexpected column values")
	}

	b.Reset()
	if b.Len() != 0 {
		t.Errorf("Len = %d after Reset, want 0", b.Len())
	}
}

func TestBatchInputMatchesInsertQuery(t *testing.T) {
	b := NewBatch()
	input := b.Input()
	query := InsertQuery("thermoml.measurements")

	if !strings.HasPrefix(query, "INSERT INTO thermoml.measurements (") {
		t.Fatalf("unexpected query: %s", query)
	}
	cols := query[strings.Index(query, "(")+1 : strings.Index(query, ")")]
	names := strings.Split(cols, ", ")
	if len(names) != len(input) {
		t.Fatalf("query has %d columns, input has %d", len(names), len(input))
	}
	for i, col := range input {
		if col.Name != names[i] {
			t.Errorf("column %d: input %q vs query %q", i, col.Name, names[i])
		}
		if col.Data == nil {
			t.Errorf("column %q has nil data", col.Name)
		}
	}
}

func TestMeasurementsDDLCoversAllColumns(t *testing.T) {
	for _, col := range NewBatch().Input() {
		if !strings.Contains(measurementsDDL, col.Name) {
			t.Errorf("DDL is missing column %q", col.Name)
		}
	}
}
