package tables

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/acfdavis/thermogo/internal/thermoml"
)

func sampleObservations() []thermoml.Observation {
	u := 0.10
	return []thermoml.Observation{
		{
			SourceFile: "jced/a.xml",
			MaterialID: "1__2",
			Components: "water__ethanol",
			Block:      1,
			Point:      -1,
			Kind:       thermoml.KindConstraint,
			Number:     1,
			Name:       "Pressure, kPa",
			Value:      101.325,
			DOI:        "10.1000/example",
			Journal:    "J. Chem. Eng. Data",
			Author:     "Smith, J.",
			Year:       "2014",
		},
		{
			SourceFile:  "jced/a.xml",
			MaterialID:  "1__2",
			Components:  "water__ethanol",
			Block:       1,
			Point:       0,
			Kind:        thermoml.KindProperty,
			Number:      1,
			Name:        "Mass density, kg/m3",
			Value:       997.05,
			Uncertainty: &u,
			Phase:       "Liquid",
		},
	}
}

func TestMeasurementsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), MeasurementsFile)
	rows := sampleObservations()

	if err := WriteMeasurements(path, rows); err != nil {
		t.Fatalf("WriteMeasurements: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}

	got, err := ReadMeasurements(path)
	if err != nil {
		t.Fatalf("ReadMeasurements: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("read %d rows, want %d", len(got), len(rows))
	}

	if got[0].Kind != thermoml.KindConstraint || got[0].Point != -1 || got[0].Value != 101.325 {
		t.Errorf("row 0 mismatch: %+v", got[0])
	}
	if got[0].Uncertainty != nil {
		t.Errorf("row 0 should have no uncertainty, got %v", *got[0].Uncertainty)
	}
	if got[1].Uncertainty == nil || *got[1].Uncertainty != 0.10 {
		t.Errorf("row 1 uncertainty mismatch: %+v", got[1].Uncertainty)
	}
	if got[1].Name != "Mass density, kg/m3" || got[1].Phase != "Liquid" {
		t.Errorf("row 1 mismatch: %+v", got[1])
	}
}

func TestWriteCompounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), CompoundsFile)
	rows := []thermoml.CompoundRecord{
		{OrgNum: 1, Name: "water", Formula: "H2O", SourceFile: "jced/a.xml"},
		{OrgNum: 2, Name: "ethanol", Formula: "C2H6O", SourceFile: "jced/a.xml"},
	}
	if err := WriteCompounds(path, rows); err != nil {
		t.Fatalf("WriteCompounds: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("compound table is empty")
	}
}
