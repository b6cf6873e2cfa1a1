package tables

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/acfdavis/thermogo/internal/thermoml"
)

// WriteMeasurements writes the long-format observation table.
func WriteMeasurements(path string, rows []thermoml.Observation) error {
	return writeParquet(path, rows)
}

// WriteCompounds writes the compound metadata table.
func WriteCompounds(path string, rows []thermoml.CompoundRecord) error {
	return writeParquet(path, rows)
}

// ReadMeasurements loads an observation table back from Parquet. The
// ClickHouse ingester and the round-trip tests both go through this.
func ReadMeasurements(path string) ([]thermoml.Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parquet open %s: %w", path, err)
	}

	reader := parquet.NewGenericReader[thermoml.Observation](pf)
	defer reader.Close()

	var out []thermoml.Observation
	buf := make([]thermoml.Observation, 1000)
	for {
		n, err := reader.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF || n == 0 {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parquet read %s: %w", path, err)
		}
	}
	return out, nil
}

func writeParquet[T any](path string, rows []T) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	w := parquet.NewGenericWriter[T](f)
	if _, err := w.Write(rows); err != nil {
		w.Close()
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("parquet write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("parquet close %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
