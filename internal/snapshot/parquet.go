// Package snapshot exports a warehouse build as one Parquet file per
// table, for archival and for query engines that read files instead of
// PostgreSQL.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"nhspipeline/internal/warehouse"
)

// Export writes the six warehouse tables to dir, one file per table
// named <table>.parquet. The directory is created if missing; existing
// snapshot files are overwritten.
func Export(dir string, w *warehouse.Warehouse) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	if err := writeTable(dir, "dim_patient", w.Patients); err != nil {
		return err
	}
	if err := writeTable(dir, "dim_date", w.Dates); err != nil {
		return err
	}
	if err := writeTable(dir, "dim_diagnosis", w.Diagnoses); err != nil {
		return err
	}
	if err := writeTable(dir, "fact_encounters", w.Encounters); err != nil {
		return err
	}
	if err := writeTable(dir, "fact_lab_tests", w.LabTests); err != nil {
		return err
	}
	return writeTable(dir, "fact_appointments", w.Appointments)
}

// writeTable writes one table's rows to <dir>/<name>.parquet. Zstd keeps
// the archive small; the row counts here never need more than one row
// group.
func writeTable[T any](dir, name string, rows []T) error {
	path := filepath.Join(dir, name+".parquet")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	writer := parquet.NewGenericWriter[T](file,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedDefault}),
		parquet.CreatedBy("nhspipeline", "1.0", ""),
	)
	if _, err := writer.Write(rows); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := writer.Close(); err != nil {
		file.Close()
		return fmt.Errorf("close %s writer: %w", name, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
