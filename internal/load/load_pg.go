// Package load replaces the six warehouse tables in PostgreSQL from an
// in-memory build, and exposes the summary queries the monitoring
// dashboard reads back out.
package load

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nhspipeline/internal/warehouse"
)

// Connect opens a connection pool to the warehouse.
func Connect(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse connection: %w", err)
	}
	poolConfig.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// Replace drops and recreates all six warehouse tables from the build,
// dimensions before facts. Each table is replaced in its own transaction:
// a concurrent reader sees either the old table or the new one, never a
// partial load, and a failure leaves previously replaced tables
// committed.
func Replace(ctx context.Context, pool *pgxpool.Pool, w *warehouse.Warehouse) error {
	tables := []struct {
		name string
		ddl  string
		cols []string
		rows [][]any
	}{
		{
			name: "dim_patient",
			ddl: `CREATE TABLE dim_patient (
				patient_id    text NOT NULL,
				nhs_number    text NOT NULL,
				title         text,
				first_name    text,
				last_name     text,
				date_of_birth date,
				age           integer,
				gender        text,
				ethnicity     text,
				postcode      text,
				city          text,
				patient_key   integer NOT NULL
			)`,
			cols: []string{"patient_id", "nhs_number", "title", "first_name", "last_name",
				"date_of_birth", "age", "gender", "ethnicity", "postcode", "city", "patient_key"},
			rows: patientRows(w.Patients),
		},
		{
			name: "dim_date",
			ddl: `CREATE TABLE dim_date (
				date_key    integer NOT NULL,
				date        date NOT NULL,
				year        integer NOT NULL,
				quarter     integer NOT NULL,
				month       integer NOT NULL,
				day         integer NOT NULL,
				day_of_week integer NOT NULL
			)`,
			cols: []string{"date_key", "date", "year", "quarter", "month", "day", "day_of_week"},
			rows: dateRows(w.Dates),
		},
		{
			name: "dim_diagnosis",
			ddl: `CREATE TABLE dim_diagnosis (
				icd10_code    text NOT NULL,
				description   text NOT NULL,
				diagnosis_key integer NOT NULL
			)`,
			cols: []string{"icd10_code", "description", "diagnosis_key"},
			rows: diagnosisRows(w.Diagnoses),
		},
		{
			name: "fact_encounters",
			ddl: `CREATE TABLE fact_encounters (
				encounter_id   text NOT NULL,
				nhs_number     text NOT NULL,
				encounter_date timestamp NOT NULL,
				encounter_type text,
				department     text,
				patient_key    integer,
				date_key       integer NOT NULL
			)`,
			cols: []string{"encounter_id", "nhs_number", "encounter_date", "encounter_type",
				"department", "patient_key", "date_key"},
			rows: encounterRows(w.Encounters),
		},
		{
			name: "fact_lab_tests",
			ddl: `CREATE TABLE fact_lab_tests (
				test_id        text NOT NULL,
				nhs_number     text NOT NULL,
				test_type      text,
				test_component text,
				order_date     timestamp NOT NULL,
				result_value   double precision,
				is_abnormal    boolean,
				patient_key    integer,
				date_key       integer NOT NULL
			)`,
			cols: []string{"test_id", "nhs_number", "test_type", "test_component", "order_date",
				"result_value", "is_abnormal", "patient_key", "date_key"},
			rows: labRows(w.LabTests),
		},
		{
			name: "fact_appointments",
			ddl: `CREATE TABLE fact_appointments (
				appointment_id    text NOT NULL,
				nhs_number        text NOT NULL,
				appointment_date  date NOT NULL,
				appointment_type  text,
				specialty         text,
				attendance_status text,
				patient_key       integer,
				date_key          integer NOT NULL
			)`,
			cols: []string{"appointment_id", "nhs_number", "appointment_date", "appointment_type",
				"specialty", "attendance_status", "patient_key", "date_key"},
			rows: appointmentRows(w.Appointments),
		},
	}

	for _, tbl := range tables {
		if err := replaceTable(ctx, pool, tbl.name, tbl.ddl, tbl.cols, tbl.rows); err != nil {
			return fmt.Errorf("load %s: %w", tbl.name, err)
		}
	}
	return nil
}

// replaceTable swaps one table inside a single transaction: drop,
// recreate, bulk COPY.
func replaceTable(ctx context.Context, pool *pgxpool.Pool, name, ddl string, cols []string, rows [][]any) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
		return fmt.Errorf("drop: %w", err)
	}
	if _, err := tx.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create: %w", err)
	}

	copied, err := tx.CopyFrom(ctx, pgx.Identifier{name}, cols, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	if copied != int64(len(rows)) {
		return fmt.Errorf("copy: wrote %d of %d rows", copied, len(rows))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// optKey converts a nullable surrogate key for COPY. A nil pointer must
// become an untyped nil so pgx writes NULL.
func optKey(k *int32) any {
	if k == nil {
		return nil
	}
	return *k
}

func optF64(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func optB(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}

func patientRows(dim []warehouse.DimPatient) [][]any {
	rows := make([][]any, len(dim))
	for i, p := range dim {
		rows[i] = []any{p.PatientID, p.NHSNumber, p.Title, p.FirstName, p.LastName,
			p.DateOfBirth, p.Age, p.Gender, p.Ethnicity, p.Postcode, p.City, p.PatientKey}
	}
	return rows
}

func dateRows(dim []warehouse.DimDate) [][]any {
	rows := make([][]any, len(dim))
	for i, d := range dim {
		rows[i] = []any{d.DateKey, d.Date, d.Year, d.Quarter, d.Month, d.Day, d.DayOfWeek}
	}
	return rows
}

func diagnosisRows(dim []warehouse.DimDiagnosis) [][]any {
	rows := make([][]any, len(dim))
	for i, d := range dim {
		rows[i] = []any{d.ICD10Code, d.Description, d.DiagnosisKey}
	}
	return rows
}

func encounterRows(facts []warehouse.FactEncounter) [][]any {
	rows := make([][]any, len(facts))
	for i, f := range facts {
		rows[i] = []any{f.EncounterID, f.NHSNumber, f.EncounterDate, f.EncounterType,
			f.Department, optKey(f.PatientKey), f.DateKey}
	}
	return rows
}

func labRows(facts []warehouse.FactLabTest) [][]any {
	rows := make([][]any, len(facts))
	for i, f := range facts {
		rows[i] = []any{f.TestID, f.NHSNumber, f.TestType, f.TestComponent, f.OrderDate,
			optF64(f.ResultValue), optB(f.IsAbnormal), optKey(f.PatientKey), f.DateKey}
	}
	return rows
}

func appointmentRows(facts []warehouse.FactAppointment) [][]any {
	rows := make([][]any, len(facts))
	for i, f := range facts {
		rows[i] = []any{f.AppointmentID, f.NHSNumber, f.AppointmentDate, f.AppointmentType,
			f.Specialty, f.AttendanceStatus, optKey(f.PatientKey), f.DateKey}
	}
	return rows
}
