package load

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Monitor queries back the loaded warehouse for the operator dashboard.
// Every query takes the pool explicitly; nothing caches a connection.

// WarehouseTables lists the six tables in load order.
var WarehouseTables = []string{
	"dim_patient", "dim_date", "dim_diagnosis",
	"fact_encounters", "fact_lab_tests", "fact_appointments",
}

// TableCount is the row count of one warehouse table.
type TableCount struct {
	Table string
	Rows  int64
}

// CountRow is a labelled count, the shape of most dashboard breakdowns.
type CountRow struct {
	Label string
	Count int64
}

// AgeStats summarizes dim_patient ages.
type AgeStats struct {
	Avg float64
	Min int32
	Max int32
}

// PatientPathway is one row of the cross-fact patient activity join.
type PatientPathway struct {
	PatientID    string
	FirstName    string
	LastName     string
	Age          int32
	Encounters   int64
	LabTests     int64
	Appointments int64
}

// TableCounts returns row counts for all six warehouse tables.
func TableCounts(ctx context.Context, pool *pgxpool.Pool) ([]TableCount, error) {
	counts := make([]TableCount, 0, len(WarehouseTables))
	for _, table := range WarehouseTables {
		var n int64
		// Table names come from the fixed list above, never from input.
		if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts = append(counts, TableCount{Table: table, Rows: n})
	}
	return counts, nil
}

// PatientAgeStats returns average, minimum, and maximum patient age.
func PatientAgeStats(ctx context.Context, pool *pgxpool.Pool) (AgeStats, error) {
	var s AgeStats
	err := pool.QueryRow(ctx,
		"SELECT AVG(age), MIN(age), MAX(age) FROM dim_patient").Scan(&s.Avg, &s.Min, &s.Max)
	if err != nil {
		return AgeStats{}, fmt.Errorf("age stats: %w", err)
	}
	return s, nil
}

func countQuery(ctx context.Context, pool *pgxpool.Pool, query string, args ...any) ([]CountRow, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CountRow
	for rows.Next() {
		var r CountRow
		if err := rows.Scan(&r.Label, &r.Count); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GenderDistribution breaks dim_patient down by gender.
func GenderDistribution(ctx context.Context, pool *pgxpool.Pool) ([]CountRow, error) {
	return countQuery(ctx, pool,
		"SELECT gender, COUNT(*) FROM dim_patient GROUP BY gender ORDER BY COUNT(*) DESC")
}

// TopCities returns the most common patient cities.
func TopCities(ctx context.Context, pool *pgxpool.Pool, limit int) ([]CountRow, error) {
	return countQuery(ctx, pool,
		"SELECT city, COUNT(*) FROM dim_patient GROUP BY city ORDER BY COUNT(*) DESC LIMIT $1", limit)
}

// EncountersByType breaks fact_encounters down by encounter type.
func EncountersByType(ctx context.Context, pool *pgxpool.Pool) ([]CountRow, error) {
	return countQuery(ctx, pool,
		"SELECT encounter_type, COUNT(*) FROM fact_encounters GROUP BY encounter_type ORDER BY COUNT(*) DESC")
}

// TopDepartments returns the busiest departments by encounter volume.
func TopDepartments(ctx context.Context, pool *pgxpool.Pool, limit int) ([]CountRow, error) {
	return countQuery(ctx, pool,
		"SELECT department, COUNT(*) FROM fact_encounters GROUP BY department ORDER BY COUNT(*) DESC LIMIT $1", limit)
}

// LabTestMix breaks fact_lab_tests down by test type.
func LabTestMix(ctx context.Context, pool *pgxpool.Pool) ([]CountRow, error) {
	return countQuery(ctx, pool,
		"SELECT test_type, COUNT(*) FROM fact_lab_tests GROUP BY test_type ORDER BY COUNT(*) DESC")
}

// AbnormalSplit counts normal vs abnormal completed lab results. Rows with
// no result yet (NULL is_abnormal) are excluded.
func AbnormalSplit(ctx context.Context, pool *pgxpool.Pool) ([]CountRow, error) {
	return countQuery(ctx, pool, `
		SELECT CASE WHEN is_abnormal THEN 'Abnormal' ELSE 'Normal' END, COUNT(*)
		FROM fact_lab_tests
		WHERE is_abnormal IS NOT NULL
		GROUP BY is_abnormal`)
}

// AppointmentsByType breaks fact_appointments down by appointment type.
func AppointmentsByType(ctx context.Context, pool *pgxpool.Pool) ([]CountRow, error) {
	return countQuery(ctx, pool,
		"SELECT appointment_type, COUNT(*) FROM fact_appointments GROUP BY appointment_type ORDER BY COUNT(*) DESC")
}

// AttendanceBreakdown breaks fact_appointments down by attendance status.
func AttendanceBreakdown(ctx context.Context, pool *pgxpool.Pool) ([]CountRow, error) {
	return countQuery(ctx, pool,
		"SELECT attendance_status, COUNT(*) FROM fact_appointments GROUP BY attendance_status ORDER BY COUNT(*) DESC")
}

// TopPatientPathways joins all three fact tables per patient and returns
// the patients with the most encounters.
func TopPatientPathways(ctx context.Context, pool *pgxpool.Pool, limit int) ([]PatientPathway, error) {
	rows, err := pool.Query(ctx, `
		SELECT
			p.patient_id,
			p.first_name,
			p.last_name,
			p.age,
			COUNT(DISTINCT e.encounter_id)   AS total_encounters,
			COUNT(DISTINCT l.test_id)        AS total_lab_tests,
			COUNT(DISTINCT a.appointment_id) AS total_appointments
		FROM dim_patient p
		LEFT JOIN fact_encounters e   ON p.patient_key = e.patient_key
		LEFT JOIN fact_lab_tests l    ON p.patient_key = l.patient_key
		LEFT JOIN fact_appointments a ON p.patient_key = a.patient_key
		GROUP BY p.patient_id, p.first_name, p.last_name, p.age
		ORDER BY total_encounters DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("patient pathways: %w", err)
	}
	defer rows.Close()

	var out []PatientPathway
	for rows.Next() {
		var p PatientPathway
		if err := rows.Scan(&p.PatientID, &p.FirstName, &p.LastName, &p.Age,
			&p.Encounters, &p.LabTests, &p.Appointments); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
