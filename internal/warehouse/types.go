// Package warehouse builds the star schema: three conformed dimensions
// (patient, date, diagnosis) and three fact tables (encounters, lab tests,
// appointments) linked by surrogate keys. Dimensions and facts are rebuilt
// from scratch on every run; surrogate keys are stable only within one
// build.
package warehouse

import (
	"time"

	"github.com/google/uuid"
)

// DimPatient is one row of dim_patient: one row per patient in the PAS
// extract, keyed by a dense surrogate assigned in source order.
type DimPatient struct {
	PatientID   string    `parquet:"patient_id"`
	NHSNumber   string    `parquet:"nhs_number"`
	Title       string    `parquet:"title"`
	FirstName   string    `parquet:"first_name"`
	LastName    string    `parquet:"last_name"`
	DateOfBirth time.Time `parquet:"date_of_birth"`
	Age         int32     `parquet:"age"`
	Gender      string    `parquet:"gender"`
	Ethnicity   string    `parquet:"ethnicity"`
	Postcode    string    `parquet:"postcode"`
	City        string    `parquet:"city"`
	PatientKey  int32     `parquet:"patient_key"`
}

// DimDate is one row of dim_date: one row per calendar date referenced by
// any event source. DateKey is the date formatted as a YYYYMMDD integer,
// both the surrogate key and a human-sortable value, deterministic from
// the date alone.
type DimDate struct {
	DateKey   int32     `parquet:"date_key"`
	Date      time.Time `parquet:"date"`
	Year      int32     `parquet:"year"`
	Quarter   int32     `parquet:"quarter"`
	Month     int32     `parquet:"month"`
	Day       int32     `parquet:"day"`
	DayOfWeek int32     `parquet:"day_of_week"` // Monday = 0
}

// DimDiagnosis is one row of dim_diagnosis: one row per distinct
// (icd10_code, description) pair seen as a primary diagnosis.
type DimDiagnosis struct {
	ICD10Code    string `parquet:"icd10_code"`
	Description  string `parquet:"description"`
	DiagnosisKey int32  `parquet:"diagnosis_key"`
}

// FactEncounter is one row of fact_encounters. PatientKey is nil when the
// encounter references an NHS number absent from dim_patient; the row is
// kept regardless.
type FactEncounter struct {
	EncounterID   string    `parquet:"encounter_id"`
	NHSNumber     string    `parquet:"nhs_number"`
	EncounterDate time.Time `parquet:"encounter_date"`
	EncounterType string    `parquet:"encounter_type"`
	Department    string    `parquet:"department"`
	PatientKey    *int32    `parquet:"patient_key,optional"`
	DateKey       int32     `parquet:"date_key"`
}

// FactLabTest is one row of fact_lab_tests, one per test component.
type FactLabTest struct {
	TestID        string    `parquet:"test_id"`
	NHSNumber     string    `parquet:"nhs_number"`
	TestType      string    `parquet:"test_type"`
	TestComponent string    `parquet:"test_component"`
	OrderDate     time.Time `parquet:"order_date"`
	ResultValue   *float64  `parquet:"result_value,optional"`
	IsAbnormal    *bool     `parquet:"is_abnormal,optional"`
	PatientKey    *int32    `parquet:"patient_key,optional"`
	DateKey       int32     `parquet:"date_key"`
}

// FactAppointment is one row of fact_appointments.
type FactAppointment struct {
	AppointmentID    string    `parquet:"appointment_id"`
	NHSNumber        string    `parquet:"nhs_number"`
	AppointmentDate  time.Time `parquet:"appointment_date"`
	AppointmentType  string    `parquet:"appointment_type"`
	Specialty        string    `parquet:"specialty"`
	AttendanceStatus string    `parquet:"attendance_status"`
	PatientKey       *int32    `parquet:"patient_key,optional"`
	DateKey          int32     `parquet:"date_key"`
}

// Warehouse holds one complete build of all six tables. RunID ties the
// build to its quality report and log output.
type Warehouse struct {
	RunID   uuid.UUID
	BuiltAt time.Time

	Patients  []DimPatient
	Dates     []DimDate
	Diagnoses []DimDiagnosis

	Encounters   []FactEncounter
	LabTests     []FactLabTest
	Appointments []FactAppointment
}

// DateKey formats a date as its YYYYMMDD integer key. Time of day is
// ignored; the key depends on the calendar date alone.
func DateKey(t time.Time) int32 {
	return int32(t.Year()*10000 + int(t.Month())*100 + t.Day())
}
