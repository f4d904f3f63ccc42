package warehouse

import (
	"errors"
	"testing"
	"time"

	"nhspipeline/internal/source"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ts(y int, m time.Month, d, hh, mm int) source.Timestamp {
	return source.Timestamp{Time: time.Date(y, m, d, hh, mm, 0, 0, time.UTC)}
}

func testPatients() []source.Patient {
	return []source.Patient{
		{PatientID: "PAS000001", NHSNumber: "9434765919", Title: "Mr", FirstName: "John", LastName: "Smith",
			DateOfBirth: date(1960, 3, 12), Age: 65, Gender: "M", Ethnicity: "White British",
			Postcode: "EH1 1AA", City: "Edinburgh"},
		{PatientID: "PAS000002", NHSNumber: "9999999999", Title: "Mrs", FirstName: "Mary", LastName: "Brown",
			DateOfBirth: date(1985, 7, 4), Age: 41, Gender: "F", Ethnicity: "Asian",
			Postcode: "G1 2BB", City: "Glasgow"},
		{PatientID: "PAS000003", NHSNumber: "4000000004", Title: "Mx", FirstName: "Sam", LastName: "Taylor",
			DateOfBirth: date(2001, 1, 30), Age: 25, Gender: "Other", Ethnicity: "Mixed",
			Postcode: "AB1 3CC", City: "Aberdeen"},
	}
}

func TestBuildPatientDim(t *testing.T) {
	dim := BuildPatientDim(testPatients())

	if len(dim) != 3 {
		t.Fatalf("rows = %d, want 3", len(dim))
	}
	for i, p := range dim {
		if p.PatientKey != int32(i+1) {
			t.Errorf("patient_key[%d] = %d, want %d", i, p.PatientKey, i+1)
		}
	}
	if dim[0].NHSNumber != "9434765919" || dim[0].FirstName != "John" {
		t.Errorf("row 0 = %+v, want John Smith 9434765919", dim[0])
	}
	if dim[2].City != "Aberdeen" {
		t.Errorf("row 2 city = %q, want Aberdeen", dim[2].City)
	}
}

func TestBuildDateDim(t *testing.T) {
	encounters := []source.Encounter{
		{EncounterID: "ENC1", EncounterDate: ts(2025, 1, 15, 10, 30)},
		{EncounterID: "ENC2", EncounterDate: ts(2025, 1, 15, 23, 59)}, // same day, later time
		{EncounterID: "ENC3", EncounterDate: ts(2025, 3, 2, 8, 0)},
	}
	labs := []source.LabResult{
		{TestID: "LAB1", OrderDate: date(2025, 1, 15)}, // duplicate across sources
		{TestID: "LAB2", OrderDate: date(2025, 2, 28)},
	}
	appointments := []source.Appointment{
		{AppointmentID: "APT1", AppointmentDate: date(2024, 12, 31)},
	}

	dim, err := BuildDateDim(encounters, labs, appointments)
	if err != nil {
		t.Fatalf("BuildDateDim: %v", err)
	}

	wantKeys := []int32{20241231, 20250115, 20250228, 20250302}
	if len(dim) != len(wantKeys) {
		t.Fatalf("rows = %d, want %d", len(dim), len(wantKeys))
	}
	for i, d := range dim {
		if d.DateKey != wantKeys[i] {
			t.Errorf("date_key[%d] = %d, want %d", i, d.DateKey, wantKeys[i])
		}
	}

	// Calendar parts for 2025-01-15 (a Wednesday).
	jan15 := dim[1]
	if jan15.Year != 2025 || jan15.Quarter != 1 || jan15.Month != 1 || jan15.Day != 15 {
		t.Errorf("2025-01-15 parts = %+v", jan15)
	}
	if jan15.DayOfWeek != 2 {
		t.Errorf("2025-01-15 day_of_week = %d, want 2 (Monday=0)", jan15.DayOfWeek)
	}

	// Q4 boundary.
	if dim[0].Quarter != 4 {
		t.Errorf("2024-12-31 quarter = %d, want 4", dim[0].Quarter)
	}
}

// The date key is derived from the date alone, so shuffling the input
// order must reproduce the identical dimension.
func TestBuildDateDimOrderIndependent(t *testing.T) {
	encounters := []source.Encounter{
		{EncounterID: "ENC1", EncounterDate: ts(2025, 5, 1, 9, 0)},
		{EncounterID: "ENC2", EncounterDate: ts(2025, 4, 1, 9, 0)},
	}
	reversed := []source.Encounter{encounters[1], encounters[0]}

	a, err := BuildDateDim(encounters, nil, nil)
	if err != nil {
		t.Fatalf("BuildDateDim: %v", err)
	}
	b, err := BuildDateDim(reversed, nil, nil)
	if err != nil {
		t.Fatalf("BuildDateDim reversed: %v", err)
	}

	if len(a) != len(b) {
		t.Fatalf("row counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("row %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestBuildDateDimMissingDate(t *testing.T) {
	encounters := []source.Encounter{{EncounterID: "ENC1"}} // zero date
	_, err := BuildDateDim(encounters, nil, nil)
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("err = %v, want ErrMissingField", err)
	}

	labs := []source.LabResult{{TestID: "LAB1"}}
	if _, err := BuildDateDim(nil, labs, nil); !errors.Is(err, ErrMissingField) {
		t.Fatalf("lab err = %v, want ErrMissingField", err)
	}

	appointments := []source.Appointment{{AppointmentID: "APT1"}}
	if _, err := BuildDateDim(nil, nil, appointments); !errors.Is(err, ErrMissingField) {
		t.Fatalf("appointment err = %v, want ErrMissingField", err)
	}
}

func TestBuildDiagnosisDim(t *testing.T) {
	hypertension := &source.Diagnosis{ICD10Code: "I10", Description: "Essential hypertension"}
	diabetes := &source.Diagnosis{ICD10Code: "E11.9", Description: "Type 2 diabetes without complications"}

	encounters := []source.Encounter{
		{EncounterID: "ENC1", PrimaryDiagnosis: hypertension},
		{EncounterID: "ENC2", PrimaryDiagnosis: diabetes},
		{EncounterID: "ENC3", PrimaryDiagnosis: hypertension}, // duplicate pair
		{EncounterID: "ENC4"},                                 // no diagnosis: no row, no sentinel
		{EncounterID: "ENC5", PrimaryDiagnosis: &source.Diagnosis{ICD10Code: "I10", Description: "Hypertension, revised wording"}},
	}

	dim := BuildDiagnosisDim(encounters)

	if len(dim) != 3 {
		t.Fatalf("rows = %d, want 3 (dedup by code+description pair)", len(dim))
	}
	seen := make(map[[2]string]bool)
	for i, d := range dim {
		if d.DiagnosisKey != int32(i+1) {
			t.Errorf("diagnosis_key[%d] = %d, want %d", i, d.DiagnosisKey, i+1)
		}
		pair := [2]string{d.ICD10Code, d.Description}
		if seen[pair] {
			t.Errorf("duplicate pair %v", pair)
		}
		seen[pair] = true
	}
	if dim[0].ICD10Code != "I10" || dim[1].ICD10Code != "E11.9" {
		t.Errorf("first-seen order not preserved: %+v", dim)
	}
}

func TestBuildDiagnosisDimEmpty(t *testing.T) {
	if dim := BuildDiagnosisDim(nil); len(dim) != 0 {
		t.Errorf("rows = %d, want 0", len(dim))
	}
	encounters := []source.Encounter{{EncounterID: "ENC1"}, {EncounterID: "ENC2"}}
	if dim := BuildDiagnosisDim(encounters); len(dim) != 0 {
		t.Errorf("rows with nil diagnoses = %d, want 0", len(dim))
	}
}

func TestDateKey(t *testing.T) {
	tests := []struct {
		in   time.Time
		want int32
	}{
		{date(2025, 1, 15), 20250115},
		{date(2024, 12, 31), 20241231},
		{date(1999, 9, 9), 19990909},
		{time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC), 20250601}, // time ignored
	}
	for _, tt := range tests {
		if got := DateKey(tt.in); got != tt.want {
			t.Errorf("DateKey(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
