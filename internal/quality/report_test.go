package quality

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"nhspipeline/internal/source"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAssessPatients(t *testing.T) {
	phone := "0131 000 000"
	patients := []source.Patient{
		{PatientID: "PAS1", NHSNumber: "9434765919", Title: "Mr", FirstName: "John", LastName: "Smith",
			DateOfBirth: time.Date(1960, 3, 12, 0, 0, 0, 0, time.UTC), Gender: "M", Ethnicity: "White British",
			AddressLine1: "1 High St", City: "Edinburgh", Postcode: "EH1 1AA", Phone: &phone,
			GPPracticeCode: "GP10000", GPPracticeName: "Smith Medical Practice",
			RegistrationDate: time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)},
		{PatientID: "PAS2", NHSNumber: "1234567890", Title: "Ms", FirstName: "Jane", LastName: "Doe",
			DateOfBirth: time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC), Gender: "F", Ethnicity: "Asian",
			AddressLine1: "2 Low St", City: "Glasgow", Postcode: "G1 2BB",
			GPPracticeCode: "GP20000", GPPracticeName: "Doe Medical Practice",
			RegistrationDate: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	r := Assess(uuid.New(), patients, nil, nil, nil)

	if r.Patients.Records != 2 {
		t.Fatalf("records = %d, want 2", r.Patients.Records)
	}
	// 9434765919 is valid, 1234567890 computes check digit 10 territory:
	// 1*10+2*9+3*8+4*7+5*6+6*5+7*4+8*3+9*2 = 210; 210%11 = 1; check = 10 → invalid.
	if r.Patients.ValidNHSNumbers != 1 {
		t.Errorf("valid NHS numbers = %d, want 1", r.Patients.ValidNHSNumbers)
	}
	if !almostEqual(r.Patients.NHSNumberRate, 0.5) {
		t.Errorf("NHS number rate = %f, want 0.5", r.Patients.NHSNumberRate)
	}

	// Both rows fill 17 of 21 columns (phone only on row 1; email and the
	// three next-of-kin columns empty on both).
	// Per-column presence: 16 columns at 2/2, phone at 1/2, 4 columns at 0.
	want := (16.0 + 0.5) / 21.0
	if !almostEqual(r.Patients.FieldCompleteness, want) {
		t.Errorf("completeness = %f, want %f", r.Patients.FieldCompleteness, want)
	}
}

func TestAssessRequiredFieldCounts(t *testing.T) {
	now := source.Timestamp{Time: time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)}
	encounters := []source.Encounter{
		{EncounterID: "ENC1", NHSNumber: "9434765919", EncounterDate: now,
			PrimaryDiagnosis: &source.Diagnosis{ICD10Code: "I10", Description: "Essential hypertension"}},
		{EncounterID: "ENC2", NHSNumber: "9434765919", EncounterDate: now},
		{EncounterID: "ENC3", NHSNumber: "9434765919", EncounterDate: now,
			PrimaryDiagnosis: &source.Diagnosis{ICD10Code: "J45.9", Description: "Asthma"}},
	}
	labs := []source.LabResult{
		{TestID: "LAB1", NHSNumber: "9434765919", Status: "Completed"},
		{TestID: "LAB2", NHSNumber: "9434765919", Status: "Pending"},
		{TestID: "LAB3", NHSNumber: "9434765919", Status: "Completed"},
		{TestID: "LAB4", NHSNumber: "9434765919", Status: "Rejected"},
	}
	appointments := []source.Appointment{
		{AppointmentID: "APT1", AttendanceStatus: "Attended"},
		{AppointmentID: "APT2", AttendanceStatus: "DNA (Did Not Attend)"},
		{AppointmentID: "APT3", AttendanceStatus: "Scheduled"},
		{AppointmentID: "APT4", AttendanceStatus: "Attended"},
	}

	r := Assess(uuid.New(), nil, encounters, labs, appointments)

	if r.WithPrimaryDiagnosis != 2 {
		t.Errorf("encounters with diagnosis = %d, want 2", r.WithPrimaryDiagnosis)
	}
	if r.CompletedLabTests != 2 {
		t.Errorf("completed lab tests = %d, want 2", r.CompletedLabTests)
	}
	if r.ResolvedAppointments != 3 {
		t.Errorf("resolved appointments = %d, want 3", r.ResolvedAppointments)
	}
	if r.AttendedAppointments != 2 {
		t.Errorf("attended appointments = %d, want 2", r.AttendedAppointments)
	}
	if !almostEqual(r.AttendanceRate(), 2.0/3.0) {
		t.Errorf("attendance rate = %f, want 2/3", r.AttendanceRate())
	}
}

func TestAssessEmptySources(t *testing.T) {
	r := Assess(uuid.New(), nil, nil, nil, nil)

	for _, s := range []SourceStats{r.Patients, r.Encounters, r.LabResults, r.Appointments} {
		if s.Records != 0 || s.ValidNHSNumbers != 0 {
			t.Errorf("%s: non-zero counts on empty source: %+v", s.Source, s)
		}
		if s.NHSNumberRate != 0 || s.FieldCompleteness != 0 {
			t.Errorf("%s: rates must be 0, not NaN, on empty source: %+v", s.Source, s)
		}
	}
	if r.AttendanceRate() != 0 {
		t.Errorf("attendance rate on empty source = %f, want 0", r.AttendanceRate())
	}
}

func TestAssessNeverBlocks(t *testing.T) {
	// Malformed identifiers reduce the rate but never error.
	patients := []source.Patient{
		{PatientID: "PAS1", NHSNumber: "not-a-number"},
		{PatientID: "PAS2", NHSNumber: ""},
		{PatientID: "PAS3", NHSNumber: "94347659190000"},
	}
	r := Assess(uuid.New(), patients, nil, nil, nil)
	if r.Patients.ValidNHSNumbers != 0 {
		t.Errorf("valid = %d, want 0", r.Patients.ValidNHSNumbers)
	}
	if r.Patients.Records != 3 {
		t.Errorf("records = %d, want 3", r.Patients.Records)
	}
}
