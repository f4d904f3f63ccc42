// Package source defines the typed records of the four NHS feeds (PAS
// patients, EHR encounters, LIMS lab results, appointments) and streaming
// readers for their on-disk formats.
package source

import (
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// Timestamp is a time.Time that marshals as "YYYY-MM-DD HH:MM:SS",
// the format the EHR feed uses for every timestamp field.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(dateTimeLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(dateTimeLayout, s)
	if err != nil {
		// Some feeds emit bare dates for date-valued fields.
		parsed, err = time.Parse(dateLayout, s)
		if err != nil {
			return fmt.Errorf("parse timestamp %q: %w", s, err)
		}
	}
	t.Time = parsed
	return nil
}

// Patient is one row of the PAS demographic extract.
type Patient struct {
	PatientID        string
	NHSNumber        string
	Title            string
	FirstName        string
	LastName         string
	DateOfBirth      time.Time
	Age              int
	Gender           string
	Ethnicity        string
	AddressLine1     string
	City             string
	Postcode         string
	Phone            *string
	Email            *string
	GPPracticeCode   string
	GPPracticeName   string
	RegistrationDate time.Time
	IsActive         bool
	NOKName          *string
	NOKRelationship  *string
	NOKPhone         *string
}

// Diagnosis is a coded clinical diagnosis. An encounter without a primary
// diagnosis carries a nil *Diagnosis, never a zero value.
type Diagnosis struct {
	ICD10Code   string `json:"icd10_code"`
	Description string `json:"description"`
}

// Medication is one prescribed medication on an encounter.
type Medication struct {
	Name      string `json:"medication"`
	Dose      string `json:"dose"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

// Vitals holds the observations recorded at an encounter.
type Vitals struct {
	BloodPressureSystolic  int     `json:"blood_pressure_systolic"`
	BloodPressureDiastolic int     `json:"blood_pressure_diastolic"`
	HeartRate              int     `json:"heart_rate"`
	Temperature            float64 `json:"temperature"`
	OxygenSaturation       int     `json:"oxygen_saturation"`
}

// Encounter is one EHR clinical encounter document. The EHR feed is the
// only nested source: diagnoses, medications, and vitals are embedded
// structures rather than flat columns.
type Encounter struct {
	EncounterID        string       `json:"encounter_id"`
	NHSNumber          string       `json:"nhs_number"`
	EncounterDate      Timestamp    `json:"encounter_date"`
	EncounterType      string       `json:"encounter_type"`
	Department         string       `json:"department"`
	PrimaryDiagnosis   *Diagnosis   `json:"primary_diagnosis"`
	SecondaryDiagnoses []Diagnosis  `json:"secondary_diagnoses"`
	Medications        []Medication `json:"medications"`
	ClinicalNote       string       `json:"clinical_note"`
	Vitals             Vitals       `json:"vitals"`
	LabTestsOrdered    []string     `json:"lab_tests_ordered"`
	Disposition        string       `json:"disposition"`
	LengthOfStayDays   *int         `json:"length_of_stay_days"`
	DischargeDate      *Timestamp   `json:"discharge_date"`
	ClinicianID        string       `json:"clinician_id"`
}

// LabResult is one row of the LIMS extract: one test component per row,
// so a panel like Full Blood Count yields several rows per order.
type LabResult struct {
	TestID            string
	NHSNumber         string
	TestType          string
	TestComponent     string
	OrderDate         time.Time
	ResultDate        *time.Time
	ResultValue       *float64
	Unit              string
	ReferenceRangeMin float64
	ReferenceRangeMax float64
	IsAbnormal        *bool
	Urgency           string
	SpecimenType      string
	Status            string
	OrderingClinician string
	Laboratory        string
}

// Appointment is one row of the appointment-scheduling extract.
type Appointment struct {
	AppointmentID      string
	NHSNumber          string
	BookingDate        time.Time
	AppointmentDate    time.Time
	AppointmentTime    string
	AppointmentType    string
	Department         string
	Specialty          string
	ClinicianID        string
	ClinicianName      string
	DurationMinutes    int
	Priority           string
	AttendanceStatus   string
	ActualArrivalTime  *time.Time
	ActualStartTime    *time.Time
	ActualEndTime      *time.Time
	WaitTimeMinutes    *int
	CancellationReason *string
	ReminderSent       bool
	ReminderMethod     *string
	Location           string
	RoomNumber         string
}
