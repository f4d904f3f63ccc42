// Package quality computes per-source validation and completeness
// statistics. It is a pure aggregation over the extracted records, a
// quality gate that reports but never blocks the pipeline.
package quality

import (
	"time"

	"github.com/google/uuid"

	"nhspipeline/internal/nhsnum"
	"nhspipeline/internal/source"
)

// SourceStats summarizes identifier validity and field completeness for
// one source feed.
type SourceStats struct {
	Source          string
	Records         int
	ValidNHSNumbers int
	// NHSNumberRate is the fraction of records whose NHS number passes
	// Modulus 11 validation. Zero when the source is empty.
	NHSNumberRate float64
	// FieldCompleteness is the average fraction of non-missing values
	// across the source's columns.
	FieldCompleteness float64
}

// Report aggregates the four source feeds for one pipeline run.
type Report struct {
	RunID       uuid.UUID
	GeneratedAt time.Time

	Patients     SourceStats
	Encounters   SourceStats
	LabResults   SourceStats
	Appointments SourceStats

	// Required-field presence, per source contract.
	WithPrimaryDiagnosis int // encounters carrying a primary diagnosis
	CompletedLabTests    int // lab rows with status Completed
	ResolvedAppointments int // appointments past the Scheduled state
	AttendedAppointments int
}

// AttendanceRate is attended over resolved appointments. Scheduled
// (future) appointments are excluded from the denominator.
func (r *Report) AttendanceRate() float64 {
	if r.ResolvedAppointments == 0 {
		return 0
	}
	return float64(r.AttendedAppointments) / float64(r.ResolvedAppointments)
}

// Assess computes the full quality report for one run's extracted records.
func Assess(runID uuid.UUID, patients []source.Patient, encounters []source.Encounter, labs []source.LabResult, appointments []source.Appointment) *Report {
	r := &Report{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),

		Patients:     patientStats(patients),
		Encounters:   encounterStats(encounters),
		LabResults:   labStats(labs),
		Appointments: appointmentStats(appointments),
	}

	for _, e := range encounters {
		if e.PrimaryDiagnosis != nil {
			r.WithPrimaryDiagnosis++
		}
	}
	for _, l := range labs {
		if l.Status == "Completed" {
			r.CompletedLabTests++
		}
	}
	for _, a := range appointments {
		if a.AttendanceStatus != "Scheduled" {
			r.ResolvedAppointments++
		}
		if a.AttendanceStatus == "Attended" {
			r.AttendedAppointments++
		}
	}

	return r
}

// completeness averages per-column presence over n records. cols holds
// one present-count per column.
func completeness(n int, cols []int) float64 {
	if n == 0 || len(cols) == 0 {
		return 0
	}
	var sum float64
	for _, c := range cols {
		sum += float64(c) / float64(n)
	}
	return sum / float64(len(cols))
}

func rate(valid, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(valid) / float64(n)
}

func countStr(c *int, s string) {
	if s != "" {
		*c++
	}
}

func countOptStr(c *int, s *string) {
	if s != nil && *s != "" {
		*c++
	}
}

func countTime(c *int, t time.Time) {
	if !t.IsZero() {
		*c++
	}
}

func patientStats(patients []source.Patient) SourceStats {
	// One counter per PAS column, in feed order. Typed numeric and bool
	// columns are always present once parsed.
	cols := make([]int, 21)
	var valid int

	for _, p := range patients {
		if nhsnum.Valid(p.NHSNumber) {
			valid++
		}
		countStr(&cols[0], p.PatientID)
		countStr(&cols[1], p.NHSNumber)
		countStr(&cols[2], p.Title)
		countStr(&cols[3], p.FirstName)
		countStr(&cols[4], p.LastName)
		countTime(&cols[5], p.DateOfBirth)
		cols[6]++ // age
		countStr(&cols[7], p.Gender)
		countStr(&cols[8], p.Ethnicity)
		countStr(&cols[9], p.AddressLine1)
		countStr(&cols[10], p.City)
		countStr(&cols[11], p.Postcode)
		countOptStr(&cols[12], p.Phone)
		countOptStr(&cols[13], p.Email)
		countStr(&cols[14], p.GPPracticeCode)
		countStr(&cols[15], p.GPPracticeName)
		countTime(&cols[16], p.RegistrationDate)
		cols[17]++ // is_active
		countOptStr(&cols[18], p.NOKName)
		countOptStr(&cols[19], p.NOKRelationship)
		countOptStr(&cols[20], p.NOKPhone)
	}

	return SourceStats{
		Source:            "pas",
		Records:           len(patients),
		ValidNHSNumbers:   valid,
		NHSNumberRate:     rate(valid, len(patients)),
		FieldCompleteness: completeness(len(patients), cols),
	}
}

func encounterStats(encounters []source.Encounter) SourceStats {
	cols := make([]int, 10)
	var valid int

	for _, e := range encounters {
		if nhsnum.Valid(e.NHSNumber) {
			valid++
		}
		countStr(&cols[0], e.EncounterID)
		countStr(&cols[1], e.NHSNumber)
		countTime(&cols[2], e.EncounterDate.Time)
		countStr(&cols[3], e.EncounterType)
		countStr(&cols[4], e.Department)
		if e.PrimaryDiagnosis != nil {
			cols[5]++
		}
		countStr(&cols[6], e.ClinicalNote)
		countStr(&cols[7], e.Disposition)
		if e.DischargeDate != nil && !e.DischargeDate.IsZero() {
			cols[8]++
		}
		countStr(&cols[9], e.ClinicianID)
	}

	return SourceStats{
		Source:            "ehr",
		Records:           len(encounters),
		ValidNHSNumbers:   valid,
		NHSNumberRate:     rate(valid, len(encounters)),
		FieldCompleteness: completeness(len(encounters), cols),
	}
}

func labStats(labs []source.LabResult) SourceStats {
	cols := make([]int, 12)
	var valid int

	for _, l := range labs {
		if nhsnum.Valid(l.NHSNumber) {
			valid++
		}
		countStr(&cols[0], l.TestID)
		countStr(&cols[1], l.NHSNumber)
		countStr(&cols[2], l.TestType)
		countStr(&cols[3], l.TestComponent)
		countTime(&cols[4], l.OrderDate)
		if l.ResultDate != nil {
			cols[5]++
		}
		if l.ResultValue != nil {
			cols[6]++
		}
		countStr(&cols[7], l.Unit)
		if l.IsAbnormal != nil {
			cols[8]++
		}
		countStr(&cols[9], l.Urgency)
		countStr(&cols[10], l.SpecimenType)
		countStr(&cols[11], l.Status)
	}

	return SourceStats{
		Source:            "lims",
		Records:           len(labs),
		ValidNHSNumbers:   valid,
		NHSNumberRate:     rate(valid, len(labs)),
		FieldCompleteness: completeness(len(labs), cols),
	}
}

func appointmentStats(appointments []source.Appointment) SourceStats {
	cols := make([]int, 12)
	var valid int

	for _, a := range appointments {
		if nhsnum.Valid(a.NHSNumber) {
			valid++
		}
		countStr(&cols[0], a.AppointmentID)
		countStr(&cols[1], a.NHSNumber)
		countTime(&cols[2], a.BookingDate)
		countTime(&cols[3], a.AppointmentDate)
		countStr(&cols[4], a.AppointmentType)
		countStr(&cols[5], a.Department)
		countStr(&cols[6], a.Specialty)
		countStr(&cols[7], a.ClinicianID)
		countStr(&cols[8], a.Priority)
		countStr(&cols[9], a.AttendanceStatus)
		if a.WaitTimeMinutes != nil {
			cols[10]++
		}
		countOptStr(&cols[11], a.CancellationReason)
	}

	return SourceStats{
		Source:            "appointments",
		Records:           len(appointments),
		ValidNHSNumbers:   valid,
		NHSNumberRate:     rate(valid, len(appointments)),
		FieldCompleteness: completeness(len(appointments), cols),
	}
}
