package warehouse

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"nhspipeline/internal/source"
)

// ErrMissingField reports an event row lacking a field the dimension build
// structurally requires (e.g. no date on an event). Fatal for that table:
// the build aborts rather than defaulting the field.
var ErrMissingField = errors.New("missing required field")

// BuildPatientDim projects the demographic columns from the PAS extract
// and assigns surrogate keys 1..N in source row order. The PAS feed
// guarantees NHS-number uniqueness; no deduplication happens here.
func BuildPatientDim(patients []source.Patient) []DimPatient {
	dim := make([]DimPatient, len(patients))
	for i, p := range patients {
		dim[i] = DimPatient{
			PatientID:   p.PatientID,
			NHSNumber:   p.NHSNumber,
			Title:       p.Title,
			FirstName:   p.FirstName,
			LastName:    p.LastName,
			DateOfBirth: p.DateOfBirth,
			Age:         int32(p.Age),
			Gender:      p.Gender,
			Ethnicity:   p.Ethnicity,
			Postcode:    p.Postcode,
			City:        p.City,
			PatientKey:  int32(i + 1),
		}
	}
	return dim
}

// BuildDateDim collects every calendar date referenced by the three event
// sources, deduplicates, sorts ascending, and derives the calendar parts.
// The YYYYMMDD key is derived from the date value alone, so re-running
// with the inputs in a different order yields identical keys.
//
// An event with a zero date is a structural defect in its source and
// fails the build with ErrMissingField.
func BuildDateDim(encounters []source.Encounter, labs []source.LabResult, appointments []source.Appointment) ([]DimDate, error) {
	seen := make(map[int32]time.Time)

	for _, e := range encounters {
		if e.EncounterDate.IsZero() {
			return nil, fmt.Errorf("%w: encounter %s has no encounter_date", ErrMissingField, e.EncounterID)
		}
		d := truncateDay(e.EncounterDate.Time)
		seen[DateKey(d)] = d
	}
	for _, l := range labs {
		if l.OrderDate.IsZero() {
			return nil, fmt.Errorf("%w: lab test %s has no order_date", ErrMissingField, l.TestID)
		}
		d := truncateDay(l.OrderDate)
		seen[DateKey(d)] = d
	}
	for _, a := range appointments {
		if a.AppointmentDate.IsZero() {
			return nil, fmt.Errorf("%w: appointment %s has no appointment_date", ErrMissingField, a.AppointmentID)
		}
		d := truncateDay(a.AppointmentDate)
		seen[DateKey(d)] = d
	}

	dim := make([]DimDate, 0, len(seen))
	for key, d := range seen {
		dim = append(dim, DimDate{
			DateKey:   key,
			Date:      d,
			Year:      int32(d.Year()),
			Quarter:   int32((int(d.Month())-1)/3 + 1),
			Month:     int32(d.Month()),
			Day:       int32(d.Day()),
			DayOfWeek: mondayIndexed(d.Weekday()),
		})
	}
	sort.Slice(dim, func(i, j int) bool { return dim[i].DateKey < dim[j].DateKey })
	return dim, nil
}

// BuildDiagnosisDim extracts the primary diagnosis from each encounter,
// deduplicates by (code, description), and assigns dense surrogate keys in
// first-seen order. Encounters without a primary diagnosis contribute no
// row.
func BuildDiagnosisDim(encounters []source.Encounter) []DimDiagnosis {
	type pair struct{ code, desc string }
	seen := make(map[pair]bool)

	var dim []DimDiagnosis
	for _, e := range encounters {
		if e.PrimaryDiagnosis == nil {
			continue
		}
		p := pair{e.PrimaryDiagnosis.ICD10Code, e.PrimaryDiagnosis.Description}
		if seen[p] {
			continue
		}
		seen[p] = true
		dim = append(dim, DimDiagnosis{
			ICD10Code:    p.code,
			Description:  p.desc,
			DiagnosisKey: int32(len(dim) + 1),
		})
	}
	return dim
}

// truncateDay drops the time-of-day component in the date's own location.
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// mondayIndexed converts Go's Sunday=0 weekday to the warehouse's
// Monday=0 convention, a compatibility surface for downstream consumers.
func mondayIndexed(w time.Weekday) int32 {
	return int32((int(w) + 6) % 7)
}
