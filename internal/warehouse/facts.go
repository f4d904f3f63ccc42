package warehouse

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"nhspipeline/internal/source"
)

// patientKeyIndex maps NHS number → patient surrogate key. Fact builders
// read this mapping; only BuildPatientDim assigns the keys.
func patientKeyIndex(dim []DimPatient) map[string]int32 {
	idx := make(map[string]int32, len(dim))
	for _, p := range dim {
		idx[p.NHSNumber] = p.PatientKey
	}
	return idx
}

func dateKeySet(dim []DimDate) map[int32]bool {
	set := make(map[int32]bool, len(dim))
	for _, d := range dim {
		set[d.DateKey] = true
	}
	return set
}

// lookupPatient resolves an NHS number against dim_patient. A miss yields
// a nil key: the fact row is kept with an absent foreign key, never
// dropped.
func lookupPatient(idx map[string]int32, nhsNumber string) *int32 {
	if key, ok := idx[nhsNumber]; ok {
		k := key
		return &k
	}
	return nil
}

// resolveDateKey derives the YYYYMMDD key and checks it against dim_date.
// BuildDateDim covers every source date, so a miss means the dimension and
// fact builders disagree, so it is fatal rather than tolerated.
func resolveDateKey(dates map[int32]bool, t time.Time, table, id string) (int32, error) {
	key := DateKey(t)
	if !dates[key] {
		return 0, fmt.Errorf("%s: %s: date key %d not in date dimension", table, id, key)
	}
	return key, nil
}

// BuildEncounterFacts emits one fact row per source encounter.
func BuildEncounterFacts(encounters []source.Encounter, patients map[string]int32, dates map[int32]bool) ([]FactEncounter, error) {
	facts := make([]FactEncounter, len(encounters))
	for i, e := range encounters {
		dateKey, err := resolveDateKey(dates, e.EncounterDate.Time, "fact_encounters", e.EncounterID)
		if err != nil {
			return nil, err
		}
		facts[i] = FactEncounter{
			EncounterID:   e.EncounterID,
			NHSNumber:     e.NHSNumber,
			EncounterDate: e.EncounterDate.Time,
			EncounterType: e.EncounterType,
			Department:    e.Department,
			PatientKey:    lookupPatient(patients, e.NHSNumber),
			DateKey:       dateKey,
		}
	}
	return facts, nil
}

// BuildLabTestFacts emits one fact row per source lab result row.
func BuildLabTestFacts(labs []source.LabResult, patients map[string]int32, dates map[int32]bool) ([]FactLabTest, error) {
	facts := make([]FactLabTest, len(labs))
	for i, l := range labs {
		dateKey, err := resolveDateKey(dates, l.OrderDate, "fact_lab_tests", l.TestID)
		if err != nil {
			return nil, err
		}
		facts[i] = FactLabTest{
			TestID:        l.TestID,
			NHSNumber:     l.NHSNumber,
			TestType:      l.TestType,
			TestComponent: l.TestComponent,
			OrderDate:     l.OrderDate,
			ResultValue:   l.ResultValue,
			IsAbnormal:    l.IsAbnormal,
			PatientKey:    lookupPatient(patients, l.NHSNumber),
			DateKey:       dateKey,
		}
	}
	return facts, nil
}

// BuildAppointmentFacts emits one fact row per source appointment.
func BuildAppointmentFacts(appointments []source.Appointment, patients map[string]int32, dates map[int32]bool) ([]FactAppointment, error) {
	facts := make([]FactAppointment, len(appointments))
	for i, a := range appointments {
		dateKey, err := resolveDateKey(dates, a.AppointmentDate, "fact_appointments", a.AppointmentID)
		if err != nil {
			return nil, err
		}
		facts[i] = FactAppointment{
			AppointmentID:    a.AppointmentID,
			NHSNumber:        a.NHSNumber,
			AppointmentDate:  a.AppointmentDate,
			AppointmentType:  a.AppointmentType,
			Specialty:        a.Specialty,
			AttendanceStatus: a.AttendanceStatus,
			PatientKey:       lookupPatient(patients, a.NHSNumber),
			DateKey:          dateKey,
		}
	}
	return facts, nil
}

// Build runs the full transform: dimensions first, then facts resolved
// against the dimensions' key assignments.
func Build(patients []source.Patient, encounters []source.Encounter, labs []source.LabResult, appointments []source.Appointment) (*Warehouse, error) {
	w := &Warehouse{
		RunID:   uuid.New(),
		BuiltAt: time.Now().UTC(),
	}

	w.Patients = BuildPatientDim(patients)

	var err error
	w.Dates, err = BuildDateDim(encounters, labs, appointments)
	if err != nil {
		return nil, fmt.Errorf("build dim_date: %w", err)
	}
	w.Diagnoses = BuildDiagnosisDim(encounters)

	patientIdx := patientKeyIndex(w.Patients)
	dates := dateKeySet(w.Dates)

	w.Encounters, err = BuildEncounterFacts(encounters, patientIdx, dates)
	if err != nil {
		return nil, fmt.Errorf("build fact_encounters: %w", err)
	}
	w.LabTests, err = BuildLabTestFacts(labs, patientIdx, dates)
	if err != nil {
		return nil, fmt.Errorf("build fact_lab_tests: %w", err)
	}
	w.Appointments, err = BuildAppointmentFacts(appointments, patientIdx, dates)
	if err != nil {
		return nil, fmt.Errorf("build fact_appointments: %w", err)
	}

	return w, nil
}
