package synth

import (
	"path/filepath"
	"testing"

	"nhspipeline/internal/nhsnum"
	"nhspipeline/internal/source"
)

func TestPatientsDeterministic(t *testing.T) {
	a := New(42).Patients(20)
	b := New(42).Patients(20)

	for i := range a {
		if a[i].NHSNumber != b[i].NHSNumber || a[i].FirstName != b[i].FirstName {
			t.Fatalf("patient %d differs across same-seed runs: %+v vs %+v", i, a[i], b[i])
		}
	}

	c := New(43).Patients(20)
	same := true
	for i := range a {
		if a[i].NHSNumber != c[i].NHSNumber {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical NHS numbers")
	}
}

func TestPatientsWellFormed(t *testing.T) {
	patients := New(1).Patients(200)

	if len(patients) != 200 {
		t.Fatalf("got %d patients, want 200", len(patients))
	}
	if patients[0].PatientID != "PAS000001" || patients[199].PatientID != "PAS000200" {
		t.Errorf("patient IDs not sequential: %s .. %s",
			patients[0].PatientID, patients[199].PatientID)
	}
	for _, p := range patients {
		if !nhsnum.Valid(p.NHSNumber) {
			t.Errorf("%s: generated invalid NHS number %s", p.PatientID, p.NHSNumber)
		}
		if p.Age < 0 || p.Age > 100 {
			t.Errorf("%s: age %d out of range", p.PatientID, p.Age)
		}
		if p.DateOfBirth.IsZero() {
			t.Errorf("%s: zero date of birth", p.PatientID)
		}
	}
}

func TestPatientsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patients.csv")
	patients := New(7).Patients(50)

	if err := WritePatientsCSV(path, patients); err != nil {
		t.Fatalf("WritePatientsCSV: %v", err)
	}
	got, err := source.ReadPatients(path)
	if err != nil {
		t.Fatalf("ReadPatients: %v", err)
	}

	if len(got) != len(patients) {
		t.Fatalf("read %d patients, wrote %d", len(got), len(patients))
	}
	for i := range patients {
		w, r := patients[i], got[i]
		if w.PatientID != r.PatientID || w.NHSNumber != r.NHSNumber ||
			w.Gender != r.Gender || w.Age != r.Age || w.IsActive != r.IsActive {
			t.Errorf("row %d: wrote %+v, read %+v", i, w, r)
		}
		if !w.DateOfBirth.Equal(r.DateOfBirth) {
			t.Errorf("row %d: dob %v read as %v", i, w.DateOfBirth, r.DateOfBirth)
		}
		if (w.Phone == nil) != (r.Phone == nil) {
			t.Errorf("row %d: phone presence changed in round trip", i)
		}
		if w.Email != nil && r.Email != nil && *w.Email != *r.Email {
			t.Errorf("row %d: email %q read as %q", i, *w.Email, *r.Email)
		}
	}
}

func TestEncountersRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "encounters.json")
	g := New(7)
	patients := g.Patients(20)
	encounters := g.Encounters(patients, 60)

	if err := WriteEncountersJSON(path, encounters); err != nil {
		t.Fatalf("WriteEncountersJSON: %v", err)
	}
	got, err := source.ReadEncounters(path)
	if err != nil {
		t.Fatalf("ReadEncounters: %v", err)
	}

	if len(got) != len(encounters) {
		t.Fatalf("read %d encounters, wrote %d", len(got), len(encounters))
	}
	for i := range encounters {
		w, r := encounters[i], got[i]
		if w.EncounterID != r.EncounterID || w.NHSNumber != r.NHSNumber ||
			w.EncounterType != r.EncounterType || w.Department != r.Department {
			t.Errorf("doc %d: wrote %+v, read %+v", i, w, r)
		}
		if !w.EncounterDate.Equal(r.EncounterDate.Time) {
			t.Errorf("doc %d: encounter_date %v read as %v",
				i, w.EncounterDate, r.EncounterDate)
		}
		if r.PrimaryDiagnosis == nil {
			t.Fatalf("doc %d: primary diagnosis lost in round trip", i)
		}
		if w.PrimaryDiagnosis.ICD10Code != r.PrimaryDiagnosis.ICD10Code {
			t.Errorf("doc %d: diagnosis %s read as %s",
				i, w.PrimaryDiagnosis.ICD10Code, r.PrimaryDiagnosis.ICD10Code)
		}
		if len(w.Medications) != len(r.Medications) {
			t.Errorf("doc %d: %d medications read as %d",
				i, len(w.Medications), len(r.Medications))
		}
		if w.Vitals != r.Vitals {
			t.Errorf("doc %d: vitals %+v read as %+v", i, w.Vitals, r.Vitals)
		}
	}
}

func TestLabResultsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lab_results.csv")
	g := New(7)
	patients := g.Patients(20)
	results := g.LabResults(patients, 40)

	// Panels expand to one row per component.
	if len(results) < 40 {
		t.Fatalf("40 orders expanded to only %d rows", len(results))
	}

	if err := WriteLabResultsCSV(path, results); err != nil {
		t.Fatalf("WriteLabResultsCSV: %v", err)
	}
	got, err := source.ReadLabResults(path)
	if err != nil {
		t.Fatalf("ReadLabResults: %v", err)
	}

	if len(got) != len(results) {
		t.Fatalf("read %d rows, wrote %d", len(got), len(results))
	}
	for i := range results {
		w, r := results[i], got[i]
		if w.TestID != r.TestID || w.TestType != r.TestType || w.Status != r.Status {
			t.Errorf("row %d: wrote %+v, read %+v", i, w, r)
		}
		if w.Status == "Completed" {
			if r.ResultValue == nil || *r.ResultValue != *w.ResultValue {
				t.Errorf("row %d: result value %v read as %v", i, w.ResultValue, r.ResultValue)
			}
			if r.IsAbnormal == nil || *r.IsAbnormal != *w.IsAbnormal {
				t.Errorf("row %d: abnormal flag %v read as %v", i, w.IsAbnormal, r.IsAbnormal)
			}
		} else {
			if r.ResultValue != nil || r.IsAbnormal != nil || r.ResultDate != nil {
				t.Errorf("row %d: %s order read with results", i, w.Status)
			}
		}
	}
}

func TestAppointmentsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "appointments.csv")
	g := New(7)
	patients := g.Patients(20)
	appointments := g.Appointments(patients, 80)

	if err := WriteAppointmentsCSV(path, appointments); err != nil {
		t.Fatalf("WriteAppointmentsCSV: %v", err)
	}
	got, err := source.ReadAppointments(path)
	if err != nil {
		t.Fatalf("ReadAppointments: %v", err)
	}

	if len(got) != len(appointments) {
		t.Fatalf("read %d rows, wrote %d", len(got), len(appointments))
	}
	for i := range appointments {
		w, r := appointments[i], got[i]
		if w.AppointmentID != r.AppointmentID || w.AttendanceStatus != r.AttendanceStatus {
			t.Errorf("row %d: wrote %+v, read %+v", i, w, r)
		}
		switch w.AttendanceStatus {
		case "Attended":
			if r.WaitTimeMinutes == nil || *r.WaitTimeMinutes != *w.WaitTimeMinutes {
				t.Errorf("row %d: wait time %v read as %v", i, w.WaitTimeMinutes, r.WaitTimeMinutes)
			}
			if r.ActualStartTime == nil {
				t.Errorf("row %d: attended appointment lost actual start time", i)
			}
		case "Scheduled":
			if r.ActualArrivalTime != nil || r.WaitTimeMinutes != nil {
				t.Errorf("row %d: future appointment read with actuals", i)
			}
		}
	}
}

func TestAppointmentOutcomes(t *testing.T) {
	g := New(11)
	patients := g.Patients(20)
	appointments := g.Appointments(patients, 500)

	statuses := make(map[string]int)
	for _, a := range appointments {
		statuses[a.AttendanceStatus]++
		if a.AttendanceStatus == "Cancelled by Patient" || a.AttendanceStatus == "Cancelled by Hospital" {
			if a.CancellationReason == nil {
				t.Errorf("%s: cancelled without a reason", a.AppointmentID)
			}
		}
		if a.ReminderMethod != nil && !a.ReminderSent {
			t.Errorf("%s: reminder method set but not sent", a.AppointmentID)
		}
	}
	if statuses["Scheduled"] == 0 {
		t.Error("no future appointments generated")
	}
	if statuses["Attended"] == 0 {
		t.Error("no attended appointments generated")
	}
}
