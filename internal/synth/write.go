package synth

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"nhspipeline/internal/source"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

var patientHeader = []string{
	"patient_id", "nhs_number", "title", "first_name", "last_name",
	"date_of_birth", "age", "gender", "ethnicity", "address_line1",
	"city", "postcode", "phone", "email", "gp_practice_code",
	"gp_practice_name", "registration_date", "is_active",
	"nok_name", "nok_relationship", "nok_phone",
}

// WritePatientsCSV writes the PAS extract.
func WritePatientsCSV(path string, patients []source.Patient) error {
	return writeCSV(path, patientHeader, len(patients), func(i int) []string {
		p := patients[i]
		return []string{
			p.PatientID, p.NHSNumber, p.Title, p.FirstName, p.LastName,
			p.DateOfBirth.Format(dateLayout), strconv.Itoa(p.Age),
			p.Gender, p.Ethnicity, p.AddressLine1, p.City, p.Postcode,
			optStr(p.Phone), optStr(p.Email), p.GPPracticeCode,
			p.GPPracticeName, p.RegistrationDate.Format(dateLayout),
			fmtBool(p.IsActive), optStr(p.NOKName),
			optStr(p.NOKRelationship), optStr(p.NOKPhone),
		}
	})
}

// WriteEncountersJSON writes the EHR extract as a single JSON array of
// encounter documents.
func WriteEncountersJSON(path string, encounters []source.Encounter) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(encounters); err != nil {
		file.Close()
		return fmt.Errorf("encode encounters: %w", err)
	}
	return file.Close()
}

var labHeader = []string{
	"test_id", "nhs_number", "test_type", "test_component",
	"order_date", "result_date", "result_value", "unit",
	"reference_range_min", "reference_range_max", "is_abnormal",
	"urgency", "specimen_type", "status", "ordering_clinician",
	"laboratory",
}

// WriteLabResultsCSV writes the LIMS extract.
func WriteLabResultsCSV(path string, results []source.LabResult) error {
	return writeCSV(path, labHeader, len(results), func(i int) []string {
		r := results[i]
		return []string{
			r.TestID, r.NHSNumber, r.TestType, r.TestComponent,
			r.OrderDate.Format(dateTimeLayout), optTime(r.ResultDate),
			optFloat(r.ResultValue), r.Unit,
			fmtFloat(r.ReferenceRangeMin), fmtFloat(r.ReferenceRangeMax),
			optBool(r.IsAbnormal), r.Urgency, r.SpecimenType, r.Status,
			r.OrderingClinician, r.Laboratory,
		}
	})
}

var appointmentHeader = []string{
	"appointment_id", "nhs_number", "booking_date", "appointment_date",
	"appointment_time", "appointment_type", "department", "specialty",
	"clinician_id", "clinician_name", "duration_minutes", "priority",
	"attendance_status", "actual_arrival_time", "actual_start_time",
	"actual_end_time", "wait_time_minutes", "cancellation_reason",
	"reminder_sent", "reminder_method", "location", "room_number",
}

// WriteAppointmentsCSV writes the scheduling extract.
func WriteAppointmentsCSV(path string, appointments []source.Appointment) error {
	return writeCSV(path, appointmentHeader, len(appointments), func(i int) []string {
		a := appointments[i]
		return []string{
			a.AppointmentID, a.NHSNumber,
			a.BookingDate.Format(dateTimeLayout),
			a.AppointmentDate.Format(dateLayout), a.AppointmentTime,
			a.AppointmentType, a.Department, a.Specialty,
			a.ClinicianID, a.ClinicianName,
			strconv.Itoa(a.DurationMinutes), a.Priority,
			a.AttendanceStatus, optTime(a.ActualArrivalTime),
			optTime(a.ActualStartTime), optTime(a.ActualEndTime),
			optInt(a.WaitTimeMinutes), optStr(a.CancellationReason),
			fmtBool(a.ReminderSent), optStr(a.ReminderMethod),
			a.Location, a.RoomNumber,
		}
	})
}

func writeCSV(path string, header []string, n int, row func(int) []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		file.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			file.Close()
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		file.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return file.Close()
}

// Cell formatters. Empty cells stand for null.

func optStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func optFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return fmtFloat(*f)
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func optBool(b *bool) string {
	if b == nil {
		return ""
	}
	return fmtBool(*b)
}

func fmtBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func optTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateTimeLayout)
}
