package source

import "io"

var appointmentRequiredCols = []string{
	"appointment_id", "nhs_number", "appointment_date",
	"appointment_type", "specialty", "attendance_status",
}

// AppointmentReader streams the appointments CSV one record at a time.
type AppointmentReader struct {
	f *csvFile
}

func NewAppointmentReader(path string) (*AppointmentReader, error) {
	f, err := openCSV(path, appointmentRequiredCols)
	if err != nil {
		return nil, err
	}
	return &AppointmentReader{f: f}, nil
}

// Next returns the next appointment record, or io.EOF when the file is done.
func (r *AppointmentReader) Next() (Appointment, error) {
	row, err := r.f.next()
	if err != nil {
		return Appointment{}, err
	}
	idx := r.f.colIdx
	return Appointment{
		AppointmentID:      valAt(row, idx, "appointment_id"),
		NHSNumber:          valAt(row, idx, "nhs_number"),
		BookingDate:        dateAt(row, idx, "booking_date"),
		AppointmentDate:    dateAt(row, idx, "appointment_date"),
		AppointmentTime:    valAt(row, idx, "appointment_time"),
		AppointmentType:    valAt(row, idx, "appointment_type"),
		Department:         valAt(row, idx, "department"),
		Specialty:          valAt(row, idx, "specialty"),
		ClinicianID:        valAt(row, idx, "clinician_id"),
		ClinicianName:      valAt(row, idx, "clinician_name"),
		DurationMinutes:    intAt(row, idx, "duration_minutes"),
		Priority:           valAt(row, idx, "priority"),
		AttendanceStatus:   valAt(row, idx, "attendance_status"),
		ActualArrivalTime:  optDate(row, idx, "actual_arrival_time"),
		ActualStartTime:    optDate(row, idx, "actual_start_time"),
		ActualEndTime:      optDate(row, idx, "actual_end_time"),
		WaitTimeMinutes:    optInt(row, idx, "wait_time_minutes"),
		CancellationReason: optStr(row, idx, "cancellation_reason"),
		ReminderSent:       boolAt(row, idx, "reminder_sent"),
		ReminderMethod:     optStr(row, idx, "reminder_method"),
		Location:           valAt(row, idx, "location"),
		RoomNumber:         valAt(row, idx, "room_number"),
	}, nil
}

func (r *AppointmentReader) RowNum() int64 { return r.f.rowNum }

func (r *AppointmentReader) Close() error { return r.f.Close() }

// ReadAppointments loads an entire appointments extract into memory.
func ReadAppointments(path string) ([]Appointment, error) {
	r, err := NewAppointmentReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var appointments []Appointment
	for {
		a, err := r.Next()
		if err == io.EOF {
			return appointments, nil
		}
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, a)
	}
}
