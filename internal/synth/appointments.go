package synth

import (
	"fmt"
	"time"

	"nhspipeline/internal/source"
)

var (
	appointmentTypes       = []string{"GP Consultation", "Specialist Outpatient", "Follow-up", "Diagnostic", "Treatment", "Mental Health"}
	appointmentTypeWeights = []float64{0.35, 0.25, 0.20, 0.10, 0.07, 0.03}

	outpatientSpecialties = []string{"Cardiology", "Respiratory", "Orthopaedics", "Gastroenterology", "Neurology", "Dermatology"}
	generalSpecialties    = []string{"General Medicine", "Surgery", "Radiology"}

	clinicianSurnames = []string{"Smith", "Jones", "Brown", "Wilson", "Taylor", "Davies"}

	durationsMinutes = []int{15, 20, 30, 45, 60}
	durationWeights  = []float64{0.30, 0.25, 0.30, 0.10, 0.05}

	attendanceStatuses = []string{
		"Attended", "DNA (Did Not Attend)", "Cancelled by Patient",
		"Cancelled by Hospital", "Rescheduled",
	}
	attendanceWeights = []float64{0.75, 0.08, 0.07, 0.05, 0.05}

	priorities      = []string{"Routine", "Soon", "Urgent", "Emergency"}
	priorityWeights = []float64{0.70, 0.20, 0.08, 0.02}

	patientCancellationReasons = []string{
		"Personal reasons", "Feeling better", "Transport issues",
		"Work commitments", "Illness", "Other appointment",
	}
	hospitalCancellationReasons = []string{
		"Clinician unavailable", "Emergency case", "Clinic overrunning",
		"Equipment failure", "Staff shortage",
	}

	reminderMethods = []string{"SMS", "Email", "Phone", "Letter"}
	locations       = []string{"Main Hospital", "Community Clinic", "Health Centre"}
	slotMinutes     = []int{0, 15, 30, 45}
)

// Appointments generates n booking records spanning the last eighteen
// months and the next three. Past appointments carry an attendance
// outcome and, when attended, actual timings and a computed wait.
func (g *Generator) Appointments(patients []source.Patient, n int) []source.Appointment {
	appointments := make([]source.Appointment, 0, n)

	for i := 0; i < n; i++ {
		nhs := patients[g.rng.Intn(len(patients))].NHSNumber

		daysOffset := g.rng.Intn(636) - 545 // -18 months to +3 months
		day := g.now.AddDate(0, 0, daysOffset)
		slot := time.Date(day.Year(), day.Month(), day.Day(),
			9+g.rng.Intn(8), slotMinutes[g.rng.Intn(len(slotMinutes))], 0, 0, time.UTC)
		booking := slot.AddDate(0, 0, -(1 + g.rng.Intn(90)))

		apptType := appointmentTypes[g.weighted(appointmentTypeWeights)]
		var department, specialty string
		switch apptType {
		case "GP Consultation":
			department = "General Practice"
			specialty = "General Medicine"
		case "Specialist Outpatient":
			specialty = g.pick(outpatientSpecialties)
			department = specialty + " Outpatients"
		case "Mental Health":
			specialty = "Psychiatry"
			department = "Mental Health Services"
		default:
			specialty = g.pick(generalSpecialties)
			department = specialty + " Department"
		}

		duration := durationsMinutes[g.weighted(durationWeights)]

		a := source.Appointment{
			AppointmentID:    fmt.Sprintf("APT%08d", i+1),
			NHSNumber:        nhs,
			BookingDate:      booking,
			AppointmentDate:  slot,
			AppointmentTime:  slot.Format("15:04"),
			AppointmentType:  apptType,
			Department:       department,
			Specialty:        specialty,
			ClinicianID:      g.clinicianID(),
			ClinicianName:    "Dr. " + g.pick(clinicianSurnames),
			DurationMinutes:  duration,
			Priority:         priorities[g.weighted(priorityWeights)],
			AttendanceStatus: "Scheduled",
			ReminderSent:     true,
			Location:         g.pick(locations),
			RoomNumber:       fmt.Sprintf("%c%d", 'A'+rune(g.rng.Intn(3)), 1+g.rng.Intn(20)),
		}

		if daysOffset < 0 {
			a.AttendanceStatus = attendanceStatuses[g.weighted(attendanceWeights)]
			a.ReminderSent = g.chance(0.90)

			switch a.AttendanceStatus {
			case "Attended":
				arrival := slot.Add(time.Duration(g.rng.Intn(41)-10) * time.Minute)
				start := slot.Add(time.Duration(g.rng.Intn(46)) * time.Minute)
				end := start.Add(time.Duration(duration+g.rng.Intn(21)-5) * time.Minute)
				wait := int(start.Sub(arrival).Minutes())
				a.ActualArrivalTime = &arrival
				a.ActualStartTime = &start
				a.ActualEndTime = &end
				a.WaitTimeMinutes = &wait
			case "Cancelled by Patient":
				reason := g.pick(patientCancellationReasons)
				a.CancellationReason = &reason
			case "Cancelled by Hospital":
				reason := g.pick(hospitalCancellationReasons)
				a.CancellationReason = &reason
			}
		}
		if a.ReminderSent {
			method := g.pick(reminderMethods)
			a.ReminderMethod = &method
		}

		appointments = append(appointments, a)
	}
	return appointments
}
