package synth

import (
	"fmt"
	"strings"
	"time"

	"nhspipeline/internal/source"
)

var ageBucketWeights = []float64{0.15, 0.25, 0.30, 0.25, 0.05}

// randomAge draws from a bucketed distribution skewed towards working
// and elderly ages, matching the case mix of a general hospital.
func (g *Generator) randomAge() int {
	switch g.weighted(ageBucketWeights) {
	case 0:
		return g.rng.Intn(18)
	case 1:
		return 18 + g.rng.Intn(23)
	case 2:
		return 41 + g.rng.Intn(25)
	case 3:
		return 66 + g.rng.Intn(20)
	default:
		return 86 + g.rng.Intn(15)
	}
}

// Patients generates n PAS demographic records with sequential patient
// IDs and valid NHS numbers.
func (g *Generator) Patients(n int) []source.Patient {
	patients := make([]source.Patient, 0, n)
	today := time.Date(g.now.Year(), g.now.Month(), g.now.Day(), 0, 0, 0, 0, time.UTC)

	for i := 0; i < n; i++ {
		var gender, firstName, title string
		switch g.rng.Intn(3) {
		case 0:
			gender = "M"
			firstName = g.pick(firstNamesMale)
			title = g.pick(titlesMale)
		case 1:
			gender = "F"
			firstName = g.pick(firstNamesFemale)
			title = g.pick(titlesFemale)
		default:
			gender = "Other"
			if g.chance(0.5) {
				firstName = g.pick(firstNamesMale)
			} else {
				firstName = g.pick(firstNamesFemale)
			}
			title = "Mx"
		}
		lastName := g.pick(lastNames)

		age := g.randomAge()
		// Birthday falls anywhere in the year the age implies.
		dob := today.AddDate(-age, 0, -g.rng.Intn(365))
		if years(dob, today) != age {
			dob = today.AddDate(-age, 0, 0)
		}

		yearsRegistered := g.rng.ExpFloat64() * 10
		if yearsRegistered > 60 {
			yearsRegistered = 60
		}
		registration := today.AddDate(0, 0, -int(yearsRegistered*365))

		p := source.Patient{
			PatientID:        fmt.Sprintf("PAS%06d", i+1),
			NHSNumber:        g.nhsNumber(),
			Title:            title,
			FirstName:        firstName,
			LastName:         lastName,
			DateOfBirth:      dob,
			Age:              age,
			Gender:           gender,
			Ethnicity:        ethnicities[g.weighted(ethnicityWeights)],
			AddressLine1:     fmt.Sprintf("%d %s", 1+g.rng.Intn(200), g.pick(streetNames)),
			City:             g.pick(cities),
			Postcode:         g.postcode(),
			GPPracticeCode:   fmt.Sprintf("GP%d", 10000+g.rng.Intn(90000)),
			GPPracticeName:   fmt.Sprintf("%s Medical Practice", g.pick(lastNames)),
			RegistrationDate: registration,
			IsActive:         g.chance(0.98),
		}

		if g.chance(0.95) {
			phone := g.phone()
			p.Phone = &phone
		}
		if g.chance(0.85) {
			email := fmt.Sprintf("%s.%s@%s",
				strings.ToLower(firstName), strings.ToLower(lastName), g.pick(emailDomains))
			p.Email = &email
		}
		if g.chance(0.90) {
			name := fmt.Sprintf("%s %s", g.pick(firstNamesFemale), g.pick(lastNames))
			rel := g.pick(nokRelationships)
			p.NOKName = &name
			p.NOKRelationship = &rel
			if g.chance(0.95) {
				nokPhone := g.phone()
				p.NOKPhone = &nokPhone
			}
		}

		patients = append(patients, p)
	}
	return patients
}

// years is completed years between two dates, birthday-aware.
func years(from, to time.Time) int {
	y := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		y--
	}
	return y
}
