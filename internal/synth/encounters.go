package synth

import (
	"fmt"
	"strings"

	"nhspipeline/internal/source"
)

// icd10Codes are the primary diagnoses the EHR feed draws from.
var icd10Codes = []source.Diagnosis{
	{ICD10Code: "I10", Description: "Essential hypertension"},
	{ICD10Code: "E11.9", Description: "Type 2 diabetes without complications"},
	{ICD10Code: "J44.0", Description: "Chronic obstructive pulmonary disease"},
	{ICD10Code: "I25.1", Description: "Coronary heart disease"},
	{ICD10Code: "M17.0", Description: "Bilateral primary osteoarthritis of knee"},
	{ICD10Code: "F32.9", Description: "Major depressive disorder"},
	{ICD10Code: "J18.1", Description: "Lobar pneumonia"},
	{ICD10Code: "I21.0", Description: "Acute myocardial infarction"},
	{ICD10Code: "N18.3", Description: "Chronic kidney disease stage 3"},
	{ICD10Code: "E78.5", Description: "Hyperlipidaemia"},
	{ICD10Code: "K21.9", Description: "Gastro-oesophageal reflux disease"},
	{ICD10Code: "M54.5", Description: "Low back pain"},
	{ICD10Code: "J45.9", Description: "Asthma"},
	{ICD10Code: "N39.0", Description: "Urinary tract infection"},
	{ICD10Code: "I50.0", Description: "Congestive heart failure"},
}

// medicationsByCode maps diagnoses to their usual prescriptions. Codes
// absent here get no medications on the encounter.
var medicationsByCode = map[string][]string{
	"I10":   {"Amlodipine", "Ramipril", "Losartan"},
	"E11.9": {"Metformin", "Gliclazide", "Insulin"},
	"J44.0": {"Salbutamol", "Tiotropium", "Prednisolone"},
	"I25.1": {"Aspirin", "Atorvastatin", "Bisoprolol"},
	"F32.9": {"Sertraline", "Citalopram", "Fluoxetine"},
	"J18.1": {"Amoxicillin", "Clarithromycin", "Doxycycline"},
	"J45.9": {"Salbutamol", "Beclometasone", "Montelukast"},
}

var (
	encounterTypes       = []string{"Emergency", "Outpatient", "Inpatient", "GP Visit"}
	encounterTypeWeights = []float64{0.15, 0.30, 0.25, 0.30}

	outpatientDepartments = []string{"Cardiology", "Respiratory", "Orthopaedics", "General Medicine"}
	inpatientDepartments  = []string{"Medical Ward", "Surgical Ward", "ICU", "Cardiology Ward"}

	doses       = []string{"5mg", "10mg", "20mg", "40mg", "80mg"}
	frequencies = []string{"Once daily", "Twice daily", "Three times daily", "As needed"}
	durations   = []string{"7 days", "14 days", "28 days", "84 days"}

	labTestNames = []string{
		"Full Blood Count", "Renal Function", "Liver Function",
		"HbA1c", "Lipid Profile", "CRP",
	}

	dispositions       = []string{"Discharged Home", "Admitted", "Transferred", "Left Before Completion"}
	dispositionWeights = []float64{0.70, 0.20, 0.05, 0.05}

	notePresentations = []string{
		"Patient presented with %s. ",
		"Examination revealed signs consistent with %s. ",
		"Patient reports worsening symptoms of %s. ",
		"Follow-up visit for %s. ",
	}
	notePlans = []string{
		"Treatment plan discussed with patient. ",
		"Medications prescribed as above. ",
		"Patient advised to follow up in clinic. ",
		"Referred for further investigation. ",
	}
)

// Encounters generates n EHR encounter documents against the given
// patient population. Every encounter references a real NHS number.
func (g *Generator) Encounters(patients []source.Patient, n int) []source.Encounter {
	encounters := make([]source.Encounter, 0, n)

	for i := 0; i < n; i++ {
		nhs := patients[g.rng.Intn(len(patients))].NHSNumber
		when := g.daysAgo(730)

		encType := encounterTypes[g.weighted(encounterTypeWeights)]
		var department string
		switch encType {
		case "Emergency":
			department = "Emergency Department"
		case "Outpatient":
			department = g.pick(outpatientDepartments)
		case "Inpatient":
			department = g.pick(inpatientDepartments)
		default:
			department = "General Practice"
		}

		primary := icd10Codes[g.rng.Intn(len(icd10Codes))]

		var secondary []source.Diagnosis
		if g.chance(0.20) {
			for _, j := range g.rng.Perm(len(icd10Codes))[:1+g.rng.Intn(2)] {
				if icd10Codes[j].ICD10Code != primary.ICD10Code {
					secondary = append(secondary, icd10Codes[j])
				}
			}
		}

		var meds []source.Medication
		if pool, ok := medicationsByCode[primary.ICD10Code]; ok {
			count := 1 + g.rng.Intn(3)
			if count > len(pool) {
				count = len(pool)
			}
			for _, j := range g.rng.Perm(len(pool))[:count] {
				meds = append(meds, source.Medication{
					Name:      pool[j],
					Dose:      g.pick(doses),
					Frequency: g.pick(frequencies),
					Duration:  g.pick(durations),
				})
			}
		}

		note := fmt.Sprintf(g.pick(notePresentations), strings.ToLower(primary.Description)) +
			g.pick(notePlans)

		var ordered []string
		if g.chance(0.30) {
			for _, j := range g.rng.Perm(len(labTestNames))[:1+g.rng.Intn(3)] {
				ordered = append(ordered, labTestNames[j])
			}
		}

		enc := source.Encounter{
			EncounterID:        fmt.Sprintf("ENC%08d", i+1),
			NHSNumber:          nhs,
			EncounterDate:      source.Timestamp{Time: when},
			EncounterType:      encType,
			Department:         department,
			PrimaryDiagnosis:   &primary,
			SecondaryDiagnoses: secondary,
			Medications:        meds,
			ClinicalNote:       note,
			Vitals: source.Vitals{
				BloodPressureSystolic:  100 + g.rng.Intn(81),
				BloodPressureDiastolic: 60 + g.rng.Intn(51),
				HeartRate:              55 + g.rng.Intn(66),
				Temperature:            float64(360+g.rng.Intn(31)) / 10,
				OxygenSaturation:       88 + g.rng.Intn(13),
			},
			LabTestsOrdered: ordered,
			ClinicianID:     g.clinicianID(),
		}

		switch encType {
		case "Inpatient", "Emergency":
			enc.Disposition = dispositions[g.weighted(dispositionWeights)]
			if enc.Disposition == "Admitted" || encType == "Inpatient" {
				stay := 1 + g.rng.Intn(14)
				enc.LengthOfStayDays = &stay
				discharge := source.Timestamp{Time: when.AddDate(0, 0, stay)}
				enc.DischargeDate = &discharge
			} else {
				discharge := source.Timestamp{Time: when}
				enc.DischargeDate = &discharge
			}
		default:
			enc.Disposition = "Completed"
			discharge := source.Timestamp{Time: when}
			enc.DischargeDate = &discharge
		}

		encounters = append(encounters, enc)
	}
	return encounters
}
