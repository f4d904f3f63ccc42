package synth

import (
	"fmt"
	"math"
	"strings"

	"nhspipeline/internal/source"
)

type labComponent struct {
	Name     string
	Unit     string
	RangeMin float64
	RangeMax float64
	Mean     float64
	Std      float64
}

type labPanel struct {
	Type       string
	Components []labComponent
}

// labPanels are the orderable tests. A panel order expands into one
// result row per component.
var labPanels = []labPanel{
	{"Full Blood Count", []labComponent{
		{"Haemoglobin", "g/L", 115, 165, 140, 15},
		{"White Cell Count", "10^9/L", 4.0, 11.0, 7.5, 2.0},
		{"Platelets", "10^9/L", 150, 400, 250, 60},
	}},
	{"Renal Function", []labComponent{
		{"Creatinine", "umol/L", 60, 120, 90, 20},
		{"eGFR", "mL/min/1.73m2", 60, 120, 90, 20},
		{"Urea", "mmol/L", 2.5, 7.8, 5.0, 1.5},
	}},
	{"Liver Function", []labComponent{
		{"ALT", "U/L", 0, 45, 25, 10},
		{"Bilirubin", "umol/L", 0, 21, 10, 5},
		{"Albumin", "g/L", 35, 50, 42, 5},
	}},
	{"HbA1c", []labComponent{
		{"HbA1c", "mmol/mol", 20, 42, 35, 8},
	}},
	{"Lipid Profile", []labComponent{
		{"Total Cholesterol", "mmol/L", 0, 5.0, 4.5, 1.0},
		{"LDL Cholesterol", "mmol/L", 0, 3.0, 2.5, 0.8},
		{"HDL Cholesterol", "mmol/L", 1.0, 3.0, 1.5, 0.4},
	}},
	{"CRP", []labComponent{
		{"CRP", "mg/L", 0, 5, 2, 3},
	}},
}

var (
	urgencies       = []string{"Routine", "Urgent", "Emergency"}
	urgencyWeights  = []float64{0.85, 0.10, 0.05}
	specimenTypes   = []string{"Blood", "Urine", "Serum", "Plasma"}
	labStatuses     = []string{"Completed", "Pending", "Rejected"}
	statusWeights   = []float64{0.95, 0.03, 0.02}
	laboratoryNames = []string{"Main Lab", "Biochemistry", "Haematology"}
)

// resultValue draws a component result. Abnormal draws centre well
// outside the reference range so the abnormal flag usually trips.
func (g *Generator) resultValue(c labComponent, abnormal bool) float64 {
	var v float64
	if abnormal {
		if g.chance(0.5) {
			v = g.rng.NormFloat64()*c.Std + c.RangeMin*0.7
		} else {
			v = g.rng.NormFloat64()*c.Std + c.RangeMax*1.3
		}
	} else {
		v = g.rng.NormFloat64()*c.Std + c.Mean
		v = math.Max(c.RangeMin, math.Min(c.RangeMax, v))
	}
	return math.Round(v*10) / 10
}

// LabResults generates n panel orders against the patient population
// and expands each into per-component rows, so the returned slice is
// larger than n.
func (g *Generator) LabResults(patients []source.Patient, n int) []source.LabResult {
	var results []source.LabResult

	for i := 0; i < n; i++ {
		nhs := patients[g.rng.Intn(len(patients))].NHSNumber
		orderDate := g.daysAgo(730)
		panel := labPanels[g.rng.Intn(len(labPanels))]

		urgency := urgencies[g.weighted(urgencyWeights)]
		specimen := g.pick(specimenTypes)
		status := labStatuses[g.weighted(statusWeights)]
		clinician := g.clinicianID()
		laboratory := g.pick(laboratoryNames)

		completed := status == "Completed"
		abnormalDraw := completed && g.chance(0.15)

		for _, c := range panel.Components {
			row := source.LabResult{
				TestID: fmt.Sprintf("LAB%08d_%s", i+1,
					strings.ReplaceAll(c.Name, " ", "_")),
				NHSNumber:         nhs,
				TestType:          panel.Type,
				TestComponent:     c.Name,
				OrderDate:         orderDate,
				Unit:              c.Unit,
				ReferenceRangeMin: c.RangeMin,
				ReferenceRangeMax: c.RangeMax,
				Urgency:           urgency,
				SpecimenType:      specimen,
				Status:            status,
				OrderingClinician: clinician,
				Laboratory:        laboratory,
			}
			if completed {
				resultDate := orderDate.AddDate(0, 0, 1+g.rng.Intn(5))
				value := g.resultValue(c, abnormalDraw)
				flag := value < c.RangeMin || value > c.RangeMax
				row.ResultDate = &resultDate
				row.ResultValue = &value
				row.IsAbnormal = &flag
			}
			results = append(results, row)
		}
	}
	return results
}
