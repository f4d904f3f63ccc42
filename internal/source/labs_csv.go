package source

import "io"

var labRequiredCols = []string{
	"test_id", "nhs_number", "test_type", "test_component",
	"order_date", "status",
}

// LabResultReader streams the LIMS lab results CSV one record at a time.
type LabResultReader struct {
	f *csvFile
}

func NewLabResultReader(path string) (*LabResultReader, error) {
	f, err := openCSV(path, labRequiredCols)
	if err != nil {
		return nil, err
	}
	return &LabResultReader{f: f}, nil
}

// Next returns the next lab result record, or io.EOF when the file is done.
func (r *LabResultReader) Next() (LabResult, error) {
	row, err := r.f.next()
	if err != nil {
		return LabResult{}, err
	}
	idx := r.f.colIdx
	return LabResult{
		TestID:            valAt(row, idx, "test_id"),
		NHSNumber:         valAt(row, idx, "nhs_number"),
		TestType:          valAt(row, idx, "test_type"),
		TestComponent:     valAt(row, idx, "test_component"),
		OrderDate:         dateAt(row, idx, "order_date"),
		ResultDate:        optDate(row, idx, "result_date"),
		ResultValue:       optFloat(row, idx, "result_value"),
		Unit:              valAt(row, idx, "unit"),
		ReferenceRangeMin: floatAt(row, idx, "reference_range_min"),
		ReferenceRangeMax: floatAt(row, idx, "reference_range_max"),
		IsAbnormal:        optBool(row, idx, "is_abnormal"),
		Urgency:           valAt(row, idx, "urgency"),
		SpecimenType:      valAt(row, idx, "specimen_type"),
		Status:            valAt(row, idx, "status"),
		OrderingClinician: valAt(row, idx, "ordering_clinician"),
		Laboratory:        valAt(row, idx, "laboratory"),
	}, nil
}

func (r *LabResultReader) RowNum() int64 { return r.f.rowNum }

func (r *LabResultReader) Close() error { return r.f.Close() }

// ReadLabResults loads an entire LIMS extract into memory.
func ReadLabResults(path string) ([]LabResult, error) {
	r, err := NewLabResultReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var results []LabResult
	for {
		lr, err := r.Next()
		if err == io.EOF {
			return results, nil
		}
		if err != nil {
			return nil, err
		}
		results = append(results, lr)
	}
}
