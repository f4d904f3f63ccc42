package source

import "io"

// patientRequiredCols are the PAS columns the patient dimension projects.
// The contact and next-of-kin columns are optional by design (the feed
// leaves them blank for a share of patients) and are not listed here.
var patientRequiredCols = []string{
	"patient_id", "nhs_number", "title", "first_name", "last_name",
	"date_of_birth", "age", "gender", "ethnicity", "postcode", "city",
}

// PatientReader streams the PAS patients CSV one record at a time.
type PatientReader struct {
	f *csvFile
}

func NewPatientReader(path string) (*PatientReader, error) {
	f, err := openCSV(path, patientRequiredCols)
	if err != nil {
		return nil, err
	}
	return &PatientReader{f: f}, nil
}

// Next returns the next patient record, or io.EOF when the file is done.
func (r *PatientReader) Next() (Patient, error) {
	row, err := r.f.next()
	if err != nil {
		return Patient{}, err
	}
	idx := r.f.colIdx
	return Patient{
		PatientID:        valAt(row, idx, "patient_id"),
		NHSNumber:        valAt(row, idx, "nhs_number"),
		Title:            valAt(row, idx, "title"),
		FirstName:        valAt(row, idx, "first_name"),
		LastName:         valAt(row, idx, "last_name"),
		DateOfBirth:      dateAt(row, idx, "date_of_birth"),
		Age:              intAt(row, idx, "age"),
		Gender:           valAt(row, idx, "gender"),
		Ethnicity:        valAt(row, idx, "ethnicity"),
		AddressLine1:     valAt(row, idx, "address_line1"),
		City:             valAt(row, idx, "city"),
		Postcode:         valAt(row, idx, "postcode"),
		Phone:            optStr(row, idx, "phone"),
		Email:            optStr(row, idx, "email"),
		GPPracticeCode:   valAt(row, idx, "gp_practice_code"),
		GPPracticeName:   valAt(row, idx, "gp_practice_name"),
		RegistrationDate: dateAt(row, idx, "registration_date"),
		IsActive:         boolAt(row, idx, "is_active"),
		NOKName:          optStr(row, idx, "nok_name"),
		NOKRelationship:  optStr(row, idx, "nok_relationship"),
		NOKPhone:         optStr(row, idx, "nok_phone"),
	}, nil
}

// RowNum returns the current CSV row number (1-based, including header).
func (r *PatientReader) RowNum() int64 { return r.f.rowNum }

func (r *PatientReader) Close() error { return r.f.Close() }

// ReadPatients loads an entire PAS extract into memory.
func ReadPatients(path string) ([]Patient, error) {
	r, err := NewPatientReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var patients []Patient
	for {
		p, err := r.Next()
		if err == io.EOF {
			return patients, nil
		}
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
}
