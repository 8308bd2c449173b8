package model

import "time"

// Patient gender constants
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
)

// Patient is a clinic patient. The patient exclusively owns its ordered
// disease-history and medical-assessment lists; a patient cannot be deleted
// while its disease-history list is non-empty.
type Patient struct {
	Base
	MedicalRecordNumber string    `db:"medical_record_number" json:"medicalRecordNumber"`
	FullName            string    `db:"full_name" json:"fullName"`
	DateOfBirth         time.Time `db:"date_of_birth" json:"-"`
	BirthPlace          string    `db:"birth_place" json:"birthPlace"`
	Gender              string    `db:"gender" json:"gender"`
	Address             string    `db:"address" json:"address"`
	NIK                 string    `db:"nik" json:"nik"`
	WAPhoneNumber       string    `db:"wa_phone_number" json:"waPhoneNumber"`
	Email               string    `db:"email" json:"email"`
}

// PatientDetail is the full read model: the patient with its disease-history
// references resolved to full records, DOB rendered as a calendar date.
type PatientDetail struct {
	Patient
	DateOfBirth      string            `json:"dateOfBirth"`
	DiseaseHistories []*DiseaseHistory `json:"diseaseHistories"`
}

// PatientSummary is the privacy-minimized listing view: birth place, gender,
// address, email and the disease-history list are excluded.
type PatientSummary struct {
	Base
	MedicalRecordNumber string `db:"medical_record_number" json:"medicalRecordNumber"`
	FullName            string `db:"full_name" json:"fullName"`
	DateOfBirth         string `db:"-" json:"dateOfBirth"`
	NIK                 string `db:"nik" json:"nik"`
	WAPhoneNumber       string `db:"wa_phone_number" json:"waPhoneNumber"`

	// raw DOB scanned from the store, formatted into DateOfBirth
	DOB time.Time `db:"date_of_birth" json:"-"`
}

// DateOnly is the wire format for dates of birth and diagnosis dates.
const DateOnly = "2006-01-02"
