package model

import (
	"time"

	"github.com/google/uuid"
)

// MedicalAssessment is a SOAP-style note authored by a doctor for an
// existing patient. Append order is preserved: the last-appended assessment
// is treated as the most recent one.
type MedicalAssessment struct {
	Base
	PatientID          uuid.UUID `db:"patient_id" json:"patientId"`
	AssessedBy         uuid.UUID `db:"assessed_by" json:"assessedBy"`
	AssessmentDate     time.Time `db:"assessment_date" json:"assessmentDate"`
	Subjective         string    `db:"subjective" json:"subjective"`
	Objective          string    `db:"objective" json:"objective"`
	DiagnosisAndAction string    `db:"diagnosis_and_action" json:"diagnosisAndAction"`
}

// MedicalAssessmentDetail resolves the assessing doctor's username.
type MedicalAssessmentDetail struct {
	MedicalAssessment
	DoctorUsername string `db:"doctor_username" json:"doctorUsername"`
}
