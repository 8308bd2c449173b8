package model

import (
	"time"

	"github.com/google/uuid"
)

// Payment method constants
const (
	PaymentCash = "CASH"
	PaymentCard = "CARD"
	PaymentQRIS = "QRIS"
)

// Transaction records a payment for a patient at a branch, assessed by a
// doctor. Creation requires the patient to already have at least one
// medical assessment.
type Transaction struct {
	Base
	Date          time.Time `db:"transaction_date" json:"date"`
	Amount        int64     `db:"amount" json:"amount"`
	PaymentMethod string    `db:"payment_method" json:"payment"`
	PatientID     uuid.UUID `db:"patient_id" json:"patientId"`
	DoctorID      uuid.UUID `db:"doctor_id" json:"doctorId"`
	BranchID      uuid.UUID `db:"branch_id" json:"branchId"`
}

// TransactionDetail resolves patient, doctor and branch references for
// listing views.
type TransactionDetail struct {
	Transaction
	PatientFullName     string `db:"patient_full_name" json:"patientFullName"`
	MedicalRecordNumber string `db:"medical_record_number" json:"patientMedicalRecordNumber"`
	DoctorUsername      string `db:"doctor_username" json:"doctorUsername"`
	BranchName          string `db:"branch_name" json:"branchName"`
	BranchLocation      string `db:"branch_location" json:"branchLocation"`
}
