package model

import "time"

// DiseaseHistory is created standalone and then appended to exactly one
// patient's disease-history list. Deleting it also removes it from the
// owning patient's list.
type DiseaseHistory struct {
	Base
	Name          string    `db:"name" json:"diseaseName"`
	Description   string    `db:"description" json:"diseaseDescription"`
	DiagnosisDate time.Time `db:"diagnosis_date" json:"diseaseDiagnosisDate"`
}

// UpdateDiseaseHistoryRequest overwrites only the supplied fields; empty
// values preserve the stored ones.
type UpdateDiseaseHistoryRequest struct {
	Name          string     `json:"diseaseName"`
	Description   string     `json:"diseaseDescription"`
	DiagnosisDate *time.Time `json:"diseaseDiagnosisDate"`
}
