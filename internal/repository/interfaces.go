package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/model"
)

// Sentinel errors returned by repositories. Services map these onto the
// HTTP error taxonomy.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type BranchRepository interface {
	Create(ctx context.Context, branch *model.Branch) error
	Get(ctx context.Context, id uuid.UUID) (*model.Branch, error)
	List(ctx context.Context) ([]*model.Branch, error)
	Update(ctx context.Context, branch *model.Branch) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*model.UserProfile, error)
	List(ctx context.Context) ([]*model.UserProfile, error)
	CountByRole(ctx context.Context) (model.RoleCounts, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	List(ctx context.Context) ([]*model.PatientSummary, error)
	// UpdateFields applies a partial update of the given column/value set
	// and returns the updated record.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Patient, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Disease-history list maintenance. Attach and detach touch both the
	// child record and the patient's ordered list in one transaction.
	ListDiseaseHistories(ctx context.Context, patientID uuid.UUID) ([]*model.DiseaseHistory, error)
	CountDiseaseHistories(ctx context.Context, patientID uuid.UUID) (int, error)
	AttachDiseaseHistory(ctx context.Context, patientID uuid.UUID, history *model.DiseaseHistory) error
	DetachDiseaseHistory(ctx context.Context, patientID, historyID uuid.UUID) error
}

type DiseaseHistoryRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.DiseaseHistory, error)
	Update(ctx context.Context, history *model.DiseaseHistory) error
}

type MedicalAssessmentRepository interface {
	Create(ctx context.Context, assessment *model.MedicalAssessment) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalAssessmentDetail, error)
	CountByPatient(ctx context.Context, patientID uuid.UUID) (int, error)
	// GetLatestForPatient returns the last-appended assessment for the
	// patient, regardless of its author.
	GetLatestForPatient(ctx context.Context, patientID uuid.UUID) (*model.MedicalAssessment, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, txn *model.Transaction) error
	List(ctx context.Context) ([]*model.TransactionDetail, error)
	ListByBranch(ctx context.Context, branchID uuid.UUID) ([]*model.TransactionDetail, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
	// DeleteProcessedBefore purges processed events older than the cutoff
	// and reports how many were removed.
	DeleteProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
