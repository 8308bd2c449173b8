package transaction

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/model"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/repository"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/service/event"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/service/notification"
	apperrors "github.com/dteti-sys-rsch/wafi-dental-care/pkg/errors"
)

type Service struct {
	txnRepo        repository.TransactionRepository
	patientRepo    repository.PatientRepository
	userRepo       repository.UserRepository
	branchRepo     repository.BranchRepository
	assessmentRepo repository.MedicalAssessmentRepository
	notifier       *notification.Service
	events         *event.Service
}

func NewService(txnRepo repository.TransactionRepository, patientRepo repository.PatientRepository,
	userRepo repository.UserRepository, branchRepo repository.BranchRepository,
	assessmentRepo repository.MedicalAssessmentRepository,
	notifier *notification.Service, events *event.Service) *Service {
	return &Service{
		txnRepo:        txnRepo,
		patientRepo:    patientRepo,
		userRepo:       userRepo,
		branchRepo:     branchRepo,
		assessmentRepo: assessmentRepo,
		notifier:       notifier,
		events:         events,
	}
}

// Create records a transaction and dispatches the patient's receipt. The
// patient must already have at least one medical assessment; the check runs
// before the insert so a rejected request writes nothing.
func (s *Service) Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	doctor, err := s.userRepo.Get(ctx, txn.DoctorID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}
	patient, perr := s.patientRepo.Get(ctx, txn.PatientID)
	if perr != nil && !errors.Is(perr, repository.ErrNotFound) {
		return nil, apperrors.Internal(perr)
	}
	branch, berr := s.branchRepo.Get(ctx, txn.BranchID)
	if berr != nil && !errors.Is(berr, repository.ErrNotFound) {
		return nil, apperrors.Internal(berr)
	}
	if doctor == nil || patient == nil || branch == nil {
		return nil, apperrors.BadRequest("Invalid doctor, patient, or branch ID", nil)
	}

	count, err := s.assessmentRepo.CountByPatient(ctx, txn.PatientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if count == 0 {
		return nil, apperrors.BadRequest(
			"Patient has no medical assessments. Please create an assessment before recording a transaction.", nil)
	}

	if err := s.txnRepo.Create(ctx, txn); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.events.Record(ctx, event.TypeTransactionCreated, txn)

	s.notifier.SendReceipt(&notification.Receipt{
		Transaction: txn,
		Patient:     patient,
		Doctor:      doctor,
		Branch:      branch,
		Suggestion:  s.lookupSuggestion(ctx, txn.PatientID, txn.DoctorID),
	})

	return txn, nil
}

// lookupSuggestion returns the diagnosis text of the patient's
// last-appended assessment when that assessment was authored by the same
// doctor. Best-effort: lookup failures yield an empty suggestion.
func (s *Service) lookupSuggestion(ctx context.Context, patientID, doctorID uuid.UUID) string {
	latest, err := s.assessmentRepo.GetLatestForPatient(ctx, patientID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Warn().Err(err).Str("patient_id", patientID.String()).
				Msg("failed to look up latest assessment for receipt")
		}
		return ""
	}
	if latest.AssessedBy != doctorID {
		return ""
	}
	return latest.DiagnosisAndAction
}

func (s *Service) List(ctx context.Context) ([]*model.TransactionDetail, error) {
	transactions, err := s.txnRepo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return transactions, nil
}

func (s *Service) ListByBranch(ctx context.Context, branchID uuid.UUID) ([]*model.TransactionDetail, error) {
	transactions, err := s.txnRepo.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return transactions, nil
}
