package patient

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/model"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/repository"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/service/event"
	apperrors "github.com/dteti-sys-rsch/wafi-dental-care/pkg/errors"
)

// editableFields maps request body keys onto patient columns. Any key
// outside this set rejects the whole update.
var editableFields = map[string]string{
	"medicalRecordNumber": "medical_record_number",
	"fullname":            "full_name",
	"DOB":                 "date_of_birth",
	"birthPlace":          "birth_place",
	"gender":              "gender",
	"address":             "address",
	"NIK":                 "nik",
	"WAPhoneNumber":       "wa_phone_number",
	"email":               "email",
}

type Service struct {
	patientRepo    repository.PatientRepository
	historyRepo    repository.DiseaseHistoryRepository
	assessmentRepo repository.MedicalAssessmentRepository
	events         *event.Service
}

func NewService(patientRepo repository.PatientRepository, historyRepo repository.DiseaseHistoryRepository,
	assessmentRepo repository.MedicalAssessmentRepository, events *event.Service) *Service {
	return &Service{
		patientRepo:    patientRepo,
		historyRepo:    historyRepo,
		assessmentRepo: assessmentRepo,
		events:         events,
	}
}

func (s *Service) Register(ctx context.Context, patient *model.Patient) (*model.Patient, error) {
	if err := s.patientRepo.Create(ctx, patient); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("Patient with the same medical record number or NIK already exists", err)
		}
		return nil, apperrors.Internal(err)
	}
	s.events.Record(ctx, event.TypePatientCreated, patient)
	return patient, nil
}

func (s *Service) List(ctx context.Context) ([]*model.PatientSummary, error) {
	patients, err := s.patientRepo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return patients, nil
}

// Get returns the full patient with its disease-history references
// resolved to full records.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.PatientDetail, error) {
	patient, err := s.patientRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Patient not found", err)
		}
		return nil, apperrors.Internal(err)
	}

	histories, err := s.patientRepo.ListDiseaseHistories(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.PatientDetail{
		Patient:          *patient,
		DateOfBirth:      patient.DateOfBirth.Format(model.DateOnly),
		DiseaseHistories: histories,
	}, nil
}

// Edit validates that every body key maps to a known patient field and
// applies the resulting partial update.
func (s *Service) Edit(ctx context.Context, id uuid.UUID, body map[string]interface{}) (*model.Patient, error) {
	invalid := []string{}
	for key := range body {
		if _, ok := editableFields[key]; !ok {
			invalid = append(invalid, key)
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return nil, apperrors.BadRequest(
			fmt.Sprintf("Invalid fields found in request body: %s", strings.Join(invalid, ", ")), nil)
	}

	fields := make(map[string]interface{}, len(body))
	for key, value := range body {
		column := editableFields[key]
		if column == "date_of_birth" {
			raw, ok := value.(string)
			if !ok {
				return nil, apperrors.BadRequest("Invalid date of birth", nil)
			}
			dob, err := time.Parse(model.DateOnly, raw)
			if err != nil {
				return nil, apperrors.BadRequest("Invalid date of birth", err)
			}
			value = dob
		}
		fields[column] = value
	}
	if len(fields) == 0 {
		return nil, apperrors.BadRequest("No valid fields provided to update", nil)
	}

	patient, err := s.patientRepo.UpdateFields(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Patient not found", err)
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("Patient with the same medical record number or NIK already exists", err)
		}
		return nil, apperrors.Internal(err)
	}

	s.events.Record(ctx, event.TypePatientUpdated, patient)
	return patient, nil
}

// Delete removes the patient. Deletion is gated: a patient with a
// non-empty disease-history list cannot be deleted.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.patientRepo.Get(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("Patient not found", err)
		}
		return apperrors.Internal(err)
	}

	count, err := s.patientRepo.CountDiseaseHistories(ctx, id)
	if err != nil {
		return apperrors.Internal(err)
	}
	if count > 0 {
		return apperrors.BadRequest("Cannot delete patient because disease history still exists!", nil)
	}

	if err := s.patientRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("Patient not found", err)
		}
		return apperrors.Internal(err)
	}

	s.events.Record(ctx, event.TypePatientDeleted, map[string]interface{}{"id": id})
	return nil
}

// AddDiseaseHistory creates the history record and appends it to the
// patient's list.
func (s *Service) AddDiseaseHistory(ctx context.Context, patientID uuid.UUID, name, description string, diagnosisDate time.Time) (*model.DiseaseHistory, error) {
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Patient not found", err)
		}
		return nil, apperrors.Internal(err)
	}

	history := &model.DiseaseHistory{
		Name:          name,
		Description:   description,
		DiagnosisDate: diagnosisDate,
	}
	if err := s.patientRepo.AttachDiseaseHistory(ctx, patientID, history); err != nil {
		return nil, apperrors.Internal(err)
	}
	return history, nil
}

// EditDiseaseHistory overwrites only the supplied fields; empty values
// preserve the stored ones.
func (s *Service) EditDiseaseHistory(ctx context.Context, id uuid.UUID, req *model.UpdateDiseaseHistoryRequest) (*model.DiseaseHistory, error) {
	history, err := s.historyRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Disease history not found", err)
		}
		return nil, apperrors.Internal(err)
	}

	if req.Name != "" {
		history.Name = req.Name
	}
	if req.Description != "" {
		history.Description = req.Description
	}
	if req.DiagnosisDate != nil {
		history.DiagnosisDate = *req.DiagnosisDate
	}

	if err := s.historyRepo.Update(ctx, history); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Disease history not found", err)
		}
		return nil, apperrors.Internal(err)
	}
	return history, nil
}

// DeleteDiseaseHistory pulls the id from the patient's list when present
// and deletes the record.
func (s *Service) DeleteDiseaseHistory(ctx context.Context, patientID, historyID uuid.UUID) error {
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("Patient not found", err)
		}
		return apperrors.Internal(err)
	}

	if err := s.patientRepo.DetachDiseaseHistory(ctx, patientID, historyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("Disease history not found", err)
		}
		return apperrors.Internal(err)
	}
	return nil
}

// AddAssessment creates a medical assessment for an existing patient; the
// assessing doctor comes from the authenticated request.
func (s *Service) AddAssessment(ctx context.Context, patientID, doctorID uuid.UUID, date time.Time, subjective, objective, diagnosisAndAction string) (*model.MedicalAssessment, error) {
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Patient not found", err)
		}
		return nil, apperrors.Internal(err)
	}

	assessment := &model.MedicalAssessment{
		PatientID:          patientID,
		AssessedBy:         doctorID,
		AssessmentDate:     date,
		Subjective:         subjective,
		Objective:          objective,
		DiagnosisAndAction: diagnosisAndAction,
	}
	if err := s.assessmentRepo.Create(ctx, assessment); err != nil {
		return nil, apperrors.Internal(err)
	}
	return assessment, nil
}

// ListAssessments returns the patient's assessments with the assessing
// doctor's username populated.
func (s *Service) ListAssessments(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalAssessmentDetail, error) {
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Patient not found", err)
		}
		return nil, apperrors.Internal(err)
	}

	assessments, err := s.assessmentRepo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return assessments, nil
}
