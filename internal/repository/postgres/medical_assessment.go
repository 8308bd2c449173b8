package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/model"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/repository"
)

type medicalAssessmentRepository struct {
	db *sqlx.DB
}

func NewMedicalAssessmentRepository(db *sqlx.DB) repository.MedicalAssessmentRepository {
	return &medicalAssessmentRepository{db: db}
}

func (r *medicalAssessmentRepository) Create(ctx context.Context, assessment *model.MedicalAssessment) error {
	// seq is a BIGSERIAL; insertion order defines the patient's list order.
	query := `
		INSERT INTO medical_assessments (
			id, patient_id, assessed_by, assessment_date,
			subjective, objective, diagnosis_and_action, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	assessment.ID = uuid.New()
	assessment.CreatedAt = time.Now()
	assessment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		assessment.ID,
		assessment.PatientID,
		assessment.AssessedBy,
		assessment.AssessmentDate,
		assessment.Subjective,
		assessment.Objective,
		assessment.DiagnosisAndAction,
		assessment.CreatedAt,
		assessment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create medical assessment: %w", err)
	}
	return nil
}

func (r *medicalAssessmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalAssessmentDetail, error) {
	query := `
		SELECT
			ma.id, ma.patient_id, ma.assessed_by, ma.assessment_date,
			ma.subjective, ma.objective, ma.diagnosis_and_action,
			ma.created_at, ma.updated_at,
			COALESCE(u.username, '') AS doctor_username
		FROM medical_assessments ma
		LEFT JOIN users u ON u.id = ma.assessed_by
		WHERE ma.patient_id = $1
		ORDER BY ma.seq
	`
	assessments := []*model.MedicalAssessmentDetail{}
	if err := r.db.SelectContext(ctx, &assessments, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list medical assessments: %w", err)
	}
	return assessments, nil
}

func (r *medicalAssessmentRepository) CountByPatient(ctx context.Context, patientID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM medical_assessments WHERE patient_id = $1`, patientID)
	if err != nil {
		return 0, fmt.Errorf("failed to count medical assessments: %w", err)
	}
	return count, nil
}

func (r *medicalAssessmentRepository) GetLatestForPatient(ctx context.Context, patientID uuid.UUID) (*model.MedicalAssessment, error) {
	query := `
		SELECT id, patient_id, assessed_by, assessment_date,
			subjective, objective, diagnosis_and_action, created_at, updated_at
		FROM medical_assessments
		WHERE patient_id = $1
		ORDER BY seq DESC
		LIMIT 1
	`
	var assessment model.MedicalAssessment
	err := r.db.GetContext(ctx, &assessment, query, patientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest medical assessment: %w", err)
	}
	return &assessment, nil
}
