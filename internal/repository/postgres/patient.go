package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/model"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/repository"
)

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

const patientColumns = `
	id, medical_record_number, full_name, date_of_birth, birth_place,
	gender, address, nik, wa_phone_number, email, created_at, updated_at
`

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, medical_record_number, full_name, date_of_birth, birth_place,
			gender, address, nik, wa_phone_number, email, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
	`
	patient.ID = uuid.New()
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.MedicalRecordNumber,
		patient.FullName,
		patient.DateOfBirth,
		patient.BirthPlace,
		patient.Gender,
		patient.Address,
		patient.NIK,
		patient.WAPhoneNumber,
		patient.Email,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", translateError(err))
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context) ([]*model.PatientSummary, error) {
	query := `
		SELECT id, medical_record_number, full_name, date_of_birth, nik,
			wa_phone_number, created_at, updated_at
		FROM patients
		ORDER BY created_at
	`
	summaries := []*model.PatientSummary{}
	if err := r.db.SelectContext(ctx, &summaries, query); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	for _, s := range summaries {
		s.DateOfBirth = s.DOB.Format(model.DateOnly)
	}
	return summaries, nil
}

func (r *patientRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Patient, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	setClauses := make([]string, 0, len(fields)+1)
	args := make([]interface{}, 0, len(fields)+2)
	i := 1
	for column, value := range fields {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, i))
		args = append(args, value)
		i++
	}
	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", i))
	args = append(args, time.Now())
	args = append(args, id)

	query := fmt.Sprintf(
		`UPDATE patients SET %s WHERE id = $%d RETURNING `+patientColumns,
		strings.Join(setClauses, ", "), i+1,
	)

	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", translateError(err))
	}
	return &patient, nil
}

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *patientRepository) ListDiseaseHistories(ctx context.Context, patientID uuid.UUID) ([]*model.DiseaseHistory, error) {
	query := `
		SELECT dh.id, dh.name, dh.description, dh.diagnosis_date,
			dh.created_at, dh.updated_at
		FROM disease_histories dh
		JOIN patient_disease_histories pdh ON pdh.disease_history_id = dh.id
		WHERE pdh.patient_id = $1
		ORDER BY pdh.position
	`
	histories := []*model.DiseaseHistory{}
	if err := r.db.SelectContext(ctx, &histories, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list disease histories: %w", err)
	}
	return histories, nil
}

func (r *patientRepository) CountDiseaseHistories(ctx context.Context, patientID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM patient_disease_histories WHERE patient_id = $1`, patientID)
	if err != nil {
		return 0, fmt.Errorf("failed to count disease histories: %w", err)
	}
	return count, nil
}

// AttachDiseaseHistory inserts the history record and appends it to the
// patient's list in a single transaction.
func (r *patientRepository) AttachDiseaseHistory(ctx context.Context, patientID uuid.UUID, history *model.DiseaseHistory) error {
	history.ID = uuid.New()
	history.CreatedAt = time.Now()
	history.UpdatedAt = time.Now()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO disease_histories (id, name, description, diagnosis_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, history.ID, history.Name, history.Description, history.DiagnosisDate,
		history.CreatedAt, history.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create disease history: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO patient_disease_histories (patient_id, disease_history_id, position)
		VALUES ($1, $2, (
			SELECT COALESCE(MAX(position), 0) + 1
			FROM patient_disease_histories WHERE patient_id = $1
		))
	`, patientID, history.ID)
	if err != nil {
		return fmt.Errorf("failed to append disease history to patient: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DetachDiseaseHistory pulls the id out of the patient's list (when present)
// and deletes the record, in a single transaction. Returns ErrNotFound when
// the history record does not exist.
func (r *patientRepository) DetachDiseaseHistory(ctx context.Context, patientID, historyID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM patient_disease_histories
		WHERE patient_id = $1 AND disease_history_id = $2
	`, patientID, historyID)
	if err != nil {
		return fmt.Errorf("failed to detach disease history: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM disease_histories WHERE id = $1`, historyID)
	if err != nil {
		return fmt.Errorf("failed to delete disease history: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
