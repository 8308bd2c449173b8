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

type diseaseHistoryRepository struct {
	db *sqlx.DB
}

func NewDiseaseHistoryRepository(db *sqlx.DB) repository.DiseaseHistoryRepository {
	return &diseaseHistoryRepository{db: db}
}

func (r *diseaseHistoryRepository) Get(ctx context.Context, id uuid.UUID) (*model.DiseaseHistory, error) {
	query := `
		SELECT id, name, description, diagnosis_date, created_at, updated_at
		FROM disease_histories WHERE id = $1
	`
	var history model.DiseaseHistory
	err := r.db.GetContext(ctx, &history, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get disease history: %w", err)
	}
	return &history, nil
}

func (r *diseaseHistoryRepository) Update(ctx context.Context, history *model.DiseaseHistory) error {
	query := `
		UPDATE disease_histories
		SET name = $1, description = $2, diagnosis_date = $3, updated_at = $4
		WHERE id = $5
	`
	history.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		history.Name,
		history.Description,
		history.DiagnosisDate,
		history.UpdatedAt,
		history.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update disease history: %w", err)
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
