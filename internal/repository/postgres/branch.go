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

type branchRepository struct {
	db *sqlx.DB
}

func NewBranchRepository(db *sqlx.DB) repository.BranchRepository {
	return &branchRepository{db: db}
}

func (r *branchRepository) Create(ctx context.Context, branch *model.Branch) error {
	query := `
		INSERT INTO branches (id, name, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	branch.ID = uuid.New()
	branch.CreatedAt = time.Now()
	branch.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		branch.ID,
		branch.Name,
		branch.Location,
		branch.CreatedAt,
		branch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create branch: %w", translateError(err))
	}
	return nil
}

func (r *branchRepository) Get(ctx context.Context, id uuid.UUID) (*model.Branch, error) {
	query := `SELECT id, name, location, created_at, updated_at FROM branches WHERE id = $1`
	var branch model.Branch
	err := r.db.GetContext(ctx, &branch, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get branch: %w", err)
	}
	return &branch, nil
}

func (r *branchRepository) List(ctx context.Context) ([]*model.Branch, error) {
	query := `SELECT id, name, location, created_at, updated_at FROM branches ORDER BY created_at`
	branches := []*model.Branch{}
	if err := r.db.SelectContext(ctx, &branches, query); err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	return branches, nil
}

func (r *branchRepository) Update(ctx context.Context, branch *model.Branch) error {
	query := `
		UPDATE branches
		SET name = $1, location = $2, updated_at = $3
		WHERE id = $4
	`
	branch.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		branch.Name,
		branch.Location,
		branch.UpdatedAt,
		branch.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update branch: %w", err)
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

func (r *branchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM branches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete branch: %w", err)
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
