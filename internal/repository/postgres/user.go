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

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, branch_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.BranchID,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", translateError(err))
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `
		SELECT id, username, password_hash, branch_id, role, created_at, updated_at
		FROM users WHERE id = $1
	`
	var user model.User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
		SELECT id, username, password_hash, branch_id, role, created_at, updated_at
		FROM users WHERE username = $1
	`
	var user model.User
	err := r.db.GetContext(ctx, &user, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

// userProfileRow flattens the user-branch join for scanning. The branch
// columns are nullable: the branch may have been deleted out from under the
// user, in which case the profile carries a nil branch.
type userProfileRow struct {
	ID             uuid.UUID      `db:"id"`
	Username       string         `db:"username"`
	Role           string         `db:"role"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	BranchID       uuid.NullUUID  `db:"branch_id"`
	BranchName     sql.NullString `db:"branch_name"`
	BranchLocation sql.NullString `db:"branch_location"`
	BranchCreated  sql.NullTime   `db:"branch_created_at"`
	BranchUpdated  sql.NullTime   `db:"branch_updated_at"`
}

func (row *userProfileRow) toProfile() *model.UserProfile {
	profile := &model.UserProfile{
		Base: model.Base{
			ID:        row.ID,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		},
		Username: row.Username,
		Role:     row.Role,
	}
	if row.BranchID.Valid {
		profile.Branch = &model.Branch{
			Base: model.Base{
				ID:        row.BranchID.UUID,
				CreatedAt: row.BranchCreated.Time,
				UpdatedAt: row.BranchUpdated.Time,
			},
			Name:     row.BranchName.String,
			Location: row.BranchLocation.String,
		}
	}
	return profile
}

const userProfileQuery = `
	SELECT
		u.id, u.username, u.role, u.created_at, u.updated_at,
		b.id AS branch_id,
		b.name AS branch_name,
		b.location AS branch_location,
		b.created_at AS branch_created_at,
		b.updated_at AS branch_updated_at
	FROM users u
	LEFT JOIN branches b ON b.id = u.branch_id
`

func (r *userRepository) GetProfile(ctx context.Context, id uuid.UUID) (*model.UserProfile, error) {
	var row userProfileRow
	err := r.db.GetContext(ctx, &row, userProfileQuery+` WHERE u.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	return row.toProfile(), nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.UserProfile, error) {
	var rows []*userProfileRow
	if err := r.db.SelectContext(ctx, &rows, userProfileQuery+` ORDER BY u.created_at`); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	profiles := make([]*model.UserProfile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, row.toProfile())
	}
	return profiles, nil
}

func (r *userRepository) CountByRole(ctx context.Context) (model.RoleCounts, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE role = 'OWNER')   AS owner,
			COUNT(*) FILTER (WHERE role = 'MANAGER') AS manager,
			COUNT(*) FILTER (WHERE role = 'DOCTOR')  AS doctor,
			COUNT(*) FILTER (WHERE role = 'STAFF')   AS staff
		FROM users
	`
	var row struct {
		Owner   int `db:"owner"`
		Manager int `db:"manager"`
		Doctor  int `db:"doctor"`
		Staff   int `db:"staff"`
	}
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return model.RoleCounts{}, fmt.Errorf("failed to count users by role: %w", err)
	}
	return model.RoleCounts{
		Owner:   row.Owner,
		Manager: row.Manager,
		Doctor:  row.Doctor,
		Staff:   row.Staff,
	}, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET username = $1, password_hash = $2, branch_id = $3, role = $4, updated_at = $5
		WHERE id = $6
	`
	user.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		user.Username,
		user.PasswordHash,
		user.BranchID,
		user.Role,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", translateError(err))
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

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
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
