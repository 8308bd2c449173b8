package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/model"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/repository"
)

type transactionRepository struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, txn *model.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, transaction_date, amount, payment_method,
			patient_id, doctor_id, branch_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	txn.ID = uuid.New()
	txn.CreatedAt = time.Now()
	txn.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		txn.ID,
		txn.Date,
		txn.Amount,
		txn.PaymentMethod,
		txn.PatientID,
		txn.DoctorID,
		txn.BranchID,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// Transactions outlive the patients, doctors and branches they reference,
// so the joins are outer and missing names resolve to empty strings.
const transactionDetailQuery = `
	SELECT
		t.id, t.transaction_date, t.amount, t.payment_method,
		t.patient_id, t.doctor_id, t.branch_id, t.created_at, t.updated_at,
		COALESCE(p.full_name, '') AS patient_full_name,
		COALESCE(p.medical_record_number, '') AS medical_record_number,
		COALESCE(u.username, '') AS doctor_username,
		COALESCE(b.name, '') AS branch_name,
		COALESCE(b.location, '') AS branch_location
	FROM transactions t
	LEFT JOIN patients p ON p.id = t.patient_id
	LEFT JOIN users u ON u.id = t.doctor_id
	LEFT JOIN branches b ON b.id = t.branch_id
`

func (r *transactionRepository) List(ctx context.Context) ([]*model.TransactionDetail, error) {
	transactions := []*model.TransactionDetail{}
	err := r.db.SelectContext(ctx, &transactions,
		transactionDetailQuery+` ORDER BY t.transaction_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

func (r *transactionRepository) ListByBranch(ctx context.Context, branchID uuid.UUID) ([]*model.TransactionDetail, error) {
	transactions := []*model.TransactionDetail{}
	err := r.db.SelectContext(ctx, &transactions,
		transactionDetailQuery+` WHERE t.branch_id = $1 ORDER BY t.transaction_date DESC`, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions by branch: %w", err)
	}
	return transactions, nil
}
