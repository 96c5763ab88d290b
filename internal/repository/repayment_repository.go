package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/machmudeffendi/backend-assessment-test/internal/domain"
)

type repaymentRepository struct {
	db *sqlx.DB
}

func NewRepaymentRepository(db *sqlx.DB) RepaymentRepository {
	return &repaymentRepository{db: db}
}

func (r *repaymentRepository) Create(ctx context.Context, repayment *domain.ReceivedRepayment) error {
	query := `
		INSERT INTO received_repayments (id, loan_id, amount, currency_code, received_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := ext(ctx, r.db).ExecContext(ctx, query,
		repayment.ID,
		repayment.LoanID,
		repayment.Amount,
		repayment.CurrencyCode,
		repayment.ReceivedAt,
		repayment.CreatedAt,
	)

	return err
}

func (r *repaymentRepository) GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.ReceivedRepayment, error) {
	query := `
		SELECT id, loan_id, amount, currency_code, received_at, created_at
		FROM received_repayments
		WHERE loan_id = $1
		ORDER BY received_at, created_at
	`

	var repayments []*domain.ReceivedRepayment
	err := ext(ctx, r.db).SelectContext(ctx, &repayments, query, loanID)
	if err != nil {
		return nil, err
	}

	return repayments, nil
}

func (r *repaymentRepository) GetTotalReceived(ctx context.Context, loanID uuid.UUID) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM received_repayments
		WHERE loan_id = $1
	`

	var total int64
	err := ext(ctx, r.db).GetContext(ctx, &total, query, loanID)
	if err != nil {
		return 0, err
	}

	return total, nil
}
