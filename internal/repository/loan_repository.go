package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/machmudeffendi/backend-assessment-test/internal/domain"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (id, owner_id, amount, outstanding_amount, currency_code, terms, processed_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := ext(ctx, r.db).ExecContext(ctx, query,
		loan.ID,
		loan.OwnerID,
		loan.Amount,
		loan.OutstandingAmount,
		loan.CurrencyCode,
		loan.Terms,
		loan.ProcessedAt,
		loan.Status,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return err
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `
		SELECT id, owner_id, amount, outstanding_amount, currency_code, terms, processed_at, status, created_at, updated_at
		FROM loans
		WHERE id = $1
	`

	var loan domain.Loan
	err := ext(ctx, r.db).GetContext(ctx, &loan, query, id)
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `
		SELECT id, owner_id, amount, outstanding_amount, currency_code, terms, processed_at, status, created_at, updated_at
		FROM loans
		WHERE id = $1
		FOR UPDATE
	`

	var loan domain.Loan
	err := ext(ctx, r.db).GetContext(ctx, &loan, query, id)
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET outstanding_amount = $2, status = $3, updated_at = $4
		WHERE id = $1
	`

	_, err := ext(ctx, r.db).ExecContext(ctx, query,
		loan.ID,
		loan.OutstandingAmount,
		loan.Status,
		time.Now(),
	)

	return err
}

func (r *loanRepository) CreateScheduledRepayments(ctx context.Context, repayments []*domain.ScheduledRepayment) error {
	query := `
		INSERT INTO scheduled_repayments (id, loan_id, amount, outstanding_amount, currency_code, due_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	q := ext(ctx, r.db)
	for _, repayment := range repayments {
		_, err := q.ExecContext(ctx, query,
			repayment.ID,
			repayment.LoanID,
			repayment.Amount,
			repayment.OutstandingAmount,
			repayment.CurrencyCode,
			repayment.DueDate,
			repayment.Status,
			repayment.CreatedAt,
			repayment.UpdatedAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *loanRepository) GetScheduledRepayments(ctx context.Context, loanID uuid.UUID) ([]*domain.ScheduledRepayment, error) {
	query := `
		SELECT id, loan_id, amount, outstanding_amount, currency_code, due_date, status, created_at, updated_at
		FROM scheduled_repayments
		WHERE loan_id = $1
		ORDER BY due_date
	`

	var repayments []*domain.ScheduledRepayment
	err := ext(ctx, r.db).SelectContext(ctx, &repayments, query, loanID)
	if err != nil {
		return nil, err
	}

	return repayments, nil
}

func (r *loanRepository) GetScheduledRepaymentByDueDate(ctx context.Context, loanID uuid.UUID, dueDate time.Time, currencyCode string) (*domain.ScheduledRepayment, error) {
	query := `
		SELECT id, loan_id, amount, outstanding_amount, currency_code, due_date, status, created_at, updated_at
		FROM scheduled_repayments
		WHERE loan_id = $1 AND due_date = $2 AND currency_code = $3
	`

	var repayment domain.ScheduledRepayment
	err := ext(ctx, r.db).GetContext(ctx, &repayment, query, loanID, dueDate, currencyCode)
	if err != nil {
		return nil, err
	}

	return &repayment, nil
}

func (r *loanRepository) UpdateScheduledRepayment(ctx context.Context, repayment *domain.ScheduledRepayment) error {
	query := `
		UPDATE scheduled_repayments
		SET outstanding_amount = $2, status = $3, updated_at = $4
		WHERE id = $1
	`

	_, err := ext(ctx, r.db).ExecContext(ctx, query,
		repayment.ID,
		repayment.OutstandingAmount,
		repayment.Status,
		time.Now(),
	)

	return err
}

func (r *loanRepository) GetOverdueScheduledRepayments(ctx context.Context, asOf time.Time) ([]*domain.ScheduledRepayment, error) {
	query := `
		SELECT id, loan_id, amount, outstanding_amount, currency_code, due_date, status, created_at, updated_at
		FROM scheduled_repayments
		WHERE status <> 'repaid' AND due_date < $1
		ORDER BY loan_id, due_date
	`

	var repayments []*domain.ScheduledRepayment
	err := ext(ctx, r.db).SelectContext(ctx, &repayments, query, asOf)
	if err != nil {
		return nil, err
	}

	return repayments, nil
}
