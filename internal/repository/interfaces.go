package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/machmudeffendi/backend-assessment-test/internal/domain"
)

// TxManager runs a function inside a database transaction. The transaction
// is carried through the context, so repository calls made with the inner
// context all share it: either everything the function did commits, or
// nothing does.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// LoanRepository defines the interface for loan and schedule data operations
type LoanRepository interface {
	// Create inserts a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// GetByIDForUpdate retrieves a loan and locks its row for the duration
	// of the enclosing transaction
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// Update persists loan outstanding amount and status
	Update(ctx context.Context, loan *domain.Loan) error

	// CreateScheduledRepayments bulk-inserts the installment schedule
	CreateScheduledRepayments(ctx context.Context, repayments []*domain.ScheduledRepayment) error

	// GetScheduledRepayments retrieves the full schedule ordered by due date
	GetScheduledRepayments(ctx context.Context, loanID uuid.UUID) ([]*domain.ScheduledRepayment, error)

	// GetScheduledRepaymentByDueDate retrieves the installment matching the
	// given due date and currency
	GetScheduledRepaymentByDueDate(ctx context.Context, loanID uuid.UUID, dueDate time.Time, currencyCode string) (*domain.ScheduledRepayment, error)

	// UpdateScheduledRepayment persists installment outstanding amount and status
	UpdateScheduledRepayment(ctx context.Context, repayment *domain.ScheduledRepayment) error

	// GetOverdueScheduledRepayments retrieves unsettled installments whose
	// due date has passed, across all loans
	GetOverdueScheduledRepayments(ctx context.Context, asOf time.Time) ([]*domain.ScheduledRepayment, error)
}

// RepaymentRepository defines the interface for received repayment records
type RepaymentRepository interface {
	// Create appends a received repayment record
	Create(ctx context.Context, repayment *domain.ReceivedRepayment) error

	// GetByLoanID retrieves all received repayments for a loan
	GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.ReceivedRepayment, error)

	// GetTotalReceived sums the received repayments for a loan
	GetTotalReceived(ctx context.Context, loanID uuid.UUID) (int64, error)
}
