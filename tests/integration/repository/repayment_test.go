package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/machmudeffendi/backend-assessment-test/internal/domain"
	"github.com/machmudeffendi/backend-assessment-test/internal/repository"
)

func TestRepaymentRepository_CreateAndSum(t *testing.T) {
	db := testDB(t)
	loanRepo := repository.NewLoanRepository(db)
	repaymentRepo := repository.NewRepaymentRepository(db)
	ctx := context.Background()

	loan := newLoan("VND")
	require.NoError(t, loanRepo.Create(ctx, loan))

	total, err := repaymentRepo.GetTotalReceived(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	for i, amount := range []int64{333, 67} {
		require.NoError(t, repaymentRepo.Create(ctx, &domain.ReceivedRepayment{
			ID:           uuid.New(),
			LoanID:       loan.ID,
			Amount:       amount,
			CurrencyCode: "VND",
			ReceivedAt:   time.Date(2023, time.Month(2+i), 1, 0, 0, 0, 0, time.UTC),
			CreatedAt:    time.Now(),
		}))
	}

	total, err = repaymentRepo.GetTotalReceived(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(400), total)

	repayments, err := repaymentRepo.GetByLoanID(ctx, loan.ID)
	require.NoError(t, err)
	require.Len(t, repayments, 2)
	// Ordered by received date.
	assert.Equal(t, int64(333), repayments[0].Amount)
	assert.Equal(t, int64(67), repayments[1].Amount)
}
