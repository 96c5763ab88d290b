package repository

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/machmudeffendi/backend-assessment-test/internal/domain"
	"github.com/machmudeffendi/backend-assessment-test/internal/repository"
)

// testDB connects to the database named by TEST_DATABASE_DSN and applies the
// schema. Tests are skipped when the variable is unset so the suite can run
// without a live Postgres.
func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set; skipping integration test")
	}

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../../scripts/init.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	return db
}

func newLoan(currencyCode string) *domain.Loan {
	now := time.Now()
	return &domain.Loan{
		ID:                uuid.New(),
		OwnerID:           uuid.New(),
		Amount:            1000,
		OutstandingAmount: 1000,
		CurrencyCode:      currencyCode,
		Terms:             3,
		ProcessedAt:       time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:            domain.LoanStatusDue,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func newSchedule(loan *domain.Loan) []*domain.ScheduledRepayment {
	now := time.Now()
	amounts := []int64{333, 333, 334}
	schedule := make([]*domain.ScheduledRepayment, 0, len(amounts))
	for i, amount := range amounts {
		schedule = append(schedule, &domain.ScheduledRepayment{
			ID:                uuid.New(),
			LoanID:            loan.ID,
			Amount:            amount,
			OutstandingAmount: amount,
			CurrencyCode:      loan.CurrencyCode,
			DueDate:           loan.ProcessedAt.AddDate(0, i+1, 0),
			Status:            domain.ScheduleStatusDue,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}
	return schedule
}

func TestLoanRepository_CreateAndGet(t *testing.T) {
	db := testDB(t)
	repo := repository.NewLoanRepository(db)
	ctx := context.Background()

	loan := newLoan("VND")
	require.NoError(t, repo.Create(ctx, loan))

	got, err := repo.GetByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, loan.ID, got.ID)
	assert.Equal(t, int64(1000), got.Amount)
	assert.Equal(t, domain.LoanStatusDue, got.Status)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestLoanRepository_ScheduleRoundtrip(t *testing.T) {
	db := testDB(t)
	repo := repository.NewLoanRepository(db)
	ctx := context.Background()

	loan := newLoan("VND")
	require.NoError(t, repo.Create(ctx, loan))

	schedule := newSchedule(loan)
	require.NoError(t, repo.CreateScheduledRepayments(ctx, schedule))

	got, err := repo.GetScheduledRepayments(ctx, loan.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	// Ordered by due date, last installment absorbs the remainder.
	assert.True(t, got[0].DueDate.Before(got[1].DueDate))
	assert.True(t, got[1].DueDate.Before(got[2].DueDate))
	assert.Equal(t, int64(334), got[2].Amount)
}

func TestLoanRepository_GetScheduledRepaymentByDueDate(t *testing.T) {
	db := testDB(t)
	repo := repository.NewLoanRepository(db)
	ctx := context.Background()

	loan := newLoan("VND")
	require.NoError(t, repo.Create(ctx, loan))
	require.NoError(t, repo.CreateScheduledRepayments(ctx, newSchedule(loan)))

	dueDate := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)

	got, err := repo.GetScheduledRepaymentByDueDate(ctx, loan.ID, dueDate, "VND")
	require.NoError(t, err)
	assert.Equal(t, int64(333), got.Amount)

	// Wrong currency does not match.
	_, err = repo.GetScheduledRepaymentByDueDate(ctx, loan.ID, dueDate, "USD")
	assert.True(t, errors.Is(err, sql.ErrNoRows))

	// Date with no installment does not match.
	_, err = repo.GetScheduledRepaymentByDueDate(ctx, loan.ID, dueDate.AddDate(0, 0, 14), "VND")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	db := testDB(t)
	repo := repository.NewLoanRepository(db)
	txManager := repository.NewTxManager(db)
	ctx := context.Background()

	loan := newLoan("VND")
	sentinel := errors.New("boom")

	err := txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := repo.Create(ctx, loan); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	// The insert must not be visible after rollback.
	_, err = repo.GetByID(ctx, loan.ID)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestTxManager_CommitsOnSuccess(t *testing.T) {
	db := testDB(t)
	repo := repository.NewLoanRepository(db)
	txManager := repository.NewTxManager(db)
	ctx := context.Background()

	loan := newLoan("VND")

	err := txManager.WithinTx(ctx, func(ctx context.Context) error {
		return repo.Create(ctx, loan)
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, loan.ID, got.ID)
}
