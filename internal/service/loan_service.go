package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/machmudeffendi/backend-assessment-test/internal/domain"
	"github.com/machmudeffendi/backend-assessment-test/internal/repository"
	customError "github.com/machmudeffendi/backend-assessment-test/pkg/errors"
	"github.com/machmudeffendi/backend-assessment-test/pkg/utils"
)

const defaultCacheTTL = 24 * time.Hour

type LoanService struct {
	LoanRepo      repository.LoanRepository
	RepaymentRepo repository.RepaymentRepository
	Tx            repository.TxManager
	Cache         Cache
	CacheTTL      time.Duration
}

func NewLoanService(
	loanRepo repository.LoanRepository,
	repaymentRepo repository.RepaymentRepository,
	tx repository.TxManager,
	cache Cache,
	cacheTTL time.Duration,
) *LoanService {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &LoanService{
		LoanRepo:      loanRepo,
		RepaymentRepo: repaymentRepo,
		Tx:            tx,
		Cache:         cache,
		CacheTTL:      cacheTTL,
	}
}

// CreateLoan creates a loan and its installment schedule in one transaction.
// Installments 1..terms-1 carry floor(amount/terms); the last absorbs the
// remainder so the schedule sums exactly to the principal. Installment i
// falls due i calendar months after processedAt.
func (s *LoanService) CreateLoan(ctx context.Context, ownerID uuid.UUID, amount int64, currencyCode string, terms int, processedAt time.Time) (*domain.Loan, []*domain.ScheduledRepayment, error) {
	if terms < 1 {
		return nil, nil, customError.WrapInvalidArgument(fmt.Sprintf("terms must be at least 1, got %d", terms))
	}
	if amount < 0 {
		return nil, nil, customError.WrapInvalidArgument(fmt.Sprintf("amount must not be negative, got %d", amount))
	}
	if !validCurrencyCode(currencyCode) {
		return nil, nil, customError.WrapInvalidArgument(fmt.Sprintf("currency_code must be a 3-letter code, got %q", currencyCode))
	}

	now := time.Now()
	loan := &domain.Loan{
		ID:                uuid.New(),
		OwnerID:           ownerID,
		Amount:            amount,
		OutstandingAmount: amount,
		CurrencyCode:      currencyCode,
		Terms:             terms,
		ProcessedAt:       processedAt,
		Status:            domain.LoanStatusDue,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	amounts := utils.SplitPrincipal(amount, terms)
	schedule := make([]*domain.ScheduledRepayment, 0, terms)
	for i := 1; i <= terms; i++ {
		schedule = append(schedule, &domain.ScheduledRepayment{
			ID:                uuid.New(),
			LoanID:            loan.ID,
			Amount:            amounts[i-1],
			OutstandingAmount: amounts[i-1],
			CurrencyCode:      currencyCode,
			DueDate:           utils.AddMonths(processedAt, i),
			Status:            domain.ScheduleStatusDue,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}

	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.LoanRepo.Create(ctx, loan); err != nil {
			return customError.WrapDatabaseError(err)
		}
		if err := s.LoanRepo.CreateScheduledRepayments(ctx, schedule); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return loan, schedule, nil
}

// RepayLoan allocates a payment across the loan's installment schedule.
//
// The target installment is the one whose due date and currency match the
// payment exactly. Anything paid beyond that installment's outstanding
// balance cascades to the next month's installment, as if it had arrived on
// that installment's due date, until the payment is exhausted. The cascade
// runs as a loop over the schedule inside a single transaction with the loan
// row locked, and a payment larger than the loan's remaining outstanding is
// rejected before anything is written.
//
// Each installment the cascade touches gets its own received repayment
// record, so the records for one payment sum to the paid amount.
func (s *LoanService) RepayLoan(ctx context.Context, loanID uuid.UUID, amount int64, currencyCode string, receivedAt time.Time) (*domain.Loan, error) {
	if amount <= 0 {
		return nil, customError.WrapInvalidArgument(fmt.Sprintf("payment amount must be positive, got %d", amount))
	}
	if !validCurrencyCode(currencyCode) {
		return nil, customError.WrapInvalidArgument(fmt.Sprintf("currency_code must be a 3-letter code, got %q", currencyCode))
	}

	var result *domain.Loan
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		loan, err := s.LoanRepo.GetByIDForUpdate(ctx, loanID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapLoanNotFound(loanID.String())
			}
			return customError.WrapDatabaseError(err)
		}

		if amount > loan.OutstandingAmount {
			return customError.WrapOverpayment(loanID.String(), amount, loan.OutstandingAmount)
		}

		remaining := amount
		date := receivedAt
		cascading := false
		for remaining > 0 {
			target, err := s.LoanRepo.GetScheduledRepaymentByDueDate(ctx, loanID, date, currencyCode)
			if err != nil {
				if !errors.Is(err, sql.ErrNoRows) {
					return customError.WrapDatabaseError(err)
				}
				if cascading {
					return customError.WrapOverpayment(loanID.String(), amount, loan.OutstandingAmount)
				}
				return customError.WrapScheduleNotFound(loanID.String(), utils.FormatDate(date), currencyCode)
			}

			// An already-settled installment on the cascade path passes the
			// money straight through to the next month.
			if target.OutstandingAmount == 0 {
				cascading = true
				date = utils.AddMonths(date, 1)
				continue
			}

			applied := remaining
			if applied > target.OutstandingAmount {
				applied = target.OutstandingAmount
			}

			target.OutstandingAmount -= applied
			switch {
			case target.OutstandingAmount == 0:
				target.Status = domain.ScheduleStatusRepaid
			case target.OutstandingAmount < target.Amount:
				target.Status = domain.ScheduleStatusPartial
			default:
				target.Status = domain.ScheduleStatusDue
			}

			if err := s.LoanRepo.UpdateScheduledRepayment(ctx, target); err != nil {
				return customError.WrapDatabaseError(err)
			}

			received := &domain.ReceivedRepayment{
				ID:           uuid.New(),
				LoanID:       loanID,
				Amount:       applied,
				CurrencyCode: currencyCode,
				ReceivedAt:   date,
				CreatedAt:    time.Now(),
			}
			if err := s.RepaymentRepo.Create(ctx, received); err != nil {
				return customError.WrapDatabaseError(err)
			}

			remaining -= applied
			if remaining > 0 {
				cascading = true
				date = utils.AddMonths(date, 1)
			}
		}

		totalReceived, err := s.RepaymentRepo.GetTotalReceived(ctx, loanID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		loan.OutstandingAmount = loan.Amount - totalReceived
		if loan.OutstandingAmount == 0 {
			loan.Status = domain.LoanStatusRepaid
		} else {
			loan.Status = domain.LoanStatusDue
		}
		if err := s.LoanRepo.Update(ctx, loan); err != nil {
			return customError.WrapDatabaseError(err)
		}

		// Return the re-read loan so the caller sees the state after the
		// whole cascade, not the snapshot taken before it.
		result, err = s.LoanRepo.GetByID(ctx, loanID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, loanID)

	return result, nil
}

// GetLoan returns the loan with its current outstanding amount.
func (s *LoanService) GetLoan(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error) {
	loan, err := s.LoanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return loan, nil
}

// GetSchedule returns the loan's installment schedule ordered by due date,
// served from redis when a fresh copy is cached.
func (s *LoanService) GetSchedule(ctx context.Context, loanID uuid.UUID) ([]*domain.ScheduledRepayment, error) {
	cacheKey := scheduleCacheKey(loanID)
	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, cacheKey); err == nil {
			var schedule []*domain.ScheduledRepayment
			if err := json.Unmarshal([]byte(cached), &schedule); err == nil {
				return schedule, nil
			}
		}
	}

	if _, err := s.GetLoan(ctx, loanID); err != nil {
		return nil, err
	}

	schedule, err := s.LoanRepo.GetScheduledRepayments(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if s.Cache != nil {
		if encoded, err := json.Marshal(schedule); err == nil {
			if err := s.Cache.Set(ctx, cacheKey, string(encoded), s.CacheTTL); err != nil {
				log.Printf("Failed to cache schedule for loan %s: %v", loanID, err)
			}
		}
	}

	return schedule, nil
}

// GetOutstanding returns the loan's outstanding amount, served from redis
// when a fresh copy is cached.
func (s *LoanService) GetOutstanding(ctx context.Context, loanID uuid.UUID) (int64, error) {
	cacheKey := outstandingCacheKey(loanID)
	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, cacheKey); err == nil {
			if outstanding, err := strconv.ParseInt(cached, 10, 64); err == nil {
				return outstanding, nil
			}
		}
	}

	loan, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return 0, err
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, cacheKey, strconv.FormatInt(loan.OutstandingAmount, 10), s.CacheTTL); err != nil {
			log.Printf("Failed to cache outstanding for loan %s: %v", loanID, err)
		}
	}

	return loan.OutstandingAmount, nil
}

// GetReceivedRepayments returns the append-only audit trail of payments
// applied to the loan.
func (s *LoanService) GetReceivedRepayments(ctx context.Context, loanID uuid.UUID) ([]*domain.ReceivedRepayment, error) {
	if _, err := s.GetLoan(ctx, loanID); err != nil {
		return nil, err
	}

	repayments, err := s.RepaymentRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return repayments, nil
}

func (s *LoanService) invalidateCache(ctx context.Context, loanID uuid.UUID) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, scheduleCacheKey(loanID), outstandingCacheKey(loanID)); err != nil {
		log.Printf("Failed to invalidate cache for loan %s: %v", loanID, err)
	}
}

func scheduleCacheKey(loanID uuid.UUID) string {
	return fmt.Sprintf("loan:%s:schedule", loanID)
}

func outstandingCacheKey(loanID uuid.UUID) string {
	return fmt.Sprintf("loan:%s:outstanding", loanID)
}

// Currency is an opaque matching key, but it must be a 3-letter code.
func validCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
