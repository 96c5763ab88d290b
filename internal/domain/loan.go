package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	LoanStatusDue    = "due"
	LoanStatusRepaid = "repaid"
)

// Loan represents a loan entity. Amounts are integers in minor currency
// units; the allocation path never touches floating point.
type Loan struct {
	ID                uuid.UUID `json:"id" db:"id"`
	OwnerID           uuid.UUID `json:"owner_id" db:"owner_id"`
	Amount            int64     `json:"amount" db:"amount"`
	OutstandingAmount int64     `json:"outstanding_amount" db:"outstanding_amount"`
	CurrencyCode      string    `json:"currency_code" db:"currency_code"`
	Terms             int       `json:"terms" db:"terms"`
	ProcessedAt       time.Time `json:"processed_at" db:"processed_at"`
	Status            string    `json:"status" db:"status"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	OwnerID      string `json:"owner_id" validate:"required,uuid4"`
	Amount       int64  `json:"amount" validate:"required,gt=0"`
	CurrencyCode string `json:"currency_code" validate:"required,len=3,alpha"`
	Terms        int    `json:"terms" validate:"required,gte=1"`
	ProcessedAt  string `json:"processed_at" validate:"required,datetime=2006-01-02"`
}

type RepayLoanRequest struct {
	Amount       int64  `json:"amount" validate:"required,gt=0"`
	CurrencyCode string `json:"currency_code" validate:"required,len=3,alpha"`
	ReceivedAt   string `json:"received_at" validate:"required,datetime=2006-01-02"`
}

type CreateLoanResponse struct {
	Loan     *Loan                 `json:"loan"`
	Schedule []*ScheduledRepayment `json:"schedule"`
}

type LoanResponse struct {
	Loan              *Loan  `json:"loan"`
	OutstandingAmount int64  `json:"outstanding_amount"`
	DisplayAmount     string `json:"display_amount"`
}

type OutstandingResponse struct {
	LoanID        string `json:"loan_id"`
	Outstanding   int64  `json:"outstanding"`
	DisplayAmount string `json:"display_amount"`
}

type ScheduleResponse struct {
	LoanID   string                `json:"loan_id"`
	Schedule []*ScheduledRepayment `json:"schedule"`
}

type ReceivedRepaymentsResponse struct {
	LoanID     string               `json:"loan_id"`
	Repayments []*ReceivedRepayment `json:"repayments"`
}
