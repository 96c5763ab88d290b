package domain

import (
	"time"

	"github.com/google/uuid"
)

// Installment statuses
const (
	ScheduleStatusDue     = "due"
	ScheduleStatusPartial = "partial"
	ScheduleStatusRepaid  = "repaid"
)

// ScheduledRepayment is one due slice of a loan's principal. Amount is fixed
// at creation; OutstandingAmount only ever decreases, and Status tracks it:
// due while untouched, partial while 0 < outstanding < amount, repaid at 0.
type ScheduledRepayment struct {
	ID                uuid.UUID `json:"id" db:"id"`
	LoanID            uuid.UUID `json:"loan_id" db:"loan_id"`
	Amount            int64     `json:"amount" db:"amount"`
	OutstandingAmount int64     `json:"outstanding_amount" db:"outstanding_amount"`
	CurrencyCode      string    `json:"currency_code" db:"currency_code"`
	DueDate           time.Time `json:"due_date" db:"due_date"`
	Status            string    `json:"status" db:"status"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}
