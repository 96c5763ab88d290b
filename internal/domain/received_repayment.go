package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReceivedRepayment is an append-only audit record of money applied to a
// loan. A cascading payment produces one row per installment it touches, and
// the rows for one payment always sum to the paid amount.
type ReceivedRepayment struct {
	ID           uuid.UUID `json:"id" db:"id"`
	LoanID       uuid.UUID `json:"loan_id" db:"loan_id"`
	Amount       int64     `json:"amount" db:"amount"`
	CurrencyCode string    `json:"currency_code" db:"currency_code"`
	ReceivedAt   time.Time `json:"received_at" db:"received_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
