package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditCard holds the billing configuration of a card. Closing and due days
// are days of month (1-31) and are clamped to the month length when applied.
type CreditCard struct {
	ID             uuid.UUID           `json:"id" db:"id"`
	Name           string              `json:"name" db:"name"`
	LastFourDigits string              `json:"last_four_digits,omitempty" db:"last_four_digits"`
	ClosingDay     int                 `json:"closing_day" db:"closing_day"`
	DueDay         int                 `json:"due_day" db:"due_day"`
	CreditLimit    decimal.NullDecimal `json:"credit_limit" db:"credit_limit"`
	CreatedAt      time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at" db:"updated_at"`
}

type CreateCardRequest struct {
	Name           string           `json:"name" validate:"required,max=100"`
	LastFourDigits string           `json:"last_four_digits" validate:"omitempty,len=4,numeric"`
	ClosingDay     int              `json:"closing_day" validate:"required,min=1,max=31"`
	DueDay         int              `json:"due_day" validate:"required,min=1,max=31"`
	CreditLimit    *decimal.Decimal `json:"credit_limit"`
}

// CardCycleSummary is the active billing cycle of a card with the amount
// billed into it so far.
type CardCycleSummary struct {
	CardID           uuid.UUID           `json:"card_id"`
	CardName         string              `json:"card_name"`
	Cycle            *BillingDates       `json:"cycle"`
	CurrentTotal     decimal.Decimal     `json:"current_total"`
	CreditLimit      decimal.NullDecimal `json:"credit_limit"`
	LimitUtilization *float64            `json:"limit_utilization,omitempty"`
}

// MonthlyProjection is the amount still owed on a card for one billing month.
type MonthlyProjection struct {
	BillingMonth
	Total        decimal.Decimal `json:"total"`
	Installments int             `json:"installments"`
}
