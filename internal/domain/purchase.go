package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Purchase is a credit purchase split into equal monthly installments.
type Purchase struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	CardID             uuid.UUID       `json:"card_id" db:"card_id"`
	Description        string          `json:"description" db:"description"`
	Category           string          `json:"category,omitempty" db:"category"`
	Amount             decimal.Decimal `json:"amount" db:"amount"`
	Date               time.Time       `json:"date" db:"purchase_date"`
	InstallmentCount   int             `json:"installment_count" db:"installment_count"`
	PaidInstallments   pq.Int64Array   `json:"paid_installments" db:"paid_installments"`     // explicitly marked paid
	UnpaidInstallments pq.Int64Array   `json:"unpaid_installments" db:"unpaid_installments"` // explicitly marked not paid
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// MarkedPaid reports whether installment n is in the explicit paid set.
func (p *Purchase) MarkedPaid(n int) bool {
	return slices.Contains(p.PaidInstallments, int64(n))
}

// MarkedUnpaid reports whether installment n is in the explicit unpaid set.
func (p *Purchase) MarkedUnpaid(n int) bool {
	return slices.Contains(p.UnpaidInstallments, int64(n))
}

type CreatePurchaseRequest struct {
	CardID             string          `json:"card_id" validate:"required,uuid"`
	Description        string          `json:"description" validate:"required,max=255"`
	Category           string          `json:"category" validate:"max=100"`
	Amount             decimal.Decimal `json:"amount"`
	Date               string          `json:"date" validate:"required,isodate"`
	InstallmentCount   int             `json:"installment_count" validate:"required,min=1,max=120"`
	PaidInstallments   []int           `json:"paid_installments" validate:"dive,min=1"`
	UnpaidInstallments []int           `json:"unpaid_installments" validate:"dive,min=1"`
}
