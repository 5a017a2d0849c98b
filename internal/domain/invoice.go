package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Installment is one equal share of a purchase. It is always derived and
// never persisted.
type Installment struct {
	InstallmentNumber int             `json:"installment_number"`
	DueDate           time.Time       `json:"due_date"`
	Amount            decimal.Decimal `json:"amount"`
	IsPaid            bool            `json:"is_paid"`
}

// InvoiceInfo is the due-day cycle as of a reference date, optionally with
// the installment progress of one purchase.
type InvoiceInfo struct {
	ReferenceDate        time.Time `json:"reference_date"`
	PreviousDueDate      time.Time `json:"previous_due_date"`
	CurrentDueDate       time.Time `json:"current_due_date"`
	NextDueDate          time.Time `json:"next_due_date"`
	CycleProgress        float64   `json:"cycle_progress"`
	DaysSinceLastDueDate int       `json:"days_since_last_due_date"`
	DaysUntilNextDueDate int       `json:"days_until_next_due_date"`

	// Purchase fields; zero when no purchase was given.
	FirstDueDate       *time.Time      `json:"first_due_date,omitempty"`
	CurrentInstallment int             `json:"current_installment"`
	TotalInstallments  int             `json:"total_installments,omitempty"`
	PaidInstallments   []int           `json:"paid_installments,omitempty"`
	InstallmentDetails []Installment   `json:"installment_details,omitempty"`
	NextUnpaid         *Installment    `json:"next_unpaid,omitempty"`
	PaidAmount         decimal.Decimal `json:"paid_amount"`
	RemainingAmount    decimal.Decimal `json:"remaining_amount"`
}

type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// BillingDates describes the active closing/due cycle of a card.
type BillingDates struct {
	ClosingDate         time.Time `json:"closing_date"`
	DueDate             time.Time `json:"due_date"`
	PreviousClosingDate time.Time `json:"previous_closing_date"`
	CurrentPeriod       Period    `json:"current_period"`
	NextPeriod          Period    `json:"next_period"`
	CycleProgress       float64   `json:"cycle_progress"`
}

// PurchaseCycle is the statement a purchase's first installment is billed on.
type PurchaseCycle struct {
	ClosingDate      time.Time  `json:"closing_date"`
	DueDate          time.Time  `json:"due_date"`
	BillingMonth     time.Month `json:"billing_month"`
	BillingYear      int        `json:"billing_year"`
	BillingMonthName string     `json:"billing_month_name"`
}

type BillingMonth struct {
	Month     time.Month `json:"month"`
	Year      int        `json:"year"`
	MonthName string     `json:"month_name"`
}

// UpcomingInstallment is an unpaid installment due soon, used for reminders.
type UpcomingInstallment struct {
	Purchase    *Purchase   `json:"purchase"`
	CardName    string      `json:"card_name"`
	Installment Installment `json:"installment"`
	DaysLeft    int         `json:"days_left"`
}
