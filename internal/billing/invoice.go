package billing

import (
	"time"

	"github.com/segyhp/installment-engine/internal/domain"
	customError "github.com/segyhp/installment-engine/pkg/errors"
	"github.com/segyhp/installment-engine/pkg/utils"

	"github.com/shopspring/decimal"
)

// InvoiceCalculator answers "where am I in the cycle, which installment am I
// on, what is paid" for a fixed monthly due day.
type InvoiceCalculator struct {
	dueDay int
}

func NewInvoiceCalculator(dueDay int) (*InvoiceCalculator, error) {
	if err := ValidateDay("due day", dueDay); err != nil {
		return nil, err
	}
	return &InvoiceCalculator{dueDay: dueDay}, nil
}

func (c *InvoiceCalculator) DueDay() int {
	return c.dueDay
}

func (c *InvoiceCalculator) FirstInstallmentDueDate(purchaseDate time.Time) (time.Time, error) {
	return FirstInstallmentDueDate(purchaseDate, c.dueDay)
}

// Installments returns the purchase schedule with paid flags resolved on ref.
func (c *InvoiceCalculator) Installments(p *domain.Purchase, ref time.Time) ([]domain.Installment, error) {
	if ref.IsZero() {
		return nil, customError.WrapInvalidDate("", nil)
	}
	schedule, err := Schedule(p, c.dueDay)
	if err != nil {
		return nil, err
	}
	return ResolveInstallments(schedule, p, ref), nil
}

// Info returns the cycle as of ref. When p is not nil the purchase's
// installment progress is filled in as well.
func (c *InvoiceCalculator) Info(ref time.Time, p *domain.Purchase) (*domain.InvoiceInfo, error) {
	if ref.IsZero() {
		return nil, customError.WrapInvalidDate("", nil)
	}
	today := utils.Normalize(ref)

	current, err := CurrentCycleDueDate(today, c.dueDay)
	if err != nil {
		return nil, err
	}
	previous := utils.AddMonthsOnDay(current, -1, c.dueDay)

	total := utils.DaysBetween(previous, current)
	since := utils.DaysBetween(previous, today)

	info := &domain.InvoiceInfo{
		ReferenceDate:        today,
		PreviousDueDate:      previous,
		CurrentDueDate:       current,
		NextDueDate:          utils.AddMonthsOnDay(current, 1, c.dueDay),
		CycleProgress:        utils.ClampPercent(float64(since) / float64(total) * 100),
		DaysSinceLastDueDate: since,
		DaysUntilNextDueDate: utils.DaysBetween(today, current),
		PaidAmount:           decimal.Zero,
		RemainingAmount:      decimal.Zero,
	}
	if p == nil {
		return info, nil
	}

	installments, err := c.Installments(p, today)
	if err != nil {
		return nil, err
	}
	first := installments[0].DueDate

	info.FirstDueDate = &first
	info.TotalInstallments = p.InstallmentCount
	info.InstallmentDetails = installments
	info.CurrentInstallment = CurrentInstallment(p, installments, today)
	info.PaidInstallments = []int{}

	for i := range installments {
		inst := installments[i]
		if inst.IsPaid {
			info.PaidInstallments = append(info.PaidInstallments, inst.InstallmentNumber)
			info.PaidAmount = info.PaidAmount.Add(inst.Amount)
			continue
		}
		info.RemainingAmount = info.RemainingAmount.Add(inst.Amount)
		if info.NextUnpaid == nil {
			info.NextUnpaid = &inst
		}
	}

	return info, nil
}

// CurrentInstallment returns the installment active on ref: 0 while the
// purchase lies in the future, otherwise the number of installments due on or
// before ref, at least 1 and at most the installment count.
func CurrentInstallment(p *domain.Purchase, installments []domain.Installment, ref time.Time) int {
	today := utils.Normalize(ref)
	if utils.Normalize(p.Date).After(today) {
		return 0
	}

	elapsed := 0
	for _, inst := range installments {
		if inst.DueDate.After(today) {
			break
		}
		elapsed++
	}
	return min(max(elapsed, 1), p.InstallmentCount)
}
