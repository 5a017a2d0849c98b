package billing

import (
	"iter"
	"slices"

	"github.com/segyhp/installment-engine/internal/domain"
	"github.com/segyhp/installment-engine/pkg/utils"

	"github.com/shopspring/decimal"
)

// InstallmentAmount is the flat share of each installment. The division
// remainder is not redistributed: 100/3 yields three installments of
// 33.3333333333333333.
func InstallmentAmount(p *domain.Purchase) decimal.Decimal {
	return p.Amount.Div(decimal.NewFromInt(int64(p.InstallmentCount)))
}

// Installments returns the purchase's installments as a lazy sequence.
// The sequence can be ranged over any number of times and always yields the
// same values; paid flags are left false (see ResolveInstallments).
func Installments(p *domain.Purchase, dueDay int) (iter.Seq[domain.Installment], error) {
	if err := ValidatePurchase(p); err != nil {
		return nil, err
	}
	first, err := FirstInstallmentDueDate(p.Date, dueDay)
	if err != nil {
		return nil, err
	}

	count := p.InstallmentCount
	amount := InstallmentAmount(p)

	return func(yield func(domain.Installment) bool) {
		for i := range count {
			inst := domain.Installment{
				InstallmentNumber: i + 1,
				DueDate:           utils.AddMonthsOnDay(first, i, dueDay),
				Amount:            amount,
			}
			if !yield(inst) {
				return
			}
		}
	}, nil
}

// Schedule returns all installments of a purchase in due-date order.
func Schedule(p *domain.Purchase, dueDay int) ([]domain.Installment, error) {
	seq, err := Installments(p, dueDay)
	if err != nil {
		return nil, err
	}
	return slices.Collect(seq), nil
}
