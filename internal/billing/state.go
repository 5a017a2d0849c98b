package billing

import (
	"slices"
	"time"

	"github.com/segyhp/installment-engine/internal/domain"
	"github.com/segyhp/installment-engine/pkg/utils"
)

// ResolvePaidStatus decides whether an installment counts as paid on ref.
//
//  1. explicitly unpaid: never paid, whatever else is recorded
//  2. explicitly paid: paid
//  3. otherwise paid once its due date is strictly before ref
//
// An installment in both sets is therefore unpaid.
func ResolvePaidStatus(inst domain.Installment, p *domain.Purchase, ref time.Time) bool {
	if p.MarkedUnpaid(inst.InstallmentNumber) {
		return false
	}
	if p.MarkedPaid(inst.InstallmentNumber) {
		return true
	}
	return utils.Normalize(inst.DueDate).Before(utils.Normalize(ref))
}

// ResolveInstallments returns a copy of installments with IsPaid resolved.
func ResolveInstallments(installments []domain.Installment, p *domain.Purchase, ref time.Time) []domain.Installment {
	out := make([]domain.Installment, len(installments))
	for i, inst := range installments {
		inst.IsPaid = ResolvePaidStatus(inst, p, ref)
		out[i] = inst
	}
	return out
}

// ConflictingInstallments lists installment numbers present in both the paid
// and the unpaid set, in ascending order.
func ConflictingInstallments(p *domain.Purchase) []int {
	var conflicts []int
	for _, n := range p.PaidInstallments {
		if p.MarkedUnpaid(int(n)) && !slices.Contains(conflicts, int(n)) {
			conflicts = append(conflicts, int(n))
		}
	}
	slices.Sort(conflicts)
	return conflicts
}

// ToggleInstallment advances installment n through
// paid -> explicitly unpaid -> inferred (neither set) -> paid
// and returns the new paid and unpaid sets. The purchase is not modified.
// A conflicting number (in both sets) is treated as paid and moves to unpaid.
func ToggleInstallment(p *domain.Purchase, n int) (paid, unpaid []int64) {
	paid = slices.Clone([]int64(p.PaidInstallments))
	unpaid = slices.Clone([]int64(p.UnpaidInstallments))
	num := int64(n)

	switch {
	case p.MarkedPaid(n):
		paid = slices.DeleteFunc(paid, func(v int64) bool { return v == num })
		if !p.MarkedUnpaid(n) {
			unpaid = append(unpaid, num)
		}
	case p.MarkedUnpaid(n):
		unpaid = slices.DeleteFunc(unpaid, func(v int64) bool { return v == num })
	default:
		paid = append(paid, num)
	}

	slices.Sort(paid)
	slices.Sort(unpaid)
	if paid == nil {
		paid = []int64{}
	}
	if unpaid == nil {
		unpaid = []int64{}
	}
	return paid, unpaid
}
