package service

import (
	"context"
	"slices"
	"time"

	"github.com/segyhp/installment-engine/internal/billing"
	"github.com/segyhp/installment-engine/internal/domain"
	customError "github.com/segyhp/installment-engine/pkg/errors"
	"github.com/segyhp/installment-engine/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GetCardCycle returns the statement active on ref and the installments
// billed into it.
func (s *BillingService) GetCardCycle(ctx context.Context, cardID uuid.UUID, ref time.Time) (*domain.CardCycleSummary, error) {
	card, err := s.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	ref = s.reference(ref)

	dates, err := billing.CalculateBillingDates(card.ClosingDay, card.DueDay, ref)
	if err != nil {
		return nil, err
	}

	purchases, err := s.cardPurchases(ctx, card.ID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, p := range purchases {
		months, err := billing.InstallmentBillingMonths(p.Date, p.InstallmentCount, card.ClosingDay, card.DueDay)
		if err != nil {
			return nil, err
		}
		for _, m := range months {
			if m.Month == dates.DueDate.Month() && m.Year == dates.DueDate.Year() {
				total = total.Add(billing.InstallmentAmount(p))
			}
		}
	}

	summary := &domain.CardCycleSummary{
		CardID:       card.ID,
		CardName:     card.Name,
		Cycle:        dates,
		CurrentTotal: total.Round(2),
		CreditLimit:  card.CreditLimit,
	}
	if card.CreditLimit.Valid && card.CreditLimit.Decimal.IsPositive() {
		used := total.Div(card.CreditLimit.Decimal).Mul(decimal.NewFromInt(100)).InexactFloat64()
		summary.LimitUtilization = &used
	}

	return summary, nil
}

// IsInCurrentCycle reports whether a purchase made on date lands on the
// statement active on ref.
func (s *BillingService) IsInCurrentCycle(ctx context.Context, cardID uuid.UUID, date, ref time.Time) (bool, error) {
	card, err := s.GetCard(ctx, cardID)
	if err != nil {
		return false, err
	}
	if date.IsZero() {
		return false, customError.WrapInvalidDate("", nil)
	}
	return billing.IsInCurrentBillingCycle(date, card.ClosingDay, s.reference(ref))
}

// ProjectCardExpenses sums the installments not yet paid on ref into billing
// months, starting at the active statement. months < 1 uses the configured
// horizon.
func (s *BillingService) ProjectCardExpenses(ctx context.Context, cardID uuid.UUID, ref time.Time, months int) ([]domain.MonthlyProjection, error) {
	card, err := s.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if months < 1 {
		months = s.projection
	}
	ref = s.reference(ref)

	dates, err := billing.CalculateBillingDates(card.ClosingDay, card.DueDay, ref)
	if err != nil {
		return nil, err
	}
	start := time.Date(dates.DueDate.Year(), dates.DueDate.Month(), 1, 0, 0, 0, 0, s.location)

	projection := make([]domain.MonthlyProjection, months)
	for i := range projection {
		m := start.AddDate(0, i, 0)
		projection[i] = domain.MonthlyProjection{
			BillingMonth: domain.BillingMonth{Month: m.Month(), Year: m.Year(), MonthName: m.Format("January 2006")},
			Total:        decimal.Zero,
		}
	}

	purchases, err := s.cardPurchases(ctx, card.ID)
	if err != nil {
		return nil, err
	}
	calc, err := billing.NewInvoiceCalculator(card.DueDay)
	if err != nil {
		return nil, err
	}

	for _, p := range purchases {
		billingMonths, err := billing.InstallmentBillingMonths(p.Date, p.InstallmentCount, card.ClosingDay, card.DueDay)
		if err != nil {
			return nil, err
		}
		installments, err := calc.Installments(p, ref)
		if err != nil {
			return nil, err
		}
		for i, inst := range installments {
			if inst.IsPaid {
				continue
			}
			bm := billingMonths[i]
			offset := (bm.Year-start.Year())*12 + int(bm.Month) - int(start.Month())
			if offset < 0 || offset >= months {
				continue
			}
			projection[offset].Total = projection[offset].Total.Add(inst.Amount)
			projection[offset].Installments++
		}
	}

	for i := range projection {
		projection[i].Total = projection[i].Total.Round(2)
	}
	return projection, nil
}

// UpcomingInstallments lists unpaid installments of every card due within
// withinDays of ref, soonest first. Installments explicitly marked unpaid are
// listed even when already overdue, with a negative DaysLeft.
func (s *BillingService) UpcomingInstallments(ctx context.Context, ref time.Time, withinDays int) ([]domain.UpcomingInstallment, error) {
	ref = s.reference(ref)
	until := ref.AddDate(0, 0, max(withinDays, 0))

	cards, err := s.ListCards(ctx)
	if err != nil {
		return nil, err
	}

	upcoming := []domain.UpcomingInstallment{}
	for _, card := range cards {
		calc, err := billing.NewInvoiceCalculator(card.DueDay)
		if err != nil {
			return nil, err
		}
		purchases, err := s.cardPurchases(ctx, card.ID)
		if err != nil {
			return nil, err
		}

		for _, p := range purchases {
			installments, err := calc.Installments(p, ref)
			if err != nil {
				return nil, err
			}
			for _, inst := range installments {
				if inst.IsPaid || inst.DueDate.After(until) {
					continue
				}
				// Past due dates are only reported when explicitly marked unpaid.
				if inst.DueDate.Before(ref) && !p.MarkedUnpaid(inst.InstallmentNumber) {
					continue
				}
				upcoming = append(upcoming, domain.UpcomingInstallment{
					Purchase:    p,
					CardName:    card.Name,
					Installment: inst,
					DaysLeft:    utils.DaysBetween(ref, inst.DueDate),
				})
			}
		}
	}

	slices.SortStableFunc(upcoming, func(a, b domain.UpcomingInstallment) int {
		return a.Installment.DueDate.Compare(b.Installment.DueDate)
	})
	return upcoming, nil
}

func (s *BillingService) cardPurchases(ctx context.Context, cardID uuid.UUID) ([]*domain.Purchase, error) {
	purchases, err := s.PurchaseRepo.ListByCard(ctx, cardID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	for i, p := range purchases {
		purchases[i] = s.inLocation(p)
	}
	return purchases, nil
}
