package billing

import (
	"time"

	"github.com/segyhp/installment-engine/internal/domain"
	customError "github.com/segyhp/installment-engine/pkg/errors"
	"github.com/segyhp/installment-engine/pkg/utils"
)

const monthNameLayout = "January 2006"

// CalculateBillingDates returns the card cycle active on ref.
//
// The statement closes on closingDay (clamped to the month length). Once ref
// is past this month's closing date the active statement is next month's.
// A due day smaller than the closing day falls in the month after closing,
// otherwise in the closing month. The current period runs from the day after
// the previous closing date through the active closing date.
func CalculateBillingDates(closingDay, dueDay int, ref time.Time) (*domain.BillingDates, error) {
	if err := validateCard(closingDay, dueDay); err != nil {
		return nil, err
	}
	if ref.IsZero() {
		return nil, customError.WrapInvalidDate("", nil)
	}

	today := utils.Normalize(ref)
	closing := activeClosingDate(today, closingDay)
	previous := utils.AddMonthsOnDay(closing, -1, closingDay)
	next := utils.AddMonthsOnDay(closing, 1, closingDay)

	total := utils.DaysBetween(previous, closing)
	elapsed := utils.DaysBetween(previous, today)
	progress := 0.0
	if total > 0 {
		progress = utils.ClampPercent(float64(elapsed) / float64(total) * 100)
	}

	return &domain.BillingDates{
		ClosingDate:         closing,
		DueDate:             dueDateForClosing(closing, closingDay, dueDay),
		PreviousClosingDate: previous,
		CurrentPeriod: domain.Period{
			Start: previous.AddDate(0, 0, 1),
			End:   closing,
		},
		NextPeriod: domain.Period{
			Start: closing.AddDate(0, 0, 1),
			End:   next,
		},
		CycleProgress: progress,
	}, nil
}

// BillingCycleForPurchase classifies a purchase into the statement its first
// installment is billed on. The billing month is the month of that
// statement's due date.
func BillingCycleForPurchase(purchaseDate time.Time, closingDay, dueDay int) (*domain.PurchaseCycle, error) {
	if err := validateCard(closingDay, dueDay); err != nil {
		return nil, err
	}
	if purchaseDate.IsZero() {
		return nil, customError.WrapInvalidDate("", nil)
	}

	closing := activeClosingDate(utils.Normalize(purchaseDate), closingDay)
	due := dueDateForClosing(closing, closingDay, dueDay)

	return &domain.PurchaseCycle{
		ClosingDate:      closing,
		DueDate:          due,
		BillingMonth:     due.Month(),
		BillingYear:      due.Year(),
		BillingMonthName: due.Format(monthNameLayout),
	}, nil
}

// InstallmentBillingMonths lists the billing month of each installment,
// starting at the purchase's billing month and advancing one month at a time.
func InstallmentBillingMonths(purchaseDate time.Time, count, closingDay, dueDay int) ([]domain.BillingMonth, error) {
	if count < 1 {
		return nil, customError.WrapInvalidInstallmentCount(count)
	}
	cycle, err := BillingCycleForPurchase(purchaseDate, closingDay, dueDay)
	if err != nil {
		return nil, err
	}

	months := make([]domain.BillingMonth, 0, count)
	for i := range count {
		m := time.Date(cycle.BillingYear, cycle.BillingMonth+time.Month(i), 1, 0, 0, 0, 0, purchaseDate.Location())
		months = append(months, domain.BillingMonth{
			Month:     m.Month(),
			Year:      m.Year(),
			MonthName: m.Format(monthNameLayout),
		})
	}
	return months, nil
}

// IsInCurrentBillingCycle reports whether date falls inside the period of the
// statement active on ref.
func IsInCurrentBillingCycle(date time.Time, closingDay int, ref time.Time) (bool, error) {
	// the due day does not affect period boundaries
	dates, err := CalculateBillingDates(closingDay, 1, ref)
	if err != nil {
		return false, err
	}
	day := utils.Normalize(date.In(ref.Location()))
	return !day.Before(dates.CurrentPeriod.Start) && !day.After(dates.CurrentPeriod.End), nil
}

func activeClosingDate(day time.Time, closingDay int) time.Time {
	closing := utils.DateOnDay(day.Year(), day.Month(), closingDay, day.Location())
	if day.Day() > closing.Day() {
		return utils.AddMonthsOnDay(closing, 1, closingDay)
	}
	return closing
}

func dueDateForClosing(closing time.Time, closingDay, dueDay int) time.Time {
	months := 0
	if dueDay < closingDay {
		months = 1
	}
	return utils.AddMonthsOnDay(closing, months, dueDay)
}
