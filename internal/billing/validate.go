// Package billing computes installment schedules and billing cycles.
//
// Every function here is a pure function of its arguments. Nothing reads the
// wall clock: callers pass the reference date ("today") explicitly. Dates are
// compared at day granularity in the location they carry.
package billing

import (
	"github.com/segyhp/installment-engine/internal/domain"
	customError "github.com/segyhp/installment-engine/pkg/errors"
)

const (
	minDay = 1
	maxDay = 31
)

// ValidateDay rejects a day of month outside 1-31. field names the offending
// argument in the error message.
func ValidateDay(field string, day int) error {
	if day < minDay || day > maxDay {
		return customError.WrapInvalidDay(field, day)
	}
	return nil
}

// ValidatePurchase checks the fields the scheduler depends on.
func ValidatePurchase(p *domain.Purchase) error {
	if p == nil || p.Date.IsZero() {
		return customError.WrapInvalidDate("", nil)
	}
	if p.InstallmentCount < 1 {
		return customError.WrapInvalidInstallmentCount(p.InstallmentCount)
	}
	if p.Amount.IsNegative() {
		return customError.WrapInvalidAmount(p.Amount.String())
	}
	return nil
}

func validateCard(closingDay, dueDay int) error {
	if err := ValidateDay("closing day", closingDay); err != nil {
		return err
	}
	return ValidateDay("due day", dueDay)
}
