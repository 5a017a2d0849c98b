package billing

import (
	"time"

	customError "github.com/segyhp/installment-engine/pkg/errors"
	"github.com/segyhp/installment-engine/pkg/utils"
)

// FirstInstallmentDueDate returns the due date of a purchase's first
// installment. A purchase made on or after the month's due day cannot be
// billed on that due date any more and rolls to the next month.
//
// The due day is clamped to the month length before the comparison, so with
// dueDay 31 a purchase on April 30 is on the (clamped) due day and rolls to
// May 31.
func FirstInstallmentDueDate(purchaseDate time.Time, dueDay int) (time.Time, error) {
	if err := ValidateDay("due day", dueDay); err != nil {
		return time.Time{}, err
	}
	if purchaseDate.IsZero() {
		return time.Time{}, customError.WrapInvalidDate("", nil)
	}
	return nextDueOnOrAfter(utils.Normalize(purchaseDate), dueDay), nil
}

// CurrentCycleDueDate returns the due date of the cycle ref falls in: this
// month's due date while ref is before it, otherwise next month's.
func CurrentCycleDueDate(ref time.Time, dueDay int) (time.Time, error) {
	if err := ValidateDay("due day", dueDay); err != nil {
		return time.Time{}, err
	}
	if ref.IsZero() {
		return time.Time{}, customError.WrapInvalidDate("", nil)
	}
	return nextDueOnOrAfter(utils.Normalize(ref), dueDay), nil
}

// PreviousCycleDueDate returns the most recent due date on or before ref.
func PreviousCycleDueDate(ref time.Time, dueDay int) (time.Time, error) {
	current, err := CurrentCycleDueDate(ref, dueDay)
	if err != nil {
		return time.Time{}, err
	}
	return utils.AddMonthsOnDay(current, -1, dueDay), nil
}

// nextDueOnOrAfter rolls to next month when day is on or past the due day.
func nextDueOnOrAfter(day time.Time, dueDay int) time.Time {
	due := utils.DateOnDay(day.Year(), day.Month(), dueDay, day.Location())
	if day.Day() >= due.Day() {
		return utils.AddMonthsOnDay(due, 1, dueDay)
	}
	return due
}
