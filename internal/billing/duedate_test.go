package billing

import (
	"testing"
	"time"

	"github.com/segyhp/installment-engine/internal/domain"
	customError "github.com/segyhp/installment-engine/pkg/errors"
	"github.com/segyhp/installment-engine/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func purchase(date time.Time, amount string, count int) *domain.Purchase {
	return &domain.Purchase{
		Date:             date,
		Amount:           decimal.RequireFromString(amount),
		InstallmentCount: count,
	}
}

func TestFirstInstallmentDueDate(t *testing.T) {
	tests := []struct {
		name         string
		purchaseDate time.Time
		dueDay       int
		expected     time.Time
	}{
		{name: "before due day stays in same month", purchaseDate: d(2024, time.December, 5), dueDay: 10, expected: d(2024, time.December, 10)},
		{name: "after due day rolls to next month", purchaseDate: d(2024, time.December, 15), dueDay: 10, expected: d(2025, time.January, 10)},
		{name: "on due day rolls to next month", purchaseDate: d(2024, time.December, 10), dueDay: 10, expected: d(2025, time.January, 10)},
		{name: "last day of year", purchaseDate: d(2024, time.December, 31), dueDay: 10, expected: d(2025, time.January, 10)},
		{name: "due day 31 in a 31 day month", purchaseDate: d(2025, time.January, 15), dueDay: 31, expected: d(2025, time.January, 31)},
		{name: "due day 31 clamps in february", purchaseDate: d(2025, time.February, 10), dueDay: 31, expected: d(2025, time.February, 28)},
		{name: "due day 30 clamps in leap february", purchaseDate: d(2024, time.February, 10), dueDay: 30, expected: d(2024, time.February, 29)},
		{name: "purchase on clamped due day rolls", purchaseDate: d(2025, time.February, 28), dueDay: 30, expected: d(2025, time.March, 30)},
		{name: "purchase on clamped due day in april", purchaseDate: d(2025, time.April, 30), dueDay: 31, expected: d(2025, time.May, 31)},
		{name: "rolling into a short month clamps", purchaseDate: d(2025, time.January, 31), dueDay: 31, expected: d(2025, time.February, 28)},
		{name: "due day 1", purchaseDate: d(2025, time.March, 1), dueDay: 1, expected: d(2025, time.April, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FirstInstallmentDueDate(tt.purchaseDate, tt.dueDay)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFirstInstallmentDueDate_IgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2024, time.December, 5, 23, 59, 0, 0, time.UTC)

	got, err := FirstInstallmentDueDate(late, 10)
	require.NoError(t, err)
	assert.Equal(t, d(2024, time.December, 10), got)
}

func TestFirstInstallmentDueDate_DayMatchesClampedDueDay(t *testing.T) {
	start := d(2024, time.January, 1)
	for dueDay := 1; dueDay <= 31; dueDay++ {
		for offset := 0; offset < 366; offset++ {
			purchaseDate := start.AddDate(0, 0, offset)

			got, err := FirstInstallmentDueDate(purchaseDate, dueDay)
			require.NoError(t, err)

			expectedDay := min(dueDay, utils.DaysInMonth(got.Year(), got.Month(), time.UTC))
			if !assert.Equal(t, expectedDay, got.Day(), "purchase %s due day %d", utils.FormatDate(purchaseDate), dueDay) {
				return
			}
			assert.True(t, got.After(purchaseDate))
			months := utils.MonthsBetween(purchaseDate, got)
			assert.True(t, months == 0 || months == 1)
		}
	}
}

func TestFirstInstallmentDueDate_InvalidInput(t *testing.T) {
	for _, dueDay := range []int{-1, 0, 32} {
		_, err := FirstInstallmentDueDate(d(2025, time.January, 1), dueDay)
		assert.ErrorIs(t, err, customError.ErrInvalidDay)
		assert.Equal(t, customError.ErrCodeInvalidDay, customError.Code(err))
	}

	_, err := FirstInstallmentDueDate(time.Time{}, 10)
	assert.ErrorIs(t, err, customError.ErrInvalidDate)
}

func TestCurrentAndPreviousCycleDueDate(t *testing.T) {
	tests := []struct {
		name             string
		ref              time.Time
		dueDay           int
		expectedCurrent  time.Time
		expectedPrevious time.Time
	}{
		{name: "after due day", ref: d(2025, time.March, 20), dueDay: 10, expectedCurrent: d(2025, time.April, 10), expectedPrevious: d(2025, time.March, 10)},
		{name: "before due day", ref: d(2025, time.March, 5), dueDay: 10, expectedCurrent: d(2025, time.March, 10), expectedPrevious: d(2025, time.February, 10)},
		{name: "on due day", ref: d(2025, time.March, 10), dueDay: 10, expectedCurrent: d(2025, time.April, 10), expectedPrevious: d(2025, time.March, 10)},
		{name: "year boundary", ref: d(2024, time.December, 20), dueDay: 10, expectedCurrent: d(2025, time.January, 10), expectedPrevious: d(2024, time.December, 10)},
		{name: "clamped previous", ref: d(2025, time.March, 15), dueDay: 31, expectedCurrent: d(2025, time.March, 31), expectedPrevious: d(2025, time.February, 28)},
		{name: "clamped current", ref: d(2025, time.February, 10), dueDay: 31, expectedCurrent: d(2025, time.February, 28), expectedPrevious: d(2025, time.January, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, err := CurrentCycleDueDate(tt.ref, tt.dueDay)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCurrent, current)

			previous, err := PreviousCycleDueDate(tt.ref, tt.dueDay)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedPrevious, previous)

			assert.False(t, previous.After(tt.ref))
			assert.True(t, current.After(tt.ref))
		})
	}
}

func TestCurrentCycleDueDate_InvalidDay(t *testing.T) {
	_, err := CurrentCycleDueDate(d(2025, time.March, 20), 40)
	assert.ErrorIs(t, err, customError.ErrInvalidDay)

	_, err = PreviousCycleDueDate(d(2025, time.March, 20), 0)
	assert.ErrorIs(t, err, customError.ErrInvalidDay)
}
