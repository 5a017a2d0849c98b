package billing

import (
	"testing"
	"time"

	customError "github.com/segyhp/installment-engine/pkg/errors"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceCalculator_CurrentInstallment(t *testing.T) {
	calculator, err := NewInvoiceCalculator(10)
	require.NoError(t, err)

	tests := []struct {
		name          string
		purchaseDate  time.Time
		installments  int
		ref           time.Time
		expected      int
		expectedFirst time.Time
	}{
		{
			name:         "eight installments after the due day",
			purchaseDate: d(2024, time.December, 31), installments: 8,
			ref: d(2025, time.March, 20), expected: 3, expectedFirst: d(2025, time.January, 10),
		},
		{
			name:         "eight installments before the due day",
			purchaseDate: d(2024, time.December, 31), installments: 8,
			ref: d(2025, time.March, 5), expected: 2, expectedFirst: d(2025, time.January, 10),
		},
		{
			name:         "on the due day",
			purchaseDate: d(2024, time.December, 31), installments: 8,
			ref: d(2025, time.March, 10), expected: 3, expectedFirst: d(2025, time.January, 10),
		},
		{
			name:         "future purchase",
			purchaseDate: d(2025, time.April, 15), installments: 3,
			ref: d(2025, time.March, 20), expected: 0, expectedFirst: d(2025, time.May, 10),
		},
		{
			name:         "all installments elapsed",
			purchaseDate: d(2024, time.July, 15), installments: 3,
			ref: d(2025, time.March, 20), expected: 3, expectedFirst: d(2024, time.August, 10),
		},
		{
			name:         "purchased but first installment not yet due",
			purchaseDate: d(2024, time.December, 31), installments: 8,
			ref: d(2025, time.January, 5), expected: 1, expectedFirst: d(2025, time.January, 10),
		},
		{
			name:         "purchase on reference date",
			purchaseDate: d(2025, time.March, 20), installments: 2,
			ref: d(2025, time.March, 20), expected: 1, expectedFirst: d(2025, time.April, 10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := calculator.Info(tt.ref, purchase(tt.purchaseDate, "1000", tt.installments))
			require.NoError(t, err)

			assert.Equal(t, tt.expected, info.CurrentInstallment)
			assert.Equal(t, tt.installments, info.TotalInstallments)
			require.NotNil(t, info.FirstDueDate)
			assert.Equal(t, tt.expectedFirst, *info.FirstDueDate)
			assert.Len(t, info.InstallmentDetails, tt.installments)
		})
	}
}

func TestInvoiceCalculator_CycleOnly(t *testing.T) {
	calculator, err := NewInvoiceCalculator(10)
	require.NoError(t, err)

	info, err := calculator.Info(time.Date(2025, time.March, 20, 15, 45, 0, 0, time.UTC), nil)
	require.NoError(t, err)

	assert.Equal(t, d(2025, time.March, 20), info.ReferenceDate)
	assert.Equal(t, d(2025, time.March, 10), info.PreviousDueDate)
	assert.Equal(t, d(2025, time.April, 10), info.CurrentDueDate)
	assert.Equal(t, d(2025, time.May, 10), info.NextDueDate)
	assert.Equal(t, 10, info.DaysSinceLastDueDate)
	assert.Equal(t, 21, info.DaysUntilNextDueDate)
	assert.InDelta(t, 10.0/31.0*100, info.CycleProgress, 1e-9)

	assert.Nil(t, info.FirstDueDate)
	assert.Zero(t, info.CurrentInstallment)
	assert.Empty(t, info.InstallmentDetails)
}

func TestInvoiceCalculator_CycleProgressOnDueDay(t *testing.T) {
	calculator, err := NewInvoiceCalculator(10)
	require.NoError(t, err)

	info, err := calculator.Info(d(2025, time.March, 10), nil)
	require.NoError(t, err)

	assert.Equal(t, 0, info.DaysSinceLastDueDate)
	assert.Equal(t, 31, info.DaysUntilNextDueDate)
	assert.Equal(t, 0.0, info.CycleProgress)
}

func TestInvoiceCalculator_PaidProgress(t *testing.T) {
	calculator, err := NewInvoiceCalculator(10)
	require.NoError(t, err)

	p := purchase(d(2024, time.December, 31), "2222.00", 8)

	info, err := calculator.Info(d(2025, time.March, 20), p)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, info.PaidInstallments)
	assert.True(t, info.PaidAmount.Equal(decimal.RequireFromString("833.25")), "got %s", info.PaidAmount)
	assert.True(t, info.RemainingAmount.Equal(decimal.RequireFromString("1388.75")), "got %s", info.RemainingAmount)
	require.NotNil(t, info.NextUnpaid)
	assert.Equal(t, 4, info.NextUnpaid.InstallmentNumber)
	assert.Equal(t, d(2025, time.April, 10), info.NextUnpaid.DueDate)
}

func TestInvoiceCalculator_ExplicitOverrides(t *testing.T) {
	calculator, err := NewInvoiceCalculator(10)
	require.NoError(t, err)

	p := purchase(d(2024, time.December, 31), "2222.00", 8)
	p.UnpaidInstallments = pq.Int64Array{2}
	p.PaidInstallments = pq.Int64Array{2, 6}

	info, err := calculator.Info(d(2025, time.March, 20), p)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3, 6}, info.PaidInstallments)
	require.NotNil(t, info.NextUnpaid)
	assert.Equal(t, 2, info.NextUnpaid.InstallmentNumber)
	// overrides change paid state, never the active installment
	assert.Equal(t, 3, info.CurrentInstallment)
}

func TestInvoiceCalculator_AllPaid(t *testing.T) {
	calculator, err := NewInvoiceCalculator(10)
	require.NoError(t, err)

	info, err := calculator.Info(d(2025, time.March, 20), purchase(d(2024, time.July, 15), "300", 3))
	require.NoError(t, err)

	assert.Nil(t, info.NextUnpaid)
	assert.True(t, info.RemainingAmount.IsZero())
	assert.True(t, info.PaidAmount.Equal(decimal.NewFromInt(300)))
}

func TestInvoiceCalculator_InvalidInput(t *testing.T) {
	_, err := NewInvoiceCalculator(0)
	assert.ErrorIs(t, err, customError.ErrInvalidDay)

	calculator, err := NewInvoiceCalculator(10)
	require.NoError(t, err)
	assert.Equal(t, 10, calculator.DueDay())

	_, err = calculator.Info(time.Time{}, nil)
	assert.ErrorIs(t, err, customError.ErrInvalidDate)

	_, err = calculator.Info(d(2025, time.March, 20), purchase(d(2025, time.January, 1), "100", 0))
	assert.ErrorIs(t, err, customError.ErrInvalidInstallmentCount)

	_, err = calculator.Installments(purchase(d(2025, time.January, 1), "100", 2), time.Time{})
	assert.ErrorIs(t, err, customError.ErrInvalidDate)
}

func TestInvoiceCalculator_FirstInstallmentDueDate(t *testing.T) {
	calculator, err := NewInvoiceCalculator(10)
	require.NoError(t, err)

	first, err := calculator.FirstInstallmentDueDate(d(2024, time.December, 5))
	require.NoError(t, err)
	assert.Equal(t, d(2024, time.December, 10), first)

	first, err = calculator.FirstInstallmentDueDate(d(2024, time.December, 15))
	require.NoError(t, err)
	assert.Equal(t, d(2025, time.January, 10), first)
}
