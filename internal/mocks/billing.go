package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/installment-engine/internal/domain"
	"github.com/segyhp/installment-engine/internal/notifier"
	"github.com/stretchr/testify/mock"
)

type MockBillingReader struct {
	mock.Mock
}

func (m *MockBillingReader) Today() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}

func (m *MockBillingReader) ListCards(ctx context.Context) ([]*domain.CreditCard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CreditCard), args.Error(1)
}

func (m *MockBillingReader) GetCardCycle(ctx context.Context, cardID uuid.UUID, ref time.Time) (*domain.CardCycleSummary, error) {
	args := m.Called(ctx, cardID, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CardCycleSummary), args.Error(1)
}

func (m *MockBillingReader) UpcomingInstallments(ctx context.Context, ref time.Time, withinDays int) ([]domain.UpcomingInstallment, error) {
	args := m.Called(ctx, ref, withinDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UpcomingInstallment), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendReminder(ctx context.Context, reminder notifier.Reminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}
