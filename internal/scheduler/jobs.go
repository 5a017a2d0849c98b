// Package scheduler holds the periodic jobs run by cmd/scheduler.
package scheduler

import (
	"context"
	"time"

	"github.com/segyhp/installment-engine/internal/domain"
	"github.com/segyhp/installment-engine/internal/notifier"
	"github.com/segyhp/installment-engine/pkg/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BillingReader is the part of the billing service the jobs read from.
type BillingReader interface {
	Today() time.Time
	ListCards(ctx context.Context) ([]*domain.CreditCard, error)
	GetCardCycle(ctx context.Context, cardID uuid.UUID, ref time.Time) (*domain.CardCycleSummary, error)
	UpcomingInstallments(ctx context.Context, ref time.Time, withinDays int) ([]domain.UpcomingInstallment, error)
}

type Jobs struct {
	billing   BillingReader
	notifier  notifier.Notifier
	log       *logrus.Logger
	daysAhead int
}

func NewJobs(billing BillingReader, n notifier.Notifier, log *logrus.Logger, daysAhead int) *Jobs {
	return &Jobs{
		billing:   billing,
		notifier:  n,
		log:       log,
		daysAhead: daysAhead,
	}
}

// SendReminders sends one reminder covering every unpaid installment due
// within the configured number of days.
func (j *Jobs) SendReminders(ctx context.Context) error {
	today := j.billing.Today()

	upcoming, err := j.billing.UpcomingInstallments(ctx, today, j.daysAhead)
	if err != nil {
		return err
	}
	if len(upcoming) == 0 {
		j.log.WithField("date", utils.FormatDate(today)).Debug("no installments due soon")
		return nil
	}

	return j.notifier.SendReminder(ctx, notifier.Reminder{Date: today, Installments: upcoming})
}

// ReportCycles logs the active statement of every card. A card that fails is
// logged and skipped.
func (j *Jobs) ReportCycles(ctx context.Context) error {
	today := j.billing.Today()

	cards, err := j.billing.ListCards(ctx)
	if err != nil {
		return err
	}

	for _, card := range cards {
		summary, err := j.billing.GetCardCycle(ctx, card.ID, today)
		if err != nil {
			j.log.WithError(err).WithField("card_id", card.ID).Error("computing card cycle")
			continue
		}

		fields := logrus.Fields{
			"card_id":        card.ID,
			"card":           card.Name,
			"closing_date":   utils.FormatDate(summary.Cycle.ClosingDate),
			"due_date":       utils.FormatDate(summary.Cycle.DueDate),
			"cycle_progress": summary.Cycle.CycleProgress,
			"current_total":  summary.CurrentTotal.StringFixed(2),
		}
		if summary.LimitUtilization != nil {
			fields["limit_utilization"] = *summary.LimitUtilization
		}
		j.log.WithFields(fields).Info("card cycle")
	}
	return nil
}
