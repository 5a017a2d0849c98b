package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/segyhp/installment-engine/internal/config"
	"github.com/segyhp/installment-engine/internal/domain"
	"github.com/segyhp/installment-engine/pkg/utils"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Reminder lists the installments coming due within a few days of Date.
type Reminder struct {
	Date         time.Time
	Installments []domain.UpcomingInstallment
}

// Total is the sum of all installment amounts in the reminder.
func (r Reminder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, u := range r.Installments {
		total = total.Add(u.Installment.Amount)
	}
	return total
}

type Notifier interface {
	SendReminder(ctx context.Context, reminder Reminder) error
}

// New returns an SMTP notifier when SMTP_HOST is configured and a log-only
// notifier otherwise.
func New(cfg config.NotifierConfig, log *logrus.Logger) Notifier {
	if cfg.SMTPHost == "" {
		return NewLogNotifier(log)
	}
	return NewSMTPNotifier(cfg, log)
}

type SMTPNotifier struct {
	cfg  config.NotifierConfig
	log  *logrus.Logger
	send func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewSMTPNotifier(cfg config.NotifierConfig, log *logrus.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		cfg: cfg,
		log: log,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

func (n *SMTPNotifier) SendReminder(ctx context.Context, reminder Reminder) error {
	if len(reminder.Installments) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e := n.compose(reminder)
	addr := fmt.Sprintf("%s:%d", n.cfg.SMTPHost, n.cfg.SMTPPort)

	var auth smtp.Auth
	if n.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", n.cfg.SMTPUser, n.cfg.SMTPPassword, n.cfg.SMTPHost)
	}

	if err := n.send(e, addr, auth); err != nil {
		n.log.WithError(err).WithField("to", e.To).Error("failed to send installment reminder")
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.log.WithFields(logrus.Fields{
		"to":           e.To,
		"installments": len(reminder.Installments),
	}).Info("installment reminder sent")
	return nil
}

func (n *SMTPNotifier) compose(reminder Reminder) *email.Email {
	e := email.NewEmail()
	e.From = n.cfg.From
	e.To = recipients(n.cfg.To)
	e.Subject = fmt.Sprintf("%d installment(s) due soon, %s total", len(reminder.Installments), reminder.Total().StringFixed(2))
	e.Text = []byte(reminderBody(reminder))
	return e
}

func recipients(list string) []string {
	var to []string
	for _, addr := range strings.Split(list, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}
	return to
}

func reminderBody(reminder Reminder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Unpaid installments as of %s:\n\n", utils.FormatDate(reminder.Date))
	for _, u := range reminder.Installments {
		when := fmt.Sprintf("in %d day(s)", u.DaysLeft)
		if u.DaysLeft < 0 {
			when = fmt.Sprintf("overdue by %d day(s)", -u.DaysLeft)
		}
		fmt.Fprintf(&b, "- %s (%s): installment %d/%d of %s due %s, %s\n",
			u.Purchase.Description,
			u.CardName,
			u.Installment.InstallmentNumber,
			u.Purchase.InstallmentCount,
			u.Installment.Amount.StringFixed(2),
			utils.FormatDate(u.Installment.DueDate),
			when,
		)
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", reminder.Total().StringFixed(2))
	return b.String()
}

// LogNotifier writes reminders to the log instead of sending them.
type LogNotifier struct {
	log *logrus.Logger
}

func NewLogNotifier(log *logrus.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendReminder(_ context.Context, reminder Reminder) error {
	for _, u := range reminder.Installments {
		n.log.WithFields(logrus.Fields{
			"purchase_id": u.Purchase.ID,
			"card":        u.CardName,
			"installment": u.Installment.InstallmentNumber,
			"due_date":    utils.FormatDate(u.Installment.DueDate),
			"amount":      u.Installment.Amount.StringFixed(2),
			"days_left":   u.DaysLeft,
		}).Info("installment due soon")
	}
	return nil
}
