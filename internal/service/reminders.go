package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/perchfin/lending-engine/pkg/utils"
)

// ReminderSender delivers upcoming-installment notifications.
type ReminderSender interface {
	SendRepaymentReminder(to, username string, dueDate time.Time, amount float64) error
}

// SendReminders walks every account's forward schedule as of `at` and sends a
// reminder for each installment falling due within the configured lead time.
// Delivery failures are logged per account and do not stop the sweep.
func (s *LedgerService) SendReminders(ctx context.Context, sender ReminderSender, at time.Time) error {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return err
	}

	horizon := utils.DateOf(at.Add(s.config.Scheduler.ReminderLead))

	for _, account := range accounts {
		accountLedger, err := s.loadLedger(ctx, account.ID)
		if err != nil {
			s.logger.WithError(err).WithField("account", account.ID).Error("loading ledger for reminders")
			continue
		}

		schedule, err := accountLedger.ScheduleForDate(at)
		if err != nil {
			s.logger.WithError(err).WithField("account", account.ID).Error("computing schedule for reminders")
			continue
		}

		for dueDate, amount := range schedule {
			if dueDate.After(horizon) || amount <= 0 {
				continue
			}
			if err := sender.SendRepaymentReminder(account.Email, account.Username, dueDate, amount); err != nil {
				s.logger.WithError(err).WithFields(logrus.Fields{
					"account":  account.ID,
					"due_date": dueDate,
				}).Error("sending repayment reminder")
			}
		}
	}
	return nil
}
