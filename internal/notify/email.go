package notify

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/perchfin/lending-engine/internal/config"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    config.SMTPConfig
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg config.SMTPConfig, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendRepaymentReminder sends an upcoming-installment reminder email
func (s *Sender) SendRepaymentReminder(to, username string, dueDate time.Time, amount float64) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Upcoming Repayment Reminder"

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"This is a reminder that a repayment of %.2f is due on %s.\n"+
			"Please ensure sufficient funds are available in your account.\n"+
			"\nBest regards,\nLending Team",
		username, amount, dueDate.Format("2006-01-02"),
	)
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
