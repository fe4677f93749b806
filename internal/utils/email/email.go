package email

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
	"github.com/watchara/installment-service/internal/config"
	"github.com/watchara/installment-service/internal/models"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendOverdueDigest mails the daily list of past-due installment terms to
// shop staff.
func (s *Sender) SendOverdueDigest(to string, terms []models.OverdueTerm) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Overdue Installments: %d term(s) past due", len(terms))

	var total int64
	body := "The following installment terms are past due:\n\n"
	for _, t := range terms {
		total += t.Amount
		body += fmt.Sprintf(
			"- %s (%s), %s: term %d of plan %s, %d THB, due %s\n",
			t.CustomerName, t.CustomerPhone, t.ProductName, t.Term, t.PlanID, t.Amount, t.DueDate,
		)
	}
	body += fmt.Sprintf("\nTotal overdue: %d THB\n", total)
	body += "\nBest regards,\nInstallment Service"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
