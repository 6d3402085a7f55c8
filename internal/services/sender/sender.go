// Package services отправляет почтовые уведомления о превышении
// бюджета из очереди notifications.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/darusc/expense-tracker/internal/lib/sl"
	smtptransport "github.com/darusc/expense-tracker/internal/lib/smtp"
	"github.com/darusc/expense-tracker/internal/models"
)

// SenderService читает сообщения о перерасходе и шлёт письма по SMTP.
type SenderService struct {
	transport smtptransport.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtptransport.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendBudgetAlert разбирает сообщение очереди и отправляет пользователю
// письмо о превышении бюджета категории.
func (s *SenderService) SendBudgetAlert(body []byte) error {
	var message models.AlertInfo
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.Email}
	subject := fmt.Sprintf("Budget alert: %s", message.Category)
	bodyText := fmt.Sprintf("Hello, %s!\n\nYour %s expenses for %02d.%d exceeded the configured budget by %.2f.\n\nPlease review your spending.",
		message.Username, message.Category, message.Month, message.Year, message.Overage)

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
