// Package email sends transactional portal mail. When no SMTP host is
// configured the notifier is a no-op, so mail never blocks a user action.
package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/patient-portal/internal/config"
	"github.com/jwalitptl/patient-portal/internal/model"
)

type Service interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendAppointmentConfirmation(ctx context.Context, to string, apt *model.Appointment) error
}

// NewService returns an SMTP-backed notifier, or a no-op one when the
// config has no host.
func NewService(cfg config.SMTPConfig) Service {
	if cfg.Host == "" {
		return &noopService{}
	}
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

type noopService struct{}

func (n *noopService) SendWelcome(ctx context.Context, to, name string) error { return nil }

func (n *noopService) SendAppointmentConfirmation(ctx context.Context, to string, apt *model.Appointment) error {
	return nil
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func (s *smtpService) SendWelcome(ctx context.Context, to, name string) error {
	body := fmt.Sprintf("Hi %s,\n\nYour patient portal account is ready. You can now book appointments and manage prescriptions.\n", name)
	return s.send(to, "Welcome to the patient portal", body)
}

func (s *smtpService) SendAppointmentConfirmation(ctx context.Context, to string, apt *model.Appointment) error {
	body := fmt.Sprintf(
		"Your appointment with %s (%s) is booked for %s at %s.\nReason: %s\n",
		apt.DoctorName, apt.Specialty, apt.Date, apt.Time, apt.Reason,
	)
	return s.send(to, "Appointment confirmation", body)
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
