// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// NotificationService sends account lifecycle notifications to customers and
// couriers. Delivery is best effort; callers treat failures as non-fatal.
type NotificationService interface {
	SendEmail(email, subject, message string) error
	NotifyAccountSuspended(email, role, reason string, liftDate *time.Time) error
	NotifyAccountReinstated(email, role string) error
	NotifyApplicationDecision(email string, approved bool, reason string) error
}

// EmailProvider interface for email sending
type EmailProvider interface {
	SendEmail(email, subject, message string) error
}

// NotificationServiceImpl implements NotificationService
type NotificationServiceImpl struct {
	emailProvider EmailProvider
}

// NewNotificationService creates a new notification service
func NewNotificationService(emailProvider EmailProvider) NotificationService {
	return &NotificationServiceImpl{
		emailProvider: emailProvider,
	}
}

// SendEmail sends an email to the specified email address
func (s *NotificationServiceImpl) SendEmail(email, subject, message string) error {
	if s.emailProvider == nil {
		return fmt.Errorf("email provider not configured")
	}

	if len(email) == 0 || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %s", email)
	}

	return s.emailProvider.SendEmail(email, subject, message)
}

// NotifyAccountSuspended informs the account holder their account was suspended
func (s *NotificationServiceImpl) NotifyAccountSuspended(email, role, reason string, liftDate *time.Time) error {
	subject := "Your Peyk account has been suspended"
	body := fmt.Sprintf("Your %s account has been suspended. Reason: %s.", role, reason)
	if liftDate != nil {
		body += fmt.Sprintf(" The suspension is scheduled to be lifted on %s.", liftDate.UTC().Format("2006-01-02"))
	} else {
		body += " The suspension is permanent. Contact support if you believe this is a mistake."
	}
	return s.SendEmail(email, subject, body)
}

// NotifyAccountReinstated informs the account holder their account is back in service
func (s *NotificationServiceImpl) NotifyAccountReinstated(email, role string) error {
	subject := "Your Peyk account has been reinstated"
	body := fmt.Sprintf("Your %s account is active again. Welcome back.", role)
	return s.SendEmail(email, subject, body)
}

// NotifyApplicationDecision informs a courier their application was reviewed
func (s *NotificationServiceImpl) NotifyApplicationDecision(email string, approved bool, reason string) error {
	if approved {
		return s.SendEmail(email, "Your courier application was approved", "Congratulations, your courier application has been approved. You can start accepting deliveries.")
	}
	body := "Unfortunately your courier application was not approved."
	if reason != "" {
		body += fmt.Sprintf(" Reason: %s.", reason)
	}
	return s.SendEmail(email, "Your courier application was rejected", body)
}

type MockEmailProvider struct{}

func NewMockEmailProvider() EmailProvider {
	return &MockEmailProvider{}
}

func (p *MockEmailProvider) SendEmail(email, subject, message string) error {
	log.Printf("Email sent to %s [%s]: %s", email, subject, message)
	return nil
}

type SMTPEmailProvider struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
}

func NewSMTPEmailProvider(host string, port int, username, password, fromEmail string) EmailProvider {
	return &SMTPEmailProvider{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromEmail: fromEmail,
	}
}

func (p *SMTPEmailProvider) SendEmail(email, subject, message string) error {
	// Real deployments plug an SMTP client in here; staging logs instead.
	log.Printf("Sending email via SMTP to %s [%s]: %s", email, subject, message)
	return nil
}
