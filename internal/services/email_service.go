package services

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendAssignmentEmail(email, taskTitle, teknisiName string) error
	SendCompletionEmail(email, taskTitle, notes string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendAssignmentEmail(email, taskTitle, teknisiName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Task assigned: "+taskTitle)

	body := fmt.Sprintf(`
		<h3>Task assigned</h3>
		<p>Task <strong>%s</strong> has been assigned to technician <strong>%s</strong>.</p>
		<p>You are recorded as the supervising contact for this assignment.</p>
	`, html.EscapeString(taskTitle), html.EscapeString(teknisiName))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send assignment email: %w", err)
	}
	return nil
}

func (s *emailService) SendCompletionEmail(email, taskTitle, notes string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Task completed: "+taskTitle)

	body := fmt.Sprintf(`
		<h3>Task completed</h3>
		<p>Task <strong>%s</strong> has been marked completed.</p>
		<p>Notes:</p><pre>%s</pre>
	`, html.EscapeString(taskTitle), html.EscapeString(notes))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send completion email: %w", err)
	}
	return nil
}
