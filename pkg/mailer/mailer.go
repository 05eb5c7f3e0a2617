// Package mailer delivers transactional email. Delivery failures are
// reported to the caller; no retries are performed.
package mailer

import "log"

// Service sends a single plain-text email
type Service interface {
	Send(to, subject, body string) error
}

// ConsoleService writes outgoing mail to the log instead of sending
// it; used in development and tests
type ConsoleService struct {
	from string
}

// NewConsoleService creates a console mailer
func NewConsoleService(from string) *ConsoleService {
	return &ConsoleService{from: from}
}

// Send logs the message
func (s *ConsoleService) Send(to, subject, body string) error {
	log.Printf("mail from=%s to=%s subject=%q\n%s", s.from, to, subject, body)
	return nil
}
