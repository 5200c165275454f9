// Package mailer delivers rendered visitor passes over SMTP. A single
// synchronous attempt is made per send; every transport failure collapses
// into one wrapped error, and nothing is retried.
package mailer

import (
	"fmt"
	"io"
	"log"

	gomail "gopkg.in/gomail.v2"

	"github.com/gatepass/visitor-management/internal/config"
	"github.com/gatepass/visitor-management/internal/pass"
)

// Mailer sends visitor pass emails.
type Mailer struct {
	cfg config.SMTPConfig
}

// New creates a mailer with the given SMTP config.
func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// SendPass emails the rendered pass PDF to the given address, blocking
// until the transport accepts or rejects it. In dev mode (SMTP not
// configured) the send is logged and reported as success.
func (m *Mailer) SendPass(to string, pdf []byte, visitorNumber int) error {
	if !m.cfg.IsConfigured() {
		log.Printf("[DEV] would email pass %s (%d bytes) to %s", pass.Filename(visitorNumber), len(pdf), to)
		return nil
	}

	msg := m.buildMessage(to, pdf, visitorNumber)
	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Pass)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending pass email: %w", err)
	}
	return nil
}

func (m *Mailer) buildMessage(to string, pdf []byte, visitorNumber int) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Your Visitor Pass - Visitor Number %d", visitorNumber))
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hello,\n\nPlease find attached the pass for your completed visit (visitor number %d).\n\nVisitor Management System",
		visitorNumber))
	msg.Attach(pass.Filename(visitorNumber), gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(pdf)
		return err
	}))
	return msg
}
