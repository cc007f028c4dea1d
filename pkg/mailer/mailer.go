package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
	"sync"

	"github.com/noah-isme/edu-admin-api/pkg/config"
)

// Sender delivers a single message to a recipient. Implementations may
// fail independently of any data mutation performed by the caller.
type Sender interface {
	Send(recipient, subject, body string) error
}

// SMTPSender sends mail through a plain SMTP relay.
type SMTPSender struct {
	cfg config.SMTPConfig
}

// NewSMTPSender constructs an SMTP-backed sender.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send composes and delivers the message.
func (s *SMTPSender) Send(recipient, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	msg := strings.Join([]string{
		"From: " + s.cfg.From,
		"To: " + recipient,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", recipient, err)
	}
	return nil
}

// Message captures a delivery recorded by the fake sender.
type Message struct {
	Recipient string
	Subject   string
	Body      string
}

// FakeSender records messages instead of delivering them. Intended for tests.
type FakeSender struct {
	mu       sync.Mutex
	messages []Message
	Err      error
}

// NewFakeSender constructs an in-memory sender.
func NewFakeSender() *FakeSender {
	return &FakeSender{}
}

// Send records the message, or fails when Err is set.
func (f *FakeSender) Send(recipient, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.messages = append(f.messages, Message{Recipient: recipient, Subject: subject, Body: body})
	return nil
}

// Messages returns a copy of the recorded deliveries.
func (f *FakeSender) Messages() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Message, len(f.messages))
	copy(out, f.messages)
	return out
}
