package mail

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"
)

type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	log      *zap.Logger
}

func NewSMTPMailer(host, port, username, password string, log *zap.Logger) Mailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		log:      log,
	}
}

func (m *SMTPMailer) Send(message *Message) error {
	if err := message.Validate(); err != nil {
		return err
	}

	addr := m.host + ":" + m.port
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, message.from, []string{message.to}, message.Bytes()); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", message.Recipient(), err)
	}

	m.log.Info("email sent",
		zap.String("to", message.Recipient()),
		zap.String("subject", message.subject),
	)
	return nil
}
