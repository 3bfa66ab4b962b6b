package mail

import (
	"go.uber.org/zap"
)

type Mailer interface {
	Send(message *Message) error
}

// LogMailer writes the message to the log instead of sending it. Used in
// development and tests.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) Mailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(message *Message) error {
	if err := message.Validate(); err != nil {
		return err
	}
	m.log.Info("email not sent (log driver)",
		zap.String("to", message.Recipient()),
		zap.String("subject", message.subject),
		zap.Int("attachments", len(message.attachments)),
	)
	return nil
}
