package core

import "net/mail"

type EmailMessage struct {
	To          []mail.Address
	Cc          []mail.Address
	Bcc         []mail.Address
	Subject     string
	TextContent string
	HTMLContent string
}

func (m *EmailMessage) HasRecipients() bool {
	return len(m.To) > 0 || len(m.Cc) > 0 || len(m.Bcc) > 0
}

func (m *EmailMessage) HasContent() bool {
	return m.TextContent != "" || m.HTMLContent != ""
}

// EmailService sends messages asynchronously; send failures are logged,
// never surfaced to the triggering operation.
type EmailService interface {
	SendMessages(messages ...*EmailMessage)
}
