package emailsvc

import (
	"fmt"
	"strings"

	"github.com/maktab-app/maktab/core"
)

// consoleService writes messages to stdout; used in DEV and TEST modes.
type consoleService struct {
	conf *core.Config
}

var _ core.EmailService = (*consoleService)(nil)

func NewConsoleService(conf *core.Config) *consoleService {
	return &consoleService{conf: conf}
}

func (svc *consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		if !msg.HasRecipients() || !msg.HasContent() {
			continue
		}
		tos := make([]string, 0, len(msg.To))
		for _, to := range msg.To {
			tos = append(tos, to.Address)
		}
		fmt.Printf(
			"From: %s\nTo: %s\nSubject: [%s] %s\n\n%s\n",
			svc.conf.FromEmail().Address, strings.Join(tos, ", "), svc.conf.AppName, msg.Subject, msg.TextContent,
		)
	}
}
