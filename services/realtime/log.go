package realtimesvc

import (
	"fmt"
	"strings"

	"github.com/maktab-app/maktab/core"
)

// logNotifier is a delivery sink that only records what would be broadcast.
// It stands in for the websocket fan-out during DEV/TEST and keeps the
// fire-and-forget contract: nothing it does can fail a mutation.
type logNotifier struct {
	logger core.Logger
}

var _ core.Notifier = (*logNotifier)(nil)

func NewLogNotifier(logger core.Logger) *logNotifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Broadcast(notif core.Notification, aud core.Audience) {
	var target string
	switch {
	case aud.All:
		target = "all"
	case aud.Room != "":
		target = "room " + aud.Room
	case len(aud.UserIDs) > 0:
		target = "users " + strings.Join(aud.UserIDs, ",")
	default:
		return // nobody to deliver to
	}
	n.logger.Info(fmt.Sprintf("notify %s: %s %q", target, notif.Type, notif.Title))
}
