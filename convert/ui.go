package convert

import (
	"go.uber.org/zap"
)

// LogUI is UI which reports notifications to the log and keeps them for
// later inspection.
type LogUI struct {
	log           *zap.Logger
	Notifications []Notification
	closed        bool
}

func NewLogUI(log *zap.Logger) *LogUI {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogUI{log: log}
}

func (u *LogUI) PostMessage(n Notification) {
	u.Notifications = append(u.Notifications, n)
	if n.Type == NotificationError {
		u.log.Error(n.Message)
		return
	}
	u.log.Info(n.Message)
}

func (u *LogUI) Close() {
	u.closed = true
}

// Closed reports whether Close was called.
func (u *LogUI) Closed() bool {
	return u.closed
}

// Failed reports whether any error notification was posted.
func (u *LogUI) Failed() bool {
	for _, n := range u.Notifications {
		if n.Type == NotificationError {
			return true
		}
	}
	return false
}
