package reconcile

import (
	"JapaneseShikhi/pkg/logger"

	"github.com/robfig/cron/v3"
)

// cronLogger sends the scheduler's own messages to the service log. Cron
// logs every wake-up at info level, so those go out as debug.
type cronLogger struct {
	log logger.Log
}

var _ cron.Logger = cronLogger{}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.ErrorErr("cron: "+msg, err, keysAndValues...)
}
